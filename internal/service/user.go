package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo     core.UserRepository // Required: user repository
	Sessions ports.SessionStore  // Optional: revoked when an account is disabled or deleted
	Logger   *slog.Logger        // Optional: structured logger
}

// UserService provides admin user management and the caller's own profile.
type UserService struct {
	repo     core.UserRepository
	sessions ports.SessionStore
	logger   *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Repo == nil {
		panic("UserRepository is required")
	}
	return &UserService{
		repo:     opts.Repo,
		sessions: opts.Sessions,
		logger:   componentLogger(opts.Logger, "user_service"),
	}
}

func (s *UserService) Create(
	ctx context.Context,
	caller domainauth.Principal,
	req *model.CreateUserRequest,
) (*model.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	u, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.InfoContext(ctx, "user created", "user_id", u.ID, "role", u.Role, "actor_id", caller.UserID)
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserService) List(
	ctx context.Context,
	caller domainauth.Principal,
	opts model.UserListOptions,
) ([]*model.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies a partial update. Deactivating an account or changing its role
// signs it out everywhere so the next request re-resolves the account.
func (s *UserService) Update(
	ctx context.Context,
	caller domainauth.Principal,
	id string,
	req model.UpdateUserRequest,
) (*model.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	u, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if (req.IsActive != nil && !*req.IsActive) || req.Role != nil {
		s.revoke(ctx, id)
	}
	return u, nil
}

// Delete removes an account and revokes its sessions. Users that created jobs
// cannot be deleted; deactivate them instead.
func (s *UserService) Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error) {
	if err := requireAdmin(caller); err != nil {
		return false, err
	}
	if id == caller.UserID {
		return false, apperrors.PreconditionFailed("You cannot delete your own account")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if deleted {
		s.revoke(ctx, id)
	}
	return deleted, nil
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, caller domainauth.Principal) (*model.User, error) {
	if caller.UserID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	u, err := s.repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return u, nil
}

func (s *UserService) revoke(ctx context.Context, userID string) {
	if s.sessions == nil {
		return
	}
	n, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "revoke user sessions failed", "user_id", userID, "error", err)
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "user sessions revoked", "user_id", userID, "count", n)
	}
}
