package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Users    core.UserRepository
	Logger   *slog.Logger
	Clock    Clock
}

// AuthService orchestrates login: the IdP identity is resolved to a users row,
// whose id and role are what the session carries.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	users    core.UserRepository
	logger   *slog.Logger
	clock    Clock
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		users:    opts.Users,
		logger:   componentLogger(opts.Logger, "auth_service"),
		clock:    opts.Clock,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	User    *model.User
}

// CompleteLogin exchanges the code for an identity, resolves it to a users row
// and persists a session.
//
// A first login creates the account with the role mapped from the IdP groups and
// fails with forbidden when no group grants a role. Later logins refresh the
// profile but keep the stored role, so admins can re-role users in the app.
// Deactivated accounts are refused.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	switch {
	case input.Code == "":
		return nil, errors.New("authorization code is required")
	case input.State == "":
		return nil, errors.New("state parameter is required")
	case input.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: identity.ExpiresAt,
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "login completed", "user_id", user.ID, "role", user.Role)
	return &CompleteLoginResult{Session: session, User: user}, nil
}

func (s *AuthService) resolveUser(ctx context.Context, id domainauth.Identity) (*model.User, error) {
	existing, err := s.users.GetByUsername(ctx, id.UserID)
	switch {
	case err == nil:
		if !existing.IsActive {
			return nil, apperrors.Forbidden("This account has been deactivated")
		}
	case apperrors.IsNotFound(err):
		existing = nil
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	req := &model.CreateUserRequest{
		Username:  id.UserID,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
	}
	if existing != nil {
		req.Role = existing.Role
	} else {
		role, ok := s.roles.Map(id.Groups)
		if !ok {
			s.logger.WarnContext(ctx, "login refused: no role mapped", "username", id.UserID)
			return nil, apperrors.Forbidden("Your account is not authorized for this application")
		}
		req.Role = role
	}

	user, err := s.users.UpsertByUsername(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

// GetSession retrieves a session by ID. Expired sessions are removed and reported as expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !s.clock.now().Before(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}
	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.NewString()
}
