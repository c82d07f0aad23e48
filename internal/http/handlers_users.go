package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// UserService is the account administration surface the handlers need.
type UserService interface {
	Create(ctx context.Context, caller domainauth.Principal, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.User, error)
	List(ctx context.Context, caller domainauth.Principal, opts model.UserListOptions) ([]*model.User, error)
	Update(ctx context.Context, caller domainauth.Principal, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error)
	Profile(ctx context.Context, caller domainauth.Principal) (*model.User, error)
}

// UserHandlers provides HTTP handlers for user accounts.
type UserHandlers struct {
	Svc    UserService
	Errors ErrorRenderer
}

// Create handles POST /api/users.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	u, err := h.Svc.Create(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, u)
}

// Get handles GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.GetByID(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

// List handles GET /api/users?role=&active=.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	var opts model.UserListOptions
	if raw := parseStringQuery(r, "role"); raw != nil {
		role, ok := domainauth.ParseRole(*raw)
		if !ok {
			h.Errors.Render(w, r, apperrors.ValidationField("role", (&domainauth.InvalidRoleError{Value: *raw}).Error()))
			return
		}
		opts.Role = &role
	}
	active, err := parseBoolQuery(r, "active")
	if err != nil {
		h.Errors.Render(w, r, apperrors.ValidationField("active", err.Error()))
		return
	}
	opts.Active = active

	users, err := h.Svc.List(r.Context(), PrincipalFromContext(r.Context()), opts)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	u, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	writeDeleted(w, r, h.Errors, deleted, err, "user not found")
}

// Profile handles GET /api/profile for any authenticated caller.
func (h *UserHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Profile(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}
