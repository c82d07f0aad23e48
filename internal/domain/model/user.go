package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
)

// User is an account with a single application role.
type User struct {
	ID        string          `json:"id"         db:"id"`
	Username  string          `json:"username"   db:"username"`
	Email     string          `json:"email"      db:"email"`
	FirstName string          `json:"first_name" db:"first_name"`
	LastName  string          `json:"last_name"  db:"last_name"`
	Role      domainauth.Role `json:"role"       db:"role"`
	Phone     string          `json:"phone"      db:"phone"`
	IsActive  bool            `json:"is_active"  db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTechnician reports whether the user is an active technician and therefore a valid job assignee.
func (u *User) IsTechnician() bool {
	return u != nil && u.IsActive && u.Role == domainauth.RoleTechnician
}

// CreateUserRequest represents parameters to create a User.
type CreateUserRequest struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name,omitempty"`
	LastName  string          `json:"last_name,omitempty"`
	Role      domainauth.Role `json:"role"`
	Phone     string          `json:"phone,omitempty"`
}

// Validate validates CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return errors.New("username is required and cannot be empty")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if !r.Role.Valid() {
		return errors.New("role must be one of ADMIN, TECHNICIAN, SALES_AGENT")
	}
	return nil
}

// UpdateUserRequest represents a partial update to a User.
type UpdateUserRequest struct {
	Email     *string          `json:"email,omitempty"`
	FirstName *string          `json:"first_name,omitempty"`
	LastName  *string          `json:"last_name,omitempty"`
	Role      *domainauth.Role `json:"role,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

// Validate validates UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	if r.Email == nil && r.FirstName == nil && r.LastName == nil && r.Role == nil && r.Phone == nil &&
		r.IsActive == nil {
		return errors.New("at least one field must be updated")
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Role != nil && !r.Role.Valid() {
		return errors.New("role must be one of ADMIN, TECHNICIAN, SALES_AGENT")
	}
	return nil
}

// UserListOptions filters user listings.
type UserListOptions struct {
	Role   *domainauth.Role
	Active *bool
}

func validateEmail(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(v); err != nil {
		return errors.New("email is not a valid address")
	}
	return nil
}
