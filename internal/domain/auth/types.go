package auth

// Package auth contains domain-level types for authentication, sessions and
// role capabilities. It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of application roles.
// The string form is persisted in the users table and in sessions.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleSalesAgent Role = "SALES_AGENT"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleSalesAgent:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is supported.
func ParseRole(v string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(v)))
	if r.Valid() {
		return r, true
	}
	return "", false
}

// UnmarshalText implements encoding.TextUnmarshaler with validation.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, ok := ParseRole(string(text))
	if !ok {
		return &InvalidRoleError{Value: string(text)}
	}
	*r = parsed
	return nil
}

// InvalidRoleError reports an unknown role value.
type InvalidRoleError struct {
	Value string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid role %q: must be one of ADMIN, TECHNICIAN, SALES_AGENT", e.Value)
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID string
	Role   Role
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable login name (e.g., samAccountName or sub)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// UserID is the users.id of the account the identity resolved to.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Principal returns the caller identity carried by the session.
func (s Session) Principal() Principal {
	return Principal{UserID: s.UserID, Role: s.Role}
}
