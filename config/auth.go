package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"jobops"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"jobops"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Username  string   `env:"USERNAME"   envDefault:"dev-admin"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string   `env:"LAST_NAME"  envDefault:"Admin"`
	Email     string   `env:"EMAIL"      envDefault:"dev@example.com"`
	Groups    []string `env:"GROUPS"     envDefault:"jobops-admins" envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Identity provider groups mapped onto roles the first time a user logs in.
	AdminGroup      string `env:"ADMIN_GROUP,required"`
	SalesAgentGroup string `env:"SALES_AGENT_GROUP"`
	TechnicianGroup string `env:"TECHNICIAN_GROUP"`

	// SessionTTL is the lifetime of login sessions.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Sanitize trims group names and restores the session lifetime default.
func (a *AuthConfig) Sanitize() {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.SalesAgentGroup = strings.TrimSpace(a.SalesAgentGroup)
	a.TechnicianGroup = strings.TrimSpace(a.TechnicianGroup)
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
}

// TokenConfig controls signed API bearer tokens. Bearer authentication is
// disabled when Secret is empty.
type TokenConfig struct {
	Secret string        `env:"SECRET"`
	Issuer string        `env:"ISSUER" envDefault:"jobops-api"`
	TTL    time.Duration `env:"TTL"    envDefault:"24h"`
}

// Sanitize trims the secret and restores defaults.
func (t *TokenConfig) Sanitize() {
	t.Secret = strings.TrimSpace(t.Secret)
	if t.Issuer = strings.TrimSpace(t.Issuer); t.Issuer == "" {
		t.Issuer = "jobops-api"
	}
	if t.TTL <= 0 {
		t.TTL = 24 * time.Hour
	}
}

// Enabled reports whether bearer tokens can be issued and verified.
func (t *TokenConfig) Enabled() bool { return t.Secret != "" }
