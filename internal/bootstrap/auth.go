package bootstrap

import (
	"log/slog"

	"github.com/target/jobops-api/config"
	"github.com/target/jobops-api/internal/adapters/authroles"
	"github.com/target/jobops-api/internal/adapters/devauth"
	"github.com/target/jobops-api/internal/adapters/oidc"
	"github.com/target/jobops-api/internal/core"
	"github.com/target/jobops-api/internal/ports"
	"github.com/target/jobops-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth     config.AuthConfig
	Sessions ports.SessionStore
	Users    core.UserRepository
	Logger   *slog.Logger
}

// AuthComponents is the login service plus what the logout endpoint reports.
type AuthComponents struct {
	Service   *service.AuthService
	LogoutURL string
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns a zero AuthComponents if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) AuthComponents {
	if cfg.Sessions == nil || cfg.Users == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: session store or user repository not configured",
				"mode", cfg.Auth.Mode)
		}
		return AuthComponents{}
	}

	roleMapper := authroles.StaticRoleMapper{
		AdminGroup:      cfg.Auth.AdminGroup,
		SalesAgentGroup: cfg.Auth.SalesAgentGroup,
		TechnicianGroup: cfg.Auth.TechnicianGroup,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, roleMapper)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, roleMapper)

	default:
		return AuthComponents{}
	}
}

func buildDevAuthService(cfg AuthConfig, roleMapper authroles.StaticRoleMapper) AuthComponents {
	dev := cfg.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		Username:        dev.Username,
		FirstName:       dev.FirstName,
		LastName:        dev.LastName,
		Email:           dev.Email,
		Groups:          dev.Groups,
		SessionDuration: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return AuthComponents{}
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("mock authentication enabled; every login resolves to the dev identity",
			"username", dev.Username)
	}

	return AuthComponents{Service: newAuthService(cfg, prov, roleMapper)}
}

func buildOAuthService(cfg AuthConfig, roleMapper authroles.StaticRoleMapper) AuthComponents {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return AuthComponents{}
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return AuthComponents{}
	}

	return AuthComponents{
		Service:   newAuthService(cfg, prov, roleMapper),
		LogoutURL: prov.LogoutURL(),
	}
}

func newAuthService(cfg AuthConfig, prov ports.AuthProvider, roles ports.RoleMapper) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: cfg.Sessions,
		Roles:    roles,
		Users:    cfg.Users,
		Logger:   cfg.Logger,
	})
}
