package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobops-api/config"
	httpx "github.com/target/jobops-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// routerServices maps the container onto the router's ports. Optional
// components are only set when present so the router sees a nil interface.
func routerServices(cfg *HTTPServerConfig, logger *slog.Logger) httpx.RouterServices {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	svcs := cfg.Services

	rs := httpx.RouterServices{
		Jobs:           svcs.Jobs,
		Tasks:          svcs.Tasks,
		Requirements:   svcs.Requirements,
		Equipment:      svcs.Equipment,
		Users:          svcs.Users,
		Lifecycle:      svcs.Lifecycle,
		Dashboard:      svcs.Dashboard,
		Sweep:          svcs.Sweep,
		Analytics:      svcs.Analytics,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		LogoutURL:      svcs.Auth.LogoutURL,
		Metrics:        svcs.Observability.Metrics,
		RequestTimeout: appCfg.HTTP.RequestTimeout,
		Ready:          readinessChecks(cfg.DB, cfg.RedisClient),
		Logger:         logger,
	}
	if svcs.Auth.Service != nil {
		rs.Auth = svcs.Auth.Service
	}
	if svcs.Tokens != nil {
		rs.Tokens = svcs.Tokens
	}
	if svcs.Observability.Prometheus != nil {
		rs.MetricsHandler = svcs.Observability.Prometheus.Handler()
	}
	return rs
}

func readinessChecks(db *sql.DB, rdb redis.UniversalClient) map[string]httpx.Pinger {
	checks := make(map[string]httpx.Pinger, 2)
	if db != nil {
		checks["postgres"] = db
	}
	if rdb != nil {
		checks["redis"] = httpx.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return checks
}

// NewHTTPServer builds the API server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	addr := ""
	if cfg.Config != nil {
		addr = cfg.Config.HTTP.Addr
	}
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           httpx.NewRouter(routerServices(cfg, logger)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP runs server until ctx is cancelled, then shuts it down within
// shutdownTimeout.
func ServeHTTP(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	if server == nil {
		return errors.New("http server is required")
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
