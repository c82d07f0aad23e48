package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/jobops-api/config"
	redisadapter "github.com/target/jobops-api/internal/adapters/redis"
	"github.com/target/jobops-api/internal/adapters/tokens"
	"github.com/target/jobops-api/internal/core"
	"github.com/target/jobops-api/internal/data"
	"github.com/target/jobops-api/internal/observability/metrics"
	"github.com/target/jobops-api/internal/ports"
	"github.com/target/jobops-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs         *service.JobService
	Tasks        *service.TaskService
	Requirements *service.RequirementService
	Equipment    *service.EquipmentService
	Users        *service.UserService
	Lifecycle    *service.LifecycleService
	Dashboard    *service.DashboardService
	Sweep        *service.SweepService
	Analytics    *service.AnalyticsService
	Auth         AuthComponents
	Tokens       *tokens.JWT
	Locks        core.LockRepository

	Observability ObservabilityContainer

	closers []io.Closer
}

// Close releases connections held by the container's adapters.
func (c ServiceContainer) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Metrics       metrics.Sink
	Prometheus    *metrics.PrometheusSink // nil when metrics are disabled
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Jobs         *data.JobRepo
	Tasks        *data.TaskRepo
	Equipment    *data.EquipmentRepo
	Requirements *data.RequirementRepo
	Users        *data.UserRepo
	Lifecycle    *data.LifecycleRepo
	Sweep        *data.SweepRepo
	Dashboard    *data.DashboardRepo
	Analytics    *data.AnalyticsRepo
	Locks        core.LockRepository
	Sessions     ports.SessionStore
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	out := ObservabilityContainer{Metrics: metrics.NoopSink{}, MetricsConfig: cfg.Metrics}
	if !cfg.Metrics.IsEnabled() {
		return out
	}
	prom := metrics.NewPrometheusSink(metrics.PrometheusConfig{
		Namespace: cfg.Metrics.Namespace,
		Logger:    logger,
	})
	out.Metrics = prom
	out.Prometheus = prom
	return out
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, rdb redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		Jobs:         data.NewJobRepo(db),
		Tasks:        data.NewTaskRepo(db),
		Equipment:    data.NewEquipmentRepo(db),
		Requirements: data.NewRequirementRepo(db),
		Users:        data.NewUserRepo(db),
		Lifecycle:    data.NewLifecycleRepo(db),
		Sweep:        data.NewSweepRepo(db),
		Dashboard:    data.NewDashboardRepo(db),
		Analytics:    data.NewAnalyticsRepo(db),
	}
	if rdb != nil {
		repos.Locks = data.NewRedisLockRepo(rdb)
		repos.Sessions = redisadapter.NewSessionStore(rdb)
	}
	return repos
}

// DomainServicesOptions groups what buildDomainServices wires together.
type DomainServicesOptions struct {
	Repos         *serviceRepositories
	Events        ports.EventPublisher
	Observability ObservabilityContainer
	Logger        *slog.Logger
}

func buildDomainServices(opts *DomainServicesOptions) ServiceContainer {
	repos := opts.Repos
	sink := opts.Observability.Metrics

	lifecycle := service.NewLifecycleService(service.LifecycleServiceOptions{
		Repo:    repos.Lifecycle,
		Events:  opts.Events,
		Metrics: sink,
		Logger:  opts.Logger,
	})

	return ServiceContainer{
		Jobs: service.NewJobService(service.JobServiceOptions{
			Repo:      repos.Jobs,
			Users:     repos.Users,
			Lifecycle: lifecycle,
			Logger:    opts.Logger,
		}),
		Tasks: service.NewTaskService(service.TaskServiceOptions{
			Repo:   repos.Tasks,
			Logger: opts.Logger,
		}),
		Requirements: service.NewRequirementService(repos.Requirements),
		Equipment:    service.NewEquipmentService(repos.Equipment),
		Users: service.NewUserService(service.UserServiceOptions{
			Repo:     repos.Users,
			Sessions: repos.Sessions,
			Logger:   opts.Logger,
		}),
		Lifecycle: lifecycle,
		Dashboard: service.NewDashboardService(repos.Dashboard, nil),
		Sweep: service.NewSweepService(service.SweepServiceOptions{
			Repo:    repos.Sweep,
			Events:  opts.Events,
			Metrics: sink,
			Logger:  opts.Logger,
		}),
		Analytics:     service.NewAnalyticsService(repos.Analytics, nil),
		Locks:         repos.Locks,
		Observability: opts.Observability,
	}
}

// NewServices initializes every application service.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)
	events, eventsCloser := buildEventPublisher(cfg.Events, logger)

	container := buildDomainServices(&DomainServicesOptions{
		Repos:         repos,
		Events:        events,
		Observability: buildObservability(logger, cfg.Observability),
		Logger:        logger,
	})
	container.closers = append(container.closers, eventsCloser)

	container.Auth = BuildAuthService(AuthConfig{
		Auth:     cfg.Auth,
		Sessions: repos.Sessions,
		Users:    repos.Users,
		Logger:   logger,
	})
	container.Tokens = buildTokens(cfg.Tokens, logger)

	return container
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// backgroundService describes a startable long-running component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

func newHTTPBackgroundService(cfg *ServiceOrchestrationConfig, logger *slog.Logger) backgroundService {
	return backgroundService{
		mode: config.ServiceModeHTTP,
		name: "http server",
		start: func(ctx context.Context) error {
			server := NewHTTPServer(&HTTPServerConfig{
				Config:      cfg.Config,
				Services:    cfg.Services,
				DB:          cfg.DB,
				RedisClient: cfg.RedisClient,
				Logger:      logger,
			})
			return ServeHTTP(ctx, server, cfg.Config.HTTP.ShutdownTimeout, logger)
		},
	}
}

func newSweepBackgroundService(cfg *ServiceOrchestrationConfig, logger *slog.Logger) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSweep,
		name: "sweep runner",
		start: func(ctx context.Context) error {
			return RunSweepRunner(ctx, SweepRunnerConfig{
				Sweeper: cfg.Services.Sweep,
				Locks:   cfg.Services.Locks,
				Config:  cfg.Config.Sweep,
				Logger:  logger,
			})
		},
	}
}

// enabledBackgroundServices returns the services selected by the enabled modes.
func enabledBackgroundServices(
	cfg *ServiceOrchestrationConfig,
	enabled map[config.ServiceMode]bool,
	logger *slog.Logger,
) []backgroundService {
	all := []backgroundService{
		newHTTPBackgroundService(cfg, logger),
		newSweepBackgroundService(cfg, logger),
	}
	out := make([]backgroundService, 0, len(all))
	for _, svc := range all {
		if enabled[svc.mode] {
			out = append(out, svc)
		}
	}
	return out
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails;
// the first failure cancels every other service.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, svc := range enabledBackgroundServices(cfg, enabledServices, logger) {
		g.Go(func() error {
			logger.InfoContext(gctx, "background service started", "service", svc.name, "mode", svc.mode)
			if runErr := svc.start(gctx); runErr != nil {
				return fmt.Errorf("%s failed: %w", svc.name, runErr)
			}
			logger.Info(svc.name + " stopped")
			return nil
		})
	}

	waitErr := g.Wait()
	if waitErr != nil {
		logger.Error("service error", "error", waitErr)
	} else {
		logger.Info("all services stopped")
	}
	if closeErr := cfg.Services.Close(); closeErr != nil {
		logger.Error("close service adapters failed", "error", closeErr)
	}
	return waitErr
}
