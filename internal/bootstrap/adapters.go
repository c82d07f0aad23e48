package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/target/jobops-api/config"
	"github.com/target/jobops-api/internal/adapters/amqp"
	"github.com/target/jobops-api/internal/adapters/sweeprunner"
	"github.com/target/jobops-api/internal/adapters/tokens"
	"github.com/target/jobops-api/internal/core"
	"github.com/target/jobops-api/internal/ports"
)

// SweepRunnerConfig contains configuration for the scheduled overdue sweep.
type SweepRunnerConfig struct {
	Sweeper sweeprunner.Sweeper
	Locks   core.LockRepository
	Config  config.SweepConfig
	Logger  *slog.Logger
}

// RunSweepRunner starts the cron-driven sweep and blocks until ctx is cancelled.
func RunSweepRunner(ctx context.Context, cfg SweepRunnerConfig) error {
	runner, err := sweeprunner.NewRunner(sweeprunner.Options{
		Sweeper:    cfg.Sweeper,
		Schedule:   cfg.Config.Schedule,
		Location:   cfg.Config.Location(),
		RunOnStart: cfg.Config.RunOnStart,
		Locks:      cfg.Locks,
		LockTTL:    cfg.Config.LockTTL,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return fmt.Errorf("create sweep runner: %w", err)
	}

	return runner.Run(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildEventPublisher dials RabbitMQ when a broker URL is configured. A broker
// that cannot be reached downgrades to the no-op publisher; lifecycle changes
// never depend on event delivery.
//
//nolint:ireturn // callers only need the port and a closer.
func buildEventPublisher(cfg config.EventsConfig, logger *slog.Logger) (ports.EventPublisher, io.Closer) {
	if !cfg.Enabled() {
		logger.Info("event publishing disabled: no broker configured")
		return amqp.Noop{}, nopCloser{}
	}

	pub, err := amqp.Dial(cfg.URL, amqp.Options{
		Exchange: cfg.Exchange,
		AppID:    cfg.AppID,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to connect event publisher; events disabled", "error", err)
		return amqp.Noop{}, nopCloser{}
	}

	logger.Info("event publisher connected", "exchange", cfg.Exchange)
	return pub, pub
}

// buildTokens returns the bearer token codec, or nil when tokens are disabled
// or the secret is unusable.
func buildTokens(cfg config.TokenConfig, logger *slog.Logger) *tokens.JWT {
	if !cfg.Enabled() {
		return nil
	}
	codec, err := tokens.New(tokens.Config{Secret: cfg.Secret, Issuer: cfg.Issuer})
	if err != nil {
		logger.Error("bearer tokens disabled", "error", err)
		return nil
	}
	return codec
}
