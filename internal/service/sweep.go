package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/lifecycle"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/observability/metrics"
	"github.com/target/jobops-api/internal/ports"
)

// Sweep triggers recorded on metrics and events.
const (
	SweepTriggerSchedule = "schedule"
	SweepTriggerManual   = "manual"
)

// SweepServiceOptions groups dependencies for SweepService.
type SweepServiceOptions struct {
	Repo    core.SweepRepository // Required: bulk overdue updates
	Events  ports.EventPublisher // Optional: sweep.completed events
	Metrics metrics.Sink         // Optional: sweep metrics
	Logger  *slog.Logger         // Optional: structured logger
	Clock   Clock                // Optional: the sweep's notion of now
}

// SweepService recomputes the persisted overdue flag of every job.
// It has no schedule of its own; the sweep runner and the admin endpoints call Run.
type SweepService struct {
	repo    core.SweepRepository
	events  eventPublisher
	metrics metrics.Sink
	logger  *slog.Logger
	clock   Clock
}

// NewSweepService constructs a new SweepService.
func NewSweepService(opts SweepServiceOptions) *SweepService {
	if opts.Repo == nil {
		panic("SweepRepository is required")
	}
	logger := componentLogger(opts.Logger, "sweep_service")
	sink := opts.Metrics
	if sink == nil {
		sink = metrics.NoopSink{}
	}
	return &SweepService{
		repo:    opts.Repo,
		events:  eventPublisher{pub: opts.Events, logger: logger, clock: opts.Clock},
		metrics: sink,
		logger:  logger,
		clock:   opts.Clock,
	}
}

// Run marks every open job scheduled before now and clears the flag on every
// other flagged job. The two passes touch disjoint rows, so their order does not
// change the result. Store errors propagate; a run never fails for business reasons.
func (s *SweepService) Run(ctx context.Context, trigger string) (model.SweepResult, error) {
	now := s.clock.now()
	res := model.SweepResult{Timestamp: now}

	marked, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return res, s.fail(ctx, trigger, fmt.Errorf("mark overdue: %w", err))
	}
	res.MarkedOverdue = marked

	cleared, err := s.repo.ClearOverdue(ctx, now)
	if err != nil {
		return res, s.fail(ctx, trigger, fmt.Errorf("clear overdue: %w", err))
	}
	res.ClearedOverdue = cleared

	metrics.EmitSweep(s.metrics, metrics.SweepMetric{
		Trigger:  trigger,
		Marked:   marked,
		Cleared:  cleared,
		Duration: s.clock.now().Sub(now),
	})
	s.logger.InfoContext(ctx, "overdue sweep completed",
		"trigger", trigger,
		"marked_overdue", marked,
		"cleared_overdue", cleared,
	)
	s.events.publish(ctx, model.EventSweepCompleted, "", res)
	return res, nil
}

// RunAs runs a manual sweep on behalf of caller.
func (s *SweepService) RunAs(ctx context.Context, caller domainauth.Principal) (model.SweepResult, error) {
	if !domainauth.CanRunSweep(caller.Role) {
		return model.SweepResult{}, apperrors.Forbidden("Only admins can run the overdue sweep")
	}
	return s.Run(ctx, SweepTriggerManual)
}

// Preview reports what Run would change right now without writing anything.
func (s *SweepService) Preview(ctx context.Context) (model.SweepResult, error) {
	now := s.clock.now()
	snaps, err := s.repo.Snapshots(ctx)
	if err != nil {
		return model.SweepResult{}, fmt.Errorf("load sweep snapshots: %w", err)
	}
	_, counts := lifecycle.Sweep(now, snaps)
	return model.SweepResult{
		MarkedOverdue:  int64(counts.Marked),
		ClearedOverdue: int64(counts.Cleared),
		Timestamp:      now,
	}, nil
}

func (s *SweepService) fail(ctx context.Context, trigger string, err error) error {
	metrics.EmitSweep(s.metrics, metrics.SweepMetric{Trigger: trigger, Err: err})
	s.logger.ErrorContext(ctx, "overdue sweep failed", "trigger", trigger, "error", err)
	return err
}
