// Package sweeprunner drives the overdue sweep from a cron schedule.
package sweeprunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cronlib "github.com/robfig/cron/v3"
	"github.com/target/jobops-api/internal/core"
	"github.com/target/jobops-api/internal/domain/model"
	"github.com/target/jobops-api/internal/service"
)

const (
	// DefaultSchedule runs the sweep daily at midnight.
	DefaultSchedule = "0 0 * * *"
	// DefaultLockTTL bounds how long one replica owns a tick.
	DefaultLockTTL = 10 * time.Minute
	lockKeyPrefix  = "sweep:"
)

// cronParser accepts standard 5-field expressions and descriptors like "@hourly".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// Sweeper runs one overdue sweep.
type Sweeper interface {
	Run(ctx context.Context, trigger string) (model.SweepResult, error)
}

var _ Sweeper = (*service.SweepService)(nil)

// Options holds the dependencies for creating a Runner.
type Options struct {
	Sweeper    Sweeper
	Schedule   string         // cron expression; defaults to DefaultSchedule
	Location   *time.Location // schedule time zone; defaults to UTC
	RunOnStart bool

	// Locks deduplicates ticks across replicas. Without it every replica sweeps.
	Locks   core.LockRepository
	LockTTL time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

// Runner fires the sweep on a cron schedule until its context is cancelled.
type Runner struct {
	sweeper    Sweeper
	schedule   cronlib.Schedule
	expr       string
	location   *time.Location
	runOnStart bool
	locks      core.LockRepository
	lockTTL    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewRunner validates opts and parses the schedule.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", opts.Schedule, err)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = DefaultLockTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		sweeper:    opts.Sweeper,
		schedule:   sched,
		expr:       opts.Schedule,
		location:   opts.Location,
		runOnStart: opts.RunOnStart,
		locks:      opts.Locks,
		lockTTL:    opts.LockTTL,
		logger:     opts.Logger.With("component", "sweep_runner"),
		now:        opts.Now,
	}, nil
}

// Next reports when the sweep fires after t.
func (r *Runner) Next(t time.Time) time.Time {
	return r.schedule.Next(t.In(r.location))
}

// Run blocks until ctx is cancelled, then waits for an in-flight sweep to finish.
func (r *Runner) Run(ctx context.Context) error {
	c := cronlib.New(cronlib.WithLocation(r.location), cronlib.WithParser(cronParser))
	c.Schedule(r.schedule, cronlib.FuncJob(func() {
		r.Tick(ctx, r.now())
	}))

	r.logger.InfoContext(ctx, "starting sweep runner",
		"schedule", r.expr,
		"location", r.location.String(),
		"next_run", r.Next(r.now()),
	)
	if r.runOnStart {
		r.Tick(ctx, r.now())
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("sweep runner stopped")
	return nil
}

// Tick runs one scheduled sweep at time at. When a lock repository is configured
// only the replica that claims the tick's minute runs it; the lock is left to
// expire so late replicas skip the same tick.
func (r *Runner) Tick(ctx context.Context, at time.Time) {
	if ctx.Err() != nil {
		return
	}
	if r.locks != nil {
		key := lockKeyPrefix + at.UTC().Truncate(time.Minute).Format(time.RFC3339)
		ok, err := r.locks.TryLock(ctx, key, r.lockTTL)
		if err != nil {
			r.logger.WarnContext(ctx, "sweep lock failed", "key", key, "error", err)
			return
		}
		if !ok {
			r.logger.DebugContext(ctx, "sweep tick claimed by another replica", "key", key)
			return
		}
	}

	res, err := r.sweeper.Run(ctx, service.SweepTriggerSchedule)
	if err != nil {
		r.logger.ErrorContext(ctx, "scheduled sweep failed", "error", err)
		return
	}
	r.logger.InfoContext(ctx, "scheduled sweep finished",
		"marked_overdue", res.MarkedOverdue,
		"cleared_overdue", res.ClearedOverdue,
		"next_run", r.Next(at),
	)
}
