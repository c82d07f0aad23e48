package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/lifecycle"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/observability/metrics"
	"github.com/target/jobops-api/internal/ports"
)

// LifecycleServiceOptions groups dependencies for LifecycleService.
type LifecycleServiceOptions struct {
	Repo    core.LifecycleRepository // Required: locked read-decide-write transitions
	Events  ports.EventPublisher     // Optional: status change events
	Metrics metrics.Sink             // Optional: transition metrics
	Logger  *slog.Logger             // Optional: structured logger
	Clock   Clock                    // Optional: defaults to time.Now
}

// LifecycleService changes task and job statuses.
//
// Every status write goes through one locked transaction in which the row is
// read, the caller's capability and the transition policy are checked, and the
// new status is persisted. Events are published only after commit.
type LifecycleService struct {
	repo    core.LifecycleRepository
	events  eventPublisher
	metrics metrics.Sink
	logger  *slog.Logger
	clock   Clock
}

// NewLifecycleService constructs a new LifecycleService.
func NewLifecycleService(opts LifecycleServiceOptions) *LifecycleService {
	if opts.Repo == nil {
		panic("LifecycleRepository is required")
	}
	logger := componentLogger(opts.Logger, "lifecycle_service")
	sink := opts.Metrics
	if sink == nil {
		sink = metrics.NoopSink{}
	}
	return &LifecycleService{
		repo:    opts.Repo,
		events:  eventPublisher{pub: opts.Events, logger: logger, clock: opts.Clock},
		metrics: sink,
		logger:  logger,
		clock:   opts.Clock,
	}
}

// TransitionTaskStatus moves a task to status on behalf of caller. Only the
// technician assigned to the parent job may do so. Entering COMPLETED stamps
// completed_at; leaving it clears the stamp. Siblings and the parent job are untouched.
func (s *LifecycleService) TransitionTaskStatus(
	ctx context.Context,
	taskID, status string,
	caller domainauth.Principal,
) (*model.TaskTransition, error) {
	start := s.clock.now()
	next, err := lifecycle.ParseTaskStatus(status)
	if err != nil {
		s.emit(metrics.EntityTask, "", status, start, err)
		return nil, err
	}

	tr, err := s.repo.TransitionTask(ctx, taskID, func(locked model.LockedTask) (model.TaskTransition, error) {
		if !domainauth.CanTransitionTask(caller, locked.JobAssignedTo) {
			return model.TaskTransition{}, apperrors.Forbidden("You can only update tasks for jobs assigned to you")
		}
		task := locked.Task
		return lifecycle.ApplyTaskStatus(&task, next, s.clock.now())
	})
	if err != nil {
		s.emit(metrics.EntityTask, "", string(next), start, err)
		return nil, fmt.Errorf("transition task status: %w", err)
	}

	s.emit(metrics.EntityTask, string(tr.Previous), string(tr.Current), start, nil)
	s.logger.InfoContext(ctx, "task status changed",
		"task_id", tr.TaskID,
		"from", tr.Previous,
		"to", tr.Current,
		"actor_id", caller.UserID,
	)
	s.events.publish(ctx, model.EventTaskStatusChanged, caller.UserID, tr)
	return tr, nil
}

// TransitionJobStatus moves a job to status on behalf of caller. Admins and
// sales agents may move any job; technicians only jobs assigned to them.
// Completing a job requires every task to be COMPLETED; otherwise the error
// lists the blocking tasks.
func (s *LifecycleService) TransitionJobStatus(
	ctx context.Context,
	jobID, status string,
	caller domainauth.Principal,
) (*model.JobTransition, error) {
	start := s.clock.now()
	next, err := lifecycle.ParseJobStatus(status)
	if err != nil {
		s.emit(metrics.EntityJob, "", status, start, err)
		return nil, err
	}

	tr, err := s.transitionJob(ctx, jobID, next, caller, func(locked model.LockedJob) error {
		if !domainauth.CanTransitionJob(caller, locked.Job.AssignedTo) {
			return apperrors.Forbidden("You can only update jobs assigned to you")
		}
		return nil
	}, nil)
	if err != nil {
		s.emit(metrics.EntityJob, "", string(next), start, err)
		return nil, fmt.Errorf("transition job status: %w", err)
	}
	s.emit(metrics.EntityJob, string(tr.Previous), string(tr.Current), start, nil)
	return tr, nil
}

// transitionJob runs the job transition with authorize as the capability check.
// JobService reuses it so status changes made through a job update hit the same
// gate; fields are then persisted in the same transaction as the status.
func (s *LifecycleService) transitionJob(
	ctx context.Context,
	jobID string,
	next model.JobStatus,
	caller domainauth.Principal,
	authorize func(model.LockedJob) error,
	fields *model.UpdateJobRequest,
) (*model.JobTransition, error) {
	tr, err := s.repo.TransitionJob(ctx, core.JobTransitionParams{
		JobID:     jobID,
		LockTasks: next == model.JobStatusCompleted,
		Fields:    fields,
		Decide: func(locked model.LockedJob) (model.JobTransition, error) {
			if authErr := authorize(locked); authErr != nil {
				return model.JobTransition{}, authErr
			}
			if gateErr := lifecycle.ValidateJobTransition(locked.Job.Status, next, locked.Tasks); gateErr != nil {
				return model.JobTransition{}, gateErr
			}
			return model.JobTransition{
				JobID:      locked.Job.ID,
				Title:      locked.Job.Title,
				ClientName: locked.Job.ClientName,
				Previous:   locked.Job.Status,
				Current:    next,
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "job status changed",
		"job_id", tr.JobID,
		"from", tr.Previous,
		"to", tr.Current,
		"actor_id", caller.UserID,
	)
	s.events.publish(ctx, model.EventJobStatusChanged, caller.UserID, tr)
	return tr, nil
}

func (s *LifecycleService) emit(entity, from, to string, start time.Time, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			s.logger.Error("status transition failed", "entity", entity, "to", to, "error", err)
		}
	}
	metrics.EmitTransition(s.metrics, metrics.TransitionMetric{
		Entity:   entity,
		From:     from,
		To:       to,
		Result:   result,
		Duration: s.clock.now().Sub(start),
		Err:      err,
	})
}
