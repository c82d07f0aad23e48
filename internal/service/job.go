package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo      core.JobRepository  // Required: job repository
	Users     core.UserRepository // Required: assignee validation
	Lifecycle *LifecycleService   // Required: status changes made through Update
	Logger    *slog.Logger        // Optional: structured logger
}

// JobService provides job CRUD for admins and sales agents.
type JobService struct {
	repo      core.JobRepository
	users     core.UserRepository
	lifecycle *LifecycleService
	logger    *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	switch {
	case opts.Repo == nil:
		panic("JobRepository is required")
	case opts.Users == nil:
		panic("UserRepository is required")
	case opts.Lifecycle == nil:
		panic("LifecycleService is required")
	}
	return &JobService{
		repo:      opts.Repo,
		users:     opts.Users,
		lifecycle: opts.Lifecycle,
		logger:    componentLogger(opts.Logger, "job_service"),
	}
}

// Create creates a job owned by caller.
func (s *JobService) Create(
	ctx context.Context,
	caller domainauth.Principal,
	req *model.CreateJobRequest,
) (*model.Job, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	req.CreatedBy = caller.UserID
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	if err := s.checkAssignee(ctx, req.AssignedTo); err != nil {
		return nil, err
	}

	job, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.InfoContext(ctx, "job created", "job_id", job.ID, "actor_id", caller.UserID)
	return job, nil
}

// GetByID returns one job.
func (s *JobService) GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.Job, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns jobs matching opts, newest first.
func (s *JobService) List(
	ctx context.Context,
	caller domainauth.Principal,
	opts model.JobListOptions,
) ([]*model.Job, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	jobs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Update applies a partial update. A status change goes through the lifecycle
// gate and the other fields are written in the same transaction, so a rejected
// or failed update leaves the job untouched.
func (s *JobService) Update(
	ctx context.Context,
	caller domainauth.Principal,
	id string,
	req model.UpdateJobRequest,
) (*model.Job, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	if !req.Unassign {
		if err := s.checkAssignee(ctx, req.AssignedTo); err != nil {
			return nil, err
		}
	}

	fields := req
	fields.Status = nil

	if req.Status != nil {
		var pending *model.UpdateJobRequest
		if fields.HasUpdates() {
			pending = &fields
		}
		if _, err := s.lifecycle.transitionJob(ctx, id, *req.Status, caller,
			func(model.LockedJob) error { return nil }, pending,
		); err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
		return s.GetByID(ctx, caller, id)
	}

	job, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes a job together with its tasks and their ledger entries.
func (s *JobService) Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error) {
	if err := requireJobManager(caller); err != nil {
		return false, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	if deleted {
		s.logger.InfoContext(ctx, "job deleted", "job_id", id, "actor_id", caller.UserID)
	}
	return deleted, nil
}

// checkAssignee verifies that a requested assignee is an active technician.
func (s *JobService) checkAssignee(ctx context.Context, assignee *string) error {
	if assignee == nil {
		return nil
	}
	u, err := s.users.GetByID(ctx, *assignee)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.ValidationField("assigned_to", "assigned_to must reference an existing user")
		}
		return fmt.Errorf("lookup assignee: %w", err)
	}
	if !u.IsTechnician() {
		return apperrors.ValidationField("assigned_to", "assigned_to must be an active technician")
	}
	return nil
}
