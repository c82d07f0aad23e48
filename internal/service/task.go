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
)

// TaskServiceOptions groups dependencies for TaskService.
type TaskServiceOptions struct {
	Repo   core.TaskRepository // Required: task repository
	Logger *slog.Logger        // Optional: structured logger
	Clock  Clock               // Optional: completion stamps
}

// TaskService provides task checklist CRUD for admins and sales agents.
// Technicians change task status through LifecycleService only.
type TaskService struct {
	repo   core.TaskRepository
	logger *slog.Logger
	clock  Clock
}

// NewTaskService constructs a new TaskService.
func NewTaskService(opts TaskServiceOptions) *TaskService {
	if opts.Repo == nil {
		panic("TaskRepository is required")
	}
	return &TaskService{
		repo:   opts.Repo,
		logger: componentLogger(opts.Logger, "task_service"),
		clock:  opts.Clock,
	}
}

// Create adds a task to a job, optionally with its equipment requirements.
// A task created as COMPLETED is stamped the same way a transition would stamp it.
func (s *TaskService) Create(
	ctx context.Context,
	caller domainauth.Principal,
	req *model.CreateTaskRequest,
) (*model.TaskWithRequirements, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	reqs, err := lifecycle.NormalizeRequirements(req.EquipmentRequirements)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.Create(ctx, model.TaskInsert{
		JobID:        req.JobID,
		Title:        req.Title,
		Description:  req.Description,
		Order:        *req.Order,
		Status:       req.Status,
		CompletedAt:  lifecycle.CompletedAtFor(req.Status, nil, s.clock.now()),
		Requirements: reqs,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "job_id", task.JobID)
	return task, nil
}

// GetByID returns a task with its ledger entries.
func (s *TaskService) GetByID(
	ctx context.Context,
	caller domainauth.Principal,
	id string,
) (*model.TaskWithRequirements, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// ListByJob returns the tasks of a job in checklist order.
func (s *TaskService) ListByJob(
	ctx context.Context,
	caller domainauth.Principal,
	jobID string,
) ([]*model.TaskWithRequirements, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update. Supplied equipment requirements replace the whole ledger.
func (s *TaskService) Update(
	ctx context.Context,
	caller domainauth.Principal,
	id string,
	req model.UpdateTaskRequest,
) (*model.TaskWithRequirements, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}

	upd := model.TaskFieldUpdate{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		Status:      req.Status,
		StampAt:     s.clock.now(),
	}
	if req.EquipmentRequirements != nil {
		reqs, err := lifecycle.NormalizeRequirements(*req.EquipmentRequirements)
		if err != nil {
			return nil, err
		}
		upd.Requirements = &reqs
	}

	task, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task and its ledger entries.
func (s *TaskService) Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error) {
	if err := requireJobManager(caller); err != nil {
		return false, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return deleted, nil
}
