package core

import (
	"context"
	"time"

	"github.com/target/jobops-api/internal/domain/lifecycle"
	"github.com/target/jobops-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Services depend on these interfaces; internal/data provides the Postgres implementations.

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, opts model.UserListOptions) ([]*model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	// UpsertByUsername inserts the user or refreshes the profile fields of an existing row.
	// The role of an existing row is never changed.
	UpsertByUsername(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
}

// JobRepository defines the interface for job data operations.
// Status changes go through LifecycleRepository, never Update.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error)
	Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error)
	// Delete removes the job; its tasks and their ledger entries cascade.
	Delete(ctx context.Context, id string) (bool, error)
}

// TaskRepository defines the interface for job task data operations.
type TaskRepository interface {
	// Create inserts the task and its ledger entries in one transaction.
	Create(ctx context.Context, in model.TaskInsert) (*model.TaskWithRequirements, error)
	GetByID(ctx context.Context, id string) (*model.TaskWithRequirements, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.TaskWithRequirements, error)
	Update(ctx context.Context, id string, upd model.TaskFieldUpdate) (*model.TaskWithRequirements, error)
	// Delete removes the task; its ledger entries cascade.
	Delete(ctx context.Context, id string) (bool, error)
}

// EquipmentRepository defines the interface for equipment catalog operations.
type EquipmentRepository interface {
	Create(ctx context.Context, req *model.CreateEquipmentRequest) (*model.Equipment, error)
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	List(ctx context.Context, opts model.EquipmentListOptions) ([]*model.Equipment, error)
	Update(ctx context.Context, id string, req model.UpdateEquipmentRequest) (*model.Equipment, error)
	// Delete fails with a foreign_key error while any ledger entry references the item.
	Delete(ctx context.Context, id string) (bool, error)
}

// RequirementRepository defines the interface for Task Equipment Ledger operations.
// Inputs are expected to be normalized by the caller.
type RequirementRepository interface {
	// Set replaces every entry of the task with reqs in one transaction.
	Set(ctx context.Context, taskID string, reqs []model.RequirementInput) ([]model.TaskEquipment, error)
	// Add inserts one entry; an existing (task, equipment) pair is rejected.
	Add(ctx context.Context, taskID string, req model.RequirementInput) (*model.TaskEquipment, error)
	List(ctx context.Context, taskID string) ([]model.TaskEquipment, error)
	Remove(ctx context.Context, taskID, equipmentID string) (bool, error)
}

// TaskDecision inspects a locked task and returns the transition to persist.
type TaskDecision func(locked model.LockedTask) (model.TaskTransition, error)

// JobDecision inspects a locked job and returns the transition to persist.
type JobDecision func(locked model.LockedJob) (model.JobTransition, error)

// JobTransitionParams groups parameters for LifecycleRepository.TransitionJob.
type JobTransitionParams struct {
	JobID string
	// LockTasks reads the sibling tasks FOR SHARE before Decide runs.
	LockTasks bool
	Decide    JobDecision
	// Fields, when set, are written by the same statement as the status so a
	// failed field write leaves the status unchanged. Fields.Status is ignored.
	Fields *model.UpdateJobRequest
}

// LifecycleRepository runs read-decide-write status changes under row locks.
// A decision error rolls the transaction back and is returned unchanged.
type LifecycleRepository interface {
	TransitionTask(ctx context.Context, taskID string, decide TaskDecision) (*model.TaskTransition, error)
	TransitionJob(ctx context.Context, params JobTransitionParams) (*model.JobTransition, error)
}

// SweepRepository defines the persistence side of the overdue sweep.
// Each pass is a single atomic statement using the same predicate as lifecycle.IsOverdue.
type SweepRepository interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	ClearOverdue(ctx context.Context, now time.Time) (int64, error)
	// Snapshots returns the sweep-relevant view of every scheduled or flagged job.
	Snapshots(ctx context.Context) ([]lifecycle.JobSnapshot, error)
}

// DashboardRepository loads the source rows for the technician dashboard.
type DashboardRepository interface {
	// TechnicianJobs returns every non-COMPLETED job assigned to the technician with tasks and ledger entries.
	TechnicianJobs(ctx context.Context, technicianID string) ([]model.TechnicianJob, error)
}

// AnalyticsRepository defines the grouped counts behind the admin analytics view.
type AnalyticsRepository interface {
	JobsByStatus(ctx context.Context) ([]model.StatusCount, error)
	JobsByPriority(ctx context.Context) ([]model.StatusCount, error)
	OverdueJobs(ctx context.Context) (int, error)
	TasksByStatus(ctx context.Context) ([]model.StatusCount, error)
	TechnicianLoads(ctx context.Context) ([]model.TechnicianLoad, error)
}
