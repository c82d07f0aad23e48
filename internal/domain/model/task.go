package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskStatus is the lifecycle status of a JobTask.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// TaskStatuses lists every task status in display order.
var TaskStatuses = []TaskStatus{TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is a defined task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive reports whether the task still needs work.
func (s TaskStatus) IsActive() bool {
	return s == TaskStatusNotStarted || s == TaskStatusInProgress
}

// UnmarshalText implements encoding.TextUnmarshaler. Values are matched exactly.
func (s *TaskStatus) UnmarshalText(text []byte) error {
	v := TaskStatus(text)
	if !v.Valid() {
		return fmt.Errorf("%w: task status %q", ErrInvalidStatus, string(text))
	}
	*s = v
	return nil
}

// JobTask is one ordered step within a Job's checklist.
// CompletedAt is non-nil exactly when Status is COMPLETED.
type JobTask struct {
	ID          string     `json:"id"           db:"id"`
	JobID       string     `json:"job_id"       db:"job_id"`
	Title       string     `json:"title"        db:"title"`
	Description string     `json:"description"  db:"description"`
	Order       int        `json:"order"        db:"order"`
	Status      TaskStatus `json:"status"       db:"status"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"   db:"updated_at"`
}

// TaskWithRequirements is a task together with its equipment ledger entries.
type TaskWithRequirements struct {
	JobTask
	Requirements []TaskEquipment `json:"equipment_requirements"`
}

// CreateTaskRequest represents parameters to create a JobTask under a Job.
type CreateTaskRequest struct {
	JobID                 string             `json:"-"`
	Title                 string             `json:"title"`
	Description           string             `json:"description,omitempty"`
	Order                 *int               `json:"order,omitempty"`
	Status                TaskStatus         `json:"status,omitempty"`
	EquipmentRequirements []RequirementInput `json:"equipment_requirements,omitempty"`
}

// Validate validates CreateTaskRequest and applies defaults.
func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job_id is required")
	}
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if r.Order == nil {
		one := 1
		r.Order = &one
	}
	if *r.Order < 1 {
		return errors.New("order must be >= 1")
	}
	if r.Status == "" {
		r.Status = TaskStatusNotStarted
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// UpdateTaskRequest represents a partial update to a JobTask.
// A non-nil EquipmentRequirements replaces the whole ledger for the task.
type UpdateTaskRequest struct {
	Title                 *string             `json:"title,omitempty"`
	Description           *string             `json:"description,omitempty"`
	Order                 *int                `json:"order,omitempty"`
	Status                *TaskStatus         `json:"status,omitempty"`
	EquipmentRequirements *[]RequirementInput `json:"equipment_requirements,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateTaskRequest.
func (r *UpdateTaskRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.Order != nil || r.Status != nil ||
		r.EquipmentRequirements != nil
}

// Validate validates UpdateTaskRequest.
func (r *UpdateTaskRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		if err := validateTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.Order != nil && *r.Order < 1 {
		return errors.New("order must be >= 1")
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// TaskInsert is the resolved row set the repository writes when creating a task.
// Requirements are already normalized.
type TaskInsert struct {
	JobID        string
	Title        string
	Description  string
	Order        int
	Status       TaskStatus
	CompletedAt  *time.Time
	Requirements []RequirementInput
}

// TaskFieldUpdate is the resolved column set the repository writes for a task update.
// When Status is set, StampAt is the completion time recorded if the task enters
// COMPLETED without an existing stamp. A non-nil Requirements replaces the ledger.
type TaskFieldUpdate struct {
	Title        *string
	Description  *string
	Order        *int
	Status       *TaskStatus
	StampAt      time.Time
	Requirements *[]RequirementInput
}

// HasColumns reports whether any job_tasks column is written.
func (u TaskFieldUpdate) HasColumns() bool {
	return u.Title != nil || u.Description != nil || u.Order != nil || u.Status != nil
}
