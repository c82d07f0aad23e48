// Package lifecycle holds the pure status-transition policy for jobs and tasks,
// the overdue sweep computation and the technician dashboard bucketing.
// Nothing here performs I/O; callers supply the clock and the rows.
package lifecycle

import (
	"time"

	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// ParseJobStatus validates a requested job status.
func ParseJobStatus(v string) (model.JobStatus, error) {
	s := model.JobStatus(v)
	if !s.Valid() {
		return "", apperrors.InvalidStatusf(
			"Invalid status %q. Must be one of: PENDING, IN_PROGRESS, COMPLETED, CANCELLED", v)
	}
	return s, nil
}

// ParseTaskStatus validates a requested task status.
func ParseTaskStatus(v string) (model.TaskStatus, error) {
	s := model.TaskStatus(v)
	if !s.Valid() {
		return "", apperrors.InvalidStatusf("Invalid status %q. Must be one of: NOT_STARTED, IN_PROGRESS, COMPLETED", v)
	}
	return s, nil
}

// ValidateJobTransition is consulted before every job status write with the
// current status, the requested status and the job's tasks.
// The only gate is completion: every task must already be COMPLETED.
// A job with no tasks is trivially completable. All other moves are allowed,
// including leaving COMPLETED.
func ValidateJobTransition(_, to model.JobStatus, tasks []model.JobTask) error {
	if !to.Valid() {
		return apperrors.InvalidStatusf("Invalid status %q", to)
	}
	if to != model.JobStatusCompleted {
		return nil
	}
	if incomplete := IncompleteTasks(tasks); len(incomplete) > 0 {
		return apperrors.IncompleteTasks(incomplete)
	}
	return nil
}

// IncompleteTasks returns every task not in COMPLETED, in input order.
func IncompleteTasks(tasks []model.JobTask) []model.IncompleteTask {
	var out []model.IncompleteTask
	for _, t := range tasks {
		if t.Status != model.TaskStatusCompleted {
			out = append(out, model.IncompleteTask{ID: t.ID, Title: t.Title, Status: t.Status})
		}
	}
	return out
}

// ValidateTaskTransition is consulted before every task status write with the
// current and requested status.
// Every move between defined statuses is currently allowed.
func ValidateTaskTransition(_, to model.TaskStatus) error {
	if !to.Valid() {
		return apperrors.InvalidStatusf("Invalid status %q", to)
	}
	return nil
}

// CompletedAtFor returns the completion timestamp a task must carry after moving to next.
// Entering COMPLETED keeps an existing stamp or stamps now; any other status clears it.
func CompletedAtFor(next model.TaskStatus, current *time.Time, now time.Time) *time.Time {
	if next != model.TaskStatusCompleted {
		return nil
	}
	if current != nil {
		return current
	}
	stamp := now
	return &stamp
}

// ApplyTaskStatus validates and applies a status change to task, maintaining CompletedAt.
// It returns the transition summary; task is modified in place.
func ApplyTaskStatus(task *model.JobTask, next model.TaskStatus, now time.Time) (model.TaskTransition, error) {
	prev := task.Status
	if err := ValidateTaskTransition(prev, next); err != nil {
		return model.TaskTransition{}, err
	}
	task.Status = next
	task.CompletedAt = CompletedAtFor(next, task.CompletedAt, now)
	return model.TaskTransition{
		TaskID:      task.ID,
		Title:       task.Title,
		Previous:    prev,
		Current:     next,
		CompletedAt: task.CompletedAt,
	}, nil
}
