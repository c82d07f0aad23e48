// Package model defines the core data types shared by the jobops services, repositories and handlers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLen      = 200
	maxClientNameLen = 200
)

// ErrInvalidStatus is wrapped by the status decoders for values outside the enumerated set.
var ErrInvalidStatus = errors.New("invalid status")

// JobStatus is the lifecycle status of a Job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// JobStatuses lists every job status in display order.
var JobStatuses = []JobStatus{JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled}

// Valid reports whether s is a defined job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the job still has work outstanding (PENDING or IN_PROGRESS).
func (s JobStatus) IsOpen() bool {
	return s == JobStatusPending || s == JobStatusInProgress
}

// UnmarshalText implements encoding.TextUnmarshaler. Values are matched exactly.
func (s *JobStatus) UnmarshalText(text []byte) error {
	v := JobStatus(text)
	if !v.Valid() {
		return fmt.Errorf("%w: job status %q", ErrInvalidStatus, string(text))
	}
	*s = v
	return nil
}

// JobPriority ranks jobs for scheduling.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobPriority string

const (
	JobPriorityLow    JobPriority = "LOW"
	JobPriorityMedium JobPriority = "MEDIUM"
	JobPriorityHigh   JobPriority = "HIGH"
	JobPriorityUrgent JobPriority = "URGENT"
)

// JobPriorities lists every priority from lowest to highest.
var JobPriorities = []JobPriority{JobPriorityLow, JobPriorityMedium, JobPriorityHigh, JobPriorityUrgent}

// Valid reports whether p is a defined priority.
func (p JobPriority) Valid() bool {
	switch p {
	case JobPriorityLow, JobPriorityMedium, JobPriorityHigh, JobPriorityUrgent:
		return true
	default:
		return false
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. Values are matched exactly.
func (p *JobPriority) UnmarshalText(text []byte) error {
	v := JobPriority(text)
	if !v.Valid() {
		return fmt.Errorf("invalid job priority: %q", string(text))
	}
	*p = v
	return nil
}

// Job is a unit of client work with a lifecycle status and an assigned technician.
// Overdue is a cached flag maintained by the overdue sweep.
type Job struct {
	ID            string      `json:"id"             db:"id"`
	Title         string      `json:"title"          db:"title"`
	Description   string      `json:"description"    db:"description"`
	ClientName    string      `json:"client_name"    db:"client_name"`
	ScheduledDate *time.Time  `json:"scheduled_date" db:"scheduled_date"`
	Status        JobStatus   `json:"status"         db:"status"`
	Priority      JobPriority `json:"priority"       db:"priority"`
	CreatedBy     string      `json:"created_by"     db:"created_by"`
	AssignedTo    *string     `json:"assigned_to"    db:"assigned_to"`
	Overdue       bool        `json:"overdue"        db:"overdue"`
	CreatedAt     time.Time   `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"     db:"updated_at"`
}

// CreateJobRequest represents parameters to create a Job.
// CreatedBy is taken from the caller, never from the payload.
type CreateJobRequest struct {
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	ClientName    string      `json:"client_name"`
	ScheduledDate *time.Time  `json:"scheduled_date,omitempty"`
	Status        JobStatus   `json:"status,omitempty"`
	Priority      JobPriority `json:"priority,omitempty"`
	AssignedTo    *string     `json:"assigned_to,omitempty"`
	CreatedBy     string      `json:"-"`
}

// Validate validates CreateJobRequest and applies defaults for status and priority.
func (r *CreateJobRequest) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if err := validateClientName(r.ClientName); err != nil {
		return err
	}
	if r.Status == "" {
		r.Status = JobStatusPending
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	if r.Priority == "" {
		r.Priority = JobPriorityMedium
	}
	if !r.Priority.Valid() {
		return errors.New("invalid priority")
	}
	if r.AssignedTo != nil && strings.TrimSpace(*r.AssignedTo) == "" {
		r.AssignedTo = nil
	}
	return nil
}

// UpdateJobRequest represents a partial update to a Job.
// Unschedule and Unassign clear the nullable columns; they win over the matching value field.
type UpdateJobRequest struct {
	Title         *string      `json:"title,omitempty"`
	Description   *string      `json:"description,omitempty"`
	ClientName    *string      `json:"client_name,omitempty"`
	ScheduledDate *time.Time   `json:"scheduled_date,omitempty"`
	Unschedule    bool         `json:"unschedule,omitempty"`
	Status        *JobStatus   `json:"status,omitempty"`
	Priority      *JobPriority `json:"priority,omitempty"`
	AssignedTo    *string      `json:"assigned_to,omitempty"`
	Unassign      bool         `json:"unassign,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateJobRequest.
func (r *UpdateJobRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.ClientName != nil || r.ScheduledDate != nil ||
		r.Unschedule || r.Status != nil || r.Priority != nil || r.AssignedTo != nil || r.Unassign
}

// Validate validates UpdateJobRequest.
func (r *UpdateJobRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		if err := validateTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.ClientName != nil {
		if err := validateClientName(*r.ClientName); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return errors.New("invalid priority")
	}
	if r.AssignedTo != nil && strings.TrimSpace(*r.AssignedTo) == "" {
		return errors.New("assigned_to cannot be empty; use unassign to clear it")
	}
	return nil
}

// JobListOptions filters job listings. Nil fields are not applied.
type JobListOptions struct {
	Statuses        []JobStatus
	AssignedTo      *string
	CreatedBy       *string
	Overdue         *bool
	ScheduledBefore *time.Time
	ScheduledAfter  *time.Time
}

func validateTitle(v string) error {
	title := strings.TrimSpace(v)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("title cannot exceed %d characters", maxTitleLen)
	}
	return nil
}

func validateClientName(v string) error {
	name := strings.TrimSpace(v)
	if name == "" {
		return errors.New("client_name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxClientNameLen {
		return fmt.Errorf("client_name cannot exceed %d characters", maxClientNameLen)
	}
	return nil
}
