package model

import "time"

// TaskTransition is the outcome of a task status change.
type TaskTransition struct {
	TaskID      string     `json:"id"`
	Title       string     `json:"title"`
	Previous    TaskStatus `json:"previous_status"`
	Current     TaskStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
}

// JobTransition is the outcome of a job status change.
type JobTransition struct {
	JobID      string    `json:"id"`
	Title      string    `json:"title"`
	ClientName string    `json:"client_name"`
	Previous   JobStatus `json:"previous_status"`
	Current    JobStatus `json:"status"`
}

// IncompleteTask identifies a task blocking job completion.
type IncompleteTask struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}

// LockedTask is the row set a task transition reads under lock: the task plus
// the parent job fields the capability check needs.
type LockedTask struct {
	Task          JobTask
	JobAssignedTo *string
}

// SweepResult reports one overdue sweep run.
type SweepResult struct {
	MarkedOverdue  int64     `json:"marked_overdue"`
	ClearedOverdue int64     `json:"cleared_overdue"`
	Timestamp      time.Time `json:"timestamp"`
}

// Changed reports whether the run updated any job.
func (r SweepResult) Changed() bool {
	return r.MarkedOverdue > 0 || r.ClearedOverdue > 0
}

// LockedJob is the row set a job transition reads under lock. Tasks is only
// populated when the caller asked for the sibling tasks.
type LockedJob struct {
	Job   Job
	Tasks []JobTask
}
