package model

import "time"

// JobAnalytics is the admin summary of job and task activity.
type JobAnalytics struct {
	TotalJobs      int                 `json:"total_jobs"`
	ByStatus       map[JobStatus]int   `json:"by_status"`
	ByPriority     map[JobPriority]int `json:"by_priority"`
	OverdueJobs    int                 `json:"overdue_jobs"`
	CompletionRate float64             `json:"completion_rate"`
	TasksByStatus  map[TaskStatus]int  `json:"tasks_by_status"`
	Technicians    []TechnicianLoad    `json:"technicians"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// TechnicianLoad is the number of open jobs assigned to one technician.
type TechnicianLoad struct {
	UserID   string `json:"user_id"   db:"user_id"`
	Username string `json:"username"  db:"username"`
	OpenJobs int    `json:"open_jobs" db:"open_jobs"`
}

// StatusCount is one grouped count row.
type StatusCount struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}
