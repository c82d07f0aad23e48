package model

import "time"

// NoJobsAssignedDetail is reported on a dashboard for a technician with no assigned jobs.
const NoJobsAssignedDetail = "No jobs assigned yet"

// TechnicianJob is the dashboard source row: a job with all its tasks and their requirements.
type TechnicianJob struct {
	Job   Job
	Tasks []TaskWithRequirements
}

// TechnicianDashboard groups a technician's open work by schedule.
type TechnicianDashboard struct {
	Detail  string           `json:"detail,omitempty"`
	Buckets DashboardBuckets `json:"jobs_by_schedule"`
	Summary DashboardSummary `json:"summary"`
}

// DashboardBuckets holds jobs grouped by the date component of their scheduled date.
type DashboardBuckets struct {
	Today       []DashboardJob `json:"today"`
	Upcoming    []DashboardJob `json:"upcoming"`
	Overdue     []DashboardJob `json:"overdue"`
	Unscheduled []DashboardJob `json:"unscheduled"`
}

// DashboardSummary carries overall and per-bucket counts.
type DashboardSummary struct {
	TotalActiveJobs  int `json:"total_active_jobs"`
	TodayCount       int `json:"today_count"`
	UpcomingCount    int `json:"upcoming_count"`
	OverdueCount     int `json:"overdue_count"`
	UnscheduledCount int `json:"unscheduled_count"`
}

// DashboardJob is one job entry on the dashboard.
type DashboardJob struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ClientName     string          `json:"client_name"`
	Status         JobStatus       `json:"status"`
	Priority       JobPriority     `json:"priority"`
	ScheduledDate  *time.Time      `json:"scheduled_date"`
	Description    string          `json:"description"`
	TasksCount     int             `json:"tasks_count"`
	CompletedTasks int             `json:"completed_tasks"`
	ActiveTasks    []DashboardTask `json:"active_tasks"`
}

// DashboardTask is an active (not yet completed) task on the dashboard.
type DashboardTask struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Order             int                 `json:"order"`
	Status            TaskStatus          `json:"status"`
	RequiredEquipment []RequiredEquipment `json:"required_equipment"`
}

// RequiredEquipment is a ledger entry rendered for a technician.
type RequiredEquipment struct {
	EquipmentName string `json:"equipment_name"`
	EquipmentType string `json:"equipment_type"`
	Quantity      int    `json:"quantity"`
	Notes         string `json:"notes"`
}
