package lifecycle

import (
	"sort"
	"time"

	"github.com/target/jobops-api/internal/domain/model"
)

// Bucket is a dashboard schedule group.
type Bucket string

const (
	BucketToday       Bucket = "today"
	BucketUpcoming    Bucket = "upcoming"
	BucketOverdue     Bucket = "overdue"
	BucketUnscheduled Bucket = "unscheduled"
)

// BucketFor places a scheduled date relative to today, comparing UTC calendar dates.
// The persisted overdue flag is not consulted.
func BucketFor(now time.Time, scheduled *time.Time) Bucket {
	if scheduled == nil {
		return BucketUnscheduled
	}
	today := civilDate(now)
	day := civilDate(*scheduled)
	switch {
	case day.Equal(today):
		return BucketToday
	case day.After(today):
		return BucketUpcoming
	default:
		return BucketOverdue
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildDashboard groups a technician's jobs into schedule buckets.
// COMPLETED jobs are skipped; each job's active tasks are sorted by order.
func BuildDashboard(now time.Time, jobs []model.TechnicianJob) model.TechnicianDashboard {
	dash := model.TechnicianDashboard{
		Buckets: model.DashboardBuckets{
			Today:       []model.DashboardJob{},
			Upcoming:    []model.DashboardJob{},
			Overdue:     []model.DashboardJob{},
			Unscheduled: []model.DashboardJob{},
		},
	}
	if len(jobs) == 0 {
		dash.Detail = model.NoJobsAssignedDetail
		return dash
	}

	for _, tj := range jobs {
		if tj.Job.Status == model.JobStatusCompleted {
			continue
		}
		entry := dashboardJob(tj)
		switch BucketFor(now, tj.Job.ScheduledDate) {
		case BucketToday:
			dash.Buckets.Today = append(dash.Buckets.Today, entry)
		case BucketUpcoming:
			dash.Buckets.Upcoming = append(dash.Buckets.Upcoming, entry)
		case BucketOverdue:
			dash.Buckets.Overdue = append(dash.Buckets.Overdue, entry)
		case BucketUnscheduled:
			dash.Buckets.Unscheduled = append(dash.Buckets.Unscheduled, entry)
		}
	}

	b := dash.Buckets
	dash.Summary = model.DashboardSummary{
		TodayCount:       len(b.Today),
		UpcomingCount:    len(b.Upcoming),
		OverdueCount:     len(b.Overdue),
		UnscheduledCount: len(b.Unscheduled),
	}
	dash.Summary.TotalActiveJobs = len(b.Today) + len(b.Upcoming) + len(b.Overdue) + len(b.Unscheduled)
	return dash
}

func dashboardJob(tj model.TechnicianJob) model.DashboardJob {
	j := tj.Job
	out := model.DashboardJob{
		ID:            j.ID,
		Title:         j.Title,
		ClientName:    j.ClientName,
		Status:        j.Status,
		Priority:      j.Priority,
		ScheduledDate: j.ScheduledDate,
		Description:   j.Description,
		TasksCount:    len(tj.Tasks),
		ActiveTasks:   []model.DashboardTask{},
	}

	active := make([]model.TaskWithRequirements, 0, len(tj.Tasks))
	for _, t := range tj.Tasks {
		if t.Status == model.TaskStatusCompleted {
			out.CompletedTasks++
		}
		if t.Status.IsActive() {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(a, b int) bool { return active[a].Order < active[b].Order })

	for _, t := range active {
		equipment := make([]model.RequiredEquipment, 0, len(t.Requirements))
		for _, r := range t.Requirements {
			equipment = append(equipment, model.RequiredEquipment{
				EquipmentName: r.EquipmentName,
				EquipmentType: r.EquipmentType,
				Quantity:      r.Quantity,
				Notes:         r.Notes,
			})
		}
		out.ActiveTasks = append(out.ActiveTasks, model.DashboardTask{
			ID:                t.ID,
			Title:             t.Title,
			Description:       t.Description,
			Order:             t.Order,
			Status:            t.Status,
			RequiredEquipment: equipment,
		})
	}
	return out
}
