package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/domain/model"
)

func techJob(id string, status model.JobStatus, scheduled *time.Time, tasks ...model.TaskWithRequirements) model.TechnicianJob {
	return model.TechnicianJob{
		Job:   model.Job{ID: id, Title: "job " + id, Status: status, ScheduledDate: scheduled},
		Tasks: tasks,
	}
}

func task(id string, order int, status model.TaskStatus, reqs ...model.TaskEquipment) model.TaskWithRequirements {
	return model.TaskWithRequirements{
		JobTask:      model.JobTask{ID: id, Title: "task " + id, Order: order, Status: status},
		Requirements: reqs,
	}
}

func TestBucketFor(t *testing.T) {
	startOfDay := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, BucketUnscheduled, BucketFor(now, nil))
	assert.Equal(t, BucketToday, BucketFor(now, at(startOfDay)))
	assert.Equal(t, BucketToday, BucketFor(now, at(startOfDay.Add(23*time.Hour+59*time.Minute))))
	assert.Equal(t, BucketUpcoming, BucketFor(now, at(startOfDay.Add(24*time.Hour))))
	assert.Equal(t, BucketOverdue, BucketFor(now, at(startOfDay.Add(-time.Nanosecond))))

	// Non-UTC inputs compare by their UTC calendar date.
	est := time.FixedZone("EST", -5*3600)
	lateEvening := time.Date(2026, 3, 13, 21, 0, 0, 0, est) // 02:00 UTC on the 14th
	assert.Equal(t, BucketToday, BucketFor(now, &lateEvening))
}

func TestBuildDashboard_Buckets(t *testing.T) {
	today := now.Add(-time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	dash := BuildDashboard(now, []model.TechnicianJob{
		techJob("today", model.JobStatusPending, &today),
		techJob("upcoming", model.JobStatusPending, &tomorrow),
		techJob("overdue", model.JobStatusInProgress, &lastWeek),
		techJob("unscheduled", model.JobStatusPending, nil),
		techJob("done", model.JobStatusCompleted, &today),
		techJob("cancelled-past", model.JobStatusCancelled, &lastWeek),
	})

	require.Len(t, dash.Buckets.Today, 1)
	assert.Equal(t, "today", dash.Buckets.Today[0].ID)
	require.Len(t, dash.Buckets.Upcoming, 1)
	assert.Equal(t, "upcoming", dash.Buckets.Upcoming[0].ID)
	require.Len(t, dash.Buckets.Unscheduled, 1)
	assert.Equal(t, "unscheduled", dash.Buckets.Unscheduled[0].ID)

	var overdue []string
	for _, j := range dash.Buckets.Overdue {
		overdue = append(overdue, j.ID)
	}
	assert.Equal(t, []string{"overdue", "cancelled-past"}, overdue)

	assert.Equal(t, model.DashboardSummary{
		TotalActiveJobs:  5,
		TodayCount:       1,
		UpcomingCount:    1,
		OverdueCount:     2,
		UnscheduledCount: 1,
	}, dash.Summary)
	assert.Empty(t, dash.Detail)
}

func TestBuildDashboard_IgnoresPersistedOverdueFlag(t *testing.T) {
	tomorrow := now.Add(24 * time.Hour)
	job := techJob("stale-flag", model.JobStatusPending, &tomorrow)
	job.Job.Overdue = true

	dash := BuildDashboard(now, []model.TechnicianJob{job})
	assert.Len(t, dash.Buckets.Upcoming, 1)
	assert.Empty(t, dash.Buckets.Overdue)
}

func TestBuildDashboard_CompletedNeverShown(t *testing.T) {
	for _, scheduled := range []*time.Time{nil, at(now), at(now.Add(48 * time.Hour)), at(now.Add(-48 * time.Hour))} {
		dash := BuildDashboard(now, []model.TechnicianJob{techJob("c", model.JobStatusCompleted, scheduled)})
		assert.Zero(t, dash.Summary.TotalActiveJobs)
		assert.Empty(t, dash.Detail)
	}
}

func TestBuildDashboard_ActiveTasksAndEquipment(t *testing.T) {
	ladder := model.TaskEquipment{EquipmentName: "Ladder", EquipmentType: "tool", Quantity: 2, Notes: "8ft"}
	dash := BuildDashboard(now, []model.TechnicianJob{
		techJob("j", model.JobStatusInProgress, nil,
			task("t3", 3, model.TaskStatusNotStarted),
			task("t1", 1, model.TaskStatusCompleted),
			task("t2", 2, model.TaskStatusInProgress, ladder),
		),
	})

	require.Len(t, dash.Buckets.Unscheduled, 1)
	j := dash.Buckets.Unscheduled[0]
	assert.Equal(t, 3, j.TasksCount)
	assert.Equal(t, 1, j.CompletedTasks)
	require.Len(t, j.ActiveTasks, 2)
	assert.Equal(t, "t2", j.ActiveTasks[0].ID)
	assert.Equal(t, "t3", j.ActiveTasks[1].ID)
	assert.Equal(t, []model.RequiredEquipment{
		{EquipmentName: "Ladder", EquipmentType: "tool", Quantity: 2, Notes: "8ft"},
	}, j.ActiveTasks[0].RequiredEquipment)
	assert.Empty(t, j.ActiveTasks[1].RequiredEquipment)
	assert.NotNil(t, j.ActiveTasks[1].RequiredEquipment)
}

func TestBuildDashboard_NoJobs(t *testing.T) {
	dash := BuildDashboard(now, nil)
	assert.Equal(t, model.NoJobsAssignedDetail, dash.Detail)
	assert.NotNil(t, dash.Buckets.Today)
	assert.Zero(t, dash.Summary.TotalActiveJobs)
}
