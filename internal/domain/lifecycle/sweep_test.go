package lifecycle

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/domain/model"
)

func at(t time.Time) *time.Time { return &t }

func sweepFixture() []JobSnapshot {
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	return []JobSnapshot{
		{ID: "past-pending", ScheduledDate: at(yesterday), Status: model.JobStatusPending},
		{ID: "past-in-progress", ScheduledDate: at(yesterday), Status: model.JobStatusInProgress},
		{ID: "past-completed-flagged", ScheduledDate: at(yesterday), Status: model.JobStatusCompleted, Overdue: true},
		{ID: "past-cancelled", ScheduledDate: at(yesterday), Status: model.JobStatusCancelled},
		{ID: "future-flagged", ScheduledDate: at(tomorrow), Status: model.JobStatusPending, Overdue: true},
		{ID: "unscheduled-flagged", Status: model.JobStatusPending, Overdue: true},
		{ID: "already-flagged", ScheduledDate: at(yesterday), Status: model.JobStatusPending, Overdue: true},
		{ID: "exactly-now", ScheduledDate: at(now), Status: model.JobStatusPending},
	}
}

func ids(snaps []JobSnapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.ID)
	}
	return out
}

func TestIsOverdue(t *testing.T) {
	assert.True(t, IsOverdue(now, at(now.Add(-time.Second)), model.JobStatusPending))
	assert.False(t, IsOverdue(now, at(now), model.JobStatusPending))
	assert.False(t, IsOverdue(now, nil, model.JobStatusInProgress))
	assert.False(t, IsOverdue(now, at(now.Add(-time.Hour)), model.JobStatusCancelled))
}

func TestSweep_MarksAndClears(t *testing.T) {
	updated, counts := Sweep(now, sweepFixture())

	assert.Equal(t, SweepCounts{Marked: 2, Cleared: 3}, counts)
	assert.ElementsMatch(t, []string{
		"past-pending", "past-in-progress",
		"past-completed-flagged", "future-flagged", "unscheduled-flagged",
	}, ids(updated))
	for _, u := range updated {
		assert.Equal(t, IsOverdue(now, u.ScheduledDate, u.Status), u.Overdue, u.ID)
	}
}

func TestSweep_IdempotentSecondRun(t *testing.T) {
	jobs := sweepFixture()
	updated, _ := Sweep(now, jobs)

	byID := make(map[string]JobSnapshot, len(updated))
	for _, u := range updated {
		byID[u.ID] = u
	}
	for i, j := range jobs {
		if u, ok := byID[j.ID]; ok {
			jobs[i] = u
		}
	}

	again, counts := Sweep(now, jobs)
	assert.Empty(t, again)
	assert.Equal(t, SweepCounts{}, counts)
}

func TestSweep_OrderIndependent(t *testing.T) {
	forward, fc := Sweep(now, sweepFixture())
	reversed := sweepFixture()
	slices.Reverse(reversed)
	backward, bc := Sweep(now, reversed)

	assert.Equal(t, fc, bc)
	assert.ElementsMatch(t, ids(forward), ids(backward))
}

func TestSweep_CompletingClearsOnNextRun(t *testing.T) {
	job := JobSnapshot{ID: "j", ScheduledDate: at(now.Add(-24 * time.Hour)), Status: model.JobStatusPending}

	updated, counts := Sweep(now, []JobSnapshot{job})
	require.Len(t, updated, 1)
	assert.Equal(t, 1, counts.Marked)
	job = updated[0]
	assert.True(t, job.Overdue)

	job.Status = model.JobStatusCompleted
	updated, counts = Sweep(now.Add(time.Hour), []JobSnapshot{job})
	require.Len(t, updated, 1)
	assert.Equal(t, 1, counts.Cleared)
	assert.False(t, updated[0].Overdue)
}

func TestSweep_NoJobs(t *testing.T) {
	updated, counts := Sweep(now, nil)
	assert.Empty(t, updated)
	assert.Zero(t, counts.Marked+counts.Cleared)
}
