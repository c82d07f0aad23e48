package lifecycle

import (
	"time"

	"github.com/target/jobops-api/internal/domain/model"
)

// JobSnapshot is the slice of a Job the overdue sweep reads and writes.
type JobSnapshot struct {
	ID            string
	ScheduledDate *time.Time
	Status        model.JobStatus
	Overdue       bool
}

// SweepCounts reports how many jobs each sweep pass changed.
type SweepCounts struct {
	Marked  int
	Cleared int
}

// IsOverdue reports whether a job scheduled at scheduled with the given status is overdue at now:
// scheduled strictly before now and still PENDING or IN_PROGRESS.
func IsOverdue(now time.Time, scheduled *time.Time, status model.JobStatus) bool {
	return scheduled != nil && scheduled.Before(now) && status.IsOpen()
}

// Sweep recomputes the overdue flag for every job at now.
// Pass one marks open past-due jobs not yet flagged; pass two clears flagged
// jobs that no longer qualify. The passes select disjoint sets, so the result
// does not depend on their order. Only changed snapshots are returned.
func Sweep(now time.Time, jobs []JobSnapshot) ([]JobSnapshot, SweepCounts) {
	var (
		updated []JobSnapshot
		counts  SweepCounts
	)
	for _, j := range jobs {
		due := IsOverdue(now, j.ScheduledDate, j.Status)
		switch {
		case due && !j.Overdue:
			j.Overdue = true
			counts.Marked++
			updated = append(updated, j)
		case !due && j.Overdue:
			j.Overdue = false
			counts.Cleared++
			updated = append(updated, j)
		}
	}
	return updated, counts
}
