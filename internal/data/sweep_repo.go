package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/lifecycle"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// The predicates mirror lifecycle.IsOverdue: scheduled strictly before now and still open.
// The two passes select disjoint rows, so their order does not matter.
const (
	markOverdueQuery = `
		UPDATE jobs SET overdue = TRUE
		WHERE overdue = FALSE
		  AND scheduled_date IS NOT NULL
		  AND scheduled_date < $1
		  AND status IN ('PENDING', 'IN_PROGRESS')`

	clearOverdueQuery = `
		UPDATE jobs SET overdue = FALSE
		WHERE overdue = TRUE
		  AND NOT (
		      scheduled_date IS NOT NULL
		      AND scheduled_date < $1
		      AND status IN ('PENDING', 'IN_PROGRESS')
		  )`

	sweepSnapshotQuery = `
		SELECT id, scheduled_date, status, overdue
		FROM jobs
		WHERE scheduled_date IS NOT NULL OR overdue`
)

// SweepRepo persists the overdue sweep passes.
type SweepRepo struct {
	DB *sql.DB
}

// NewSweepRepo creates a new SweepRepo.
func NewSweepRepo(db *sql.DB) *SweepRepo {
	return &SweepRepo{DB: db}
}

// MarkOverdue flags every open past-due job that is not yet flagged and returns the count.
// updated_at is left untouched; the flag is derived state.
func (r *SweepRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	return r.exec(ctx, markOverdueQuery, now)
}

// ClearOverdue unflags every flagged job that no longer qualifies and returns the count.
func (r *SweepRepo) ClearOverdue(ctx context.Context, now time.Time) (int64, error) {
	return r.exec(ctx, clearOverdueQuery, now)
}

func (r *SweepRepo) exec(ctx context.Context, q string, now time.Time) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, q, now)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return affected, nil
}

type snapshotRow struct {
	ID            string          `db:"id"`
	ScheduledDate *time.Time      `db:"scheduled_date"`
	Status        model.JobStatus `db:"status"`
	Overdue       bool            `db:"overdue"`
}

// Snapshots returns every job the sweep could change: scheduled jobs and flagged jobs.
func (r *SweepRepo) Snapshots(ctx context.Context) ([]lifecycle.JobSnapshot, error) {
	var rows []snapshotRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		rows, e = pgxutil.CollectAll[snapshotRow](ctx, conn, sweepSnapshotQuery)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	out := make([]lifecycle.JobSnapshot, len(rows))
	for i, row := range rows {
		out[i] = lifecycle.JobSnapshot(row)
	}
	return out, nil
}
