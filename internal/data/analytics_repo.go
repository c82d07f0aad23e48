package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

const (
	jobsByStatusQuery   = `SELECT status AS key, COUNT(*)::int AS count FROM jobs GROUP BY status`
	jobsByPriorityQuery = `SELECT priority AS key, COUNT(*)::int AS count FROM jobs GROUP BY priority`
	tasksByStatusQuery  = `SELECT status AS key, COUNT(*)::int AS count FROM job_tasks GROUP BY status`
	overdueJobsQuery    = `SELECT COUNT(*)::int AS count FROM jobs WHERE overdue`

	technicianLoadsQuery = `
		SELECT u.id AS user_id, u.username,
		       COUNT(j.id) FILTER (WHERE j.status IN ('PENDING', 'IN_PROGRESS'))::int AS open_jobs
		FROM users u
		LEFT JOIN jobs j ON j.assigned_to = u.id
		WHERE u.role = 'TECHNICIAN' AND u.is_active
		GROUP BY u.id, u.username
		ORDER BY open_jobs DESC, u.username`
)

// AnalyticsRepo runs the grouped counts behind the admin analytics view.
// Each method checks out its own connection so callers may run them concurrently.
type AnalyticsRepo struct {
	DB *sql.DB
}

// NewAnalyticsRepo creates a new AnalyticsRepo.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{DB: db}
}

func (r *AnalyticsRepo) JobsByStatus(ctx context.Context) ([]model.StatusCount, error) {
	return collectCounts(ctx, r.DB, jobsByStatusQuery)
}

func (r *AnalyticsRepo) JobsByPriority(ctx context.Context) ([]model.StatusCount, error) {
	return collectCounts(ctx, r.DB, jobsByPriorityQuery)
}

func (r *AnalyticsRepo) TasksByStatus(ctx context.Context) ([]model.StatusCount, error) {
	return collectCounts(ctx, r.DB, tasksByStatusQuery)
}

// OverdueJobs returns the number of jobs currently flagged by the sweep.
func (r *AnalyticsRepo) OverdueJobs(ctx context.Context) (int, error) {
	var n int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, overdueJobsQuery).Scan(&n)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return n, nil
}

// TechnicianLoads returns open-job counts for every active technician, busiest first.
func (r *AnalyticsRepo) TechnicianLoads(ctx context.Context) ([]model.TechnicianLoad, error) {
	var out []model.TechnicianLoad
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectAll[model.TechnicianLoad](ctx, conn, technicianLoadsQuery)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

func collectCounts(ctx context.Context, db *sql.DB, q string) ([]model.StatusCount, error) {
	var out []model.StatusCount
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectAll[model.StatusCount](ctx, conn, q)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
