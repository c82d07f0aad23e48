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
	technicianJobsQuery = `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE assigned_to = $1 AND status <> 'COMPLETED'
		ORDER BY scheduled_date ASC NULLS LAST, created_at DESC`

	jobTasksForJobsQuery = `
		SELECT ` + taskColumns + `
		FROM job_tasks
		WHERE job_id = ANY($1)
		ORDER BY job_id, "order"`
)

// DashboardRepo loads technician dashboard source rows.
type DashboardRepo struct {
	DB *sql.DB
}

// NewDashboardRepo creates a new DashboardRepo.
func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{DB: db}
}

// TechnicianJobs returns the technician's non-COMPLETED jobs with all tasks and ledger entries.
// The three reads share one REPEATABLE READ snapshot so the view is consistent.
func (r *DashboardRepo) TechnicianJobs(ctx context.Context, technicianID string) ([]model.TechnicianJob, error) {
	var out []model.TechnicianJob
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		Fn: func(tx pgx.Tx) error {
			jobs, err := pgxutil.CollectAll[model.Job](ctx, tx, technicianJobsQuery, technicianID)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				return nil
			}

			jobIDs := make([]string, len(jobs))
			for i, j := range jobs {
				jobIDs[i] = j.ID
			}
			tasks, err := pgxutil.CollectAll[model.JobTask](ctx, tx, jobTasksForJobsQuery, jobIDs)
			if err != nil {
				return err
			}
			withReqs, err := attachRequirements(ctx, tx, tasks)
			if err != nil {
				return err
			}

			byJob := make(map[string][]model.TaskWithRequirements, len(jobs))
			for _, t := range withReqs {
				byJob[t.JobID] = append(byJob[t.JobID], *t)
			}
			out = make([]model.TechnicianJob, len(jobs))
			for i, j := range jobs {
				out[i] = model.TechnicianJob{Job: j, Tasks: byJob[j.ID]}
			}
			return nil
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
