package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobops-api/internal/core"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

const (
	// Both transitions lock the job before any task so a task change and a job
	// completion gate serialize instead of deadlocking.
	shareLockTaskJob = `
		SELECT j.id, j.assigned_to
		FROM jobs j
		WHERE j.id = (SELECT job_id FROM job_tasks WHERE id = $1)
		FOR SHARE`

	lockTaskForTransition = `SELECT ` + taskColumns + ` FROM job_tasks WHERE id = $1 AND job_id = $2 FOR UPDATE`

	lockJobForTransition = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 FOR UPDATE`

	shareLockJobTasks = `SELECT ` + taskColumns + ` FROM job_tasks WHERE job_id = $1 ORDER BY "order" FOR SHARE`
)

type taskJobRow struct {
	ID         string  `db:"id"`
	AssignedTo *string `db:"assigned_to"`
}

// LifecycleRepo runs status transitions as locked read-decide-write transactions.
type LifecycleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ core.LifecycleRepository = (*LifecycleRepo)(nil)

// NewLifecycleRepo creates a new LifecycleRepo with real time provider.
func NewLifecycleRepo(db *sql.DB) *LifecycleRepo {
	return &LifecycleRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewLifecycleRepoWithTimeProvider creates a new LifecycleRepo with a custom time provider.
func NewLifecycleRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *LifecycleRepo {
	return &LifecycleRepo{DB: db, timeProvider: tp}
}

// TransitionTask share-locks the parent job, then locks the task, asks decide for the transition and
// persists the new status and completion stamp. Errors from decide roll back unchanged.
func (r *LifecycleRepo) TransitionTask(
	ctx context.Context,
	taskID string,
	decide core.TaskDecision,
) (*model.TaskTransition, error) {
	var out model.TaskTransition
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		job, err := pgxutil.CollectOne[taskJobRow](ctx, tx, shareLockTaskJob, taskID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("Task not found")
			}
			return err
		}
		task, err := pgxutil.CollectOne[model.JobTask](ctx, tx, lockTaskForTransition, taskID, job.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("Task not found")
			}
			return err
		}

		tr, err := decide(model.LockedTask{Task: task, JobAssignedTo: job.AssignedTo})
		if err != nil {
			return err
		}

		if _, err = tx.Exec(ctx,
			`UPDATE job_tasks SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4`,
			tr.Current, tr.CompletedAt, r.timeProvider.Now(), taskID,
		); err != nil {
			return err
		}
		out = tr
		return nil
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// TransitionJob locks the job row FOR UPDATE and, when requested, its tasks FOR SHARE,
// asks Decide for the transition and persists the new status together with any Fields.
func (r *LifecycleRepo) TransitionJob(
	ctx context.Context,
	params core.JobTransitionParams,
) (*model.JobTransition, error) {
	if params.Decide == nil {
		return nil, errors.New("job transition decision is required")
	}

	var out model.JobTransition
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		job, err := pgxutil.CollectOne[model.Job](ctx, tx, lockJobForTransition, params.JobID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("Job not found")
			}
			return err
		}

		locked := model.LockedJob{Job: job}
		if params.LockTasks {
			if locked.Tasks, err = pgxutil.CollectAll[model.JobTask](ctx, tx, shareLockJobTasks, params.JobID); err != nil {
				return err
			}
		}

		tr, err := params.Decide(locked)
		if err != nil {
			return err
		}

		set := newSetBuilder()
		if params.Fields != nil {
			set = jobFieldSet(*params.Fields)
		}
		set.add("status", tr.Current)
		set.add("updated_at", r.timeProvider.Now())
		query := "UPDATE jobs SET " + set.clause() + " WHERE id = " + set.placeholder(params.JobID)
		if _, err = tx.Exec(ctx, query, set.args...); err != nil {
			return err
		}
		out = tr
		return nil
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
