package data

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

const (
	taskColumns = `id, job_id, title, description, "order", status, completed_at, created_at, updated_at`

	taskOrderConstraint = "job_tasks_job_id_order_key"
)

// TaskRepo provides database operations for job tasks and their ledger entries.
type TaskRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTaskRepo creates a new TaskRepo with real time provider.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTaskRepoWithTimeProvider creates a new TaskRepo with a custom time provider (useful for tests).
func NewTaskRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TaskRepo {
	return &TaskRepo{DB: db, timeProvider: tp}
}

// Create inserts the task and its ledger entries in one transaction.
func (r *TaskRepo) Create(ctx context.Context, in model.TaskInsert) (*model.TaskWithRequirements, error) {
	now := r.timeProvider.Now()
	var out model.TaskWithRequirements
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		task, err := pgxutil.CollectOne[model.JobTask](ctx, tx, `
			INSERT INTO job_tasks (job_id, title, description, "order", status, completed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+taskColumns,
			in.JobID, strings.TrimSpace(in.Title), in.Description, in.Order, in.Status, in.CompletedAt, now)
		if err != nil {
			return err
		}
		reqs, err := replaceRequirements(ctx, tx, task.ID, in.Requirements, r.timeProvider)
		if err != nil {
			return err
		}
		out = model.TaskWithRequirements{JobTask: task, Requirements: reqs}
		return nil
	}})
	if err != nil {
		return nil, mapTaskWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a task with its ledger entries.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*model.TaskWithRequirements, error) {
	var out *model.TaskWithRequirements
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = getTaskWithRequirements(ctx, conn, id)
		return e
	})
	if err != nil {
		return nil, mapTaskWriteErr(err)
	}
	return out, nil
}

// ListByJob returns the job's tasks in checklist order.
func (r *TaskRepo) ListByJob(ctx context.Context, jobID string) ([]*model.TaskWithRequirements, error) {
	var out []*model.TaskWithRequirements
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if _, err := pgxutil.CollectOne[existsRow](ctx, conn, `SELECT id FROM jobs WHERE id = $1`, jobID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("Job not found")
			}
			return err
		}
		tasks, err := pgxutil.CollectAll[model.JobTask](ctx, conn,
			`SELECT `+taskColumns+` FROM job_tasks WHERE job_id = $1 ORDER BY "order", created_at`, jobID)
		if err != nil {
			return err
		}
		out, err = attachRequirements(ctx, conn, tasks)
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Update writes the resolved fields in one transaction. When the status changes the
// completion stamp follows it in the same statement: entering COMPLETED keeps an
// existing stamp or records upd.StampAt, any other status clears it.
func (r *TaskRepo) Update(
	ctx context.Context,
	id string,
	upd model.TaskFieldUpdate,
) (*model.TaskWithRequirements, error) {
	var out *model.TaskWithRequirements
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if upd.HasColumns() {
			query, args := buildTaskUpdate(id, upd, r.timeProvider)
			if _, err := pgxutil.CollectOne[existsRow](ctx, tx, query, args...); err != nil {
				return err
			}
		} else if err := lockTask(ctx, tx, id); err != nil {
			return err
		}
		if upd.Requirements != nil {
			if _, err := replaceRequirements(ctx, tx, id, *upd.Requirements, r.timeProvider); err != nil {
				return err
			}
		}
		var e error
		out, e = getTaskWithRequirements(ctx, tx, id)
		return e
	}})
	if err != nil {
		return nil, mapTaskWriteErr(err)
	}
	return out, nil
}

func buildTaskUpdate(id string, upd model.TaskFieldUpdate, tp TimeProvider) (string, []any) {
	set := newSetBuilder()
	set.addIf(upd.Title != nil, "title", func() any { return strings.TrimSpace(*upd.Title) })
	set.addIf(upd.Description != nil, "description", func() any { return *upd.Description })
	set.addIf(upd.Order != nil, "order", func() any { return *upd.Order })
	if upd.Status != nil {
		status := set.placeholder(*upd.Status)
		stamp := set.placeholder(upd.StampAt)
		set.addRaw("status = " + status)
		set.addRaw("completed_at = CASE WHEN " + status + "::text = 'COMPLETED' THEN COALESCE(completed_at, " +
			stamp + "::timestamptz) ELSE NULL END")
	}
	set.add("updated_at", tp.Now())

	args := append(set.args, id)
	return "UPDATE job_tasks SET " + set.clause() + " WHERE id = $" + strconv.Itoa(len(args)) + " RETURNING id", args
}

// Delete removes a task; its ledger entries cascade.
func (r *TaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.DB, `DELETE FROM job_tasks WHERE id = $1`, id)
}

func getTaskWithRequirements(
	ctx context.Context,
	q pgxutil.Querier,
	id string,
) (*model.TaskWithRequirements, error) {
	task, err := pgxutil.CollectOne[model.JobTask](ctx, q, `SELECT `+taskColumns+` FROM job_tasks WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	out, err := attachRequirements(ctx, q, []model.JobTask{task})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func attachRequirements(
	ctx context.Context,
	q pgxutil.Querier,
	tasks []model.JobTask,
) ([]*model.TaskWithRequirements, error) {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	byTask, err := loadRequirements(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*model.TaskWithRequirements, len(tasks))
	for i, t := range tasks {
		reqs := byTask[t.ID]
		if reqs == nil {
			reqs = []model.TaskEquipment{}
		}
		out[i] = &model.TaskWithRequirements{JobTask: t, Requirements: reqs}
	}
	return out, nil
}

func mapTaskWriteErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("Task not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case taskOrderConstraint:
			return &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "Another task of this job already uses this order.",
				Field:   "order",
				Cause:   err,
			}
		case requirementUniqueConstraint:
			return apperrors.PreconditionFailed("Each equipment item may only be listed once per task.")
		}
	}
	return apperrors.MapDBError(err)
}
