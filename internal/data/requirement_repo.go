package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

const (
	requirementUniqueConstraint = "job_task_equipment_task_id_equipment_id_key"

	requirementSelect = `
		SELECT e.id, e.task_id, e.equipment_id, e.quantity, e.notes, e.created_at,
		       q.name AS equipment_name, q.eq_type AS equipment_type
		FROM job_task_equipment e
		JOIN equipment q ON q.id = e.equipment_id`

	requirementInsert = `
		WITH ins AS (
			INSERT INTO job_task_equipment (task_id, equipment_id, quantity, notes, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, task_id, equipment_id, quantity, notes, created_at
		)
		SELECT ins.id, ins.task_id, ins.equipment_id, ins.quantity, ins.notes, ins.created_at,
		       q.name AS equipment_name, q.eq_type AS equipment_type
		FROM ins JOIN equipment q ON q.id = ins.equipment_id`
)

// RequirementRepo provides database operations for the Task Equipment Ledger.
type RequirementRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRequirementRepo creates a new RequirementRepo with real time provider.
func NewRequirementRepo(db *sql.DB) *RequirementRepo {
	return &RequirementRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewRequirementRepoWithTimeProvider creates a new RequirementRepo with a custom time provider.
func NewRequirementRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RequirementRepo {
	return &RequirementRepo{DB: db, timeProvider: tp}
}

// Set replaces the task's ledger with reqs. The task row is locked for the duration
// so concurrent replacements serialize and never interleave their entries.
func (r *RequirementRepo) Set(
	ctx context.Context,
	taskID string,
	reqs []model.RequirementInput,
) ([]model.TaskEquipment, error) {
	out := []model.TaskEquipment{}
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if err := lockTask(ctx, tx, taskID); err != nil {
			return err
		}
		var e error
		out, e = replaceRequirements(ctx, tx, taskID, reqs, r.timeProvider)
		return e
	}})
	if err != nil {
		return nil, mapRequirementErr(err)
	}
	return out, nil
}

// Add inserts one ledger entry. An existing (task, equipment) pair is a precondition failure;
// quantities are never merged.
func (r *RequirementRepo) Add(
	ctx context.Context,
	taskID string,
	req model.RequirementInput,
) (*model.TaskEquipment, error) {
	var out model.TaskEquipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.TaskEquipment](ctx, conn, requirementInsert,
			taskID, req.EquipmentID, req.QuantityValue(), req.Notes, r.timeProvider.Now())
		return e
	})
	if err != nil {
		return nil, mapRequirementErr(err)
	}
	return &out, nil
}

// List returns the task's ledger entries joined with catalog name and type.
func (r *RequirementRepo) List(ctx context.Context, taskID string) ([]model.TaskEquipment, error) {
	var out []model.TaskEquipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if err := taskExists(ctx, conn, taskID); err != nil {
			return err
		}
		byTask, err := loadRequirements(ctx, conn, []string{taskID})
		if err != nil {
			return err
		}
		out = byTask[taskID]
		return nil
	})
	if err != nil {
		return nil, mapRequirementErr(err)
	}
	if out == nil {
		out = []model.TaskEquipment{}
	}
	return out, nil
}

// Remove deletes the entry for (taskID, equipmentID).
func (r *RequirementRepo) Remove(ctx context.Context, taskID, equipmentID string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM job_task_equipment WHERE task_id = $1 AND equipment_id = $2`, taskID, equipmentID)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}

// replaceRequirements deletes every entry of taskID and inserts reqs using tx.
func replaceRequirements(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	reqs []model.RequirementInput,
	tp TimeProvider,
) ([]model.TaskEquipment, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM job_task_equipment WHERE task_id = $1`, taskID); err != nil {
		return nil, err
	}
	now := tp.Now()
	out := make([]model.TaskEquipment, 0, len(reqs))
	for _, req := range reqs {
		row, err := pgxutil.CollectOne[model.TaskEquipment](ctx, tx, requirementInsert,
			taskID, req.EquipmentID, req.QuantityValue(), req.Notes, now)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// loadRequirements returns ledger entries grouped by task id.
func loadRequirements(
	ctx context.Context,
	q pgxutil.Querier,
	taskIDs []string,
) (map[string][]model.TaskEquipment, error) {
	out := make(map[string][]model.TaskEquipment, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	rows, err := pgxutil.CollectAll[model.TaskEquipment](ctx, q,
		requirementSelect+` WHERE e.task_id = ANY($1) ORDER BY q.eq_type, q.name`, taskIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TaskID] = append(out[row.TaskID], row)
	}
	return out, nil
}

type existsRow struct {
	ID string `db:"id"`
}

func lockTask(ctx context.Context, tx pgx.Tx, taskID string) error {
	_, err := pgxutil.CollectOne[existsRow](ctx, tx, `SELECT id FROM job_tasks WHERE id = $1 FOR UPDATE`, taskID)
	return err
}

func taskExists(ctx context.Context, q pgxutil.Querier, taskID string) error {
	_, err := pgxutil.CollectOne[existsRow](ctx, q, `SELECT id FROM job_tasks WHERE id = $1`, taskID)
	return err
}

// mapRequirementErr maps ledger write failures: a missing task is not_found and a
// duplicate (task, equipment) pair is a precondition failure rather than a conflict.
func mapRequirementErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("Task not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == requirementUniqueConstraint {
		return apperrors.PreconditionFailed("This equipment is already required by the task. Update the existing entry instead.")
	}
	return apperrors.MapDBError(err)
}
