package data

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobops-api/internal/data/database"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

const equipmentColumns = `id, name, eq_type, serial_number, is_active, created_at, updated_at`

// EquipmentRepo provides database operations for the equipment catalog.
type EquipmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEquipmentRepo creates a new EquipmentRepo with real time provider.
func NewEquipmentRepo(db *sql.DB) *EquipmentRepo {
	return &EquipmentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewEquipmentRepoWithTimeProvider creates a new EquipmentRepo with a custom time provider.
func NewEquipmentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EquipmentRepo {
	return &EquipmentRepo{DB: db, timeProvider: tp}
}

// Create registers a new equipment item. Duplicate serial numbers are a conflict.
func (r *EquipmentRepo) Create(ctx context.Context, req *model.CreateEquipmentRequest) (*model.Equipment, error) {
	if req == nil {
		return nil, errors.New("create equipment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	now := r.timeProvider.Now()

	var out model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.Equipment](ctx, conn, `
			INSERT INTO equipment (name, eq_type, serial_number, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING `+equipmentColumns,
			req.Name, req.Type, req.SerialNumber, active, now)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an equipment item by ID.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	var out model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.Equipment](ctx, conn,
			`SELECT `+equipmentColumns+` FROM equipment WHERE id = $1`, id)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Equipment not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List returns the catalog ordered by type then name.
func (r *EquipmentRepo) List(ctx context.Context, opts model.EquipmentListOptions) ([]*model.Equipment, error) {
	qopts := []database.ListQueryOption{
		database.WithColumns(splitColumns(equipmentColumns)...),
		database.WithOrderBy("eq_type", "ASC"),
		database.WithOrderBy("name", "ASC"),
	}
	if opts.Active != nil {
		qopts = append(qopts, database.WithCondition(database.WhereCond("is_active", database.Equal, *opts.Active)))
	}
	if opts.Type != nil && strings.TrimSpace(*opts.Type) != "" {
		qopts = append(qopts, database.WithCondition(
			database.WhereCond("eq_type", database.Equal, strings.TrimSpace(*opts.Type)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("equipment", qopts...))

	var rows []model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		rows, e = pgxutil.CollectAll[model.Equipment](ctx, conn, query, args...)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return ptrs(rows), nil
}

// Update applies a partial update to an equipment item.
func (r *EquipmentRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateEquipmentRequest,
) (*model.Equipment, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	set := newSetBuilder()
	set.addIf(req.Name != nil, "name", func() any { return strings.TrimSpace(*req.Name) })
	set.addIf(req.Type != nil, "eq_type", func() any { return strings.TrimSpace(*req.Type) })
	set.addIf(req.SerialNumber != nil, "serial_number", func() any { return strings.TrimSpace(*req.SerialNumber) })
	set.addIf(req.IsActive != nil, "is_active", func() any { return *req.IsActive })
	set.add("updated_at", r.timeProvider.Now())

	args := append(set.args, id)
	query := "UPDATE equipment SET " + set.clause() + " WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + equipmentColumns

	var out model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.Equipment](ctx, conn, query, args...)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Equipment not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete removes an equipment item. Items still referenced by a task are protected
// by the RESTRICT foreign key and surface as a foreign_key error.
func (r *EquipmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.DB, `DELETE FROM equipment WHERE id = $1`, id)
}
