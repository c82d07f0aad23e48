package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobops-api/internal/data/database"
	"github.com/target/jobops-api/internal/data/pgxutil"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

const userColumns = `id, username, email, first_name, last_name, role, phone, is_active, created_at, updated_at`

// UserRepo provides database operations for users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.User](ctx, conn, `
			INSERT INTO users (username, email, first_name, last_name, role, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+userColumns,
			req.Username, strings.TrimSpace(req.Email), req.FirstName, req.LastName, req.Role, req.Phone, now)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// UpsertByUsername inserts the user or refreshes email and names of the existing row.
func (r *UserRepo) UpsertByUsername(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("upsert user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.User](ctx, conn, `
			INSERT INTO users (username, email, first_name, last_name, role, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			ON CONFLICT (username) DO UPDATE SET
				email = EXCLUDED.email,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				updated_at = EXCLUDED.updated_at
			RETURNING `+userColumns,
			req.Username, strings.TrimSpace(req.Email), req.FirstName, req.LastName, req.Role, req.Phone, now)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.User](ctx, conn, q, arg)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves users ordered by username.
func (r *UserRepo) List(ctx context.Context, opts model.UserListOptions) ([]*model.User, error) {
	qopts := []database.ListQueryOption{
		database.WithColumns(splitColumns(userColumns)...),
		database.WithOrderBy("username", "ASC"),
	}
	if opts.Role != nil {
		qopts = append(qopts, database.WithCondition(database.WhereCond("role", database.Equal, *opts.Role)))
	}
	if opts.Active != nil {
		qopts = append(qopts, database.WithCondition(database.WhereCond("is_active", database.Equal, *opts.Active)))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("users", qopts...))

	var rows []model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		rows, e = pgxutil.CollectAll[model.User](ctx, conn, query, args...)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", apperrors.MapDBError(err))
	}
	return ptrs(rows), nil
}

// Update applies a partial update to a user.
func (r *UserRepo) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	set := newSetBuilder()
	set.addIf(req.Email != nil, "email", func() any { return strings.TrimSpace(*req.Email) })
	set.addIf(req.FirstName != nil, "first_name", func() any { return *req.FirstName })
	set.addIf(req.LastName != nil, "last_name", func() any { return *req.LastName })
	set.addIf(req.Role != nil, "role", func() any { return *req.Role })
	set.addIf(req.Phone != nil, "phone", func() any { return *req.Phone })
	set.addIf(req.IsActive != nil, "is_active", func() any { return *req.IsActive })
	set.add("updated_at", r.timeProvider.Now())

	args := append(set.args, id)
	query := "UPDATE users SET " + set.clause() + " WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + userColumns

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.User](ctx, conn, query, args...)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a user. Assigned jobs are unassigned; a user who created jobs cannot be deleted.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.DB, `DELETE FROM users WHERE id = $1`, id)
}
