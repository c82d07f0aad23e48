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

const jobColumns = `id, title, description, client_name, scheduled_date, status, priority,
	created_by, assigned_to, overdue, created_at, updated_at`

// JobRepo provides database operations for jobs.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo with real time provider.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a new JobRepo with a custom time provider (useful for tests).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

// Create inserts a new job. The overdue flag always starts false; only the sweep sets it.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now()
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.Job](ctx, conn, `
			INSERT INTO jobs (
				title, description, client_name, scheduled_date, status, priority,
				created_by, assigned_to, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			RETURNING `+jobColumns,
			strings.TrimSpace(req.Title),
			req.Description,
			strings.TrimSpace(req.ClientName),
			req.ScheduledDate,
			req.Status,
			req.Priority,
			req.CreatedBy,
			req.AssignedTo,
			now,
		)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.Job](ctx, conn, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Job not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves jobs matching opts, newest first.
func (r *JobRepo) List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error) {
	query, args := database.BuildListQuery(buildJobListQuery(opts))

	var rows []model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		rows, e = pgxutil.CollectAll[model.Job](ctx, conn, query, args...)
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return ptrs(rows), nil
}

func buildJobListQuery(opts model.JobListOptions) *database.ListQueryOptions {
	qopts := []database.ListQueryOption{
		database.WithColumns(splitColumns(jobColumns)...),
		database.WithOrderBy("created_at", "DESC"),
	}
	add := func(c database.Condition) { qopts = append(qopts, database.WithCondition(c)) }

	if len(opts.Statuses) > 0 {
		add(database.WhereCond("status", database.In, opts.Statuses))
	}
	if opts.AssignedTo != nil {
		add(database.WhereCond("assigned_to", database.Equal, *opts.AssignedTo))
	}
	if opts.CreatedBy != nil {
		add(database.WhereCond("created_by", database.Equal, *opts.CreatedBy))
	}
	if opts.Overdue != nil {
		add(database.WhereCond("overdue", database.Equal, *opts.Overdue))
	}
	if opts.ScheduledBefore != nil {
		add(database.WhereCond("scheduled_date", database.LessThan, *opts.ScheduledBefore))
	}
	if opts.ScheduledAfter != nil {
		add(database.WhereCond("scheduled_date", database.GreaterThanOrEqual, *opts.ScheduledAfter))
	}
	return database.NewListQueryOptions("jobs", qopts...)
}

// Update applies the non-status fields of req. Status is written only by LifecycleRepo.
func (r *JobRepo) Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error) {
	set := jobFieldSet(req)
	if set.empty() {
		return r.GetByID(ctx, id)
	}
	set.add("updated_at", r.timeProvider.Now())

	args := append(set.args, id)
	query := "UPDATE jobs SET " + set.clause() + " WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + jobColumns

	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = pgxutil.CollectOne[model.Job](ctx, conn, query, args...)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Job not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// jobFieldSet collects the non-status column assignments of a partial job update.
func jobFieldSet(req model.UpdateJobRequest) *setBuilder {
	set := newSetBuilder()
	set.addIf(req.Title != nil, "title", func() any { return strings.TrimSpace(*req.Title) })
	set.addIf(req.Description != nil, "description", func() any { return *req.Description })
	set.addIf(req.ClientName != nil, "client_name", func() any { return strings.TrimSpace(*req.ClientName) })
	set.addIf(req.Priority != nil, "priority", func() any { return *req.Priority })
	switch {
	case req.Unschedule:
		set.addRaw("scheduled_date = NULL")
	case req.ScheduledDate != nil:
		set.add("scheduled_date", *req.ScheduledDate)
	}
	switch {
	case req.Unassign:
		set.addRaw("assigned_to = NULL")
	case req.AssignedTo != nil:
		set.add("assigned_to", strings.TrimSpace(*req.AssignedTo))
	}
	return set
}

// Delete removes a job together with its tasks and their ledger entries.
func (r *JobRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.DB, `DELETE FROM jobs WHERE id = $1`, id)
}
