package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// JobService is the job use-case surface the handlers need.
type JobService interface {
	Create(ctx context.Context, caller domainauth.Principal, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.Job, error)
	List(ctx context.Context, caller domainauth.Principal, opts model.JobListOptions) ([]*model.Job, error)
	Update(ctx context.Context, caller domainauth.Principal, id string, req model.UpdateJobRequest) (*model.Job, error)
	Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error)
}

// JobHandlers provides HTTP handlers for job CRUD.
type JobHandlers struct {
	Svc    JobService
	Errors ErrorRenderer
}

// Create handles POST /api/jobs.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Create(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

// Get handles GET /api/jobs/{id}.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.Svc.GetByID(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/jobs with optional status, assigned_to, created_by,
// overdue, scheduled_after and scheduled_before filters.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts, err := jobListOptions(r)
	if err != nil {
		h.Errors.Render(w, r, apperrors.Validation(err.Error()))
		return
	}

	jobs, err := h.Svc.List(r.Context(), PrincipalFromContext(r.Context()), opts)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}

func jobListOptions(r *http.Request) (model.JobListOptions, error) {
	var opts model.JobListOptions
	for _, raw := range splitCSV(r.URL.Query().Get("status")) {
		var st model.JobStatus
		if err := st.UnmarshalText([]byte(raw)); err != nil {
			return opts, err
		}
		opts.Statuses = append(opts.Statuses, st)
	}
	opts.AssignedTo = parseStringQuery(r, "assigned_to")
	opts.CreatedBy = parseStringQuery(r, "created_by")

	var err error
	if opts.Overdue, err = parseBoolQuery(r, "overdue"); err != nil {
		return opts, err
	}
	if opts.ScheduledAfter, err = parseTimeQuery(r, "scheduled_after"); err != nil {
		return opts, err
	}
	if opts.ScheduledBefore, err = parseTimeQuery(r, "scheduled_before"); err != nil {
		return opts, err
	}
	return opts, nil
}

// Update handles PUT /api/jobs/{id}.
func (h *JobHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/{id}. Tasks and their ledgers go with the job.
func (h *JobHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	writeDeleted(w, r, h.Errors, deleted, err, "job not found")
}

// writeDeleted renders the outcome of a delete: 204, 404 or the error.
func writeDeleted(w http.ResponseWriter, r *http.Request, er ErrorRenderer, deleted bool, err error, missing string) {
	switch {
	case err != nil:
		er.Render(w, r, err)
	case !deleted:
		er.Render(w, r, apperrors.NotFound(missing))
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
