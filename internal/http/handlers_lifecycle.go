package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
)

// LifecycleService applies status transitions to tasks and jobs.
type LifecycleService interface {
	TransitionTaskStatus(ctx context.Context, taskID, status string, caller domainauth.Principal) (*model.TaskTransition, error)
	TransitionJobStatus(ctx context.Context, jobID, status string, caller domainauth.Principal) (*model.JobTransition, error)
}

// LifecycleHandlers exposes the status endpoints of tasks and jobs.
type LifecycleHandlers struct {
	Svc    LifecycleService
	Errors ErrorRenderer
}

type statusRequest struct {
	Status string `json:"status"`
}

type taskStatusView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Status      model.TaskStatus `json:"status"`
	CompletedAt *time.Time       `json:"completed_at"`
}

type taskStatusResponse struct {
	Message string         `json:"message"`
	Task    taskStatusView `json:"task"`
}

type jobStatusView struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Status     model.JobStatus `json:"status"`
	ClientName string          `json:"client_name"`
}

type jobStatusResponse struct {
	Message string        `json:"message"`
	Job     jobStatusView `json:"job"`
}

// TaskStatus handles PATCH /api/tasks/{id}/status.
func (h *LifecycleHandlers) TaskStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tr, err := h.Svc.TransitionTaskStatus(r.Context(), r.PathValue("id"), req.Status, PrincipalFromContext(r.Context()))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, taskStatusResponse{
		Message: fmt.Sprintf("Task status updated from %s to %s", tr.Previous, tr.Current),
		Task: taskStatusView{
			ID:          tr.TaskID,
			Title:       tr.Title,
			Status:      tr.Current,
			CompletedAt: tr.CompletedAt,
		},
	})
}

// JobStatus handles PATCH /api/jobs/{id}/status. Completing a job with open tasks
// answers 409 with the blocking tasks listed.
func (h *LifecycleHandlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tr, err := h.Svc.TransitionJobStatus(r.Context(), r.PathValue("id"), req.Status, PrincipalFromContext(r.Context()))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobStatusResponse{
		Message: fmt.Sprintf("Job status updated from %s to %s", tr.Previous, tr.Current),
		Job: jobStatusView{
			ID:         tr.JobID,
			Title:      tr.Title,
			Status:     tr.Current,
			ClientName: tr.ClientName,
		},
	})
}
