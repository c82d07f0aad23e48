package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
)

// TaskService is the task use-case surface the handlers need.
type TaskService interface {
	Create(ctx context.Context, caller domainauth.Principal, req *model.CreateTaskRequest) (*model.TaskWithRequirements, error)
	GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.TaskWithRequirements, error)
	ListByJob(ctx context.Context, caller domainauth.Principal, jobID string) ([]*model.TaskWithRequirements, error)
	Update(
		ctx context.Context,
		caller domainauth.Principal,
		id string,
		req model.UpdateTaskRequest,
	) (*model.TaskWithRequirements, error)
	Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error)
}

// RequirementService is the equipment ledger surface the handlers need.
type RequirementService interface {
	Set(ctx context.Context, caller domainauth.Principal, taskID string, in []model.RequirementInput) ([]model.TaskEquipment, error)
	Add(ctx context.Context, caller domainauth.Principal, taskID string, in model.RequirementInput) (*model.TaskEquipment, error)
	List(ctx context.Context, caller domainauth.Principal, taskID string) ([]model.TaskEquipment, error)
	Remove(ctx context.Context, caller domainauth.Principal, taskID, equipmentID string) (bool, error)
}

// TaskHandlers provides HTTP handlers for tasks and their equipment ledgers.
type TaskHandlers struct {
	Svc          TaskService
	Requirements RequirementService
	Errors       ErrorRenderer
}

// Create handles POST /api/jobs/{id}/tasks.
func (h *TaskHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.JobID = r.PathValue("id")

	task, err := h.Svc.Create(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, task)
}

// ListByJob handles GET /api/jobs/{id}/tasks.
func (h *TaskHandlers) ListByJob(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Svc.ListByJob(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*model.TaskWithRequirements{}
	}
	WriteJSON(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandlers) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.Svc.GetByID(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateTaskRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	task, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	writeDeleted(w, r, h.Errors, deleted, err, "task not found")
}

// SetEquipment handles PUT /api/tasks/{id}/equipment, replacing the whole ledger.
func (h *TaskHandlers) SetEquipment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EquipmentRequirements []model.RequirementInput `json:"equipment_requirements"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}

	entries, err := h.Requirements.Set(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"),
		body.EquipmentRequirements)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.TaskEquipment{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

// AddEquipment handles POST /api/tasks/{id}/equipment.
func (h *TaskHandlers) AddEquipment(w http.ResponseWriter, r *http.Request) {
	var in model.RequirementInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	entry, err := h.Requirements.Add(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// ListEquipment handles GET /api/tasks/{id}/equipment.
func (h *TaskHandlers) ListEquipment(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Requirements.List(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.TaskEquipment{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

// RemoveEquipment handles DELETE /api/tasks/{id}/equipment/{equipment_id}.
func (h *TaskHandlers) RemoveEquipment(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Requirements.Remove(r.Context(), PrincipalFromContext(r.Context()),
		r.PathValue("id"), r.PathValue("equipment_id"))
	writeDeleted(w, r, h.Errors, removed, err, "equipment requirement not found")
}
