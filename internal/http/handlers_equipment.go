package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// EquipmentService is the catalog use-case surface the handlers need.
type EquipmentService interface {
	Create(ctx context.Context, caller domainauth.Principal, req *model.CreateEquipmentRequest) (*model.Equipment, error)
	GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.Equipment, error)
	List(ctx context.Context, caller domainauth.Principal, opts model.EquipmentListOptions) ([]*model.Equipment, error)
	Update(
		ctx context.Context,
		caller domainauth.Principal,
		id string,
		req model.UpdateEquipmentRequest,
	) (*model.Equipment, error)
	Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error)
}

// EquipmentHandlers provides HTTP handlers for the equipment catalog.
type EquipmentHandlers struct {
	Svc    EquipmentService
	Errors ErrorRenderer
}

// Create handles POST /api/equipment.
func (h *EquipmentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEquipmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	eq, err := h.Svc.Create(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, eq)
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	eq, err := h.Svc.GetByID(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, eq)
}

// List handles GET /api/equipment?active=&type=.
func (h *EquipmentHandlers) List(w http.ResponseWriter, r *http.Request) {
	active, err := parseBoolQuery(r, "active")
	if err != nil {
		h.Errors.Render(w, r, apperrors.ValidationField("active", err.Error()))
		return
	}
	opts := model.EquipmentListOptions{Active: active, Type: parseStringQuery(r, "type")}

	items, err := h.Svc.List(r.Context(), PrincipalFromContext(r.Context()), opts)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	if items == nil {
		items = []*model.Equipment{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// Update handles PUT /api/equipment/{id}.
func (h *EquipmentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEquipmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	eq, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, eq)
}

// Delete handles DELETE /api/equipment/{id}. Items still referenced by a ledger
// are refused with foreign_key.
func (h *EquipmentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	writeDeleted(w, r, h.Errors, deleted, err, "equipment not found")
}
