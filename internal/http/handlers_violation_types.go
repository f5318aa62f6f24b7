package httpx

import (
	"log/slog"
	"net/http"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// ViolationTypeHandlers provides HTTP handlers for the violation catalog.
type ViolationTypeHandlers struct {
	Svc    *service.ViolationTypeService
	Logger *slog.Logger
}

// List handles GET /api/violation-types.
func (h *ViolationTypeHandlers) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.Svc.List(r.Context())
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"violation_types": types})
}

// GetByID handles GET /api/violation-types/{id}.
func (h *ViolationTypeHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	vt, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, vt)
}

// Create handles POST /api/violation-types.
//
//nolint:dupl // mirrors Update
func (h *ViolationTypeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ViolationTypeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	vt, err := h.Svc.Add(r.Context(), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, vt)
}

// Update handles PUT /api/violation-types/{id}.
func (h *ViolationTypeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ViolationTypeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	vt, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, vt)
}

// Delete handles DELETE /api/violation-types/{id}.
func (h *ViolationTypeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
