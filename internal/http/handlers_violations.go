package httpx

import (
	"log/slog"
	"net/http"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// ViolationHandlers provides HTTP handlers for the violation ledger.
type ViolationHandlers struct {
	Svc    *service.ViolationService
	Logger *slog.Logger
}

// List handles GET /api/violations?student_id=&violation_type_id=&from=&to=&limit=&offset=.
func (h *ViolationHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts, err := parseViolationFilters(r)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	list, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"violations": list,
		"limit":      opts.Limit,
		"offset":     opts.Offset,
	})
}

// GetByID handles GET /api/violations/{id}.
func (h *ViolationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

// Create handles POST /api/violations. RecordedBy is always the caller.
func (h *ViolationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateViolationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.RecordedBy = nil
	if user, ok := GetUserFromContext(r.Context()); ok {
		id := user.ID
		req.RecordedBy = &id
	}
	v, err := h.Svc.Add(r.Context(), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, v)
}

// Update handles PUT /api/violations/{id}.
func (h *ViolationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateViolationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	v, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

// Delete handles DELETE /api/violations/{id}.
func (h *ViolationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
