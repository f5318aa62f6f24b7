package httpx

import (
	"log/slog"
	"net/http"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// PreferenceHandlers serves UI preferences.
type PreferenceHandlers struct {
	Svc    *service.PreferenceService
	Logger *slog.Logger
}

// GetSignatureNames handles GET /api/preferences/signature-names.
func (h *PreferenceHandlers) GetSignatureNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.Svc.GetSignatureNames(r.Context())
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, names)
}

// PutSignatureNames handles PUT /api/preferences/signature-names.
func (h *PreferenceHandlers) PutSignatureNames(w http.ResponseWriter, r *http.Request) {
	var req model.SignatureNames
	if !DecodeJSON(w, r, &req) {
		return
	}
	names, err := h.Svc.SaveSignatureNames(r.Context(), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, names)
}
