package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// StudentHandlers provides HTTP handlers for the roster.
type StudentHandlers struct {
	Svc    *service.StudentService
	Logger *slog.Logger
}

// List handles GET /api/students.
func (h *StudentHandlers) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.Svc.List(r.Context())
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"students": students})
}

// GetByID handles GET /api/students/{id}.
func (h *StudentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// Create handles POST /api/students.
func (h *StudentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStudentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	st, err := h.Svc.Add(r.Context(), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, st)
}

// Update handles PUT /api/students/{id}.
func (h *StudentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStudentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	st, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// Delete handles DELETE /api/students/{id}.
func (h *StudentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/students/import.
// The body is either a JSON array of students or an XLSX workbook.
func (h *StudentHandlers) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "body_too_large", Err: err})
			return
		}
		RenderError(w, r, h.Logger, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Gagal membaca data impor."))
		return
	}

	reqs, err := decodeImport(r.Header.Get("Content-Type"), body)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}

	imported, err := h.Svc.BulkImport(r.Context(), reqs)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	if imported == nil {
		imported = []*model.Student{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"imported": len(imported),
		"skipped":  len(reqs) - len(imported),
		"students": imported,
	})
}

func decodeImport(contentType string, body []byte) ([]model.CreateStudentRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == contentTypeXLSX || strings.HasSuffix(mediaType, "octet-stream") {
		return service.ParseStudentSheet(bytes.NewReader(body))
	}
	var reqs []model.CreateStudentRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Format data impor tidak valid.")
	}
	return reqs, nil
}
