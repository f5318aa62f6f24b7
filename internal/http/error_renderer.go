package httpx

import (
	"log/slog"
	"net/http"

	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
	obserrors "github.com/spps-sekolah/spps-api/internal/observability/errors"
)

// statusByCode maps application error codes to HTTP statuses.
var statusByCode = map[apperrors.ErrorCode]int{
	apperrors.ErrCodeValidation:         http.StatusBadRequest,
	apperrors.ErrCodeCredentialRejected: http.StatusUnauthorized,
	apperrors.ErrCodeForbidden:          http.StatusForbidden,
	apperrors.ErrCodeNotFound:           http.StatusNotFound,
	apperrors.ErrCodeConflict:           http.StatusConflict,
	apperrors.ErrCodeRateLimited:        http.StatusTooManyRequests,
	apperrors.ErrCodeUnavailable:        http.StatusServiceUnavailable,
	apperrors.ErrCodeInternal:           http.StatusInternalServerError,
	apperrors.ErrCodeTimeout:            http.StatusGatewayTimeout,
	apperrors.ErrCodeCanceled:           499,
}

// StatusForError returns the HTTP status for err. Errors without a code are internal.
func StatusForError(err error) int {
	if status, ok := statusByCode[apperrors.GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RenderError writes err as a JSON error response. Server-side failures are logged with their cause.
func RenderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusForError(err)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
		// Never leak an unclassified cause to the client.
		err = apperrors.Wrap(err, apperrors.ErrCodeInternal, "Terjadi kesalahan pada server.")
	}
	if status >= http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error_type", obserrors.Classify(err), "error", err)
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: string(code), Err: err})
}
