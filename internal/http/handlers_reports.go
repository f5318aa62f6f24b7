package httpx

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spps-sekolah/spps-api/internal/service"
)

// ReportHandlers serves spreadsheet exports.
type ReportHandlers struct {
	Svc    *service.ReportService
	Logger *slog.Logger
	Now    func() time.Time
}

// ViolationsXLSX handles GET /api/reports/violations.xlsx with the ledger filters.
// The report covers the whole filtered range; limit and offset do not apply.
// X-Report-Truncated is set when the range exceeded the report's row cap.
func (h *ReportHandlers) ViolationsXLSX(w http.ResponseWriter, r *http.Request) {
	opts, err := parseViolationFilters(r)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	opts.Limit, opts.Offset = 0, 0

	// Buffer so a render failure can still produce a JSON error.
	var buf bytes.Buffer
	stats, err := h.Svc.WriteViolationsXLSX(r.Context(), opts, &buf)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	name := fmt.Sprintf("laporan-pelanggaran-%s.xlsx", now().Format("20060102"))
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Report-Rows", strconv.Itoa(stats.Rows))
	if stats.Truncated {
		w.Header().Set("X-Report-Truncated", "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err = buf.WriteTo(w); err != nil {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(r.Context(), "write report response", "error", err)
	}
}
