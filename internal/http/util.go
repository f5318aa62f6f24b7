package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParseLimitOffset parses common pagination params and clamps to sane bounds.
// - defLimit: default limit when not specified
// - maxLimit: maximum allowed limit (values > maxLimit are clamped to maxLimit).
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}

// parseViolationFilters reads student_id, violation_type_id, from, to, limit and offset.
// from and to accept RFC 3339 timestamps or YYYY-MM-DD dates; a date-only "to" includes that whole day.
func parseViolationFilters(r *http.Request) (model.ViolationListOptions, error) {
	q := r.URL.Query()
	opts := model.ViolationListOptions{}
	opts.Limit, opts.Offset = ParseLimitOffset(r, defaultViolationLimit, maxViolationLimit)

	if v := strings.TrimSpace(q.Get("student_id")); v != "" {
		opts.StudentID = &v
	}
	if v := strings.TrimSpace(q.Get("violation_type_id")); v != "" {
		opts.ViolationTypeID = &v
	}
	if v := q.Get("from"); v != "" {
		t, _, err := parseTimeParam(v)
		if err != nil {
			return opts, apperrors.ValidationField("from", "Format tanggal 'from' tidak valid.")
		}
		opts.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, dateOnly, err := parseTimeParam(v)
		if err != nil {
			return opts, apperrors.ValidationField("to", "Format tanggal 'to' tidak valid.")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		opts.To = &t
	}
	return opts, nil
}

func parseTimeParam(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	return t, true, err
}
