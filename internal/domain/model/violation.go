package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxViolationNotesLen = 2000
	maxViolationPoints   = 1000
)

// Violation is one ledger entry. StudentID and ViolationTypeID are not enforced references.
type Violation struct {
	ID              string    `json:"id"                    db:"id"`
	StudentID       string    `json:"student_id"            db:"student_id"`
	ViolationTypeID string    `json:"violation_type_id"     db:"violation_type_id"`
	Date            time.Time `json:"date"                  db:"occurred_at"`
	Points          int       `json:"points"                db:"points"`
	Notes           *string   `json:"notes,omitempty"       db:"notes"`
	RecordedBy      *string   `json:"recorded_by,omitempty" db:"recorded_by"`
	CreatedAt       time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"            db:"updated_at"`
}

// ViolationListOptions controls filtering and paging of the ledger.
// Results are ordered by date descending. From is inclusive and To is exclusive.
type ViolationListOptions struct {
	StudentID       *string
	ViolationTypeID *string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// CreateViolationRequest represents parameters to record a Violation.
type CreateViolationRequest struct {
	StudentID       string     `json:"student_id"`
	ViolationTypeID string     `json:"violation_type_id"`
	Date            *time.Time `json:"date,omitempty"`
	Points          int        `json:"points"`
	Notes           *string    `json:"notes,omitempty"`
	RecordedBy      *string    `json:"recorded_by,omitempty"`
}

// Validate trims and validates CreateViolationRequest in place.
func (r *CreateViolationRequest) Validate() error {
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.ViolationTypeID = strings.TrimSpace(r.ViolationTypeID)
	if r.StudentID == "" {
		return errors.New("student_id wajib diisi")
	}
	if r.ViolationTypeID == "" {
		return errors.New("violation_type_id wajib diisi")
	}
	if !isUUID(r.StudentID) || !isUUID(r.ViolationTypeID) {
		return errors.New("referensi siswa atau jenis pelanggaran tidak valid")
	}
	if err := validatePoints(r.Points); err != nil {
		return err
	}
	return validateNotes(r.Notes)
}

// UpdateViolationRequest represents a partial update of a Violation.
type UpdateViolationRequest struct {
	StudentID       *string    `json:"student_id,omitempty"`
	ViolationTypeID *string    `json:"violation_type_id,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Points          *int       `json:"points,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateViolationRequest.
func (r *UpdateViolationRequest) HasUpdates() bool {
	return r.StudentID != nil || r.ViolationTypeID != nil || r.Date != nil || r.Points != nil || r.Notes != nil
}

// Validate validates UpdateViolationRequest.
func (r *UpdateViolationRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("minimal satu kolom harus diubah")
	}
	if r.StudentID != nil && !isUUID(strings.TrimSpace(*r.StudentID)) {
		return errors.New("student_id tidak valid")
	}
	if r.ViolationTypeID != nil && !isUUID(strings.TrimSpace(*r.ViolationTypeID)) {
		return errors.New("violation_type_id tidak valid")
	}
	if r.Points != nil {
		if err := validatePoints(*r.Points); err != nil {
			return err
		}
	}
	return validateNotes(r.Notes)
}

func validatePoints(p int) error {
	if p < 0 || p > maxViolationPoints {
		return errors.New("poin harus antara 0 dan 1000")
	}
	return nil
}

func validateNotes(n *string) error {
	if n != nil && utf8.RuneCountInString(*n) > maxViolationNotesLen {
		return errors.New("catatan maksimal 2000 karakter")
	}
	return nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
