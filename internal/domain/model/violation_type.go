package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxViolationTypeNameLen = 150

// ViolationType is a catalog entry. Name is unique case-insensitively.
type ViolationType struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ViolationTypeKey folds a name into the uniqueness key.
func ViolationTypeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ViolationTypeRequest carries the single editable field of a ViolationType.
// It serves both create and update.
type ViolationTypeRequest struct {
	Name string `json:"name"`
}

// Validate trims and validates the request in place.
func (r *ViolationTypeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("nama jenis pelanggaran wajib diisi")
	}
	if utf8.RuneCountInString(r.Name) > maxViolationTypeNameLen {
		return errors.New("nama jenis pelanggaran maksimal 150 karakter")
	}
	return nil
}
