//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxStudentNameLen  = 150
	maxClassNameLen    = 32
	maxStudentFieldLen = 64
)

// Gender is the recorded sex of a student: "L" (laki-laki) or "P" (perempuan).
type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

// Valid reports whether the gender value is supported.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Student is one roster entry. (Name, ClassName) is unique case-insensitively.
type Student struct {
	ID            string    `json:"id"                       db:"id"`
	Name          string    `json:"name"                     db:"name"`
	ClassName     string    `json:"class_name"               db:"class_name"`
	NIS           *string   `json:"nis,omitempty"            db:"nis"`
	Gender        *Gender   `json:"gender,omitempty"         db:"gender"`
	ParentContact *string   `json:"parent_contact,omitempty" db:"parent_contact"`
	CreatedAt     time.Time `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"               db:"updated_at"`
}

// Key returns the uniqueness key of the student.
func (s *Student) Key() string { return StudentKey(s.Name, s.ClassName) }

// StudentKey folds (name, className) into the case-insensitive uniqueness key.
func StudentKey(name, className string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.ToLower(strings.TrimSpace(className))
}

// CreateStudentRequest represents parameters to create a Student.
type CreateStudentRequest struct {
	Name          string  `json:"name"`
	ClassName     string  `json:"class_name"`
	NIS           *string `json:"nis,omitempty"`
	Gender        *Gender `json:"gender,omitempty"`
	ParentContact *string `json:"parent_contact,omitempty"`
}

// Key returns the uniqueness key of the requested student.
func (r *CreateStudentRequest) Key() string { return StudentKey(r.Name, r.ClassName) }

// Validate trims and validates CreateStudentRequest in place.
func (r *CreateStudentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ClassName = strings.TrimSpace(r.ClassName)
	if err := validateStudentName(r.Name); err != nil {
		return err
	}
	if err := validateClassName(r.ClassName); err != nil {
		return err
	}
	var err error
	if r.NIS, err = normalizeOptional(r.NIS, "nis"); err != nil {
		return err
	}
	if r.ParentContact, err = normalizeOptional(r.ParentContact, "parent_contact"); err != nil {
		return err
	}
	return validateGender(r.Gender)
}

// UpdateStudentRequest represents a partial update of a Student.
type UpdateStudentRequest struct {
	Name          *string `json:"name,omitempty"`
	ClassName     *string `json:"class_name,omitempty"`
	NIS           *string `json:"nis,omitempty"`
	Gender        *Gender `json:"gender,omitempty"`
	ParentContact *string `json:"parent_contact,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateStudentRequest.
func (r *UpdateStudentRequest) HasUpdates() bool {
	return r.Name != nil || r.ClassName != nil || r.NIS != nil || r.Gender != nil || r.ParentContact != nil
}

// Validate trims and validates UpdateStudentRequest in place.
func (r *UpdateStudentRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("minimal satu kolom harus diubah")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if err := validateStudentName(n); err != nil {
			return err
		}
		r.Name = &n
	}
	if r.ClassName != nil {
		c := strings.TrimSpace(*r.ClassName)
		if err := validateClassName(c); err != nil {
			return err
		}
		r.ClassName = &c
	}
	if r.NIS != nil && utf8.RuneCountInString(strings.TrimSpace(*r.NIS)) > maxStudentFieldLen {
		return errors.New("nis terlalu panjang")
	}
	if r.ParentContact != nil && utf8.RuneCountInString(strings.TrimSpace(*r.ParentContact)) > maxStudentFieldLen {
		return errors.New("parent_contact terlalu panjang")
	}
	return validateGender(r.Gender)
}

// Apply merges the set fields into s. An empty optional string clears the field.
func (r *UpdateStudentRequest) Apply(s *Student) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.ClassName != nil {
		s.ClassName = *r.ClassName
	}
	if r.NIS != nil {
		s.NIS = emptyToNil(*r.NIS)
	}
	if r.Gender != nil {
		g := *r.Gender
		s.Gender = &g
	}
	if r.ParentContact != nil {
		s.ParentContact = emptyToNil(*r.ParentContact)
	}
}

func validateStudentName(n string) error {
	if n == "" {
		return errors.New("nama siswa wajib diisi")
	}
	if utf8.RuneCountInString(n) > maxStudentNameLen {
		return errors.New("nama siswa maksimal 150 karakter")
	}
	return nil
}

func validateClassName(c string) error {
	if c == "" {
		return errors.New("kelas wajib diisi")
	}
	if utf8.RuneCountInString(c) > maxClassNameLen {
		return errors.New("kelas maksimal 32 karakter")
	}
	return nil
}

func validateGender(g *Gender) error {
	if g != nil && !g.Valid() {
		return errors.New("jenis kelamin harus L atau P")
	}
	return nil
}

func normalizeOptional(v *string, field string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if utf8.RuneCountInString(t) > maxStudentFieldLen {
		return nil, errors.New(field + " terlalu panjang")
	}
	return emptyToNil(t), nil
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
