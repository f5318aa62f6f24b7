package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrUserNotFound = errors.New("user profile not found")
	ErrUserExists   = errors.New("user profile already exists")

	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentExists is returned when (name, class_name) collides case-insensitively.
	ErrStudentExists = errors.New("student with same name and class already exists")

	ErrViolationTypeNotFound = errors.New("violation type not found")
	ErrViolationTypeExists   = errors.New("violation type name already exists")

	ErrViolationNotFound = errors.New("violation not found")

	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account identifier already exists")
)

// Unique index names referenced by write-error mapping.
const (
	constraintUsersPK            = "users_pkey"
	constraintStudentsNameClass  = "students_name_class_key"
	constraintViolationTypesName = "violation_types_name_key"
	constraintAccountsIdentifier = "accounts_identifier_key"
	constraintAccountsPK         = "accounts_pkey"
)
