package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"no rows", pgx.ErrNoRows, ErrCodeNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrCodeConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "points"}, ErrCodeValidation},
		{"not null", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, ErrCodeValidation},
		{"admin shutdown", &pgconn.PgError{Code: pgerrcode.AdminShutdown}, ErrCodeUnavailable},
		{"connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, ErrCodeUnavailable},
		{"other pg error", &pgconn.PgError{Code: pgerrcode.SyntaxError}, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if GetCode(err) != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", GetCode(err), tt.wantCode)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("MapDBError() should preserve the cause")
			}
		})
	}
}

func TestMapDBError_StandardError(t *testing.T) {
	plain := errors.New("something else")
	if err := MapDBError(plain); !errors.Is(err, plain) || GetCode(err) != "" {
		t.Errorf("MapDBError(plain) = %v, want original error", err)
	}
}

func TestMapDBError_UniqueField(t *testing.T) {
	tests := []struct {
		name  string
		pgErr *pgconn.PgError
		want  string
	}{
		{
			name:  "column metadata",
			pgErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "username"},
			want:  "username",
		},
		{
			name: "plain key detail",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: "Key (identifier)=(admin) already exists.",
			},
			want: "identifier",
		},
		{
			name: "expression key detail",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: "Key (lower(name), lower(class_name))=(ali, 10a) already exists.",
			},
			want: "name,class_name",
		},
		{
			name:  "no metadata",
			pgErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetField(MapDBError(tt.pgErr)); got != tt.want {
				t.Errorf("field = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "students_name_class_key"}

	if !IsUniqueViolation(pgErr) {
		t.Error("expected unique violation")
	}
	if !IsUniqueViolation(pgErr, "other_key", "students_name_class_key") {
		t.Error("expected constraint match")
	}
	if IsUniqueViolation(pgErr, "violation_types_name_key") {
		t.Error("unexpected constraint match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.CheckViolation}) {
		t.Error("check violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Error("plain error is not a unique violation")
	}
}
