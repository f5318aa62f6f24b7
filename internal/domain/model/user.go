package model

import (
	"errors"
	"strings"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

// CreateUserRequest creates a provider account and its profile.
type CreateUserRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Role     domainauth.Role `json:"role"`
}

// Validate normalizes the username and checks the role is known.
// Password strength is judged by the auth provider.
func (r *CreateUserRequest) Validate() error {
	r.Username = domainauth.NormalizeIdentifier(r.Username)
	if r.Username == "" {
		return errors.New("username wajib diisi")
	}
	if r.Password == "" {
		return errors.New("password wajib diisi")
	}
	if !r.Role.Valid() {
		return errors.New("role tidak valid")
	}
	return nil
}

// UpdateUserRequest updates a profile. Password is accepted for wire compatibility and ignored.
type UpdateUserRequest struct {
	Username *string          `json:"username,omitempty"`
	Role     *domainauth.Role `json:"role,omitempty"`
	Password *string          `json:"password,omitempty"`
}

// HasUpdates reports whether a profile field is set.
func (r *UpdateUserRequest) HasUpdates() bool {
	return r.Username != nil || r.Role != nil
}

// WantsPasswordChange reports whether a non-blank password was supplied.
func (r *UpdateUserRequest) WantsPasswordChange() bool {
	return r.Password != nil && strings.TrimSpace(*r.Password) != ""
}

// Validate validates UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	if !r.HasUpdates() && !r.WantsPasswordChange() {
		return errors.New("minimal satu kolom harus diubah")
	}
	if r.Username != nil {
		u := domainauth.NormalizeIdentifier(*r.Username)
		if u == "" {
			return errors.New("username tidak boleh kosong")
		}
		r.Username = &u
	}
	if r.Role != nil && !r.Role.Valid() {
		return errors.New("role tidak valid")
	}
	return nil
}
