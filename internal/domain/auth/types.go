// Package auth contains domain-level types for authentication, profiles and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and JSON.
type Role string

const (
	// RoleAdmin manages users, the roster and the violation catalog.
	RoleAdmin Role = "ADMIN"
	// RoleDutyTeacher (guru piket) records violations.
	RoleDutyTeacher Role = "GURU_PIKET"
)

// AllRoles lists every valid role.
func AllRoles() []Role { return []Role{RoleAdmin, RoleDutyTeacher} }

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDutyTeacher
}

// User is the application profile keyed by the auth provider's account id.
type User struct {
	ID        string    `json:"id"         db:"id"`
	Username  string    `json:"username"   db:"username"`
	Role      Role      `json:"role"       db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Account is a credential holder inside the auth provider.
type Account struct {
	UID        string
	Identifier string
}

// ProviderSession is a session issued by the auth provider.
// Token is what the client presents; ID is the provider's revocable handle.
type ProviderSession struct {
	ID         string    `json:"id"`
	Token      string    `json:"-"`
	AccountID  string    `json:"account_id"`
	Identifier string    `json:"identifier"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s ProviderSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionEventKind distinguishes session-change notifications.
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
)

// SessionEvent is one notification on a provider's session-change feed.
// Session is the zero value for SessionSignedOut unless the provider knows which session ended.
type SessionEvent struct {
	Kind    SessionEventKind `json:"kind"`
	Session ProviderSession  `json:"session"`
}

// Active reports whether the event carries a live session.
func (e SessionEvent) Active() bool { return e.Kind == SessionSignedIn }

// Credential is a local provider's stored account secret.
type Credential struct {
	UID          string    `db:"uid"`
	Identifier   string    `db:"identifier"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
