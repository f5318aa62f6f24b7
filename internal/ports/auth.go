// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

// Provider error conditions. Adapters wrap these so callers can match with errors.Is.
var (
	ErrUnknownIdentifier = errors.New("auth: unknown identifier")
	ErrWrongSecret       = errors.New("auth: wrong secret")
	ErrIdentifierInUse   = errors.New("auth: identifier already in use")
	ErrInvalidIdentifier = errors.New("auth: invalid identifier")
	ErrWeakSecret        = errors.New("auth: secret too weak")
	ErrSessionNotFound   = errors.New("auth: session not found")
	ErrUnsupported       = errors.New("auth: operation not supported by provider")
)

// AuthProvider verifies credentials and issues sessions on behalf of the application.
type AuthProvider interface {
	// SignIn verifies the credentials and issues a new session.
	SignIn(ctx context.Context, identifier, secret string) (domainauth.ProviderSession, error)

	// SignOut ends the session identified by token. Unknown tokens are not an error.
	SignOut(ctx context.Context, token string) error

	// CreateAccount registers a new credential holder and returns its stable id.
	CreateAccount(ctx context.Context, identifier, secret string) (domainauth.Account, error)

	// Session returns the live session for token, or ErrSessionNotFound.
	Session(ctx context.Context, token string) (domainauth.ProviderSession, error)
}

// SessionFeed publishes session-change notifications.
type SessionFeed interface {
	// Watch streams session changes until ctx is done. The current state is replayed first.
	Watch(ctx context.Context) (<-chan domainauth.SessionEvent, error)
}

// WatchableAuthProvider is a provider that also exposes its session-change feed.
type WatchableAuthProvider interface {
	AuthProvider
	SessionFeed
}

// SessionStore persists and retrieves provider sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.ProviderSession) error
	Get(ctx context.Context, id string) (domainauth.ProviderSession, error)
	Delete(ctx context.Context, id string) error
}

// SessionBus fans session terminations out across processes.
type SessionBus interface {
	PublishSignOut(ctx context.Context, sessionID string) error
	// Listen delivers session ids signed out by any process until ctx is done.
	Listen(ctx context.Context, fn func(sessionID string)) error
}
