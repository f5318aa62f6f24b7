package httpx

import (
	"context"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

// Unexported context key types avoid collisions across packages.
type (
	userKey  struct{}
	tokenKey struct{}
)

// SetUserInContext returns a child context that carries the authenticated user and its session token.
// If user is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, user *domainauth.User, token string) context.Context {
	if user == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, userKey{}, user)
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetUserFromContext returns the authenticated user and a boolean indicating presence.
func GetUserFromContext(ctx context.Context) (*domainauth.User, bool) {
	if u, ok := ctx.Value(userKey{}).(*domainauth.User); ok && u != nil {
		return u, true
	}
	return nil, false
}

// sessionTokenFromContext returns the token RequireAuth resolved.
func sessionTokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}
