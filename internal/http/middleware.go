package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{
						Code:    http.StatusInternalServerError,
						ErrCode: string(apperrors.ErrCodeInternal),
						Err:     apperrors.Internal("Terjadi kesalahan pada server."),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver resolves a session token to its user profile.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domainauth.User, error)
}

// RequireAuth returns a middleware that requires a valid session.
// Missing or rejected sessions get 401; backend failures get their mapped status.
func RequireAuth(auth SessionResolver) func(http.Handler) http.Handler {
	return guard(auth, nil)
}

// RequireRole returns a middleware that requires a session whose user holds one of roles.
// A signed-in user with another role gets 403.
func RequireRole(auth SessionResolver, roles ...domainauth.Role) func(http.Handler) http.Handler {
	return guard(auth, roles)
}

func guard(auth SessionResolver, roles []domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: string(apperrors.ErrCodeCredentialRejected),
					Err:     apperrors.CredentialRejected("Silakan login terlebih dahulu."),
				})
				return
			}

			user, err := auth.ResolveSession(r.Context(), token)
			if err != nil {
				RenderError(w, r, nil, err)
				return
			}

			if roles != nil && !domainauth.HasRole(user, roles...) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: string(apperrors.ErrCodeForbidden),
					Err:     apperrors.Forbidden("Anda tidak memiliki akses untuk tindakan ini."),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserInContext(r.Context(), user, token)))
		})
	}
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
