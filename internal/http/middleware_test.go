package httpx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

type resolverFunc func(ctx context.Context, token string) (*domainauth.User, error)

func (f resolverFunc) ResolveSession(ctx context.Context, token string) (*domainauth.User, error) {
	return f(ctx, token)
}

func staticResolver(user *domainauth.User) resolverFunc {
	return func(_ context.Context, token string) (*domainauth.User, error) {
		if token != "good" {
			return nil, apperrors.CredentialRejected("Sesi tidak valid atau telah berakhir.")
		}
		return user, nil
	}
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		assert.True(t, ok)
		assert.NotNil(t, user)
		assert.Equal(t, "good", sessionTokenFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	user := &domainauth.User{ID: "u1", Role: domainauth.RoleDutyTeacher}
	handler := RequireAuth(staticResolver(user))(okHandler(t))

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody[errorBody](t, rec)
		assert.Equal(t, "credential_rejected", body.Code)
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Sesi tidak valid atau telah berakhir.", decodeBody[errorBody](t, rec).Error)
	})

	t.Run("backend failure", func(t *testing.T) {
		failing := resolverFunc(func(context.Context, string) (*domainauth.User, error) {
			return nil, apperrors.Wrap(errors.New("redis down"), apperrors.ErrCodeUnavailable, "Terjadi kesalahan.")
		})
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		RequireAuth(failing)(okHandler(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role domainauth.Role
		want int
	}{
		{"admin allowed", domainauth.RoleAdmin, http.StatusOK},
		{"duty teacher forbidden", domainauth.RoleDutyTeacher, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &domainauth.User{ID: "u1", Role: tt.role}
			handler := RequireRole(staticResolver(user), domainauth.RoleAdmin)(okHandler(t))
			req := httptest.NewRequest(http.MethodDelete, "/x", nil)
			req.Header.Set("Authorization", "Bearer good")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", decodeBody[errorBody](t, rec).Code)
	assert.Contains(t, logs.String(), "boom")
}

func TestLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))
	require.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/tea"`)
}
