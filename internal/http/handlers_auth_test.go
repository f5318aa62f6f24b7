package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "Kepsek", "password": "rahasia"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[struct {
		User  domainauth.User `json:"user"`
		Token string          `json:"token"`
	}](t, rec)
	assert.Equal(t, f.admin.ID, body.User.ID)
	assert.NotEmpty(t, body.Token)

	c := findCookie(rec.Result().Cookies(), SessionCookieName)
	require.NotNil(t, c)
	assert.Equal(t, body.Token, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestAuthHandlers_LoginRejected(t *testing.T) {
	f := newAPIFixture(t)

	for _, creds := range []map[string]string{
		{"username": "kepsek", "password": "salah"},
		{"username": "tidak-ada", "password": "rahasia"},
	} {
		rec := f.do(t, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody[errorBody](t, rec)
		assert.Equal(t, "credential_rejected", body.Code)
		assert.Nil(t, findCookie(rec.Result().Cookies(), SessionCookieName))
	}
}

func TestAuthHandlers_LoginRateLimited(t *testing.T) {
	f := newAPIFixture(t, func(s *RouterServices) {
		s.LoginLimiter = NewIPRateLimiter(RateLimitConfig{PerMinute: 1, Burst: 1})
	})
	creds := map[string]string{"username": "kepsek", "password": "salah"}

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/api/auth/login", "", creds).Code)
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeBody[errorBody](t, rec).Code)
}

func TestAuthHandlers_MeAndLogout(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/auth/me", f.guruToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[domainauth.User](t, rec)
	assert.Equal(t, domainauth.RoleDutyTeacher, me.Role)

	rec = f.do(t, http.MethodPost, "/api/auth/logout", f.guruToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	c := findCookie(rec.Result().Cookies(), SessionCookieName)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
	assert.Contains(t, f.provider.SignOutCalls(), f.guruToken)

	rec = f.do(t, http.MethodGet, "/api/auth/me", f.guruToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "session is gone after logout")
}
