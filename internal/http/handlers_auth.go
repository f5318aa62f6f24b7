package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// AuthServiceInterface defines the auth operations the HTTP layer depends on.
type AuthServiceInterface interface {
	SessionResolver
	Login(ctx context.Context, identifier, secret string) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc AuthServiceInterface
	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool
	Logger       *slog.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      *domainauth.User `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

// Login verifies credentials and issues the session cookie.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}

	h.setSessionCookie(w, res.Session)
	out := loginResponse{User: res.User, Token: res.Session.Token}
	if !res.Session.ExpiresAt.IsZero() {
		exp := res.Session.ExpiresAt
		out.ExpiresAt = &exp
	}
	WriteJSON(w, http.StatusOK, out)
}

// Logout ends the current session and clears the cookie.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Logout(r.Context(), sessionTokenFromContext(r.Context())); err != nil {
		RenderError(w, r, h.Logger, err)
		return
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the profile of the signed-in user.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, sess domainauth.ProviderSession) {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if !sess.ExpiresAt.IsZero() {
		c.Expires = sess.ExpiresAt
	}
	http.SetCookie(w, c)
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
