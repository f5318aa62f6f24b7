// Package oidc provides an AuthProvider backed by an external OpenID Connect issuer.
//
// Credentials are exchanged with the resource-owner password grant and the returned id_token is
// the session token. Sessions are tracked in a SessionStore so sign-out can revoke them before
// the id_token expires. Accounts are managed by the issuer, so CreateAccount is unsupported.
package oidc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/spps-sekolah/spps-api/internal/adapters/authfeed"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

var _ ports.WatchableAuthProvider = (*Provider)(nil)

// Provider implements ports.WatchableAuthProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	sessions   ports.SessionStore
	hub        *authfeed.Hub
	now        func() time.Time

	verifier *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	Sessions     ports.SessionStore
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
	Now          func() time.Time
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider creates a new OIDC provider. It fetches the discovery document once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}
	if config.Sessions == nil {
		return nil, errors.New("session store is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	p := &Provider{
		httpClient: httpClient,
		sessions:   config.Sessions,
		hub:        authfeed.NewHub(),
		now:        now,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID, Now: now})

	scopes := strings.Fields(config.Scope)
	if !hasScope(scopes, gooidc.ScopeOpenID) {
		scopes = append([]string{gooidc.ScopeOpenID}, scopes...)
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       scopes,
		Endpoint:     op.Endpoint(),
	}
	return p, nil
}

// SignIn exchanges the credentials for an id_token.
// The issuer does not say whether the identifier or the secret was wrong; both report ErrWrongSecret.
func (p *Provider) SignIn(ctx context.Context, identifier, secret string) (domainauth.ProviderSession, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.PasswordCredentialsToken(ctx, identifier, secret)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && isCredentialRejection(rErr) {
			return domainauth.ProviderSession{}, ports.ErrWrongSecret
		}
		return domainauth.ProviderSession{}, fmt.Errorf("password grant: %w", err)
	}

	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return domainauth.ProviderSession{}, err
	}
	sess, err := p.verify(ctx, rawID)
	if err != nil {
		return domainauth.ProviderSession{}, err
	}
	if sess.Identifier == "" {
		sess.Identifier = domainauth.NormalizeIdentifier(identifier)
	}
	if saveErr := p.sessions.Save(ctx, sess); saveErr != nil {
		return domainauth.ProviderSession{}, fmt.Errorf("save session: %w", saveErr)
	}
	p.hub.SignedIn(sess)
	return sess, nil
}

// SignOut revokes the session locally. The issuer's own session is not ended.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id := sessionID(token)
	if err := p.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	p.hub.SignedOut(id)
	return nil
}

// Session verifies token and checks it has not been revoked.
func (p *Provider) Session(ctx context.Context, token string) (domainauth.ProviderSession, error) {
	if token == "" {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	verified, err := p.verify(ctx, token)
	if err != nil {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	stored, err := p.sessions.Get(ctx, verified.ID)
	if err != nil {
		return domainauth.ProviderSession{}, err
	}
	stored.Token = token
	return stored, nil
}

// CreateAccount is not supported; accounts live in the issuer.
func (p *Provider) CreateAccount(context.Context, string, string) (domainauth.Account, error) {
	return domainauth.Account{}, ports.ErrUnsupported
}

// Watch streams session changes for sessions issued by this process.
func (p *Provider) Watch(ctx context.Context) (<-chan domainauth.SessionEvent, error) {
	return p.hub.Watch(ctx)
}

func (p *Provider) verify(ctx context.Context, rawID string) (domainauth.ProviderSession, error) {
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.ProviderSession{}, fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.ProviderSession{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	f := mapIDTokenClaims(idTok.Subject, claims)
	return domainauth.ProviderSession{
		ID:         sessionID(rawID),
		Token:      rawID,
		AccountID:  f.userID,
		Identifier: domainauth.NormalizeIdentifier(f.username),
		IssuedAt:   idTok.IssuedAt,
		ExpiresAt:  idTok.Expiry,
	}, nil
}

// internal helper types and functions

type idTokenClaims struct {
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	SamAccountName    string `json:"samaccountname"`
}

type idFields struct {
	userID   string
	username string
}

// mapIDTokenClaims maps raw id token claims into idFields using precedence rules.
func mapIDTokenClaims(sub string, c idTokenClaims) idFields {
	return idFields{
		userID:   sub,
		username: firstNonEmpty(c.PreferredUsername, c.SamAccountName, c.Email),
	}
}

// sessionID derives a stable revocation handle from the raw token.
func sessionID(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:16])
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func isCredentialRejection(rErr *oauth2.RetrieveError) bool {
	if rErr.ErrorCode == "invalid_grant" {
		return true
	}
	return rErr.Response != nil && rErr.Response.StatusCode == http.StatusUnauthorized
}

func hasScope(scopes []string, want string) bool {
	for _, sc := range scopes {
		if sc == want {
			return true
		}
	}
	return false
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
