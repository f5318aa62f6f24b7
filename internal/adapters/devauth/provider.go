// Package devauth provides a simple, config-driven in-memory AuthProvider for local development.
// Accounts and sessions are lost on restart.
package devauth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spps-sekolah/spps-api/internal/adapters/authfeed"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

var _ ports.WatchableAuthProvider = (*Provider)(nil)

// Credential is a pre-registered account.
type Credential struct {
	Identifier string
	Secret     string
}

// Config controls the dev auth provider behavior.
type Config struct {
	Accounts        []Credential
	SessionDuration time.Duration // default 8h when zero
}

type account struct {
	uid    string
	secret string
}

// Provider implements ports.WatchableAuthProvider in memory.
// Secrets are compared in constant time but stored in plain text.
type Provider struct {
	sessionDuration time.Duration
	hub             *authfeed.Hub

	mu       sync.Mutex
	accounts map[string]account
	sessions map[string]domainauth.ProviderSession
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	p := &Provider{
		sessionDuration: dur,
		hub:             authfeed.NewHub(),
		accounts:        make(map[string]account),
		sessions:        make(map[string]domainauth.ProviderSession),
	}
	for _, c := range cfg.Accounts {
		if _, err := p.CreateAccount(context.Background(), c.Identifier, c.Secret); err != nil {
			return nil, fmt.Errorf("dev auth: seed %q: %w", c.Identifier, err)
		}
	}
	return p, nil
}

// SignIn checks the secret and issues an opaque random token.
func (p *Provider) SignIn(_ context.Context, identifier, secret string) (domainauth.ProviderSession, error) {
	id := domainauth.NormalizeIdentifier(identifier)

	p.mu.Lock()
	acct, ok := p.accounts[id]
	p.mu.Unlock()
	if !ok {
		return domainauth.ProviderSession{}, ports.ErrUnknownIdentifier
	}
	if subtle.ConstantTimeCompare([]byte(acct.secret), []byte(secret)) != 1 {
		return domainauth.ProviderSession{}, ports.ErrWrongSecret
	}

	token, err := randomString(32)
	if err != nil {
		return domainauth.ProviderSession{}, fmt.Errorf("generate token: %w", err)
	}
	now := time.Now()
	sess := domainauth.ProviderSession{
		ID:         uuid.NewString(),
		Token:      token,
		AccountID:  acct.uid,
		Identifier: id,
		IssuedAt:   now,
		ExpiresAt:  now.Add(p.sessionDuration),
	}

	p.mu.Lock()
	p.sessions[token] = sess
	p.mu.Unlock()

	p.hub.SignedIn(sess)
	return sess, nil
}

// SignOut forgets the session behind token.
func (p *Provider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	sess, ok := p.sessions[token]
	delete(p.sessions, token)
	p.mu.Unlock()
	if ok {
		p.hub.SignedOut(sess.ID)
	}
	return nil
}

// Session returns the live session behind token.
func (p *Provider) Session(_ context.Context, token string) (domainauth.ProviderSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[token]
	if !ok {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	if sess.Expired(time.Now()) {
		delete(p.sessions, token)
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

// CreateAccount registers a new in-memory account.
func (p *Provider) CreateAccount(_ context.Context, identifier, secret string) (domainauth.Account, error) {
	id := domainauth.NormalizeIdentifier(identifier)
	if !domainauth.ValidIdentifier(id) {
		return domainauth.Account{}, ports.ErrInvalidIdentifier
	}
	if len(secret) < domainauth.MinSecretLength {
		return domainauth.Account{}, ports.ErrWeakSecret
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[id]; exists {
		return domainauth.Account{}, ports.ErrIdentifierInUse
	}
	uid := uuid.NewString()
	p.accounts[id] = account{uid: uid, secret: secret}
	return domainauth.Account{UID: uid, Identifier: id}, nil
}

// Watch streams session changes.
func (p *Provider) Watch(ctx context.Context) (<-chan domainauth.SessionEvent, error) {
	return p.hub.Watch(ctx)
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:n], nil
}
