// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spps-sekolah/spps-api/internal/adapters/authfeed"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.WatchableAuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore          = (*MemorySessionStore)(nil)
	_ ports.SessionBus            = (*MemorySessionBus)(nil)
)

type mockAccount struct {
	uid    string
	secret string
}

// MockAuthProvider simulates an auth provider in memory with deterministic ids.
// Func fields override the built-in behavior for a single method.
type MockAuthProvider struct {
	SignInFunc        func(ctx context.Context, identifier, secret string) (domainauth.ProviderSession, error)
	SignOutFunc       func(ctx context.Context, token string) error
	CreateAccountFunc func(ctx context.Context, identifier, secret string) (domainauth.Account, error)
	SessionFunc       func(ctx context.Context, token string) (domainauth.ProviderSession, error)

	// TTL is the lifetime of issued sessions. Defaults to one hour.
	TTL time.Duration

	mu           sync.Mutex
	accounts     map[string]mockAccount
	sessions     map[string]domainauth.ProviderSession
	signOutCalls []string
	counter      int
	hub          *authfeed.Hub
}

// NewMockAuthProvider creates a MockAuthProvider with no accounts.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		accounts: make(map[string]mockAccount),
		sessions: make(map[string]domainauth.ProviderSession),
		hub:      authfeed.NewHub(),
	}
}

// AddAccount registers identifier with secret and returns its uid.
func (m *MockAuthProvider) AddAccount(identifier, secret string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	uid := fmt.Sprintf("mock-uid-%d", m.counter)
	m.accounts[domainauth.NormalizeIdentifier(identifier)] = mockAccount{uid: uid, secret: secret}
	return uid
}

// Hub exposes the session feed so tests can inject events directly.
func (m *MockAuthProvider) Hub() *authfeed.Hub { return m.hub }

// SignOutCalls returns the tokens passed to SignOut so far.
func (m *MockAuthProvider) SignOutCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.signOutCalls...)
}

func (m *MockAuthProvider) SignIn(ctx context.Context, identifier, secret string) (domainauth.ProviderSession, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, identifier, secret)
	}

	m.mu.Lock()
	acct, ok := m.accounts[domainauth.NormalizeIdentifier(identifier)]
	if !ok {
		m.mu.Unlock()
		return domainauth.ProviderSession{}, ports.ErrUnknownIdentifier
	}
	if acct.secret != secret {
		m.mu.Unlock()
		return domainauth.ProviderSession{}, ports.ErrWrongSecret
	}
	m.counter++
	ttl := m.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	sess := domainauth.ProviderSession{
		ID:         fmt.Sprintf("mock-session-%d", m.counter),
		Token:      fmt.Sprintf("mock-token-%d", m.counter),
		AccountID:  acct.uid,
		Identifier: domainauth.NormalizeIdentifier(identifier),
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	m.sessions[sess.Token] = sess
	m.mu.Unlock()

	m.hub.SignedIn(sess)
	return sess, nil
}

func (m *MockAuthProvider) SignOut(ctx context.Context, token string) error {
	m.mu.Lock()
	m.signOutCalls = append(m.signOutCalls, token)
	m.mu.Unlock()

	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, token)
	}

	m.mu.Lock()
	sess, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		m.hub.SignedOut(sess.ID)
	} else {
		m.hub.SignedOut("")
	}
	return nil
}

func (m *MockAuthProvider) CreateAccount(ctx context.Context, identifier, secret string) (domainauth.Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, identifier, secret)
	}
	id := domainauth.NormalizeIdentifier(identifier)
	if !domainauth.ValidIdentifier(id) {
		return domainauth.Account{}, ports.ErrInvalidIdentifier
	}
	if len(secret) < domainauth.MinSecretLength {
		return domainauth.Account{}, ports.ErrWeakSecret
	}

	m.mu.Lock()
	_, exists := m.accounts[id]
	m.mu.Unlock()
	if exists {
		return domainauth.Account{}, ports.ErrIdentifierInUse
	}
	return domainauth.Account{UID: m.AddAccount(id, secret), Identifier: id}, nil
}

func (m *MockAuthProvider) Session(ctx context.Context, token string) (domainauth.ProviderSession, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[token]
	if !ok || sess.Expired(time.Now()) {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MockAuthProvider) Watch(ctx context.Context) (<-chan domainauth.SessionEvent, error) {
	return m.hub.Watch(ctx)
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.ProviderSession
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.ProviderSession),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.ProviderSession) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.ProviderSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// MemorySessionBus delivers sign-outs to listeners in the same process.
type MemorySessionBus struct {
	mu        sync.Mutex
	listeners map[int]func(string)
	next      int
	published []string
}

// NewMemorySessionBus creates an empty bus.
func NewMemorySessionBus() *MemorySessionBus {
	return &MemorySessionBus{listeners: make(map[int]func(string))}
}

func (b *MemorySessionBus) PublishSignOut(_ context.Context, sessionID string) error {
	b.mu.Lock()
	b.published = append(b.published, sessionID)
	fns := make([]func(string), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(sessionID)
	}
	return nil
}

// Listen blocks until ctx is done.
func (b *MemorySessionBus) Listen(ctx context.Context, fn func(sessionID string)) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()
	return nil
}

// Published returns every session id published so far.
func (b *MemorySessionBus) Published() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.published...)
}
