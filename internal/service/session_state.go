package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spps-sekolah/spps-api/internal/core"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

// ErrSessionStateStarted is returned by a second call to SessionState.Start.
var ErrSessionStateStarted = errors.New("session state already started")

// Snapshot is the observable session state.
type Snapshot struct {
	User    *domainauth.User
	Loading bool
}

// SessionStateOptions groups dependencies for SessionState.
type SessionStateOptions struct {
	Provider ports.WatchableAuthProvider
	Users    core.UserRepository
	Gateway  *AuthService
	Logger   *slog.Logger
}

// SessionState tracks the signed-in user of this process.
// It follows the provider's session feed and repairs sessions that have no profile.
type SessionState struct {
	provider ports.WatchableAuthProvider
	users    core.UserRepository
	gateway  *AuthService
	logger   *slog.Logger

	// opMu serializes feed handling with Login and Logout.
	opMu sync.Mutex

	mu      sync.Mutex
	snap    Snapshot
	session domainauth.ProviderSession
	subs    map[int]chan Snapshot
	nextSub int
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSessionState constructs a SessionState in the loading state.
func NewSessionState(opts SessionStateOptions) *SessionState {
	if opts.Provider == nil {
		panic("AuthProvider is required")
	}
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Gateway == nil {
		panic("AuthService is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionState{
		provider: opts.Provider,
		users:    opts.Users,
		gateway:  opts.Gateway,
		logger:   logger.With("component", "session_state"),
		snap:     Snapshot{Loading: true},
		subs:     make(map[int]chan Snapshot),
	}
}

// Start subscribes to the provider feed for the lifetime of ctx or until Close.
func (s *SessionState) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return ErrSessionStateStarted
	}
	s.started = true
	s.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	events, err := s.provider.Watch(watchCtx)
	if err != nil {
		cancel()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return fmt.Errorf("watch sessions: %w", err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for ev := range events {
			s.handle(watchCtx, ev)
		}
	}()
	return nil
}

func (s *SessionState) handle(ctx context.Context, ev domainauth.SessionEvent) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !ev.Active() {
		s.set(nil, domainauth.ProviderSession{})
		return
	}

	s.mu.Lock()
	known := s.snap.User != nil && s.session.ID == ev.Session.ID
	s.mu.Unlock()
	if known {
		// Login already resolved this session.
		s.set(s.Current().User, ev.Session)
		return
	}

	user, err := s.users.GetByID(ctx, ev.Session.AccountID)
	if err != nil {
		s.logger.WarnContext(ctx, "session without usable profile, signing out",
			"account_id", ev.Session.AccountID, "error", err)
		if soErr := s.provider.SignOut(ctx, ev.Session.Token); soErr != nil {
			s.logger.ErrorContext(ctx, "sign out failed", "error", soErr)
		}
		s.set(nil, domainauth.ProviderSession{})
		return
	}
	s.set(user, ev.Session)
}

// Login signs in through the auth gateway and makes the profile current.
func (s *SessionState) Login(ctx context.Context, identifier, secret string) (*domainauth.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res, err := s.gateway.Login(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	s.set(res.User, res.Session)
	return res.User, nil
}

// Logout clears the current user and ends its provider session.
func (s *SessionState) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	token := s.session.Token
	s.mu.Unlock()
	s.set(nil, domainauth.ProviderSession{})

	if token == "" {
		return nil
	}
	return s.gateway.Logout(ctx, token)
}

// Current returns the latest snapshot.
func (s *SessionState) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe returns a channel that receives the current snapshot and then every change.
// A slow reader skips intermediate snapshots. cancel releases the channel.
func (s *SessionState) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snap

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close stops following the feed and closes all subscriber channels.
func (s *SessionState) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}

func (s *SessionState) set(user *domainauth.User, sess domainauth.ProviderSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.snap = Snapshot{User: user}
	for _, ch := range s.subs {
		select {
		case ch <- s.snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s.snap
		}
	}
}
