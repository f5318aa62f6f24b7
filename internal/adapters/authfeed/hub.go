// Package authfeed implements the in-process session-change feed shared by auth provider adapters.
package authfeed

import (
	"context"
	"sync"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

// Hub tracks the session most recently established through this process and broadcasts changes.
// Each watcher holds at most one pending event; a slow watcher only ever sees the latest state.
type Hub struct {
	mu       sync.Mutex
	last     domainauth.SessionEvent
	watchers map[chan domainauth.SessionEvent]struct{}
}

// NewHub creates a Hub whose initial state is signed out.
func NewHub() *Hub {
	return &Hub{
		last:     domainauth.SessionEvent{Kind: domainauth.SessionSignedOut},
		watchers: make(map[chan domainauth.SessionEvent]struct{}),
	}
}

// Current returns the latest state.
func (h *Hub) Current() domainauth.SessionEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// SignedIn records sess as the current session and notifies watchers.
func (h *Hub) SignedIn(sess domainauth.ProviderSession) {
	h.publish(domainauth.SessionEvent{Kind: domainauth.SessionSignedIn, Session: sess})
}

// SignedOut notifies watchers when sessionID is the current session.
// An empty sessionID ends whatever session is current.
func (h *Hub) SignedOut(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.last.Active() {
		return
	}
	if sessionID != "" && h.last.Session.ID != sessionID {
		return
	}
	h.publishLocked(domainauth.SessionEvent{Kind: domainauth.SessionSignedOut, Session: h.last.Session})
}

// Watch streams state changes until ctx is done, starting with the current state.
func (h *Hub) Watch(ctx context.Context) (<-chan domainauth.SessionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := make(chan domainauth.SessionEvent, 1)

	h.mu.Lock()
	h.watchers[ch] = struct{}{}
	ch <- h.last
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.watchers, ch)
		close(ch)
		h.mu.Unlock()
	}()
	return ch, nil
}

func (h *Hub) publish(ev domainauth.SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.publishLocked(ev)
}

func (h *Hub) publishLocked(ev domainauth.SessionEvent) {
	h.last = ev
	for ch := range h.watchers {
		select {
		case ch <- ev:
		default:
			// Replace the stale pending event. Only publishers send, and they hold mu.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
