package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/spps-sekolah/spps-api/internal/ports"
)

func TestProvider_SignInSessionSignOut(t *testing.T) {
	prov, err := NewProvider(Config{Accounts: []Credential{{Identifier: "admin", Secret: "adminpassword"}}})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	ctx := context.Background()

	if _, err := prov.SignIn(ctx, "admin", "wrong"); err != ports.ErrWrongSecret {
		t.Fatalf("expected ErrWrongSecret, got %v", err)
	}
	if _, err := prov.SignIn(ctx, "ghost", "adminpassword"); err != ports.ErrUnknownIdentifier {
		t.Fatalf("expected ErrUnknownIdentifier, got %v", err)
	}

	sess, err := prov.SignIn(ctx, "ADMIN", "adminpassword")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if len(sess.Token) != 32 {
		t.Fatalf("expected 32-char token, got %d", len(sess.Token))
	}
	got, err := prov.Session(ctx, sess.Token)
	if err != nil || got.AccountID != sess.AccountID {
		t.Fatalf("Session mismatch: %+v %v", got, err)
	}

	if err := prov.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	if _, err := prov.Session(ctx, sess.Token); err != ports.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after sign out, got %v", err)
	}
}

func TestProvider_SessionExpiry(t *testing.T) {
	prov, err := NewProvider(Config{
		Accounts:        []Credential{{Identifier: "guru", Secret: "gurupassword"}},
		SessionDuration: time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	sess, err := prov.SignIn(context.Background(), "guru", "gurupassword")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := prov.Session(context.Background(), sess.Token); err != ports.ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestProvider_CreateAccountRules(t *testing.T) {
	prov, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	ctx := context.Background()
	cases := []struct {
		id, secret string
		want       error
	}{
		{"x", "secret1", ports.ErrInvalidIdentifier},
		{"guru", "short", ports.ErrWeakSecret},
		{"guru", "secret1", nil},
		{"GURU", "secret1", ports.ErrIdentifierInUse},
	}
	for _, c := range cases {
		_, err := prov.CreateAccount(ctx, c.id, c.secret)
		if err != c.want {
			t.Fatalf("CreateAccount(%q): want %v, got %v", c.id, c.want, err)
		}
	}
}

func TestNewProvider_RejectsBadSeed(t *testing.T) {
	if _, err := NewProvider(Config{Accounts: []Credential{{Identifier: "admin", Secret: "123"}}}); err == nil {
		t.Fatal("expected seed error")
	}
}

func TestProvider_WatchReplaysCurrent(t *testing.T) {
	prov, _ := NewProvider(Config{Accounts: []Credential{{Identifier: "admin", Secret: "adminpassword"}}})
	if _, err := prov.SignIn(context.Background(), "admin", "adminpassword"); err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := prov.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch error: %v", err)
	}
	if ev := <-ch; !ev.Active() {
		t.Fatalf("expected replayed active session, got %+v", ev)
	}
}
