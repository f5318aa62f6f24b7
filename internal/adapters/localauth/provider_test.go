package localauth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/spps-sekolah/spps-api/internal/data"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/mocks"
	mockauth "github.com/spps-sekolah/spps-api/internal/mocks/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

var testKey = []byte(strings.Repeat("k", 32))

type fixture struct {
	provider *Provider
	accounts *mocks.MockAccountRepository
	sessions *mockauth.MemorySessionStore
	bus      *mockauth.MemorySessionBus
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		accounts: mocks.NewMockAccountRepository(ctrl),
		sessions: mockauth.NewMemorySessionStore(),
		bus:      mockauth.NewMemorySessionBus(),
		now:      time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC),
	}
	p, err := NewProvider(Options{
		Accounts:   f.accounts,
		Sessions:   f.sessions,
		Bus:        f.bus,
		SigningKey: testKey,
		TTL:        time.Hour,
		BcryptCost: bcrypt.MinCost,
		Now:        func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.provider = p
	return f
}

func hashed(t *testing.T, secret string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Options{})
	assert.Error(t, err)

	ctrl := gomock.NewController(t)
	_, err = NewProvider(Options{
		Accounts:   mocks.NewMockAccountRepository(ctrl),
		Sessions:   mockauth.NewMemorySessionStore(),
		SigningKey: []byte("short"),
	})
	assert.Error(t, err)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown identifier", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "nobody").Return(nil, data.ErrAccountNotFound)

		_, err := f.provider.SignIn(ctx, "Nobody", "x")
		assert.ErrorIs(t, err, ports.ErrUnknownIdentifier)
	})

	t.Run("wrong secret", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").
			Return(&domainauth.Credential{UID: "u1", Identifier: "admin", PasswordHash: hashed(t, "adminpassword")}, nil)

		_, err := f.provider.SignIn(ctx, "admin", "nope")
		assert.ErrorIs(t, err, ports.ErrWrongSecret)
	})

	t.Run("repository failure is not a credential error", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").Return(nil, errors.New("db down"))

		_, err := f.provider.SignIn(ctx, "admin", "adminpassword")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrUnknownIdentifier)
	})

	t.Run("success issues a resolvable token", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").
			Return(&domainauth.Credential{UID: "u1", Identifier: "admin", PasswordHash: hashed(t, "adminpassword")}, nil)

		sess, err := f.provider.SignIn(ctx, "admin", "adminpassword")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, "u1", sess.AccountID)
		assert.Equal(t, f.now.Add(time.Hour), sess.ExpiresAt)

		got, err := f.provider.Session(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		assert.True(t, f.provider.hub.Current().Active())
	})
}

func TestSession_RejectsExpiredTamperedAndRevoked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "guru").
		Return(&domainauth.Credential{UID: "u2", Identifier: "guru", PasswordHash: hashed(t, "gurupassword")}, nil)

	sess, err := f.provider.SignIn(ctx, "guru", "gurupassword")
	require.NoError(t, err)

	_, err = f.provider.Session(ctx, sess.Token+"x")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = f.provider.Session(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	f.now = f.now.Add(2 * time.Hour)
	_, err = f.provider.Session(ctx, sess.Token)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	f.now = f.now.Add(-2 * time.Hour)

	require.NoError(t, f.provider.SignOut(ctx, sess.Token))
	_, err = f.provider.Session(ctx, sess.Token)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, []string{sess.ID}, f.bus.Published())
	assert.False(t, f.provider.hub.Current().Active())
}

func TestSignOut_IgnoresGarbage(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.provider.SignOut(context.Background(), "not-a-jwt"))
	assert.Empty(t, f.bus.Published())
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid identifier", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.provider.CreateAccount(ctx, "a b", "secret1")
		assert.ErrorIs(t, err, ports.ErrInvalidIdentifier)
	})

	t.Run("weak secret", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.provider.CreateAccount(ctx, "guru2", "12345")
		assert.ErrorIs(t, err, ports.ErrWeakSecret)
	})

	t.Run("identifier in use", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrAccountExists)
		_, err := f.provider.CreateAccount(ctx, "guru2", "123456")
		assert.ErrorIs(t, err, ports.ErrIdentifierInUse)
	})

	t.Run("stores a bcrypt hash", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domainauth.Credential) (*domainauth.Credential, error) {
				assert.Equal(t, "guru2@sekolah.id", c.Identifier)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("123456")))
				return c, nil
			})
		acct, err := f.provider.CreateAccount(ctx, "Guru2@Sekolah.id", "123456")
		require.NoError(t, err)
		assert.NotEmpty(t, acct.UID)
	})
}

func TestEnsureAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("existing account is kept", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").
			Return(&domainauth.Credential{UID: "u1", Identifier: "admin"}, nil)

		acct, created, err := f.provider.EnsureAccount(ctx, "admin", "adminpassword")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "u1", acct.UID)
	})

	t.Run("missing account is created", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").Return(nil, data.ErrAccountNotFound)
		f.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domainauth.Credential) (*domainauth.Credential, error) {
				return c, nil
			})

		_, created, err := f.provider.EnsureAccount(ctx, "admin", "adminpassword")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("race resolves to existing", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").Return(nil, data.ErrAccountNotFound),
			f.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrAccountExists),
			f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").
				Return(&domainauth.Credential{UID: "u9", Identifier: "admin"}, nil),
		)

		acct, created, err := f.provider.EnsureAccount(ctx, "admin", "adminpassword")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "u9", acct.UID)
	})
}

func TestRun_ForwardsRemoteSignOut(t *testing.T) {
	f := newFixture(t)
	f.accounts.EXPECT().GetByIdentifier(gomock.Any(), "admin").
		Return(&domainauth.Credential{UID: "u1", Identifier: "admin", PasswordHash: hashed(t, "adminpassword")}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := f.provider.SignIn(ctx, "admin", "adminpassword")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- f.provider.Run(ctx) }()

	// Another process revoking the session is seen through the bus.
	require.Eventually(t, func() bool {
		_ = f.bus.PublishSignOut(ctx, sess.ID)
		return !f.provider.hub.Current().Active()
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
