// Package localauth implements the built-in auth provider: PostgreSQL-backed credentials,
// bcrypt secrets, HS256 session tokens and revocable sessions kept in Redis.
package localauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spps-sekolah/spps-api/internal/adapters/authfeed"
	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

const (
	defaultTTL    = 8 * time.Hour
	defaultIssuer = "spps"
	minKeyLength  = 32
)

var _ ports.WatchableAuthProvider = (*Provider)(nil)

// Options configures the local provider. Accounts, Sessions and SigningKey are required.
type Options struct {
	Accounts core.AccountRepository
	Sessions ports.SessionStore
	// Bus fans sign-outs out to other processes. Optional.
	Bus        ports.SessionBus
	SigningKey []byte
	Issuer     string
	TTL        time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Logger     *slog.Logger
	Now        func() time.Time
}

// Provider implements ports.WatchableAuthProvider.
type Provider struct {
	accounts core.AccountRepository
	sessions ports.SessionStore
	bus      ports.SessionBus
	key      []byte
	issuer   string
	ttl      time.Duration
	cost     int
	logger   *slog.Logger
	now      func() time.Time
	hub      *authfeed.Hub
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewProvider constructs a local provider from Options.
func NewProvider(opts Options) (*Provider, error) {
	if opts.Accounts == nil {
		return nil, errors.New("local auth: account repository is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("local auth: session store is required")
	}
	if len(opts.SigningKey) < minKeyLength {
		return nil, fmt.Errorf("local auth: signing key must be at least %d bytes", minKeyLength)
	}
	p := &Provider{
		accounts: opts.Accounts,
		sessions: opts.Sessions,
		bus:      opts.Bus,
		key:      append([]byte(nil), opts.SigningKey...),
		issuer:   opts.Issuer,
		ttl:      opts.TTL,
		cost:     opts.BcryptCost,
		logger:   opts.Logger,
		now:      opts.Now,
		hub:      authfeed.NewHub(),
	}
	if p.issuer == "" {
		p.issuer = defaultIssuer
	}
	if p.ttl <= 0 {
		p.ttl = defaultTTL
	}
	if p.cost == 0 {
		p.cost = bcrypt.DefaultCost
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.logger = p.logger.With("component", "localauth")
	return p, nil
}

// SignIn verifies the secret and issues a session token.
func (p *Provider) SignIn(ctx context.Context, identifier, secret string) (domainauth.ProviderSession, error) {
	id := domainauth.NormalizeIdentifier(identifier)
	cred, err := p.accounts.GetByIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrAccountNotFound) {
			return domainauth.ProviderSession{}, ports.ErrUnknownIdentifier
		}
		return domainauth.ProviderSession{}, fmt.Errorf("lookup account: %w", err)
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(secret)); cmpErr != nil {
		if errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
			return domainauth.ProviderSession{}, ports.ErrWrongSecret
		}
		return domainauth.ProviderSession{}, fmt.Errorf("compare secret: %w", cmpErr)
	}

	now := p.now().UTC().Truncate(time.Second)
	sess := domainauth.ProviderSession{
		ID:         uuid.NewString(),
		AccountID:  cred.UID,
		Identifier: cred.Identifier,
		IssuedAt:   now,
		ExpiresAt:  now.Add(p.ttl),
	}
	token, err := p.sign(sess)
	if err != nil {
		return domainauth.ProviderSession{}, err
	}
	sess.Token = token

	if saveErr := p.sessions.Save(ctx, sess); saveErr != nil {
		return domainauth.ProviderSession{}, fmt.Errorf("save session: %w", saveErr)
	}
	p.hub.SignedIn(sess)
	p.logger.InfoContext(ctx, "session issued", "session_id", sess.ID, "account_id", sess.AccountID)
	return sess, nil
}

// SignOut revokes the session behind token. Unparseable tokens are ignored.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		p.logger.DebugContext(ctx, "sign out with invalid token", "error", err)
		return nil
	}
	if delErr := p.sessions.Delete(ctx, claims.SessionID); delErr != nil {
		return fmt.Errorf("delete session: %w", delErr)
	}
	p.hub.SignedOut(claims.SessionID)
	if p.bus != nil {
		if pubErr := p.bus.PublishSignOut(ctx, claims.SessionID); pubErr != nil {
			// The session is already revoked; peers only miss the notification.
			p.logger.WarnContext(ctx, "publish sign out failed", "session_id", claims.SessionID, "error", pubErr)
		}
	}
	return nil
}

// Session validates token and returns the stored session.
func (p *Provider) Session(ctx context.Context, token string) (domainauth.ProviderSession, error) {
	claims, err := p.parse(token)
	if err != nil {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	sess, err := p.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return domainauth.ProviderSession{}, err
	}
	if sess.AccountID != claims.Subject || sess.Expired(p.now()) {
		return domainauth.ProviderSession{}, ports.ErrSessionNotFound
	}
	sess.Token = token
	return sess, nil
}

// CreateAccount stores a new credential.
func (p *Provider) CreateAccount(ctx context.Context, identifier, secret string) (domainauth.Account, error) {
	id := domainauth.NormalizeIdentifier(identifier)
	if !domainauth.ValidIdentifier(id) {
		return domainauth.Account{}, ports.ErrInvalidIdentifier
	}
	if len(secret) < domainauth.MinSecretLength {
		return domainauth.Account{}, ports.ErrWeakSecret
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), p.cost)
	if err != nil {
		// Secrets over 72 bytes are rejected by bcrypt.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domainauth.Account{}, ports.ErrWeakSecret
		}
		return domainauth.Account{}, fmt.Errorf("hash secret: %w", err)
	}
	cred, err := p.accounts.Create(ctx, &domainauth.Credential{
		UID:          uuid.NewString(),
		Identifier:   id,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, data.ErrAccountExists) {
			return domainauth.Account{}, ports.ErrIdentifierInUse
		}
		return domainauth.Account{}, fmt.Errorf("create account: %w", err)
	}
	return domainauth.Account{UID: cred.UID, Identifier: cred.Identifier}, nil
}

// EnsureAccount creates the account unless the identifier already exists.
// It reports whether a new account was created.
func (p *Provider) EnsureAccount(ctx context.Context, identifier, secret string) (domainauth.Account, bool, error) {
	id := domainauth.NormalizeIdentifier(identifier)
	cred, err := p.accounts.GetByIdentifier(ctx, id)
	if err == nil {
		return domainauth.Account{UID: cred.UID, Identifier: cred.Identifier}, false, nil
	}
	if !errors.Is(err, data.ErrAccountNotFound) {
		return domainauth.Account{}, false, fmt.Errorf("lookup account: %w", err)
	}

	acct, err := p.CreateAccount(ctx, id, secret)
	if errors.Is(err, ports.ErrIdentifierInUse) {
		// Lost a race with a concurrent seeder.
		cred, err = p.accounts.GetByIdentifier(ctx, id)
		if err != nil {
			return domainauth.Account{}, false, fmt.Errorf("lookup account: %w", err)
		}
		return domainauth.Account{UID: cred.UID, Identifier: cred.Identifier}, false, nil
	}
	if err != nil {
		return domainauth.Account{}, false, err
	}
	return acct, true, nil
}

// Watch streams session changes for sessions issued by this process.
func (p *Provider) Watch(ctx context.Context) (<-chan domainauth.SessionEvent, error) {
	return p.hub.Watch(ctx)
}

// Run forwards sign-outs published by other processes to the local feed until ctx is done.
func (p *Provider) Run(ctx context.Context) error {
	if p.bus == nil {
		<-ctx.Done()
		return nil
	}
	err := p.bus.Listen(ctx, p.hub.SignedOut)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (p *Provider) sign(sess domainauth.ProviderSession) (string, error) {
	claims := sessionClaims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.AccountID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (p *Provider) parse(token string, extra ...jwt.ParserOption) (*sessionClaims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	opts := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
	}, extra...)
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.key, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.SessionID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
