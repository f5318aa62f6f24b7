package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/spps-sekolah/spps-api/config"
	"github.com/spps-sekolah/spps-api/internal/adapters/devauth"
	"github.com/spps-sekolah/spps-api/internal/adapters/localauth"
	"github.com/spps-sekolah/spps-api/internal/adapters/oidc"
	redisadapter "github.com/spps-sekolah/spps-api/internal/adapters/redis"
	"github.com/spps-sekolah/spps-api/internal/data"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

// AuthConfig contains the dependencies for building the auth provider.
type AuthConfig struct {
	Auth config.AuthConfig
	// KeyPrefix namespaces the Redis session keys and sign-out channel.
	KeyPrefix   string
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthProvider is the selected provider plus the background work it needs.
type AuthProvider struct {
	Provider ports.WatchableAuthProvider
	// Run blocks until ctx is done. For the local provider it forwards sign-outs from other processes.
	Run func(ctx context.Context) error
}

func waitDone(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// BuildAuthProvider creates the provider for the configured mode and seeds the bootstrap accounts.
func BuildAuthProvider(ctx context.Context, cfg AuthConfig) (*AuthProvider, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		out *AuthProvider
		err error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeLocal:
		out, err = buildLocalProvider(ctx, cfg, logger)
	case config.AuthModeOIDC:
		out, err = buildOIDCProvider(ctx, cfg)
	case config.AuthModeMock:
		out, err = buildDevProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Auth.Mode != config.AuthModeOIDC && cfg.Auth.SeedBootstrap && cfg.Auth.UsesDefaultSecrets() {
		logger.WarnContext(ctx, "bootstrap accounts use the default passwords; set AUTH_BOOTSTRAP_ADMIN_PASSWORD and AUTH_BOOTSTRAP_GURU_PASSWORD",
			"mode", cfg.Auth.Mode)
	}
	logger.InfoContext(ctx, "auth provider ready", "mode", cfg.Auth.Mode)
	return out, nil
}

func buildLocalProvider(ctx context.Context, cfg AuthConfig, logger *slog.Logger) (*AuthProvider, error) {
	if cfg.DB == nil || cfg.RedisClient == nil {
		return nil, errors.New("local auth requires database and redis")
	}
	prov, err := localauth.NewProvider(localauth.Options{
		Accounts: data.NewAccountRepo(cfg.DB),
		Sessions: redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.KeyPrefix+"session:"),
		Bus: redisadapter.NewSessionBus(redisadapter.SessionBusOptions{
			Client:  cfg.RedisClient,
			Channel: cfg.KeyPrefix + "auth:signout",
			Logger:  logger,
		}),
		SigningKey: []byte(cfg.Auth.Local.JWTSecret),
		Issuer:     cfg.Auth.Local.Issuer,
		TTL:        cfg.Auth.SessionTTL,
		BcryptCost: cfg.Auth.Local.BcryptCost,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create local auth provider: %w", err)
	}

	if cfg.Auth.SeedBootstrap {
		if err = SeedAccounts(ctx, prov, cfg.Auth, logger); err != nil {
			return nil, err
		}
	}
	return &AuthProvider{Provider: prov, Run: prov.Run}, nil
}

// AccountSeeder creates an account unless it already exists.
type AccountSeeder interface {
	EnsureAccount(ctx context.Context, identifier, secret string) (created bool, err error)
}

type localSeeder struct{ p *localauth.Provider }

func (s localSeeder) EnsureAccount(ctx context.Context, identifier, secret string) (bool, error) {
	_, created, err := s.p.EnsureAccount(ctx, identifier, secret)
	return created, err
}

// SeedAccounts pre-creates the bootstrap provider accounts. Existing accounts keep their password.
func SeedAccounts(ctx context.Context, prov *localauth.Provider, auth config.AuthConfig, logger *slog.Logger) error {
	return seedAccounts(ctx, localSeeder{prov}, auth, logger)
}

func seedAccounts(ctx context.Context, seeder AccountSeeder, auth config.AuthConfig, logger *slog.Logger) error {
	for _, acct := range auth.BootstrapAccounts() {
		created, err := seeder.EnsureAccount(ctx, acct.Identifier, acct.Secret)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", acct.Identifier, err)
		}
		if created {
			logger.InfoContext(ctx, "bootstrap account created", "identifier", acct.Identifier, "role", acct.Role)
		}
	}
	return nil
}

func buildOIDCProvider(ctx context.Context, cfg AuthConfig) (*AuthProvider, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("oidc auth requires redis")
	}
	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     cfg.Auth.OIDC.ClientID,
		ClientSecret: cfg.Auth.OIDC.ClientSecret,
		Scope:        cfg.Auth.OIDC.Scope,
		DiscoveryURL: cfg.Auth.OIDC.DiscoveryURL,
		Sessions:     redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.KeyPrefix+"session:"),
	})
	if err != nil {
		return nil, fmt.Errorf("create oidc provider: %w", err)
	}
	return &AuthProvider{Provider: prov, Run: waitDone}, nil
}

func buildDevProvider(cfg AuthConfig) (*AuthProvider, error) {
	var creds []devauth.Credential
	if cfg.Auth.SeedBootstrap {
		for _, acct := range cfg.Auth.BootstrapAccounts() {
			creds = append(creds, devauth.Credential{Identifier: acct.Identifier, Secret: acct.Secret})
		}
	}
	prov, err := devauth.NewProvider(devauth.Config{Accounts: creds, SessionDuration: cfg.Auth.SessionTTL})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return &AuthProvider{Provider: prov, Run: waitDone}, nil
}
