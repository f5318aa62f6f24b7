package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

// AuthMode selects the auth provider implementation.
type AuthMode string

const (
	// AuthModeLocal keeps bcrypt credentials in PostgreSQL and sessions in Redis.
	AuthModeLocal AuthMode = "local"
	// AuthModeOIDC delegates credential checks to an OpenID Connect provider.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock keeps accounts in memory (for development only).
	AuthModeMock AuthMode = "mock"
)

const minJWTSecretLength = 32

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "local", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: local, oidc, mock)", v)
	}
}

// LocalAuthConfig configures the built-in provider.
type LocalAuthConfig struct {
	// JWTSecret signs session tokens. At least 32 bytes.
	JWTSecret  string `env:"JWT_SECRET"`
	Issuer     string `env:"ISSUER"      envDefault:"spps"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
}

// OIDCConfig contains OpenID Connect configuration for the password grant.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"MODE" envDefault:"local"`

	// SessionTTL is the lifetime of issued sessions.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// SeedBootstrap pre-creates the bootstrap provider accounts at startup (local and mock).
	SeedBootstrap bool `env:"SEED_BOOTSTRAP" envDefault:"true"`

	AdminIdentifier string `env:"BOOTSTRAP_ADMIN_USERNAME" envDefault:"admin"`
	AdminSecret     string `env:"BOOTSTRAP_ADMIN_PASSWORD" envDefault:"adminpassword"`
	GuruIdentifier  string `env:"BOOTSTRAP_GURU_USERNAME"  envDefault:"guru"`
	GuruSecret      string `env:"BOOTSTRAP_GURU_PASSWORD"  envDefault:"gurupassword"`

	Local LocalAuthConfig `envPrefix:"LOCAL_"`
	OIDC  OIDCConfig      `envPrefix:"OIDC_"`
}

// Sanitize normalises identifiers and clamps the session lifetime.
func (a *AuthConfig) Sanitize() {
	a.AdminIdentifier = domainauth.NormalizeIdentifier(a.AdminIdentifier)
	a.GuruIdentifier = domainauth.NormalizeIdentifier(a.GuruIdentifier)
	if a.AdminIdentifier == "" {
		a.AdminIdentifier = domainauth.DefaultAdminIdentifier
	}
	if a.GuruIdentifier == "" {
		a.GuruIdentifier = domainauth.DefaultGuruIdentifier
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.Mode == "" {
		a.Mode = AuthModeLocal
	}
	a.OIDC.DiscoveryURL = strings.TrimSpace(a.OIDC.DiscoveryURL)
}

// Validate checks the settings the selected mode needs.
func (a *AuthConfig) Validate(isDev bool) error {
	switch a.Mode {
	case AuthModeLocal:
		if len(a.Local.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("AUTH_LOCAL_JWT_SECRET must be at least %d bytes", minJWTSecretLength)
		}
	case AuthModeOIDC:
		if a.OIDC.ClientID == "" || a.OIDC.DiscoveryURL == "" {
			return errors.New("AUTH_OIDC_CLIENT_ID and AUTH_OIDC_DISCOVERY_URL are required")
		}
	case AuthModeMock:
		if !isDev {
			return errors.New("AUTH_MODE=mock requires DEV=true")
		}
	}
	if a.AdminIdentifier == a.GuruIdentifier {
		return errors.New("bootstrap admin and guru usernames must differ")
	}
	for _, s := range []string{a.AdminSecret, a.GuruSecret} {
		if len(s) < domainauth.MinSecretLength {
			return fmt.Errorf("bootstrap passwords must be at least %d characters", domainauth.MinSecretLength)
		}
	}
	return nil
}

// BootstrapAccounts returns the configured administrator and duty-teacher accounts.
func (a *AuthConfig) BootstrapAccounts() []domainauth.BootstrapAccount {
	return []domainauth.BootstrapAccount{
		{Identifier: a.AdminIdentifier, Secret: a.AdminSecret, Role: domainauth.RoleAdmin},
		{Identifier: a.GuruIdentifier, Secret: a.GuruSecret, Role: domainauth.RoleDutyTeacher},
	}
}

// UsesDefaultSecrets reports whether either bootstrap password is the published default.
func (a *AuthConfig) UsesDefaultSecrets() bool {
	return a.AdminSecret == domainauth.DefaultAdminSecret || a.GuruSecret == domainauth.DefaultGuruSecret
}
