package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Users    core.UserRepository
	// Bootstrap lists identifiers whose profile is created on first login.
	Bootstrap []domainauth.BootstrapAccount
	Logger    *slog.Logger
}

// AuthService is the gateway between the auth provider and application profiles.
type AuthService struct {
	provider  ports.AuthProvider
	users     core.UserRepository
	bootstrap []domainauth.BootstrapAccount
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Provider == nil {
		panic("AuthProvider is required")
	}
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:  opts.Provider,
		users:     opts.Users,
		bootstrap: append([]domainauth.BootstrapAccount(nil), opts.Bootstrap...),
		logger:    logger.With("component", "auth"),
	}
}

// LoginResult contains the outcome of a successful login.
type LoginResult struct {
	User    *domainauth.User
	Session domainauth.ProviderSession
}

// Login verifies credentials with the provider and returns the caller's profile.
// A bootstrap identifier without a profile gets one seeded with its fixed role.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	sess, err := s.provider.SignIn(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, ports.ErrUnknownIdentifier) || errors.Is(err, ports.ErrWrongSecret) {
			return nil, apperrors.CredentialRejected(msgBadCredentials)
		}
		s.logger.ErrorContext(ctx, "provider sign in failed", "error", err)
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, msgLoginFailed, err.Error())
	}

	user, err := s.profileOrSeed(ctx, sess, identifier)
	if err != nil {
		// Do not leave a provider session behind without a usable profile.
		if soErr := s.provider.SignOut(ctx, sess.Token); soErr != nil {
			s.logger.WarnContext(ctx, "sign out after failed login", "session_id", sess.ID, "error", soErr)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "login", "user_id", user.ID, "role", user.Role)
	return &LoginResult{User: user, Session: sess}, nil
}

func (s *AuthService) profileOrSeed(
	ctx context.Context,
	sess domainauth.ProviderSession,
	identifier string,
) (*domainauth.User, error) {
	user, err := s.users.GetByID(ctx, sess.AccountID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, msgLoginFailed, err.Error())
	}

	role, ok := domainauth.BootstrapRole(s.bootstrap, identifier)
	if !ok {
		return nil, apperrors.NotFound(msgProfileMissing)
	}

	user, err = s.users.Create(ctx, &domainauth.User{
		ID:       sess.AccountID,
		Username: domainauth.NormalizeIdentifier(identifier),
		Role:     role,
	})
	if errors.Is(err, data.ErrUserExists) {
		// A concurrent first login seeded it.
		user, err = s.users.GetByID(ctx, sess.AccountID)
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, msgLoginFailed, err.Error())
	}
	s.logger.InfoContext(ctx, "bootstrap profile seeded", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Logout ends the provider session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.provider.SignOut(ctx, token); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, msgLogoutFailed, err.Error())
	}
	return nil
}

// ResolveSession returns the profile behind a session token.
// A live session without a profile is signed out.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domainauth.User, error) {
	if token == "" {
		return nil, apperrors.CredentialRejected(msgSessionInvalid)
	}
	sess, err := s.provider.Session(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, apperrors.CredentialRejected(msgSessionInvalid)
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, msgSessionCheck, err.Error())
	}
	return s.profileFor(ctx, sess)
}

// profileFor resolves the profile of an active session, signing the session out when none exists.
func (s *AuthService) profileFor(ctx context.Context, sess domainauth.ProviderSession) (*domainauth.User, error) {
	user, err := s.users.GetByID(ctx, sess.AccountID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, msgSessionCheck, err.Error())
	}
	s.logger.WarnContext(ctx, "session without profile signed out", "account_id", sess.AccountID)
	if soErr := s.provider.SignOut(ctx, sess.Token); soErr != nil {
		return nil, errors.Join(apperrors.CredentialRejected(msgProfileMissing), fmt.Errorf("sign out: %w", soErr))
	}
	return nil, apperrors.CredentialRejected(msgProfileMissing)
}
