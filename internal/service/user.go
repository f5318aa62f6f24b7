package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
	"github.com/spps-sekolah/spps-api/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Provider ports.AuthProvider
	Users    core.UserRepository
	Logger   *slog.Logger
}

// UserService manages application profiles and their provider accounts.
type UserService struct {
	provider ports.AuthProvider
	users    core.UserRepository
	logger   *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
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
	return &UserService{provider: opts.Provider, users: opts.Users, logger: logger.With("component", "users")}
}

// List returns all profiles ordered by username.
func (s *UserService) List(ctx context.Context) ([]*domainauth.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeErr(err, "memuat daftar pengguna")
	}
	return users, nil
}

// Get returns a profile by id.
func (s *UserService) Get(ctx context.Context, id string) (*domainauth.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, data.ErrUserNotFound) {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, storeErr(err, "memuat pengguna")
	}
	return user, nil
}

// Create registers a provider account and persists its profile.
// A profile write failure leaves the provider account in place.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*domainauth.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	acct, err := s.provider.CreateAccount(ctx, req.Username, req.Password)
	if err != nil {
		return nil, mapCreateAccountErr(err)
	}

	user, err := s.users.Create(ctx, &domainauth.User{ID: acct.UID, Username: req.Username, Role: req.Role})
	if err != nil {
		s.logger.ErrorContext(ctx, "profile write failed after account creation",
			"account_id", acct.UID, "username", req.Username, "error", err)
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, msgAddUserFailed, err.Error())
	}
	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func mapCreateAccountErr(err error) error {
	switch {
	case errors.Is(err, ports.ErrIdentifierInUse):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, msgIdentifierInUse)
	case errors.Is(err, ports.ErrInvalidIdentifier):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, msgBadIdentifier)
	case errors.Is(err, ports.ErrWeakSecret):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, msgWeakPassword)
	case errors.Is(err, ports.ErrUnsupported):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, msgUnsupported)
	default:
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, msgAddUserFailed, err.Error())
	}
}

// Update changes the username and role of a profile. Password changes are not supported.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*domainauth.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if req.WantsPasswordChange() {
		s.logger.WarnContext(ctx, "password change ignored, rotation is not supported", "user_id", id)
	}
	if !req.HasUpdates() {
		return s.Get(ctx, id)
	}
	req.Password = nil

	user, err := s.users.Update(ctx, id, req)
	if errors.Is(err, data.ErrUserNotFound) {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, storeErr(err, "memperbarui pengguna")
	}
	return user, nil
}

// Delete removes the profile only. The provider account remains.
func (s *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, msgDeleteUserFail, err.Error())
	}
	if !deleted {
		return apperrors.NotFound(msgUserNotFound)
	}
	s.logger.InfoContext(ctx, "user profile deleted", "user_id", id)
	return nil
}
