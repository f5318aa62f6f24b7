package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spps-sekolah/spps-api/internal/data/pgxutil"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// UserRepo provides database operations for user profiles.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const (
	userColumns = `id, username, role, created_at, updated_at`

	userListQuery    = `SELECT ` + userColumns + ` FROM users ORDER BY lower(username), id`
	userGetByIDQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	userInsertQuery  = `
		INSERT INTO users (id, username, role) VALUES ($1, $2, $3)
		RETURNING ` + userColumns
)

// List returns every profile ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]*domainauth.User, error) {
	users, err := pgxutil.QueryAll[domainauth.User](ctx, r.DB, userListQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", apperrors.MapDBError(err))
	}
	return users, nil
}

// GetByID retrieves a profile by provider account id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domainauth.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrUserNotFound
	}
	u, err := pgxutil.QueryOne[domainauth.User](ctx, r.DB, userGetByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", apperrors.MapDBError(err))
	}
	return u, nil
}

// Create inserts a profile keyed by user.ID.
func (r *UserRepo) Create(ctx context.Context, user *domainauth.User) (*domainauth.User, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return nil, errors.New("user id is required")
	}
	u, err := pgxutil.QueryOne[domainauth.User](ctx, r.DB, userInsertQuery, user.ID, user.Username, user.Role)
	if err != nil {
		if apperrors.IsUniqueViolation(err, constraintUsersPK) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", apperrors.MapDBError(err))
	}
	return u, nil
}

// Update sets username and/or role. Password fields are not stored here.
func (r *UserRepo) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*domainauth.User, error) {
	if !req.HasUpdates() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if req.Username != nil {
		args = append(args, *req.Username)
		sets = append(sets, fmt.Sprintf("username = $%d", len(args)))
	}
	if req.Role != nil {
		args = append(args, *req.Role)
		sets = append(sets, fmt.Sprintf("role = $%d", len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + userColumns

	u, err := pgxutil.QueryOne[domainauth.User](ctx, r.DB, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", apperrors.MapDBError(err))
	}
	return u, nil
}

// Delete removes a profile. The provider account is untouched.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}
