package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spps-sekolah/spps-api/internal/data/pgxutil"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// AccountRepo stores credentials for the local auth provider.
type AccountRepo struct {
	DB *sql.DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

const accountColumns = `uid, identifier, password_hash, created_at`

// GetByIdentifier looks an account up by its normalized identifier.
func (r *AccountRepo) GetByIdentifier(ctx context.Context, identifier string) (*domainauth.Credential, error) {
	c, err := pgxutil.QueryOne[domainauth.Credential](ctx, r.DB,
		`SELECT `+accountColumns+` FROM accounts WHERE identifier = $1`, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", apperrors.MapDBError(err))
	}
	return c, nil
}

// Create inserts a credential.
func (r *AccountRepo) Create(ctx context.Context, cred *domainauth.Credential) (*domainauth.Credential, error) {
	if cred == nil {
		return nil, errors.New("credential is required")
	}
	c, err := pgxutil.QueryOne[domainauth.Credential](ctx, r.DB, `
		INSERT INTO accounts (uid, identifier, password_hash) VALUES ($1, $2, $3)
		RETURNING `+accountColumns, cred.UID, cred.Identifier, cred.PasswordHash)
	if err != nil {
		if apperrors.IsUniqueViolation(err, constraintAccountsIdentifier, constraintAccountsPK) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", apperrors.MapDBError(err))
	}
	return c, nil
}
