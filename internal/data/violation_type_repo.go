package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spps-sekolah/spps-api/internal/data/pgxutil"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// ViolationTypeRepo provides database operations for the violation catalog.
type ViolationTypeRepo struct {
	DB *sql.DB
}

// NewViolationTypeRepo creates a new ViolationTypeRepo.
func NewViolationTypeRepo(db *sql.DB) *ViolationTypeRepo {
	return &ViolationTypeRepo{DB: db}
}

const (
	violationTypeColumns = `id, name, created_at, updated_at`

	violationTypeListQuery       = `SELECT ` + violationTypeColumns + ` FROM violation_types ORDER BY lower(name), id`
	violationTypeGetByIDQuery    = `SELECT ` + violationTypeColumns + ` FROM violation_types WHERE id = $1`
	violationTypeFindByNameQuery = `SELECT ` + violationTypeColumns + ` FROM violation_types WHERE lower(name) = lower($1)`
	violationTypeInsertQuery     = `INSERT INTO violation_types (name) VALUES ($1) RETURNING ` + violationTypeColumns
	violationTypeUpdateQuery     = `
		UPDATE violation_types SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + violationTypeColumns
)

// List returns the catalog ordered by name.
func (r *ViolationTypeRepo) List(ctx context.Context) ([]*model.ViolationType, error) {
	out, err := pgxutil.QueryAll[model.ViolationType](ctx, r.DB, violationTypeListQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list violation types: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// GetByID retrieves a violation type by id.
func (r *ViolationTypeRepo) GetByID(ctx context.Context, id string) (*model.ViolationType, error) {
	if !validID(id) {
		return nil, ErrViolationTypeNotFound
	}
	vt, err := pgxutil.QueryOne[model.ViolationType](ctx, r.DB, violationTypeGetByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrViolationTypeNotFound
		}
		return nil, fmt.Errorf("failed to get violation type: %w", apperrors.MapDBError(err))
	}
	return vt, nil
}

// FindByName returns types whose name matches case-insensitively.
func (r *ViolationTypeRepo) FindByName(ctx context.Context, name string) ([]*model.ViolationType, error) {
	out, err := pgxutil.QueryAll[model.ViolationType](ctx, r.DB, violationTypeFindByNameQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find violation types: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Create inserts a violation type.
func (r *ViolationTypeRepo) Create(ctx context.Context, req *model.ViolationTypeRequest) (*model.ViolationType, error) {
	if req == nil {
		return nil, errors.New("violation type request is required")
	}
	vt, err := pgxutil.QueryOne[model.ViolationType](ctx, r.DB, violationTypeInsertQuery, req.Name)
	if err != nil {
		return nil, mapViolationTypeWriteErr(err, "create")
	}
	return vt, nil
}

// Update renames a violation type.
func (r *ViolationTypeRepo) Update(
	ctx context.Context,
	id string,
	req *model.ViolationTypeRequest,
) (*model.ViolationType, error) {
	if req == nil {
		return nil, errors.New("violation type request is required")
	}
	if !validID(id) {
		return nil, ErrViolationTypeNotFound
	}
	vt, err := pgxutil.QueryOne[model.ViolationType](ctx, r.DB, violationTypeUpdateQuery, req.Name, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrViolationTypeNotFound
		}
		return nil, mapViolationTypeWriteErr(err, "update")
	}
	return vt, nil
}

// Delete removes a violation type. Ledger entries referencing it are kept.
func (r *ViolationTypeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	n, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM violation_types WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete violation type: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}

func mapViolationTypeWriteErr(err error, op string) error {
	if apperrors.IsUniqueViolation(err, constraintViolationTypesName) {
		return ErrViolationTypeExists
	}
	return fmt.Errorf("failed to %s violation type: %w", op, apperrors.MapDBError(err))
}
