package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spps-sekolah/spps-api/internal/data/database"
	"github.com/spps-sekolah/spps-api/internal/data/pgxutil"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

const (
	defaultViolationLimit = 100
	maxViolationLimit     = 1000
)

// ViolationRepo provides database operations for the violation ledger.
type ViolationRepo struct {
	DB *sql.DB
}

// NewViolationRepo creates a new ViolationRepo.
func NewViolationRepo(db *sql.DB) *ViolationRepo {
	return &ViolationRepo{DB: db}
}

const (
	violationReturning = `id, student_id, violation_type_id, occurred_at, points, notes, recorded_by, created_at, updated_at`

	violationGetByIDQuery = `SELECT ` + violationReturning + ` FROM violations WHERE id = $1`

	violationInsertQuery = `
		INSERT INTO violations (student_id, violation_type_id, occurred_at, points, notes, recorded_by)
		VALUES ($1, $2, COALESCE($3, now()), $4, $5, $6)
		RETURNING ` + violationReturning
)

func violationColumns() []string {
	return []string{
		"id",
		"student_id",
		"violation_type_id",
		"occurred_at",
		"points",
		"notes",
		"recorded_by",
		"created_at",
		"updated_at",
	}
}

// List returns ledger entries newest first, filtered by opts.
func (r *ViolationRepo) List(ctx context.Context, opts model.ViolationListOptions) ([]*model.Violation, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultViolationLimit
	}
	limit = min(limit, maxViolationLimit)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(violationColumns()...),
		database.WithOrderBy("occurred_at", "DESC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if opts.StudentID != nil {
		if !validID(*opts.StudentID) {
			return nil, nil
		}
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("student_id", database.Equal, strings.TrimSpace(*opts.StudentID))))
	}
	if opts.ViolationTypeID != nil {
		if !validID(*opts.ViolationTypeID) {
			return nil, nil
		}
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("violation_type_id", database.Equal, strings.TrimSpace(*opts.ViolationTypeID))))
	}
	if opts.From != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("occurred_at", database.GreaterThanOrEqual, opts.From.UTC())))
	}
	if opts.To != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("occurred_at", database.LessThan, opts.To.UTC())))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("violations", queryOpts...))
	out, err := pgxutil.QueryAll[model.Violation](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// GetByID retrieves a ledger entry by id.
func (r *ViolationRepo) GetByID(ctx context.Context, id string) (*model.Violation, error) {
	if !validID(id) {
		return nil, ErrViolationNotFound
	}
	v, err := pgxutil.QueryOne[model.Violation](ctx, r.DB, violationGetByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrViolationNotFound
		}
		return nil, fmt.Errorf("failed to get violation: %w", apperrors.MapDBError(err))
	}
	return v, nil
}

// Create records a violation. A nil Date defaults to the database clock.
func (r *ViolationRepo) Create(ctx context.Context, req *model.CreateViolationRequest) (*model.Violation, error) {
	if req == nil {
		return nil, errors.New("create violation request is required")
	}
	v, err := pgxutil.QueryOne[model.Violation](ctx, r.DB, violationInsertQuery,
		req.StudentID, req.ViolationTypeID, req.Date, req.Points, req.Notes, req.RecordedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create violation: %w", apperrors.MapDBError(err))
	}
	return v, nil
}

// Update merges the set fields of req into the entry.
func (r *ViolationRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateViolationRequest,
) (*model.Violation, error) {
	if !req.HasUpdates() {
		return r.GetByID(ctx, id)
	}
	if !validID(id) {
		return nil, ErrViolationNotFound
	}

	setClause, args := buildViolationUpdate(req)
	args = append(args, id)
	query := "UPDATE violations SET " + setClause +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + violationReturning

	v, err := pgxutil.QueryOne[model.Violation](ctx, r.DB, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrViolationNotFound
		}
		return nil, fmt.Errorf("failed to update violation: %w", apperrors.MapDBError(err))
	}
	return v, nil
}

func buildViolationUpdate(req model.UpdateViolationRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.StudentID != nil {
		add("student_id", strings.TrimSpace(*req.StudentID))
	}
	if req.ViolationTypeID != nil {
		add("violation_type_id", strings.TrimSpace(*req.ViolationTypeID))
	}
	if req.Date != nil {
		add("occurred_at", req.Date.UTC())
	}
	if req.Points != nil {
		add("points", *req.Points)
	}
	if req.Notes != nil {
		if strings.TrimSpace(*req.Notes) == "" {
			setParts = append(setParts, "notes = NULL")
		} else {
			add("notes", *req.Notes)
		}
	}
	setParts = append(setParts, "updated_at = now()")
	return strings.Join(setParts, ", "), args
}

// Delete removes a ledger entry.
func (r *ViolationRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	n, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM violations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete violation: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}
