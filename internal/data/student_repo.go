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

// StudentRepo provides database operations for the roster.
// Uniqueness of (name, class_name) is enforced by the students_name_class_key index.
type StudentRepo struct {
	DB *sql.DB
}

// NewStudentRepo creates a new StudentRepo.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{DB: db}
}

const (
	studentColumns = `id, name, class_name, nis, gender, parent_contact, created_at, updated_at`

	studentListQuery = `SELECT ` + studentColumns + `
		FROM students
		ORDER BY lower(class_name), lower(name), id`

	studentGetByIDQuery = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	studentFindByNameClassQuery = `SELECT ` + studentColumns + `
		FROM students
		WHERE lower(name) = lower($1) AND lower(class_name) = lower($2)`

	studentInsertQuery = `
		INSERT INTO students (name, class_name, nis, gender, parent_contact)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + studentColumns

	// Rows colliding on the uniqueness key produce no RETURNING row.
	studentInsertSkipQuery = `
		INSERT INTO students (name, class_name, nis, gender, parent_contact)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
		RETURNING ` + studentColumns

	studentUpdateQuery = `
		UPDATE students
		SET name = $1, class_name = $2, nis = $3, gender = $4, parent_contact = $5, updated_at = now()
		WHERE id = $6
		RETURNING ` + studentColumns
)

// List returns the full roster ordered by class then name.
func (r *StudentRepo) List(ctx context.Context) ([]*model.Student, error) {
	out, err := pgxutil.QueryAll[model.Student](ctx, r.DB, studentListQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// GetByID retrieves a student by id.
func (r *StudentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	if !validID(id) {
		return nil, ErrStudentNotFound
	}
	s, err := pgxutil.QueryOne[model.Student](ctx, r.DB, studentGetByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", apperrors.MapDBError(err))
	}
	return s, nil
}

// FindByNameClass returns students matching (name, className) case-insensitively.
func (r *StudentRepo) FindByNameClass(ctx context.Context, name, className string) ([]*model.Student, error) {
	out, err := pgxutil.QueryAll[model.Student](ctx, r.DB, studentFindByNameClassQuery, name, className)
	if err != nil {
		return nil, fmt.Errorf("failed to find students: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Create inserts a student.
func (r *StudentRepo) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	if req == nil {
		return nil, errors.New("create student request is required")
	}
	s, err := pgxutil.QueryOne[model.Student](ctx, r.DB, studentInsertQuery,
		req.Name, req.ClassName, req.NIS, req.Gender, req.ParentContact)
	if err != nil {
		return nil, mapStudentWriteErr(err, "create")
	}
	return s, nil
}

// CreateMany inserts reqs in one transaction, skipping rows that collide on (name, class_name).
func (r *StudentRepo) CreateMany(ctx context.Context, reqs []*model.CreateStudentRequest) ([]*model.Student, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	var inserted []*model.Student
	err := pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, req := range reqs {
			batch.Queue(studentInsertSkipQuery, req.Name, req.ClassName, req.NIS, req.Gender, req.ParentContact)
		}
		results := tx.SendBatch(ctx, batch)
		for range reqs {
			rows, qErr := results.Query()
			if qErr != nil {
				_ = results.Close()
				return qErr
			}
			s, cErr := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Student])
			if errors.Is(cErr, pgx.ErrNoRows) {
				continue
			}
			if cErr != nil {
				_ = results.Close()
				return cErr
			}
			inserted = append(inserted, s)
		}
		return results.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import students: %w", apperrors.MapDBError(err))
	}
	return inserted, nil
}

// Update writes every mutable field of student.
func (r *StudentRepo) Update(ctx context.Context, student *model.Student) (*model.Student, error) {
	if student == nil {
		return nil, errors.New("student is required")
	}
	if !validID(student.ID) {
		return nil, ErrStudentNotFound
	}
	s, err := pgxutil.QueryOne[model.Student](ctx, r.DB, studentUpdateQuery,
		student.Name, student.ClassName, student.NIS, student.Gender, student.ParentContact, student.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, mapStudentWriteErr(err, "update")
	}
	return s, nil
}

// Delete removes a student. Ledger entries referencing it are kept.
func (r *StudentRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	n, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete student: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}

func mapStudentWriteErr(err error, op string) error {
	if apperrors.IsUniqueViolation(err, constraintStudentsNameClass) {
		return ErrStudentExists
	}
	return fmt.Errorf("failed to %s student: %w", op, apperrors.MapDBError(err))
}
