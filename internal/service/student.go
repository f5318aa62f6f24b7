package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// StudentServiceOptions groups dependencies for StudentService.
type StudentServiceOptions struct {
	Students core.StudentRepository
	Logger   *slog.Logger
}

// StudentService manages the student roster.
type StudentService struct {
	students core.StudentRepository
	logger   *slog.Logger
}

// NewStudentService constructs a new StudentService.
func NewStudentService(opts StudentServiceOptions) *StudentService {
	if opts.Students == nil {
		panic("StudentRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentService{students: opts.Students, logger: logger.With("component", "students")}
}

// List returns the roster ordered by class then name.
func (s *StudentService) List(ctx context.Context) ([]*model.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, storeErr(err, "memuat daftar siswa")
	}
	return students, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*model.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if errors.Is(err, data.ErrStudentNotFound) {
		return nil, apperrors.NotFound(msgStudentNotFound)
	}
	if err != nil {
		return nil, storeErr(err, "memuat siswa")
	}
	return st, nil
}

// Add creates a student unless (name, class) already exists case-insensitively.
func (s *StudentService) Add(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.ensureUnique(ctx, req.Name, req.ClassName, ""); err != nil {
		return nil, err
	}

	st, err := s.students.Create(ctx, &req)
	if errors.Is(err, data.ErrStudentExists) {
		return nil, duplicateStudent(req.Name, req.ClassName)
	}
	if err != nil {
		return nil, storeErr(err, "menambahkan siswa")
	}
	return st, nil
}

// Update merges req into the stored student and rechecks uniqueness against other students.
func (s *StudentService) Update(ctx context.Context, id string, req model.UpdateStudentRequest) (*model.Student, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(current)
	if err = s.ensureUnique(ctx, current.Name, current.ClassName, current.ID); err != nil {
		return nil, err
	}

	updated, err := s.students.Update(ctx, current)
	switch {
	case errors.Is(err, data.ErrStudentExists):
		return nil, duplicateStudent(current.Name, current.ClassName)
	case errors.Is(err, data.ErrStudentNotFound):
		return nil, apperrors.NotFound(msgStudentNotFound)
	case err != nil:
		return nil, storeErr(err, "memperbarui siswa")
	}
	return updated, nil
}

// Delete removes a student. A missing id is not an error.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.students.Delete(ctx, id); err != nil {
		return storeErr(err, "menghapus siswa")
	}
	return nil
}

// BulkImport inserts the valid records that are new to the roster and to the batch.
// It returns only the rows inserted, so importing the same input twice adds nothing the second time.
func (s *StudentService) BulkImport(ctx context.Context, reqs []model.CreateStudentRequest) ([]*model.Student, error) {
	roster, err := s.students.List(ctx)
	if err != nil {
		return nil, storeErr(err, "memuat daftar siswa")
	}
	seen := make(map[string]struct{}, len(roster)+len(reqs))
	for _, st := range roster {
		seen[st.Key()] = struct{}{}
	}

	batch := make([]*model.CreateStudentRequest, 0, len(reqs))
	var invalidCount, dupCount int
	for i := range reqs {
		req := reqs[i]
		if vErr := req.Validate(); vErr != nil {
			invalidCount++
			continue
		}
		key := req.Key()
		if _, dup := seen[key]; dup {
			dupCount++
			continue
		}
		seen[key] = struct{}{}
		batch = append(batch, &req)
	}

	var inserted []*model.Student
	if len(batch) > 0 {
		inserted, err = s.students.CreateMany(ctx, batch)
		if err != nil {
			return nil, storeErr(err, "mengimpor siswa")
		}
	}
	s.logger.InfoContext(ctx, "student import finished",
		"received", len(reqs), "imported", len(inserted), "invalid", invalidCount, "duplicate", dupCount,
		"concurrent_conflicts", len(batch)-len(inserted))
	return inserted, nil
}

func (s *StudentService) ensureUnique(ctx context.Context, name, className, selfID string) error {
	matches, err := s.students.FindByNameClass(ctx, name, className)
	if err != nil {
		return storeErr(err, "memeriksa data siswa")
	}
	for _, m := range matches {
		if m.ID != selfID {
			return duplicateStudent(name, className)
		}
	}
	return nil
}

func duplicateStudent(name, className string) error {
	return apperrors.Conflictf(msgStudentExists, name, className)
}
