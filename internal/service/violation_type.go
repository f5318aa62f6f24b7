package service

import (
	"context"
	"errors"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// ViolationTypeServiceOptions groups dependencies for ViolationTypeService.
type ViolationTypeServiceOptions struct {
	Types core.ViolationTypeRepository
}

// ViolationTypeService manages the violation catalog.
type ViolationTypeService struct {
	types core.ViolationTypeRepository
}

// NewViolationTypeService constructs a new ViolationTypeService.
func NewViolationTypeService(opts ViolationTypeServiceOptions) *ViolationTypeService {
	if opts.Types == nil {
		panic("ViolationTypeRepository is required")
	}
	return &ViolationTypeService{types: opts.Types}
}

// List returns the catalog ordered by name.
func (s *ViolationTypeService) List(ctx context.Context) ([]*model.ViolationType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, storeErr(err, "memuat jenis pelanggaran")
	}
	return types, nil
}

// Get returns a catalog entry by id.
func (s *ViolationTypeService) Get(ctx context.Context, id string) (*model.ViolationType, error) {
	vt, err := s.types.GetByID(ctx, id)
	if errors.Is(err, data.ErrViolationTypeNotFound) {
		return nil, apperrors.NotFound(msgTypeNotFound)
	}
	if err != nil {
		return nil, storeErr(err, "memuat jenis pelanggaran")
	}
	return vt, nil
}

// Add creates a catalog entry with a name not already in use.
func (s *ViolationTypeService) Add(ctx context.Context, req model.ViolationTypeRequest) (*model.ViolationType, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.ensureUnique(ctx, req.Name, ""); err != nil {
		return nil, err
	}
	vt, err := s.types.Create(ctx, &req)
	if err != nil {
		return nil, mapTypeWriteErr(err, "menambahkan jenis pelanggaran")
	}
	return vt, nil
}

// Update renames a catalog entry.
func (s *ViolationTypeService) Update(
	ctx context.Context,
	id string,
	req model.ViolationTypeRequest,
) (*model.ViolationType, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.ensureUnique(ctx, req.Name, id); err != nil {
		return nil, err
	}
	vt, err := s.types.Update(ctx, id, &req)
	if err != nil {
		return nil, mapTypeWriteErr(err, "memperbarui jenis pelanggaran")
	}
	return vt, nil
}

// Delete removes a catalog entry. Recorded violations keep their reference.
func (s *ViolationTypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.types.Delete(ctx, id); err != nil {
		return storeErr(err, "menghapus jenis pelanggaran")
	}
	return nil
}

func (s *ViolationTypeService) ensureUnique(ctx context.Context, name, selfID string) error {
	matches, err := s.types.FindByName(ctx, name)
	if err != nil {
		return storeErr(err, "memeriksa jenis pelanggaran")
	}
	for _, m := range matches {
		if m.ID != selfID {
			return apperrors.Conflict(msgTypeExists)
		}
	}
	return nil
}

func mapTypeWriteErr(err error, op string) error {
	switch {
	case errors.Is(err, data.ErrViolationTypeExists):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, msgTypeExists)
	case errors.Is(err, data.ErrViolationTypeNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, msgTypeNotFound)
	default:
		return storeErr(err, op)
	}
}
