package service

import (
	"context"
	"errors"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// ViolationServiceOptions groups dependencies for ViolationService.
type ViolationServiceOptions struct {
	Violations core.ViolationRepository
}

// ViolationService records and edits ledger entries.
// References to students and types are not checked.
type ViolationService struct {
	violations core.ViolationRepository
}

// NewViolationService constructs a new ViolationService.
func NewViolationService(opts ViolationServiceOptions) *ViolationService {
	if opts.Violations == nil {
		panic("ViolationRepository is required")
	}
	return &ViolationService{violations: opts.Violations}
}

// List returns ledger entries newest first.
func (s *ViolationService) List(ctx context.Context, opts model.ViolationListOptions) ([]*model.Violation, error) {
	if opts.From != nil && opts.To != nil && !opts.From.Before(*opts.To) {
		return nil, apperrors.Validation("rentang tanggal tidak valid")
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, apperrors.Validation("limit dan offset tidak boleh negatif")
	}
	list, err := s.violations.List(ctx, opts)
	if err != nil {
		return nil, storeErr(err, "memuat data pelanggaran")
	}
	return list, nil
}

// Get returns one entry.
func (s *ViolationService) Get(ctx context.Context, id string) (*model.Violation, error) {
	v, err := s.violations.GetByID(ctx, id)
	if errors.Is(err, data.ErrViolationNotFound) {
		return nil, apperrors.NotFound(msgViolationGone)
	}
	if err != nil {
		return nil, storeErr(err, "memuat data pelanggaran")
	}
	return v, nil
}

// Add records an entry. The date defaults to now.
func (s *ViolationService) Add(ctx context.Context, req model.CreateViolationRequest) (*model.Violation, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	v, err := s.violations.Create(ctx, &req)
	if err != nil {
		return nil, storeErr(err, "mencatat pelanggaran")
	}
	return v, nil
}

// Update applies a partial change.
func (s *ViolationService) Update(ctx context.Context, id string, req model.UpdateViolationRequest) (*model.Violation, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	v, err := s.violations.Update(ctx, id, req)
	if errors.Is(err, data.ErrViolationNotFound) {
		return nil, apperrors.NotFound(msgViolationGone)
	}
	if err != nil {
		return nil, storeErr(err, "memperbarui pelanggaran")
	}
	return v, nil
}

// Delete removes an entry. A missing id is not an error.
func (s *ViolationService) Delete(ctx context.Context, id string) error {
	if _, err := s.violations.Delete(ctx, id); err != nil {
		return storeErr(err, "menghapus pelanggaran")
	}
	return nil
}
