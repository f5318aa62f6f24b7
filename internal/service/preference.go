package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

const maxSignatureNameLen = 150

// PreferenceServiceOptions groups dependencies for PreferenceService.
type PreferenceServiceOptions struct {
	Store core.PreferenceRepository
}

// PreferenceService reads and writes UI preferences.
type PreferenceService struct {
	store core.PreferenceRepository
}

// NewPreferenceService constructs a new PreferenceService.
func NewPreferenceService(opts PreferenceServiceOptions) *PreferenceService {
	if opts.Store == nil {
		panic("PreferenceRepository is required")
	}
	return &PreferenceService{store: opts.Store}
}

// GetSignatureNames returns the saved signature names, or empty names when none are saved.
func (s *PreferenceService) GetSignatureNames(ctx context.Context) (model.SignatureNames, error) {
	var names model.SignatureNames
	raw, err := s.store.Get(ctx, model.SignatureNamesKey)
	if err != nil {
		return names, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Gagal memuat preferensi.")
	}
	if raw == nil {
		return names, nil
	}
	if err = json.Unmarshal(raw, &names); err != nil {
		// A corrupt value reads as unset; the next save overwrites it.
		return model.SignatureNames{}, nil
	}
	return names, nil
}

// SaveSignatureNames overwrites the saved signature names.
func (s *PreferenceService) SaveSignatureNames(ctx context.Context, names model.SignatureNames) (model.SignatureNames, error) {
	names.Principal = strings.TrimSpace(names.Principal)
	names.Counselor = strings.TrimSpace(names.Counselor)
	names.DutyTeacher = strings.TrimSpace(names.DutyTeacher)
	for _, n := range []string{names.Principal, names.Counselor, names.DutyTeacher} {
		if len([]rune(n)) > maxSignatureNameLen {
			return names, apperrors.Validation("nama penanda tangan maksimal 150 karakter")
		}
	}

	raw, err := json.Marshal(names)
	if err != nil {
		return names, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Gagal menyimpan preferensi.")
	}
	if err = s.store.Set(ctx, model.SignatureNamesKey, raw); err != nil {
		return names, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Gagal menyimpan preferensi.")
	}
	return names, nil
}
