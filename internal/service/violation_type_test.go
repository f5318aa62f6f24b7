package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spps-sekolah/spps-api/internal/data"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
	"github.com/spps-sekolah/spps-api/internal/mocks"
)

func TestViolationTypeService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("creates new name", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		repo.EXPECT().FindByName(ctx, "Terlambat").Return(nil, nil)
		repo.EXPECT().Create(ctx, &model.ViolationTypeRequest{Name: "Terlambat"}).
			Return(&model.ViolationType{ID: "t1", Name: "Terlambat"}, nil)

		got, err := svc.Add(ctx, model.ViolationTypeRequest{Name: " Terlambat "})
		require.NoError(t, err)
		assert.Equal(t, "t1", got.ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		repo.EXPECT().FindByName(ctx, "terlambat").Return([]*model.ViolationType{{ID: "t1", Name: "Terlambat"}}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Add(ctx, model.ViolationTypeRequest{Name: "terlambat"})
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "Jenis pelanggaran sudah ada.", apperrors.Message(err))
	})

	t.Run("unique index race", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		repo.EXPECT().FindByName(ctx, "Bolos").Return(nil, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil, data.ErrViolationTypeExists)

		_, err := svc.Add(ctx, model.ViolationTypeRequest{Name: "Bolos"})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("empty name", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		_, err := svc.Add(ctx, model.ViolationTypeRequest{Name: "  "})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestViolationTypeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("same record may keep its name", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		repo.EXPECT().FindByName(ctx, "TERLAMBAT").Return([]*model.ViolationType{{ID: "t1", Name: "Terlambat"}}, nil)
		repo.EXPECT().Update(ctx, "t1", gomock.Any()).Return(&model.ViolationType{ID: "t1", Name: "TERLAMBAT"}, nil)

		got, err := svc.Update(ctx, "t1", model.ViolationTypeRequest{Name: "TERLAMBAT"})
		require.NoError(t, err)
		assert.Equal(t, "TERLAMBAT", got.Name)
	})

	t.Run("collides with another record", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		repo.EXPECT().FindByName(ctx, "Bolos").Return([]*model.ViolationType{{ID: "t2", Name: "bolos"}}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Update(ctx, "t1", model.ViolationTypeRequest{Name: "Bolos"})
		assert.Equal(t, "Jenis pelanggaran sudah ada.", apperrors.Message(err))
	})

	t.Run("missing", func(t *testing.T) {
		repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
		svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})
		repo.EXPECT().FindByName(ctx, "Bolos").Return(nil, nil)
		repo.EXPECT().Update(ctx, "t9", gomock.Any()).Return(nil, data.ErrViolationTypeNotFound)

		_, err := svc.Update(ctx, "t9", model.ViolationTypeRequest{Name: "Bolos"})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestViolationTypeService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockViolationTypeRepository(gomock.NewController(t))
	svc := NewViolationTypeService(ViolationTypeServiceOptions{Types: repo})

	repo.EXPECT().GetByID(ctx, "t9").Return(nil, data.ErrViolationTypeNotFound)
	_, err := svc.Get(ctx, "t9")
	assert.True(t, apperrors.IsNotFound(err))

	repo.EXPECT().Delete(ctx, "t9").Return(false, nil)
	assert.NoError(t, svc.Delete(ctx, "t9"))
}
