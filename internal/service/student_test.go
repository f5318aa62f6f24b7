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
	"github.com/spps-sekolah/spps-api/internal/testutil"
)

func newStudentFixture(t *testing.T) (*StudentService, *mocks.MockStudentRepository) {
	t.Helper()
	repo := mocks.NewMockStudentRepository(gomock.NewController(t))
	return NewStudentService(StudentServiceOptions{Students: repo}), repo
}

func TestStudentService_Add(t *testing.T) {
	svc, repo := newStudentFixture(t)
	ctx := context.Background()
	req := testutil.NewStudentRequest().WithName("  Ani ").WithClass("8B").Build()

	repo.EXPECT().FindByNameClass(ctx, "Ani", "8B").Return(nil, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, r *model.CreateStudentRequest) (*model.Student, error) {
			return &model.Student{ID: "s1", Name: r.Name, ClassName: r.ClassName}, nil
		})

	got, err := svc.Add(ctx, *req)
	require.NoError(t, err)
	assert.Equal(t, "Ani", got.Name)
}

func TestStudentService_Add_Duplicate(t *testing.T) {
	svc, repo := newStudentFixture(t)
	ctx := context.Background()

	repo.EXPECT().FindByNameClass(ctx, "ani", "8b").
		Return([]*model.Student{{ID: "s1", Name: "Ani", ClassName: "8B"}}, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Add(ctx, model.CreateStudentRequest{Name: "ani", ClassName: "8b"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, `Siswa dengan nama "ani" di kelas "8b" sudah ada.`, apperrors.Message(err))
}

func TestStudentService_Add_RaceOnInsert(t *testing.T) {
	svc, repo := newStudentFixture(t)
	repo.EXPECT().FindByNameClass(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrStudentExists)

	_, err := svc.Add(context.Background(), model.CreateStudentRequest{Name: "Ani", ClassName: "8B"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestStudentService_Add_Invalid(t *testing.T) {
	svc, _ := newStudentFixture(t)
	_, err := svc.Add(context.Background(), model.CreateStudentRequest{Name: " ", ClassName: "8B"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "nama siswa wajib diisi", apperrors.Message(err))
}

func TestStudentService_Update(t *testing.T) {
	ctx := context.Background()
	current := func() *model.Student { return &model.Student{ID: "s1", Name: "Ani", ClassName: "8B"} }

	t.Run("own record does not collide", func(t *testing.T) {
		svc, repo := newStudentFixture(t)
		repo.EXPECT().GetByID(ctx, "s1").Return(current(), nil)
		repo.EXPECT().FindByNameClass(ctx, "ANI", "8B").Return([]*model.Student{current()}, nil)
		repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, st *model.Student) (*model.Student, error) { return st, nil })

		got, err := svc.Update(ctx, "s1", model.UpdateStudentRequest{Name: testutil.StringPtr("ANI")})
		require.NoError(t, err)
		assert.Equal(t, "ANI", got.Name)
	})

	t.Run("collides with another student", func(t *testing.T) {
		svc, repo := newStudentFixture(t)
		repo.EXPECT().GetByID(ctx, "s1").Return(current(), nil)
		repo.EXPECT().FindByNameClass(ctx, "Ani", "9A").
			Return([]*model.Student{{ID: "s2", Name: "Ani", ClassName: "9A"}}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Update(ctx, "s1", model.UpdateStudentRequest{ClassName: testutil.StringPtr("9A")})
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, `Siswa dengan nama "Ani" di kelas "9A" sudah ada.`, apperrors.Message(err))
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo := newStudentFixture(t)
		repo.EXPECT().GetByID(ctx, "s9").Return(nil, data.ErrStudentNotFound)
		_, err := svc.Update(ctx, "s9", model.UpdateStudentRequest{Name: testutil.StringPtr("X")})
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "Siswa tidak ditemukan.", apperrors.Message(err))
	})
}

func TestStudentService_Delete_MissingIsNotAnError(t *testing.T) {
	svc, repo := newStudentFixture(t)
	repo.EXPECT().Delete(gomock.Any(), "nope").Return(false, nil)
	assert.NoError(t, svc.Delete(context.Background(), "nope"))
}

func TestStudentService_BulkImport(t *testing.T) {
	svc, repo := newStudentFixture(t)
	ctx := context.Background()

	roster := []*model.Student{{ID: "s1", Name: "Ani", ClassName: "8B"}}
	input := []model.CreateStudentRequest{
		{Name: "ani", ClassName: "8b"},  // collides with roster
		{Name: "Budi", ClassName: "8B"}, // new
		{Name: "BUDI", ClassName: "8b"}, // collides with the batch
		{Name: "", ClassName: "8B"},     // invalid
		{Name: "Citra", ClassName: "9A"},
	}

	repo.EXPECT().List(ctx).Return(roster, nil)
	repo.EXPECT().CreateMany(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, reqs []*model.CreateStudentRequest) ([]*model.Student, error) {
			require.Len(t, reqs, 2)
			assert.Equal(t, "Budi", reqs[0].Name)
			assert.Equal(t, "Citra", reqs[1].Name)
			out := make([]*model.Student, len(reqs))
			for i, r := range reqs {
				out[i] = &model.Student{ID: r.Name, Name: r.Name, ClassName: r.ClassName}
			}
			return out, nil
		})

	got, err := svc.BulkImport(ctx, input)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Second run: everything is now on the roster.
	repo.EXPECT().List(ctx).Return(append(roster, got...), nil)
	repo.EXPECT().CreateMany(gomock.Any(), gomock.Any()).Times(0)
	again, err := svc.BulkImport(ctx, input)
	require.NoError(t, err)
	assert.Empty(t, again)
}
