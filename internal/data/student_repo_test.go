package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/testutil"
)

func TestStudentRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithSchemaDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)

		s, err := repo.Create(ctx, testutil.NewStudentRequest().
			WithName("Ani Lestari").WithClass("8B").WithGender(model.GenderFemale).WithNIS("1001").Build())
		require.NoError(t, err)
		require.NotEmpty(t, s.ID)
		require.NotNil(t, s.Gender)
		assert.Equal(t, model.GenderFemale, *s.Gender)

		got, err := repo.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ani Lestari", got.Name)

		found, err := repo.FindByNameClass(ctx, "ani lestari", "8b")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, s.ID, found[0].ID)

		got.ClassName = "9B"
		got.NIS = nil
		updated, err := repo.Update(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, "9B", updated.ClassName)
		assert.Nil(t, updated.NIS)
		assert.True(t, !updated.UpdatedAt.Before(s.UpdatedAt))

		deleted, err := repo.Delete(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, s.ID)
		assert.ErrorIs(t, err, ErrStudentNotFound)

		deleted, err = repo.Delete(ctx, s.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestStudentRepo_UniqueNameClass(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithSchemaDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)

		_, err := repo.Create(ctx, testutil.NewStudentRequest().WithName("Budi").WithClass("7A").Build())
		require.NoError(t, err)

		_, err = repo.Create(ctx, testutil.NewStudentRequest().WithName("BUDI").WithClass("7a").Build())
		assert.ErrorIs(t, err, ErrStudentExists)

		// Same name in another class is allowed.
		_, err = repo.Create(ctx, testutil.NewStudentRequest().WithName("Budi").WithClass("7B").Build())
		assert.NoError(t, err)
	})
}

func TestStudentRepo_CreateMany_SkipsCollisions(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithSchemaDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentRepo(db)

		_, err := repo.Create(ctx, testutil.NewStudentRequest().WithName("Siswa 02").WithClass("7A").Build())
		require.NoError(t, err)

		reqs := testutil.StudentRequests(3, "7A")
		reqs = append(reqs, testutil.NewStudentRequest().WithName("siswa 01").WithClass("7a").Build())

		inserted, err := repo.CreateMany(ctx, reqs)
		require.NoError(t, err)
		require.Len(t, inserted, 2)
		assert.Equal(t, "Siswa 01", inserted[0].Name)
		assert.Equal(t, "Siswa 03", inserted[1].Name)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestStudentRepo_MalformedID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithSchemaDB(t, func(db *sql.DB) {
		repo := NewStudentRepo(db)
		_, err := repo.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})
}
