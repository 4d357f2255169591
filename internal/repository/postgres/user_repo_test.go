package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"github.com/smartintruesdell/CubeCobra/internal/repository/postgres"
	"github.com/smartintruesdell/CubeCobra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_DisplayNamesAreUnique(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	drafter := &domain.User{ID: uuid.New(), DisplayName: "drafter", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, drafter))

	err := repo.Create(ctx, &domain.User{ID: uuid.New(), DisplayName: "drafter", PasswordHash: "y"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// an admin flag set at creation survives the round trip
	admin := &domain.User{ID: uuid.New(), DisplayName: "curator", PasswordHash: "z", IsAdmin: true}
	require.NoError(t, repo.Create(ctx, admin))
	got, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithDisplayName("seat_one").Build(t, testDB.DB)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "seat_one", byID.DisplayName)

	byName, err := repo.GetByDisplayName(ctx, "seat_one")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByDisplayName(ctx, "Seat_One")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
