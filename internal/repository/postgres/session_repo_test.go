package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"github.com/smartintruesdell/CubeCobra/internal/repository/postgres"
	"github.com/smartintruesdell/CubeCobra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(userID uuid.UUID, hash string, expires time.Time) *domain.UserSession {
	return &domain.UserSession{
		ID:               uuid.New(),
		UserID:           userID,
		RefreshTokenHash: hash,
		ExpiresAt:        expires,
		CreatedAt:        time.Now(),
	}
}

func TestSessionRepository_ReplaceKeepsOneSession(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	now := time.Now()

	require.NoError(t, repo.Replace(ctx, newSession(user.ID, "first", now.Add(time.Hour))))
	require.NoError(t, repo.Replace(ctx, newSession(user.ID, "second", now.Add(time.Hour))))

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.UserSession{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	active, err := repo.Active(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, "second", active.RefreshTokenHash)
}

func TestSessionRepository_ActiveIgnoresExpired(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	now := time.Now()
	require.NoError(t, repo.Replace(ctx, newSession(user.ID, "short", now.Add(time.Minute))))

	_, err := repo.Active(ctx, user.ID, now)
	require.NoError(t, err)

	_, err = repo.Active(ctx, user.ID, now.Add(2*time.Minute))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_Revoke(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	now := time.Now()
	require.NoError(t, repo.Replace(ctx, newSession(user.ID, "mine", now.Add(time.Hour))))
	require.NoError(t, repo.Replace(ctx, newSession(other.ID, "theirs", now.Add(time.Hour))))

	require.NoError(t, repo.Revoke(ctx, user.ID))

	_, err := repo.Active(ctx, user.ID, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Active(ctx, other.ID, now)
	assert.NoError(t, err)
}
