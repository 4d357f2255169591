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
	"gorm.io/datatypes"
)

func TestAnalyticsRepository_Save(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewAnalyticsRepository(testDB.DB)
	ctx := context.Background()
	cubeID := uuid.New()

	empty, err := repo.GetByCubeID(ctx, cubeID)
	require.NoError(t, err)
	assert.Equal(t, cubeID, empty.CubeID)
	assert.Equal(t, 0, empty.Version)
	assert.Empty(t, empty.Cards.Data())

	empty.Cards = datatypes.NewJSONType(map[string]domain.CardAnalytic{
		"Lightning Bolt": {Picks: 1, Elo: 1202},
	})
	empty.Drafts = 1
	require.NoError(t, repo.Save(ctx, empty))

	stored, err := repo.GetByCubeID(ctx, cubeID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, 1, stored.Drafts)
	assert.Equal(t, 1202.0, stored.Cards.Data()["Lightning Bolt"].Elo)

	stale, err := repo.GetByCubeID(ctx, cubeID)
	require.NoError(t, err)

	stored.Drafts = 2
	require.NoError(t, repo.Save(ctx, stored))

	stale.Drafts = 5
	assert.ErrorIs(t, repo.Save(ctx, stale), repository.ErrStaleVersion)

	final, err := repo.GetByCubeID(ctx, cubeID)
	require.NoError(t, err)
	assert.Equal(t, 2, final.Drafts)
}
