package carddb_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/logger"
	"github.com/smartintruesdell/CubeCobra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingIndex records how often lookups reach the wrapped index.
type countingIndex struct {
	carddb.Index
	byID   int
	byName int
	batch  [][]string
}

func (c *countingIndex) CardsFromIDs(ctx context.Context, ids []string) (map[string]*domain.Card, error) {
	c.batch = append(c.batch, ids)
	return c.Index.CardsFromIDs(ctx, ids)
}

func (c *countingIndex) CardFromID(ctx context.Context, id string) (*domain.Card, error) {
	c.byID++
	return c.Index.CardFromID(ctx, id)
}

func (c *countingIndex) GetIDsFromName(ctx context.Context, name string) ([]string, error) {
	c.byName++
	return c.Index.GetIDsFromName(ctx, name)
}

func TestCachedIndex_ReadThrough(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	inner := &countingIndex{Index: boltIndex()}
	cache := carddb.NewCachedIndex(inner, rdb, time.Minute, logger.Nop())
	ctx := context.Background()

	first, err := cache.CardFromID(ctx, "bolt-lea")
	require.NoError(t, err)
	second, err := cache.CardFromID(ctx, "bolt-lea")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.byID)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, "lightning bolt", second.NameLower)

	ids, err := cache.GetIDsFromName(ctx, "Lightning Bolt")
	require.NoError(t, err)
	cached, err := cache.GetIDsFromName(ctx, "lightning bolt")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.byName)
	assert.Equal(t, ids, cached)
}

func TestCachedIndex_MissesAreNotCached(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	inner := &countingIndex{Index: boltIndex()}
	cache := carddb.NewCachedIndex(inner, rdb, time.Minute, logger.Nop())
	ctx := context.Background()

	_, err := cache.CardFromID(ctx, "missing")
	assert.ErrorIs(t, err, carddb.ErrCardNotFound)
	_, err = cache.CardFromID(ctx, "missing")
	assert.ErrorIs(t, err, carddb.ErrCardNotFound)
	assert.Equal(t, 2, inner.byID)

	_, err = cache.GetIDsFromName(ctx, "Black Lotus")
	require.NoError(t, err)
	_, err = cache.GetIDsFromName(ctx, "Black Lotus")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.byName)
}

func TestCachedIndex_RedisDownFallsThrough(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	require.NoError(t, rdb.Close())

	inner := &countingIndex{Index: boltIndex()}
	cache := carddb.NewCachedIndex(inner, rdb, time.Minute, logger.Nop())

	card, err := cache.CardFromID(context.Background(), "bolt-m10")
	require.NoError(t, err)
	assert.Equal(t, "bolt-m10", card.ID)
}

func TestCachedIndex_CardsFromIDs(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	inner := &countingIndex{Index: boltIndex()}
	cache := carddb.NewCachedIndex(inner, rdb, time.Minute, logger.Nop())
	ctx := context.Background()

	_, err := cache.CardFromID(ctx, "bolt-lea")
	require.NoError(t, err)

	found, err := cache.CardsFromIDs(ctx, []string{"bolt-lea", "bolt-m10", "missing"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "lightning bolt", found["bolt-lea"].NameLower)
	require.Len(t, inner.batch, 1)
	assert.Equal(t, []string{"bolt-m10", "missing"}, inner.batch[0])

	found, err = cache.CardsFromIDs(ctx, []string{"bolt-lea", "bolt-m10"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Len(t, inner.batch, 1)
}

func TestCachedIndex_CardsFromIDs_RedisDown(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	require.NoError(t, rdb.Close())

	inner := &countingIndex{Index: boltIndex()}
	cache := carddb.NewCachedIndex(inner, rdb, time.Minute, logger.Nop())

	found, err := cache.CardsFromIDs(context.Background(), []string{"bolt-m10", "counterspell"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
