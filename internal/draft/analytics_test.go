package draft_test

import (
	"context"
	"testing"

	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foldIndex() *carddb.MemoryIndex {
	return carddb.NewMemoryIndex(
		&domain.Card{ID: "a", Name: "Alpha"},
		&domain.Card{ID: "b", Name: "Beta"},
		&domain.Card{ID: "c", Name: "Gamma"},
		&domain.Card{ID: "b2", Name: "Beta"},
	)
}

func foldDraft(seats ...domain.Seat) *domain.Draft {
	return &domain.Draft{
		Status: domain.DraftStatusComplete,
		Cards:  []string{"a", "b", "c", "b2"},
		Seats:  seats,
	}
}

func TestFoldAnalytics_PickBeatsPassed(t *testing.T) {
	d := foldDraft(domain.Seat{PickOrder: []int{0}, TrashOrder: []int{1}})

	got, err := draft.FoldAnalytics(context.Background(), d, foldIndex(), nil, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, got["Alpha"].Picks)
	assert.Equal(t, 0, got["Alpha"].Passes)
	assert.Equal(t, 1, got["Beta"].Passes)
	assert.InDelta(t, 1202, got["Alpha"].Elo, 1e-9)
	assert.InDelta(t, 1198, got["Beta"].Elo, 1e-9)
	assert.NotContains(t, got, "Gamma")
}

func TestFoldAnalytics_RatingIsConserved(t *testing.T) {
	d := foldDraft(
		domain.Seat{PickOrder: []int{0}, TrashOrder: []int{1, 2}},
		domain.Seat{PickOrder: []int{2}, TrashOrder: []int{0}},
	)

	got, err := draft.FoldAnalytics(context.Background(), d, foldIndex(), nil, 8)
	require.NoError(t, err)

	var total float64
	for _, stat := range got {
		total += stat.Elo
	}
	assert.InDelta(t, 3*domain.DefaultElo, total, 1e-6)
	assert.Greater(t, got["Alpha"].Elo, got["Beta"].Elo)
}

func TestFoldAnalytics_PrintingsShareName(t *testing.T) {
	d := foldDraft(
		domain.Seat{PickOrder: []int{1}},
		domain.Seat{PickOrder: []int{3}},
	)

	got, err := draft.FoldAnalytics(context.Background(), d, foldIndex(), nil, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, got["Beta"].Picks)
	assert.Len(t, got, 1)
}

func TestFoldAnalytics_LeavesCurrentUntouched(t *testing.T) {
	current := map[string]domain.CardAnalytic{"Alpha": {Picks: 3, Elo: 1250}}
	d := foldDraft(domain.Seat{PickOrder: []int{0}, TrashOrder: []int{1}})

	got, err := draft.FoldAnalytics(context.Background(), d, foldIndex(), current, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, got["Alpha"].Picks)
	assert.Equal(t, 3, current["Alpha"].Picks)
	assert.Equal(t, 1250.0, current["Alpha"].Elo)
	assert.NotContains(t, current, "Beta")
}

func TestFoldAnalytics_FoldingTwiceCountsTwice(t *testing.T) {
	d := foldDraft(domain.Seat{PickOrder: []int{0}, TrashOrder: []int{1}})
	ctx := context.Background()

	once, err := draft.FoldAnalytics(ctx, d, foldIndex(), nil, 4)
	require.NoError(t, err)
	twice, err := draft.FoldAnalytics(ctx, d, foldIndex(), once, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, twice["Alpha"].Picks)
	assert.Equal(t, 2, twice["Beta"].Passes)
	assert.Greater(t, twice["Alpha"].Elo, once["Alpha"].Elo)
}

func TestFoldAnalytics_DefaultK(t *testing.T) {
	d := foldDraft(domain.Seat{PickOrder: []int{0}, TrashOrder: []int{1}})

	got, err := draft.FoldAnalytics(context.Background(), d, foldIndex(), nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultElo+draft.DefaultEloK/2, got["Alpha"].Elo, 1e-9)
}

func TestFoldAnalytics_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown card", func(t *testing.T) {
		d := foldDraft(domain.Seat{PickOrder: []int{0}})
		d.Cards[0] = "missing"

		_, err := draft.FoldAnalytics(ctx, d, foldIndex(), nil, 4)
		assert.ErrorIs(t, err, carddb.ErrCardNotFound)
	})

	t.Run("index outside pool", func(t *testing.T) {
		d := foldDraft(domain.Seat{PickOrder: []int{9}})

		_, err := draft.FoldAnalytics(ctx, d, foldIndex(), nil, 4)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
