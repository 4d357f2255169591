package draft

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

const DefaultEloK = 4.0

// CardLookup is the part of the card index the fold needs.
type CardLookup interface {
	CardFromID(ctx context.Context, id string) (*domain.Card, error)
}

// FoldAnalytics adds one draft to a cube's per-name statistics and returns the
// updated copy; current is left untouched. Every picked card plays a pairwise
// rating match against each card the same seat passed on. The fold does not
// remember which drafts it has seen.
func FoldAnalytics(ctx context.Context, d *domain.Draft, cards CardLookup, current map[string]domain.CardAnalytic, k float64) (map[string]domain.CardAnalytic, error) {
	if k <= 0 {
		k = DefaultEloK
	}

	next := make(map[string]domain.CardAnalytic, len(current))
	maps.Copy(next, current)

	names := make(map[string]string)
	nameOf := func(index int) (string, error) {
		id, ok := d.CardID(index)
		if !ok {
			return "", domain.NewValidationError("cardIndex", "%d is outside the draft pool", index)
		}
		if name, ok := names[id]; ok {
			return name, nil
		}
		card, err := cards.CardFromID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("card %s: %w", id, err)
		}
		names[id] = card.Name
		return card.Name, nil
	}

	for _, seat := range d.Seats {
		passed := make([]string, 0, len(seat.TrashOrder))
		for _, index := range seat.TrashOrder {
			name, err := nameOf(index)
			if err != nil {
				return nil, err
			}
			passed = append(passed, name)
			stat := statFor(next, name)
			stat.Passes++
			next[name] = stat
		}

		for _, index := range seat.PickOrder {
			name, err := nameOf(index)
			if err != nil {
				return nil, err
			}
			picked := statFor(next, name)
			picked.Picks++
			next[name] = picked

			for _, other := range passed {
				if other == name {
					continue
				}
				winner, loser := next[name], next[other]
				winner.Elo, loser.Elo = eloUpdate(winner.Elo, loser.Elo, k)
				next[name], next[other] = winner, loser
			}
		}
	}

	return next, nil
}

func statFor(stats map[string]domain.CardAnalytic, name string) domain.CardAnalytic {
	stat, ok := stats[name]
	if !ok {
		stat = domain.CardAnalytic{Elo: domain.DefaultElo}
	}
	return stat
}

// eloUpdate scores one match won by a.
func eloUpdate(a, b, k float64) (float64, float64) {
	expected := 1 / (1 + math.Pow(10, (b-a)/400))
	delta := k * (1 - expected)
	return a + delta, b - delta
}
