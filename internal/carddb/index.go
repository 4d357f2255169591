package carddb

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

var ErrCardNotFound = errors.New("card not found")

const (
	PrintingRecent = "recent"
	PrintingFirst  = "first"
)

// Index is the read-only card catalog used by cubes, packs and analytics.
type Index interface {
	CardFromID(ctx context.Context, id string) (*domain.Card, error)
	// CardsFromIDs looks up many ids at once. Unknown ids are absent from the
	// result rather than an error.
	CardsFromIDs(ctx context.Context, ids []string) (map[string]*domain.Card, error)
	// GetMostReasonable picks one printing for a name. preferredPrinting is a
	// card id, PrintingFirst or PrintingRecent (the default).
	GetMostReasonable(ctx context.Context, name, preferredPrinting string) (*domain.Card, error)
	AllVersions(ctx context.Context, card *domain.Card) ([]*domain.Card, error)
	GetIDsFromName(ctx context.Context, name string) ([]string, error)
}

// sortPrintings orders printings oldest first; ties break on id.
func sortPrintings(cards []*domain.Card) {
	slices.SortFunc(cards, func(a, b *domain.Card) int {
		if c := a.ReleasedAt.Compare(b.ReleasedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// mostReasonable expects versions sorted by sortPrintings.
func mostReasonable(versions []*domain.Card, preferred string) *domain.Card {
	if len(versions) == 0 {
		return nil
	}
	for _, v := range versions {
		if preferred != "" && v.ID == preferred {
			return v
		}
	}

	candidates := slices.DeleteFunc(slices.Clone(versions), func(c *domain.Card) bool {
		return c.Promo || c.Digital
	})
	if len(candidates) == 0 {
		candidates = versions
	}

	if preferred == PrintingFirst {
		return candidates[0]
	}
	return candidates[len(candidates)-1]
}

func byID(cards []*domain.Card) map[string]*domain.Card {
	out := make(map[string]*domain.Card, len(cards))
	for _, c := range cards {
		out[c.ID] = c
	}
	return out
}

func ids(cards []*domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
