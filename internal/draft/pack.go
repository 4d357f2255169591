package draft

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

type PackResult struct {
	Seed  string            `json:"seed"`
	Cards []domain.CardView `json:"cards"`
}

func (p *PackResult) Names() []string {
	names := make([]string, len(p.Cards))
	for i, c := range p.Cards {
		names[i] = c.Name
	}
	return names
}

// ResolveSlot picks one card for a slot. Candidates are taken in pool order so
// the same pool, chosen set and RNG state always give the same card.
func ResolveSlot(pool []domain.CardView, rule domain.SlotRule, slot int, chosen mapset.Set[string], rng *RNG) (domain.CardView, error) {
	for _, filter := range []domain.CardFilter{rule.Primary, rule.Fallback} {
		candidates := candidatesFor(pool, filter, chosen)
		if len(candidates) > 0 {
			return candidates[rng.Intn(len(candidates))], nil
		}
	}
	return domain.CardView{}, &domain.InsufficientCardsError{SlotIndex: slot, PoolSize: len(pool)}
}

func candidatesFor(pool []domain.CardView, filter domain.CardFilter, chosen mapset.Set[string]) []domain.CardView {
	var out []domain.CardView
	for _, card := range pool {
		if chosen.Contains(card.EntryID) {
			continue
		}
		if filter.Matches(card) {
			out = append(out, card)
		}
	}
	return out
}

// GeneratePack fills the template slot by slot. An empty seed mints a new one;
// the seed used is always returned so the pack can be replayed.
func GeneratePack(pool []domain.CardView, tmpl domain.PackTemplate, seed string) (*PackResult, error) {
	seed, err := NormalizeSeed(seed)
	if err != nil {
		return nil, err
	}
	if len(tmpl.Slots) == 0 {
		return nil, domain.NewValidationError("packTemplate", "has no slots")
	}

	rng := NewRNG(seed)
	chosen := mapset.NewThreadUnsafeSet[string]()
	cards := make([]domain.CardView, 0, len(tmpl.Slots))

	for i, rule := range tmpl.Slots {
		card, err := ResolveSlot(pool, rule, i, chosen, rng)
		if err != nil {
			return nil, err
		}
		chosen.Add(card.EntryID)
		cards = append(cards, card)
	}

	return &PackResult{Seed: seed, Cards: cards}, nil
}

// ReplayPack regenerates a recorded pack. Unlike GeneratePack it never mints.
func ReplayPack(pool []domain.CardView, tmpl domain.PackTemplate, seed string) (*PackResult, error) {
	if strings.TrimSpace(seed) == "" {
		return nil, domain.NewValidationError("seed", "required to replay a pack")
	}
	return GeneratePack(pool, tmpl, seed)
}
