package draft_test

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

// testPool builds n distinct entries cycling through common, uncommon and rare.
func testPool(n int) []domain.CardView {
	rarities := []domain.Rarity{domain.RarityCommon, domain.RarityUncommon, domain.RarityRare}
	pool := make([]domain.CardView, n)
	for i := range pool {
		pool[i] = domain.CardView{
			EntryID:  uuid.New().String(),
			CardID:   fmt.Sprintf("card-%02d", i),
			Name:     fmt.Sprintf("Card %02d", i),
			SetCode:  "tst",
			Rarity:   rarities[i%len(rarities)],
			TypeLine: "Creature",
			CMC:      float64(i % 6),
		}
	}
	return pool
}

func entryIDs(cards []domain.CardView) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.EntryID
	}
	return ids
}

// sequentialSeeds returns a seed source yielding prefix-0, prefix-1, ...
func sequentialSeeds(prefix string) func() string {
	n := 0
	return func() string {
		seed := fmt.Sprintf("%s-%d", prefix, n)
		n++
		return seed
	}
}

func seatNames(seats []domain.Seat) []string {
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.Name
	}
	return names
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[strings.ToLower(v)] {
			return true
		}
		seen[strings.ToLower(v)] = true
	}
	return false
}
