package draft

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

var botColors = []string{"W", "U", "B", "R", "G"}

var botKinds = []domain.BotKind{domain.BotKindRandom, domain.BotKindColorFocus, domain.BotKindRating}

// BotAssigner hands out a descriptor for every non-human seat.
type BotAssigner interface {
	Assign(seat int) domain.BotDescriptor
}

// RandomBots draws descriptors from its own seeded generator, independent of
// the pack seeds.
type RandomBots struct {
	rng *RNG
}

func NewRandomBots(seed string) *RandomBots {
	return &RandomBots{rng: NewRNG("bots:" + seed)}
}

func (b *RandomBots) Assign(seat int) domain.BotDescriptor {
	kind := botKinds[b.rng.Intn(len(botKinds))]
	if kind != domain.BotKindColorFocus {
		return domain.BotDescriptor{Kind: kind}
	}

	picked := mapset.NewThreadUnsafeSet[string]()
	for picked.Cardinality() < 2 {
		picked.Add(botColors[b.rng.Intn(len(botColors))])
	}

	colors := make([]string, 0, 2)
	for _, c := range botColors {
		if picked.Contains(c) {
			colors = append(colors, c)
		}
	}
	return domain.BotDescriptor{Kind: kind, Colors: colors}
}
