package draft

import (
	"crypto/sha256"
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

const maxSeedLength = 128

// RNG is the seeded generator behind pack generation. The algorithm is PCG
// keyed by SHA-256 of the seed string; changing either breaks replay of every
// recorded seed.
type RNG struct {
	src *rand.PCG
}

func NewRNG(seed string) *RNG {
	sum := sha256.Sum256([]byte(seed))
	return &RNG{
		src: rand.NewPCG(binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])),
	}
}

// Intn returns a value in [0, n) using exactly one draw from the source.
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		panic("draft: Intn called with non-positive n")
	}
	hi, _ := bits.Mul64(g.src.Uint64(), uint64(n))
	return int(hi)
}

// MintSeed returns a fresh high-entropy seed. Only seeds that were recorded
// can be replayed.
func MintSeed() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + gonanoid.Must(10)
}

// NormalizeSeed trims a caller supplied seed, minting one when it is empty.
func NormalizeSeed(raw string) (string, error) {
	seed := strings.TrimSpace(raw)
	if seed == "" {
		return MintSeed(), nil
	}
	if len(seed) > maxSeedLength {
		return "", domain.NewValidationError("seed", "longer than %d characters", maxSeedLength)
	}
	for _, r := range seed {
		if !unicode.IsPrint(r) {
			return "", domain.NewValidationError("seed", "contains non-printable characters")
		}
	}
	return seed, nil
}
