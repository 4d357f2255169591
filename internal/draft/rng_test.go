package draft_test

import (
	"strings"
	"testing"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draws(seed string, n, bound int) []int {
	rng := draft.NewRNG(seed)
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(bound)
	}
	return out
}

func TestRNG_SameSeedSameSequence(t *testing.T) {
	assert.Equal(t, draws("cube-night", 50, 1000), draws("cube-night", 50, 1000))
}

func TestRNG_DifferentSeedsDiverge(t *testing.T) {
	assert.NotEqual(t, draws("seed-a", 50, 1000), draws("seed-b", 50, 1000))
}

func TestRNG_IntnStaysInRange(t *testing.T) {
	rng := draft.NewRNG("range")
	for _, bound := range []int{1, 2, 7, 45, 540} {
		for i := 0; i < 200; i++ {
			v := rng.Intn(bound)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, bound)
		}
	}
}

func TestRNG_IntnPanicsOnNonPositive(t *testing.T) {
	rng := draft.NewRNG("x")
	assert.Panics(t, func() { rng.Intn(0) })
}

func TestMintSeed_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seed := draft.MintSeed()
		require.NotEmpty(t, seed)
		assert.False(t, seen[seed], "minted seed repeated: %s", seed)
		seen[seed] = true
	}
}

func TestNormalizeSeed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		minted  bool
		wantErr bool
	}{
		{name: "kept as given", raw: "abc123", want: "abc123"},
		{name: "trimmed", raw: "  abc  ", want: "abc"},
		{name: "empty mints", raw: "", minted: true},
		{name: "whitespace mints", raw: "   ", minted: true},
		{name: "too long", raw: strings.Repeat("a", 129), wantErr: true},
		{name: "control character", raw: "ab\x00c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := draft.NormalizeSeed(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			if tt.minted {
				assert.NotEmpty(t, seed)
				return
			}
			assert.Equal(t, tt.want, seed)
		})
	}
}
