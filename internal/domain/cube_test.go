package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestCardFilter_Matches(t *testing.T) {
	two := 2.0
	card := domain.CardView{
		Name:     "Counterspell",
		SetCode:  "MMQ",
		Rarity:   domain.RarityUncommon,
		TypeLine: "Instant",
		CMC:      2,
		Colors:   []string{"U"},
		Tags:     []string{"Control"},
	}
	colorless := domain.CardView{TypeLine: "Artifact", Rarity: domain.RarityRare}

	tests := []struct {
		name   string
		filter domain.CardFilter
		card   domain.CardView
		want   bool
	}{
		{name: "empty matches nothing", filter: domain.CardFilter{}, card: card, want: false},
		{name: "any", filter: domain.CardFilter{Any: true}, card: card, want: true},
		{name: "rarity", filter: domain.CardFilter{Rarities: []domain.Rarity{domain.RarityUncommon}}, card: card, want: true},
		{name: "wrong rarity", filter: domain.CardFilter{Rarities: []domain.Rarity{domain.RarityRare}}, card: card, want: false},
		{name: "set is case insensitive", filter: domain.CardFilter{Sets: []string{"mmq"}}, card: card, want: true},
		{name: "tag is case insensitive", filter: domain.CardFilter{Tags: []string{"control"}}, card: card, want: true},
		{name: "missing tag", filter: domain.CardFilter{Tags: []string{"aggro"}}, card: card, want: false},
		{name: "shares a color", filter: domain.CardFilter{Colors: []string{"W", "U"}}, card: card, want: true},
		{name: "colorless", filter: domain.CardFilter{Colors: []string{"C"}}, card: colorless, want: true},
		{name: "colored is not colorless", filter: domain.CardFilter{Colors: []string{"C"}}, card: card, want: false},
		{name: "type contains", filter: domain.CardFilter{TypeContains: "instant"}, card: card, want: true},
		{name: "max cmc", filter: domain.CardFilter{MaxCMC: &two}, card: card, want: true},
		{name: "conditions combine", filter: domain.CardFilter{Rarities: []domain.Rarity{domain.RarityUncommon}, TypeContains: "Creature"}, card: card, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.card))
		})
	}
}

func TestCube_FindEntryAndReindex(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	cube := &domain.Cube{Cards: datatypes.JSONSlice[domain.CubeCard]{
		{EntryID: a, Index: 0},
		{EntryID: b, Index: 1},
		{EntryID: c, Index: 2},
	}}

	cube.Cards = append(cube.Cards[:1], cube.Cards[2:]...)
	cube.Reindex()

	assert.Equal(t, 0, cube.FindEntry(a))
	assert.Equal(t, 1, cube.FindEntry(c))
	assert.Equal(t, -1, cube.FindEntry(b))
	assert.Equal(t, 1, cube.Cards[1].Index)
}

func TestCube_Template(t *testing.T) {
	var empty domain.Cube
	tmpl := empty.Template()
	assert.Len(t, tmpl.Slots, domain.DefaultCubePackSize)
	assert.Equal(t, domain.DefaultCubePackRounds, tmpl.Rounds)

	custom := domain.Cube{PackTemplate: datatypes.NewJSONType(domain.PackTemplate{
		Slots: []domain.SlotRule{{Primary: domain.CardFilter{Any: true}}},
	})}
	tmpl = custom.Template()
	assert.Len(t, tmpl.Slots, 1)
	assert.Equal(t, domain.DefaultCubePackRounds, tmpl.Rounds)
	assert.Equal(t, domain.CardFilter{Any: true}, tmpl.Slots[0].Fallback)
}

func TestPackTemplate_WithFallbacks(t *testing.T) {
	mythic := domain.CardFilter{Rarities: []domain.Rarity{domain.RarityMythic}}
	rare := domain.CardFilter{Rarities: []domain.Rarity{domain.RarityRare}}
	original := domain.PackTemplate{Slots: []domain.SlotRule{
		{Primary: mythic},
		{Primary: mythic, Fallback: rare},
	}}

	got := original.WithFallbacks()

	assert.Equal(t, domain.CardFilter{Any: true}, got.Slots[0].Fallback)
	assert.Equal(t, rare, got.Slots[1].Fallback)
	assert.True(t, original.Slots[0].Fallback.IsEmpty(), "original slots are not modified")
}

func TestDraft_PacksForSeat(t *testing.T) {
	state := domain.InitialState{
		{{Seed: "s0"}},
		{{Seed: "s1"}},
		{{Seed: "s2"}},
	}
	d := &domain.Draft{InitialState: datatypes.NewJSONType(state), SeatOffset: 2}

	assert.Equal(t, "s2", d.PacksForSeat(0)[0].Seed)
	assert.Equal(t, "s0", d.PacksForSeat(1)[0].Seed)
	assert.Equal(t, "s1", d.PacksForSeat(2)[0].Seed)
	assert.Nil(t, d.PacksForSeat(3))
	assert.Equal(t, []string{"s0", "s1", "s2"}, state.Seeds())
}

func TestDraft_AllSubmitted(t *testing.T) {
	d := &domain.Draft{}
	assert.False(t, d.AllSubmitted())

	d.Seats = []domain.Seat{{Submitted: true}, {Submitted: false}}
	assert.False(t, d.AllSubmitted())

	d.Seats[1].Submitted = true
	assert.True(t, d.AllSubmitted())
}

func TestErrors_Match(t *testing.T) {
	assert.ErrorIs(t, domain.NewValidationError("seat", "bad"), domain.ErrValidation)
	assert.ErrorIs(t, &domain.InsufficientCardsError{}, domain.ErrInsufficientCards)
	assert.ErrorIs(t, domain.ErrFeaturedLocked, domain.ErrConflict)
	assert.EqualError(t, domain.NewValidationError("seat", "must be %d", 3), "invalid seat: must be 3")
}
