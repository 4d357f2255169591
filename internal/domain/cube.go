package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CardStatusOwned    = "Owned"
	CardStatusNotOwned = "Not Owned"
	CardStatusOrdered  = "Ordered"
	CardStatusProxied  = "Proxied"
	CardStatusBorrowed = "Borrowed"

	CardFinishNonFoil = "Non-foil"
	CardFinishFoil    = "Foil"
)

const (
	DefaultCubePackSize   = 15
	DefaultCubePackRounds = 3
)

// CubeCard is one entry of a cube's card list. EntryID is the stable key; Index
// is the position at the time the list was read and is only meaningful inside
// the same read-modify-write.
type CubeCard struct {
	EntryID  uuid.UUID `json:"entryId"`
	CardID   string    `json:"cardId"`
	Status   string    `json:"status"`
	Finish   string    `json:"finish"`
	Tags     []string  `json:"tags"`
	Rarity   Rarity    `json:"rarity,omitempty"`
	CMC      *float64  `json:"cmc,omitempty"`
	TypeLine *string   `json:"typeLine,omitempty"`
	Colors   []string  `json:"colors,omitempty"`
	Index    int       `json:"index"`
	AddedAt  time.Time `json:"addedAt"`
}

type Cube struct {
	ID           uuid.UUID                        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID      uuid.UUID                        `json:"ownerId" gorm:"type:uuid;index;not null"`
	Name         string                           `json:"name" gorm:"not null"`
	Cards        datatypes.JSONSlice[CubeCard]    `json:"cards" gorm:"type:jsonb"`
	Basics       datatypes.JSONSlice[string]      `json:"basics" gorm:"type:jsonb"`
	PackTemplate datatypes.JSONType[PackTemplate] `json:"packTemplate" gorm:"type:jsonb"`
	Version      int                              `json:"version" gorm:"not null;default:1"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// Reindex renumbers Index after any change to the list length.
func (c *Cube) Reindex() {
	for i := range c.Cards {
		c.Cards[i].Index = i
	}
}

// FindEntry returns the position of the entry with the given id, or -1.
func (c *Cube) FindEntry(entryID uuid.UUID) int {
	return slices.IndexFunc(c.Cards, func(cc CubeCard) bool {
		return cc.EntryID == entryID
	})
}

// Template returns the configured pack template, or the standard template when
// none has been configured.
func (c *Cube) Template() PackTemplate {
	tmpl := c.PackTemplate.Data()
	if len(tmpl.Slots) == 0 {
		return DefaultPackTemplate(DefaultCubePackSize, DefaultCubePackRounds)
	}
	if tmpl.Rounds <= 0 {
		tmpl.Rounds = DefaultCubePackRounds
	}
	return tmpl.WithFallbacks()
}

// PackTemplate describes how one pack is assembled. Every round of a draft
// uses the same slots.
type PackTemplate struct {
	Title  string     `json:"title,omitempty"`
	Rounds int        `json:"rounds" validate:"gte=1,lte=10"`
	Slots  []SlotRule `json:"slots" validate:"required,min=1,max=40,dive"`
}

// WithFallbacks returns a copy in which every slot without a fallback filter
// falls back to the whole pool. A non-empty pool can then always fill a slot.
func (t PackTemplate) WithFallbacks() PackTemplate {
	t.Slots = slices.Clone(t.Slots)
	for i := range t.Slots {
		if t.Slots[i].Fallback.IsEmpty() {
			t.Slots[i].Fallback = CardFilter{Any: true}
		}
	}
	return t
}

type SlotRule struct {
	Primary  CardFilter `json:"primary"`
	Fallback CardFilter `json:"fallback"`
}

// CardFilter is a conjunction of conditions. Empty condition lists are ignored;
// a filter with no conditions and Any unset matches nothing.
type CardFilter struct {
	Any          bool     `json:"any,omitempty"`
	Rarities     []Rarity `json:"rarities,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Sets         []string `json:"sets,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	TypeContains string   `json:"typeContains,omitempty"`
	MaxCMC       *float64 `json:"maxCmc,omitempty"`
}

func (f CardFilter) IsEmpty() bool {
	return !f.Any && len(f.Rarities) == 0 && len(f.Tags) == 0 && len(f.Sets) == 0 &&
		len(f.Colors) == 0 && f.TypeContains == "" && f.MaxCMC == nil
}

// Matches evaluates the filter against a card. It depends only on the card.
func (f CardFilter) Matches(card CardView) bool {
	if f.IsEmpty() {
		return false
	}
	if len(f.Rarities) > 0 && !slices.Contains(f.Rarities, card.Rarity) {
		return false
	}
	if len(f.Sets) > 0 && !slices.ContainsFunc(f.Sets, func(s string) bool {
		return strings.EqualFold(s, card.SetCode)
	}) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(tag string) bool {
		return slices.ContainsFunc(card.Tags, func(t string) bool { return strings.EqualFold(t, tag) })
	}) {
		return false
	}
	if len(f.Colors) > 0 && !matchesColors(f.Colors, card.Colors) {
		return false
	}
	if f.TypeContains != "" && !strings.Contains(strings.ToLower(card.TypeLine), strings.ToLower(f.TypeContains)) {
		return false
	}
	if f.MaxCMC != nil && card.CMC > *f.MaxCMC {
		return false
	}
	return true
}

// matchesColors treats "C" as colorless; otherwise the card must share a color.
func matchesColors(want, have []string) bool {
	for _, w := range want {
		if strings.EqualFold(w, "C") && len(have) == 0 {
			return true
		}
		if slices.ContainsFunc(have, func(h string) bool { return strings.EqualFold(h, w) }) {
			return true
		}
	}
	return false
}

// DefaultPackTemplate is the standard cube draft: size slots drawn from the
// whole pool.
func DefaultPackTemplate(size, rounds int) PackTemplate {
	slots := make([]SlotRule, size)
	for i := range slots {
		slots[i] = SlotRule{Primary: CardFilter{Any: true}, Fallback: CardFilter{Any: true}}
	}
	return PackTemplate{Title: "Standard Draft", Rounds: rounds, Slots: slots}
}
