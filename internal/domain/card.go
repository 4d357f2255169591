package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
	RaritySpecial  Rarity = "special"
)

// Card is one printing from the card catalog. Rows are written only by the
// catalog import and are never modified by cube or draft operations.
type Card struct {
	ID              string                                `json:"id" gorm:"primaryKey"`
	OracleID        string                                `json:"oracleId" gorm:"index"`
	Name            string                                `json:"name" gorm:"not null"`
	NameLower       string                                `json:"-" gorm:"index;not null"`
	SetCode         string                                `json:"set" gorm:"not null"`
	CollectorNumber string                                `json:"collectorNumber"`
	Rarity          Rarity                                `json:"rarity" gorm:"not null"`
	TypeLine        string                                `json:"typeLine"`
	CMC             float64                               `json:"cmc"`
	ColorIdentity   datatypes.JSONSlice[string]           `json:"colorIdentity" gorm:"type:jsonb"`
	Legalities      datatypes.JSONType[map[string]string] `json:"legalities" gorm:"type:jsonb"`
	PriceUSD        *float64                              `json:"priceUsd"`
	PriceUSDFoil    *float64                              `json:"priceUsdFoil"`
	Elo             float64                               `json:"elo" gorm:"not null;default:1200"`
	Popularity      float64                               `json:"popularity"`
	ReleasedAt      time.Time                             `json:"releasedAt"`
	Promo           bool                                  `json:"promo"`
	Digital         bool                                  `json:"digital"`
	LastSyncedAt    time.Time                             `json:"lastSyncedAt"`
}

// NormalizeName is the lookup key used for name searches.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsLegal reports whether the card is legal in format. Missing formats are not legal.
func (c *Card) IsLegal(format string) bool {
	return c.Legalities.Data()[strings.ToLower(format)] == "legal"
}

// CardView is a catalog card with the owning cube's overrides applied.
type CardView struct {
	EntryID         string   `json:"entryId"`
	CardID          string   `json:"cardId"`
	Name            string   `json:"name"`
	SetCode         string   `json:"set"`
	CollectorNumber string   `json:"collectorNumber"`
	Rarity          Rarity   `json:"rarity"`
	TypeLine        string   `json:"typeLine"`
	CMC             float64  `json:"cmc"`
	Colors          []string `json:"colors"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
	Finish          string   `json:"finish"`
	Elo             float64  `json:"elo"`
}

// MergeCard combines catalog metadata with a cube entry. Override fields win when
// they are set: nil pointers, nil slices and empty strings defer to the catalog.
func MergeCard(meta Card, entry CubeCard) CardView {
	view := CardView{
		EntryID:         entry.EntryID.String(),
		CardID:          meta.ID,
		Name:            meta.Name,
		SetCode:         meta.SetCode,
		CollectorNumber: meta.CollectorNumber,
		Rarity:          meta.Rarity,
		TypeLine:        meta.TypeLine,
		CMC:             meta.CMC,
		Colors:          append([]string(nil), meta.ColorIdentity...),
		Tags:            append([]string(nil), entry.Tags...),
		Status:          entry.Status,
		Finish:          entry.Finish,
		Elo:             meta.Elo,
	}

	if entry.Rarity != "" {
		view.Rarity = entry.Rarity
	}
	if entry.TypeLine != nil {
		view.TypeLine = *entry.TypeLine
	}
	if entry.CMC != nil {
		view.CMC = *entry.CMC
	}
	if entry.Colors != nil {
		view.Colors = append([]string(nil), entry.Colors...)
	}

	return view
}
