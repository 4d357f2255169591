package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DraftStatus string

const (
	DraftStatusInProgress DraftStatus = "in_progress"
	DraftStatusComplete   DraftStatus = "complete"
)

type BotKind string

const (
	BotKindRandom     BotKind = "random"
	BotKindColorFocus BotKind = "color_focus"
	BotKindRating     BotKind = "rating"
)

// BotDescriptor tells the external bot simulator how a seat should pick. The
// draft core stores it and hands it back without interpreting it.
type BotDescriptor struct {
	Kind   BotKind  `json:"kind"`
	Colors []string `json:"colors,omitempty"`
}

// Seat card references are indices into Draft.Cards.
type Seat struct {
	Name       string         `json:"name"`
	UserID     *uuid.UUID     `json:"userId"`
	Bot        *BotDescriptor `json:"bot"`
	Drafted    []int          `json:"drafted"`
	Sideboard  []int          `json:"sideboard"`
	PickOrder  []int          `json:"pickOrder"`
	TrashOrder []int          `json:"trashOrder"`
	Submitted  bool           `json:"submitted"`
}

func (s Seat) IsBot() bool {
	return s.Bot != nil
}

// PackState records one generated pack: the seed that produced it and the
// positions of its cards in Draft.Cards.
type PackState struct {
	Seed        string `json:"seed"`
	CardIndices []int  `json:"cardIndices"`
}

// InitialState is indexed [seat][round].
type InitialState [][]PackState

// Seeds returns every recorded seed in seat-then-round order.
func (s InitialState) Seeds() []string {
	var seeds []string
	for _, rounds := range s {
		for _, pack := range rounds {
			seeds = append(seeds, pack.Seed)
		}
	}
	return seeds
}

type Draft struct {
	ID            uuid.UUID                        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CubeID        uuid.UUID                        `json:"cubeId" gorm:"type:uuid;index;not null"`
	OwnerID       *uuid.UUID                       `json:"ownerId" gorm:"type:uuid;index"`
	SourceDraftID *uuid.UUID                       `json:"sourceDraftId" gorm:"type:uuid"`
	Status        DraftStatus                      `json:"status" gorm:"not null;default:'in_progress'"`
	Seats         datatypes.JSONSlice[Seat]        `json:"seats" gorm:"type:jsonb"`
	Cards         datatypes.JSONSlice[string]      `json:"cards" gorm:"type:jsonb"`
	Basics        datatypes.JSONSlice[string]      `json:"basics" gorm:"type:jsonb"`
	InitialState  datatypes.JSONType[InitialState] `json:"initialState" gorm:"type:jsonb"`
	SeatOffset    int                              `json:"seatOffset" gorm:"not null;default:0"`
	Version       int                              `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time                        `json:"createdAt"`
	UpdatedAt     time.Time                        `json:"updatedAt"`
	CompletedAt   *time.Time                       `json:"completedAt"`
}

func (d *Draft) IsComplete() bool {
	return d.Status == DraftStatusComplete
}

// AllSubmitted reports whether every seat has submitted its picks.
func (d *Draft) AllSubmitted() bool {
	for _, seat := range d.Seats {
		if !seat.Submitted {
			return false
		}
	}
	return len(d.Seats) > 0
}

// PacksForSeat returns the packs opened by a seat. InitialState is kept as
// generated; seating changes are expressed through SeatOffset.
func (d *Draft) PacksForSeat(seat int) []PackState {
	state := d.InitialState.Data()
	if len(state) == 0 || seat < 0 || seat >= len(state) {
		return nil
	}
	return state[(seat+d.SeatOffset)%len(state)]
}

// CardID resolves a seat card reference.
func (d *Draft) CardID(index int) (string, bool) {
	if index < 0 || index >= len(d.Cards) {
		return "", false
	}
	return d.Cards[index], true
}
