package draft

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/datatypes"
)

const (
	MinSeats        = 2
	DefaultMaxSeats = 16
	anonymousName   = "Anonymous"
)

type BuildInput struct {
	CubeID    uuid.UUID
	OwnerID   *uuid.UUID
	Pool      []domain.CardView
	Template  domain.PackTemplate
	Basics    []string
	Seats     int
	MaxSeats  int
	HumanSeat int
	Human     *domain.Viewer
	Bots      BotAssigner
	// Seeds supplies one seed per pack. MintSeed is used when nil.
	Seeds func() string
}

// BuildDraft generates every pack of a new draft and lays out the seats.
// Packs are generated round by round, seat by seat, each from its own seed.
func BuildDraft(in BuildInput) (*domain.Draft, error) {
	maxSeats := in.MaxSeats
	if maxSeats <= 0 {
		maxSeats = DefaultMaxSeats
	}
	if in.Seats < MinSeats || in.Seats > maxSeats {
		return nil, domain.NewValidationError("seats", "must be between %d and %d", MinSeats, maxSeats)
	}
	if in.HumanSeat < 0 || in.HumanSeat >= in.Seats {
		return nil, domain.NewValidationError("humanSeat", "must be between 0 and %d", in.Seats-1)
	}
	if in.Template.Rounds < 1 {
		return nil, domain.NewValidationError("packTemplate", "must have at least one round")
	}

	seeds := in.Seeds
	if seeds == nil {
		seeds = MintSeed
	}
	bots := in.Bots
	if bots == nil {
		bots = NewRandomBots(MintSeed())
	}

	initial := make(domain.InitialState, in.Seats)
	for seat := range initial {
		initial[seat] = make([]domain.PackState, in.Template.Rounds)
	}

	var cards []string
	for round := 0; round < in.Template.Rounds; round++ {
		for seat := 0; seat < in.Seats; seat++ {
			pack, err := GeneratePack(in.Pool, in.Template, seeds())
			if err != nil {
				return nil, fmt.Errorf("pack %d for seat %d: %w", round+1, seat, err)
			}

			indices := make([]int, len(pack.Cards))
			for i, card := range pack.Cards {
				indices[i] = len(cards)
				cards = append(cards, card.CardID)
			}
			initial[seat][round] = domain.PackState{Seed: pack.Seed, CardIndices: indices}
		}
	}

	seats := make([]domain.Seat, in.Seats)
	for i := range seats {
		if i == in.HumanSeat {
			seats[i] = humanSeat(in.Human)
			continue
		}
		seats[i] = botSeat(i, bots)
	}

	return &domain.Draft{
		ID:           uuid.New(),
		CubeID:       in.CubeID,
		OwnerID:      in.OwnerID,
		Status:       domain.DraftStatusInProgress,
		Seats:        seats,
		Cards:        cards,
		Basics:       append(datatypes.JSONSlice[string]{}, in.Basics...),
		InitialState: datatypes.NewJSONType(initial),
		Version:      1,
	}, nil
}

func emptySeat(name string) domain.Seat {
	return domain.Seat{
		Name:       name,
		Drafted:    []int{},
		Sideboard:  []int{},
		PickOrder:  []int{},
		TrashOrder: []int{},
	}
}

func humanSeat(viewer *domain.Viewer) domain.Seat {
	if viewer == nil {
		return emptySeat(anonymousName)
	}
	seat := emptySeat(viewer.DisplayName)
	id := viewer.UserID
	seat.UserID = &id
	return seat
}

func botSeat(index int, bots BotAssigner) domain.Seat {
	seat := emptySeat(fmt.Sprintf("Bot %d", index+1))
	bot := bots.Assign(index)
	seat.Bot = &bot
	return seat
}
