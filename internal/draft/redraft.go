package draft

import (
	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/datatypes"
)

// Redraft derives a fresh draft over the packs of a completed one, seated as if
// the viewer had been in seatIndex. The source draft is not modified.
func Redraft(src *domain.Draft, seatIndex int, viewer *domain.Viewer, bots BotAssigner) (*domain.Draft, error) {
	if !src.IsComplete() {
		return nil, domain.ErrInvalidState
	}
	if seatIndex < 0 || seatIndex >= len(src.Seats) {
		return nil, domain.NewValidationError("seat", "must be between 0 and %d", len(src.Seats)-1)
	}
	if bots == nil {
		bots = NewRandomBots(MintSeed())
	}

	n := len(src.Seats)
	seats := make([]domain.Seat, n)
	seats[0] = humanSeat(viewer)
	for i := 1; i < n; i++ {
		seats[i] = botSeat(i, bots)
	}

	sourceID := src.ID
	return &domain.Draft{
		ID:            uuid.New(),
		CubeID:        src.CubeID,
		OwnerID:       viewerID(viewer),
		SourceDraftID: &sourceID,
		Status:        domain.DraftStatusInProgress,
		Seats:         seats,
		Cards:         append(datatypes.JSONSlice[string]{}, src.Cards...),
		Basics:        append(datatypes.JSONSlice[string]{}, src.Basics...),
		InitialState:  datatypes.NewJSONType(copyInitialState(src.InitialState.Data())),
		SeatOffset:    (src.SeatOffset + seatIndex) % n,
		Version:       1,
	}, nil
}

func copyInitialState(state domain.InitialState) domain.InitialState {
	out := make(domain.InitialState, len(state))
	for seat, rounds := range state {
		out[seat] = make([]domain.PackState, len(rounds))
		for round, pack := range rounds {
			out[seat][round] = domain.PackState{
				Seed:        pack.Seed,
				CardIndices: append([]int(nil), pack.CardIndices...),
			}
		}
	}
	return out
}

func viewerID(viewer *domain.Viewer) *uuid.UUID {
	if viewer == nil {
		return nil
	}
	id := viewer.UserID
	return &id
}
