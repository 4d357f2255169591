package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/config"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/draft"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrDraftNotFound        = errors.New("draft not found")
	ErrSeatAlreadySubmitted = fmt.Errorf("%w: seat has already submitted its picks", domain.ErrConflict)
)

// DraftNotifier is told about draft lifecycle changes after they are stored.
type DraftNotifier interface {
	DraftStarted(d *domain.Draft)
	SeatSubmitted(d *domain.Draft, seat int)
	DraftCompleted(d *domain.Draft)
}

type nopNotifier struct{}

func (nopNotifier) DraftStarted(*domain.Draft)       {}
func (nopNotifier) SeatSubmitted(*domain.Draft, int) {}
func (nopNotifier) DraftCompleted(*domain.Draft)     {}

type DraftService struct {
	draftRepo repository.DraftRepository
	cubes     *CubeService
	analytics *AnalyticsService
	notifier  DraftNotifier
	draftCfg  config.DraftConfig
	logger    *zap.SugaredLogger
}

func NewDraftService(
	draftRepo repository.DraftRepository,
	cubes *CubeService,
	analytics *AnalyticsService,
	draftCfg config.DraftConfig,
	logger *zap.SugaredLogger,
) *DraftService {
	return &DraftService{
		draftRepo: draftRepo,
		cubes:     cubes,
		analytics: analytics,
		notifier:  nopNotifier{},
		draftCfg:  draftCfg,
		logger:    logger,
	}
}

// SetNotifier replaces the lifecycle listener. The websocket hub registers
// itself here once it is running.
func (s *DraftService) SetNotifier(n DraftNotifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

type StartDraftInput struct {
	Seats     int
	HumanSeat int
	// BotSeed makes bot descriptors reproducible; minted when blank.
	BotSeed string
}

func (s *DraftService) StartDraft(ctx context.Context, viewer *domain.Viewer, cubeID uuid.UUID, input StartDraftInput) (*domain.Draft, error) {
	cube, err := s.cubes.GetCube(ctx, cubeID)
	if err != nil {
		return nil, err
	}
	pool, err := s.cubes.Pool(ctx, cube)
	if err != nil {
		return nil, err
	}

	seats := input.Seats
	if seats == 0 {
		seats = s.draftCfg.DefaultSeats
	}
	botSeed, err := draft.NormalizeSeed(input.BotSeed)
	if err != nil {
		return nil, err
	}

	d, err := draft.BuildDraft(draft.BuildInput{
		CubeID:    cube.ID,
		OwnerID:   viewerID(viewer),
		Pool:      pool,
		Template:  cube.Template(),
		Basics:    cube.Basics,
		Seats:     seats,
		MaxSeats:  s.draftCfg.MaxSeats,
		HumanSeat: input.HumanSeat,
		Human:     viewer,
		Bots:      draft.NewRandomBots(botSeed),
	})
	if err != nil {
		s.logger.Warnw("draft build failed", "cube_id", cubeID, "seats", seats, "error", err)
		return nil, err
	}

	if err := s.draftRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Infow("draft started", "cube_id", cubeID, "draft_id", d.ID, "seats", len(d.Seats), "cards", len(d.Cards))
	s.notifier.DraftStarted(d)
	return d, nil
}

func (s *DraftService) GetDraft(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	d, err := s.draftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DraftService) ListDrafts(ctx context.Context, cubeID uuid.UUID, limit, offset int) ([]*domain.Draft, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.draftRepo.GetByCubeID(ctx, cubeID, limit, offset)
}

// SeatResult is what the drafting client reports for one seat. Every value is
// an index into the draft's card list.
type SeatResult struct {
	Drafted    []int
	Sideboard  []int
	PickOrder  []int
	TrashOrder []int
}

// SubmitSeat stores one seat's finished pools. The submission that completes
// the last seat flips the draft to complete in the same write and is the only
// one that folds the draft into the cube analytics.
func (s *DraftService) SubmitSeat(ctx context.Context, viewer *domain.Viewer, draftID uuid.UUID, seat int, result SeatResult) (*domain.Draft, error) {
	var completed bool
	d, err := updateWithRetry(ctx, s.draftCfg.UpdateRetries,
		func(ctx context.Context) (*domain.Draft, error) {
			return s.GetDraft(ctx, draftID)
		},
		func(d *domain.Draft) error {
			completed = false
			if d.IsComplete() {
				return domain.ErrInvalidState
			}
			if seat < 0 || seat >= len(d.Seats) {
				return domain.NewValidationError("seat", "must be between 0 and %d", len(d.Seats)-1)
			}
			target := &d.Seats[seat]
			if target.Submitted {
				return ErrSeatAlreadySubmitted
			}
			if target.UserID != nil && (viewer == nil || (viewer.UserID != *target.UserID && !viewer.IsAdmin)) {
				return ErrForbidden
			}
			if err := checkIndices(len(d.Cards), result); err != nil {
				return err
			}

			target.Drafted = append([]int{}, result.Drafted...)
			target.Sideboard = append([]int{}, result.Sideboard...)
			target.PickOrder = append([]int{}, result.PickOrder...)
			target.TrashOrder = append([]int{}, result.TrashOrder...)
			target.Submitted = true

			if d.AllSubmitted() {
				now := time.Now()
				d.Status = domain.DraftStatusComplete
				d.CompletedAt = &now
				completed = true
			}
			return nil
		},
		s.draftRepo.Update,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("seat submitted", "draft_id", d.ID, "seat", seat, "picks", len(result.PickOrder))
	s.notifier.SeatSubmitted(d, seat)

	if completed {
		// The draft is already stored as complete and only this call folds it,
		// so the fold outlives a cancelled request. A failed fold is logged by
		// the analytics service and does not undo the submission.
		_, _ = s.analytics.Fold(context.WithoutCancel(ctx), d)
		s.logger.Infow("draft completed", "cube_id", d.CubeID, "draft_id", d.ID)
		s.notifier.DraftCompleted(d)
	}
	return d, nil
}

// Redraft starts a new draft over the packs of a completed one with the viewer
// in seatIndex's place.
func (s *DraftService) Redraft(ctx context.Context, viewer *domain.Viewer, draftID uuid.UUID, seatIndex int) (*domain.Draft, error) {
	src, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	d, err := draft.Redraft(src, seatIndex, viewer, draft.NewRandomBots(draft.MintSeed()))
	if err != nil {
		return nil, err
	}
	if err := s.draftRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Infow("redraft started", "cube_id", d.CubeID, "draft_id", d.ID, "source_draft_id", src.ID, "seat", seatIndex)
	s.notifier.DraftStarted(d)
	return d, nil
}

func checkIndices(poolSize int, result SeatResult) error {
	lists := []struct {
		field   string
		indices []int
	}{
		{"drafted", result.Drafted},
		{"sideboard", result.Sideboard},
		{"pickOrder", result.PickOrder},
		{"trashOrder", result.TrashOrder},
	}
	for _, list := range lists {
		for _, index := range list.indices {
			if index < 0 || index >= poolSize {
				return domain.NewValidationError(list.field, "card index %d is outside the draft pool", index)
			}
		}
	}
	return nil
}

func viewerID(viewer *domain.Viewer) *uuid.UUID {
	if viewer == nil {
		return nil
	}
	id := viewer.UserID
	return &id
}
