package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/config"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/recommend"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	ErrCubeNotFound      = errors.New("cube not found")
	ErrCubeEntryNotFound = errors.New("card is not in this cube")
	ErrForbidden         = errors.New("not allowed to modify this resource")
)

const maxCubeNameLength = 100

// Recommender suggests cards to add to or cut from a list of card names.
type Recommender interface {
	Recommend(ctx context.Context, cardNames []string) recommend.Result
}

type CubeService struct {
	cubeRepo    repository.CubeRepository
	cards       carddb.Index
	recommender Recommender
	draftCfg    config.DraftConfig
	logger      *zap.SugaredLogger
}

func NewCubeService(cubeRepo repository.CubeRepository, cards carddb.Index, recommender Recommender, draftCfg config.DraftConfig, logger *zap.SugaredLogger) *CubeService {
	return &CubeService{
		cubeRepo:    cubeRepo,
		cards:       cards,
		recommender: recommender,
		draftCfg:    draftCfg,
		logger:      logger,
	}
}

type CreateCubeInput struct {
	Name   string
	Basics []string
}

func (s *CubeService) CreateCube(ctx context.Context, viewer *domain.Viewer, input CreateCubeInput) (*domain.Cube, error) {
	if viewer == nil {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxCubeNameLength {
		return nil, domain.NewValidationError("name", "must be between 1 and %d characters", maxCubeNameLength)
	}
	for _, id := range input.Basics {
		if _, err := s.cards.CardFromID(ctx, id); err != nil {
			if errors.Is(err, carddb.ErrCardNotFound) {
				return nil, domain.NewValidationError("basics", "unknown card id %q", id)
			}
			return nil, fmt.Errorf("basic %s: %w", id, err)
		}
	}

	cube := &domain.Cube{
		ID:           uuid.New(),
		OwnerID:      viewer.UserID,
		Name:         name,
		Cards:        datatypes.JSONSlice[domain.CubeCard]{},
		Basics:       append(datatypes.JSONSlice[string]{}, input.Basics...),
		PackTemplate: datatypes.NewJSONType(domain.DefaultPackTemplate(s.draftCfg.DefaultPackSize, s.draftCfg.DefaultRounds)),
		Version:      1,
	}
	if err := s.cubeRepo.Create(ctx, cube); err != nil {
		return nil, err
	}

	s.logger.Infow("cube created", "cube_id", cube.ID, "owner_id", cube.OwnerID)
	return cube, nil
}

func (s *CubeService) GetCube(ctx context.Context, id uuid.UUID) (*domain.Cube, error) {
	cube, err := s.cubeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, cubeLookupError(err)
	}
	return cube, nil
}

func (s *CubeService) ListCubes(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Cube, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.cubeRepo.GetByOwnerID(ctx, ownerID, limit, offset)
}

// Pool merges every cube entry with its catalog card, in list order. A card id
// the catalog does not know fails the whole call.
func (s *CubeService) Pool(ctx context.Context, cube *domain.Cube) ([]domain.CardView, error) {
	ids := make([]string, len(cube.Cards))
	for i, entry := range cube.Cards {
		ids[i] = entry.CardID
	}
	catalog, err := s.cards.CardsFromIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("cube %s: %w", cube.ID, err)
	}

	pool := make([]domain.CardView, 0, len(cube.Cards))
	for _, entry := range cube.Cards {
		meta, ok := catalog[entry.CardID]
		if !ok {
			return nil, fmt.Errorf("cube %s entry %s: %w: %s", cube.ID, entry.EntryID, carddb.ErrCardNotFound, entry.CardID)
		}
		pool = append(pool, domain.MergeCard(*meta, entry))
	}
	return pool, nil
}

type AddCardsInput struct {
	Names []string
	// Printing is a card id, carddb.PrintingFirst or carddb.PrintingRecent.
	Printing string
	Status   string
	Finish   string
	Tags     []string
}

// AddCards resolves every name before touching the cube, so one unknown name
// adds nothing.
func (s *CubeService) AddCards(ctx context.Context, viewer *domain.Viewer, cubeID uuid.UUID, input AddCardsInput) (*domain.Cube, error) {
	if len(input.Names) == 0 {
		return nil, domain.NewValidationError("names", "at least one card name is required")
	}

	status := input.Status
	if status == "" {
		status = domain.CardStatusOwned
	}
	finish := input.Finish
	if finish == "" {
		finish = domain.CardFinishNonFoil
	}

	now := time.Now()
	entries := make([]domain.CubeCard, 0, len(input.Names))
	for _, name := range input.Names {
		card, err := s.cards.GetMostReasonable(ctx, name, input.Printing)
		if err != nil {
			if errors.Is(err, carddb.ErrCardNotFound) {
				return nil, domain.NewValidationError("names", "unknown card %q", name)
			}
			return nil, err
		}
		entries = append(entries, domain.CubeCard{
			EntryID: uuid.New(),
			CardID:  card.ID,
			Status:  status,
			Finish:  finish,
			Tags:    append([]string{}, input.Tags...),
			AddedAt: now,
		})
	}

	cube, err := s.update(ctx, viewer, cubeID, func(c *domain.Cube) error {
		c.Cards = append(c.Cards, entries...)
		c.Reindex()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("cards added to cube", "cube_id", cubeID, "added", len(entries), "size", len(cube.Cards))
	return cube, nil
}

// CardPatch holds the editable fields of a cube entry; nil fields are left
// as they are. Empty override values clear the override; for CMC any negative
// value clears it.
type CardPatch struct {
	Status   *string
	Finish   *string
	Tags     *[]string
	Rarity   *domain.Rarity
	CMC      *float64
	TypeLine *string
	Colors   *[]string
}

// UpdateCard edits one entry. The entry id is authoritative; indexHint, when
// given, must still point at that entry in the stored list.
func (s *CubeService) UpdateCard(ctx context.Context, viewer *domain.Viewer, cubeID, entryID uuid.UUID, indexHint *int, patch CardPatch) (*domain.Cube, error) {
	return s.update(ctx, viewer, cubeID, func(c *domain.Cube) error {
		pos, err := locateEntry(c, entryID, indexHint)
		if err != nil {
			return err
		}
		applyPatch(&c.Cards[pos], patch)
		return nil
	})
}

func (s *CubeService) RemoveCard(ctx context.Context, viewer *domain.Viewer, cubeID, entryID uuid.UUID, indexHint *int) (*domain.Cube, error) {
	return s.update(ctx, viewer, cubeID, func(c *domain.Cube) error {
		pos, err := locateEntry(c, entryID, indexHint)
		if err != nil {
			return err
		}
		c.Cards = append(c.Cards[:pos], c.Cards[pos+1:]...)
		c.Reindex()
		return nil
	})
}

func (s *CubeService) SetPackTemplate(ctx context.Context, viewer *domain.Viewer, cubeID uuid.UUID, tmpl domain.PackTemplate) (*domain.Cube, error) {
	if tmpl.Rounds == 0 {
		tmpl.Rounds = s.draftCfg.DefaultRounds
	}
	if err := validateStruct("packTemplate", tmpl); err != nil {
		return nil, err
	}
	for i, slot := range tmpl.Slots {
		if slot.Primary.IsEmpty() && slot.Fallback.IsEmpty() {
			return nil, domain.NewValidationError("packTemplate", "slot %d has no filter", i)
		}
	}
	tmpl = tmpl.WithFallbacks()

	return s.update(ctx, viewer, cubeID, func(c *domain.Cube) error {
		c.PackTemplate = datatypes.NewJSONType(tmpl)
		return nil
	})
}

// Recommendations never fails because of the recommendation engine; an
// unavailable engine yields empty lists.
func (s *CubeService) Recommendations(ctx context.Context, cubeID uuid.UUID) (recommend.Result, error) {
	cube, err := s.GetCube(ctx, cubeID)
	if err != nil {
		return recommend.Result{}, err
	}
	pool, err := s.Pool(ctx, cube)
	if err != nil {
		return recommend.Result{}, err
	}

	names := make([]string, len(pool))
	for i, card := range pool {
		names[i] = card.Name
	}
	return s.recommender.Recommend(ctx, names), nil
}

// update applies a change to a fresh snapshot of the cube and writes it back
// with a version check, retrying when another writer got there first.
func (s *CubeService) update(ctx context.Context, viewer *domain.Viewer, cubeID uuid.UUID, apply func(c *domain.Cube) error) (*domain.Cube, error) {
	return updateWithRetry(ctx, s.draftCfg.UpdateRetries,
		func(ctx context.Context) (*domain.Cube, error) {
			return s.GetCube(ctx, cubeID)
		},
		func(c *domain.Cube) error {
			if !canManage(viewer, c.OwnerID) {
				return ErrForbidden
			}
			return apply(c)
		},
		s.cubeRepo.Update,
	)
}

func locateEntry(c *domain.Cube, entryID uuid.UUID, indexHint *int) (int, error) {
	pos := c.FindEntry(entryID)
	if pos < 0 {
		return -1, ErrCubeEntryNotFound
	}
	if indexHint != nil && *indexHint != pos {
		return -1, domain.ErrEntryIndexStale
	}
	return pos, nil
}

func applyPatch(entry *domain.CubeCard, patch CardPatch) {
	if patch.Status != nil {
		entry.Status = *patch.Status
	}
	if patch.Finish != nil {
		entry.Finish = *patch.Finish
	}
	if patch.Tags != nil {
		entry.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Rarity != nil {
		entry.Rarity = *patch.Rarity
	}
	if patch.CMC != nil {
		if *patch.CMC < 0 {
			entry.CMC = nil
		} else {
			cmc := *patch.CMC
			entry.CMC = &cmc
		}
	}
	if patch.TypeLine != nil {
		if *patch.TypeLine == "" {
			entry.TypeLine = nil
		} else {
			typeLine := *patch.TypeLine
			entry.TypeLine = &typeLine
		}
	}
	if patch.Colors != nil {
		if len(*patch.Colors) == 0 {
			entry.Colors = nil
		} else {
			entry.Colors = append([]string{}, (*patch.Colors)...)
		}
	}
}

func cubeLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCubeNotFound
	}
	return err
}
