package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/config"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var ErrCatalogSourceMissing = errors.New("no card bulk data source configured")

type CardService struct {
	cardRepo   repository.CardRepository
	cards      carddb.Index
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewCardService(cardRepo repository.CardRepository, cards carddb.Index, cfg *config.Config, logger *zap.SugaredLogger) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		cards:    cards,
		cfg:      cfg,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

func (s *CardService) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return s.cards.CardFromID(ctx, id)
}

func (s *CardService) Versions(ctx context.Context, id string) ([]*domain.Card, error) {
	card, err := s.cards.CardFromID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cards.AllVersions(ctx, card)
}

func (s *CardService) Lookup(ctx context.Context, name, printing string) (*domain.Card, error) {
	return s.cards.GetMostReasonable(ctx, name, printing)
}

// bulkCard is one entry of the catalog bulk export.
type bulkCard struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id"`
	Name            string            `json:"name"`
	Set             string            `json:"set"`
	CollectorNumber string            `json:"collector_number"`
	Rarity          string            `json:"rarity"`
	TypeLine        string            `json:"type_line"`
	CMC             float64           `json:"cmc"`
	ColorIdentity   []string          `json:"color_identity"`
	Legalities      map[string]string `json:"legalities"`
	Prices          struct {
		USD     *string `json:"usd"`
		USDFoil *string `json:"usd_foil"`
	} `json:"prices"`
	ReleasedAt string `json:"released_at"`
	Promo      bool   `json:"promo"`
	Digital    bool   `json:"digital"`
}

// SyncFromBulk downloads the configured bulk export and upserts every card.
func (s *CardService) SyncFromBulk(ctx context.Context) (int, error) {
	if s.cfg.CardBulkURL == "" {
		return 0, ErrCatalogSourceMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.CardBulkURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch card bulk data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch card bulk data: status %d", resp.StatusCode)
	}

	return s.Import(ctx, resp.Body)
}

// Import reads a JSON array of bulk cards and upserts them.
func (s *CardService) Import(ctx context.Context, r io.Reader) (int, error) {
	var raw []bulkCard
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, fmt.Errorf("failed to decode card bulk data: %w", err)
	}

	now := time.Now()
	cards := make([]*domain.Card, 0, len(raw))
	for _, c := range raw {
		if c.ID == "" || c.Name == "" {
			continue
		}
		cards = append(cards, toCard(c, now))
	}

	if err := s.cardRepo.UpsertMany(ctx, cards); err != nil {
		return 0, fmt.Errorf("failed to upsert cards: %w", err)
	}

	total, err := s.cardRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Infow("card catalog imported", "imported", len(cards), "skipped", len(raw)-len(cards), "total", total)
	return len(cards), nil
}

func toCard(c bulkCard, syncedAt time.Time) *domain.Card {
	card := &domain.Card{
		ID:              c.ID,
		OracleID:        c.OracleID,
		Name:            c.Name,
		NameLower:       domain.NormalizeName(c.Name),
		SetCode:         c.Set,
		CollectorNumber: c.CollectorNumber,
		Rarity:          domain.Rarity(c.Rarity),
		TypeLine:        c.TypeLine,
		CMC:             c.CMC,
		ColorIdentity:   append(datatypes.JSONSlice[string]{}, c.ColorIdentity...),
		Legalities:      datatypes.NewJSONType(c.Legalities),
		PriceUSD:        parsePrice(c.Prices.USD),
		PriceUSDFoil:    parsePrice(c.Prices.USDFoil),
		Elo:             domain.DefaultElo,
		Promo:           c.Promo,
		Digital:         c.Digital,
		LastSyncedAt:    syncedAt,
	}
	if released, err := time.Parse(time.DateOnly, c.ReleasedAt); err == nil {
		card.ReleasedAt = released
	}
	return card
}

func parsePrice(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	price, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil
	}
	return &price
}
