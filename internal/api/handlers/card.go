package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smartintruesdell/CubeCobra/internal/api/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

type CardHandler struct {
	cardService *service.CardService
	logger      *zap.SugaredLogger
}

func NewCardHandler(cardService *service.CardService, logger *zap.SugaredLogger) *CardHandler {
	return &CardHandler{cardService: cardService, logger: logger}
}

type CardResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Set             string   `json:"set"`
	CollectorNumber string   `json:"collectorNumber"`
	Rarity          string   `json:"rarity"`
	TypeLine        string   `json:"typeLine"`
	CMC             float64  `json:"cmc"`
	ColorIdentity   []string `json:"colorIdentity"`
	PriceUSD        *float64 `json:"priceUsd"`
	Elo             float64  `json:"elo"`
	ReleasedAt      string   `json:"releasedAt"`
}

func newCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:              card.ID,
		Name:            card.Name,
		Set:             card.SetCode,
		CollectorNumber: card.CollectorNumber,
		Rarity:          string(card.Rarity),
		TypeLine:        card.TypeLine,
		CMC:             card.CMC,
		ColorIdentity:   append([]string{}, card.ColorIdentity...),
		PriceUSD:        card.PriceUSD,
		Elo:             card.Elo,
		ReleasedAt:      card.ReleasedAt.Format("2006-01-02"),
	}
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardService.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, "card.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(card))
}

func (h *CardHandler) Versions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.cardService.Versions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, "card.Versions", err)
		return
	}

	resp := make([]CardResponse, len(versions))
	for i, v := range versions {
		resp[i] = newCardResponse(v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": resp})
}

// Lookup resolves ?name= to one printing, honouring ?printing=.
func (h *CardHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	card, err := h.cardService.Lookup(r.Context(), name, r.URL.Query().Get("printing"))
	if err != nil {
		writeServiceError(w, h.logger, "card.Lookup", err)
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(card))
}

func (h *CardHandler) Sync(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	if viewer == nil || !viewer.IsAdmin {
		http.Error(w, "Admin only", http.StatusForbidden)
		return
	}

	count, err := h.cardService.SyncFromBulk(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrCatalogSourceMissing) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeServiceError(w, h.logger, "card.Sync", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}
