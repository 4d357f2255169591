package handlers

import (
	"net/http"
	"sort"

	"github.com/smartintruesdell/CubeCobra/internal/api/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

type CubeHandler struct {
	cubeService      *service.CubeService
	packService      *service.PackService
	analyticsService *service.AnalyticsService
	logger           *zap.SugaredLogger
}

func NewCubeHandler(cubeService *service.CubeService, packService *service.PackService, analyticsService *service.AnalyticsService, logger *zap.SugaredLogger) *CubeHandler {
	return &CubeHandler{
		cubeService:      cubeService,
		packService:      packService,
		analyticsService: analyticsService,
		logger:           logger,
	}
}

type CreateCubeRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Basics []string `json:"basics"`
}

type AddCardsRequest struct {
	Names    []string `json:"names" validate:"required,min=1,max=500,dive,required"`
	Printing string   `json:"printing"`
	Status   string   `json:"status" validate:"omitempty,oneof=Owned 'Not Owned' Ordered Proxied Borrowed"`
	Finish   string   `json:"finish" validate:"omitempty,oneof=Non-foil Foil"`
	Tags     []string `json:"tags"`
}

type UpdateCardRequest struct {
	Status   *string        `json:"status" validate:"omitempty,oneof=Owned 'Not Owned' Ordered Proxied Borrowed"`
	Finish   *string        `json:"finish" validate:"omitempty,oneof=Non-foil Foil"`
	Tags     *[]string      `json:"tags"`
	Rarity   *domain.Rarity `json:"rarity"`
	CMC      *float64       `json:"cmc"` // negative clears the override
	TypeLine *string        `json:"typeLine"`
	Colors   *[]string      `json:"colors"`
}

type CubeResponse struct {
	ID           string              `json:"id"`
	OwnerID      string              `json:"ownerId"`
	Name         string              `json:"name"`
	Version      int                 `json:"version"`
	Cards        []domain.CardView   `json:"cards"`
	Basics       []string            `json:"basics"`
	PackTemplate domain.PackTemplate `json:"packTemplate"`
}

type PackResponse struct {
	Seed  string            `json:"seed"`
	Pack  []string          `json:"pack"`
	Cards []domain.CardView `json:"cards"`
}

type CardAnalyticResponse struct {
	Name   string  `json:"name"`
	Picks  int     `json:"picks"`
	Passes int     `json:"passes"`
	Elo    float64 `json:"elo"`
}

func (h *CubeHandler) cubeResponse(w http.ResponseWriter, r *http.Request, op string, cube *domain.Cube) {
	pool, err := h.cubeService.Pool(r.Context(), cube)
	if err != nil {
		writeServiceError(w, h.logger, op, err)
		return
	}

	writeJSON(w, http.StatusOK, CubeResponse{
		ID:           cube.ID.String(),
		OwnerID:      cube.OwnerID.String(),
		Name:         cube.Name,
		Version:      cube.Version,
		Cards:        pool,
		Basics:       append([]string{}, cube.Basics...),
		PackTemplate: cube.Template(),
	})
}

func (h *CubeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCubeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	cube, err := h.cubeService.CreateCube(r.Context(), middleware.GetViewer(r.Context()), service.CreateCubeInput{
		Name:   req.Name,
		Basics: req.Basics,
	})
	if err != nil {
		writeServiceError(w, h.logger, "cube.Create", err)
		return
	}
	h.cubeResponse(w, r, "cube.Create", cube)
}

func (h *CubeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, offset := pageQuery(r)
	cubes, err := h.cubeService.ListCubes(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, "cube.ListMine", err)
		return
	}

	type cubeSummary struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Cards int    `json:"cards"`
	}
	resp := make([]cubeSummary, len(cubes))
	for i, c := range cubes {
		resp[i] = cubeSummary{ID: c.ID.String(), Name: c.Name, Cards: len(c.Cards)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cubes": resp})
}

func (h *CubeHandler) Get(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	cube, err := h.cubeService.GetCube(r.Context(), cubeID)
	if err != nil {
		writeServiceError(w, h.logger, "cube.Get", err)
		return
	}
	h.cubeResponse(w, r, "cube.Get", cube)
}

func (h *CubeHandler) AddCards(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}
	var req AddCardsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	cube, err := h.cubeService.AddCards(r.Context(), middleware.GetViewer(r.Context()), cubeID, service.AddCardsInput{
		Names:    req.Names,
		Printing: req.Printing,
		Status:   req.Status,
		Finish:   req.Finish,
		Tags:     req.Tags,
	})
	if err != nil {
		writeServiceError(w, h.logger, "cube.AddCards", err)
		return
	}
	h.cubeResponse(w, r, "cube.AddCards", cube)
}

// UpdateCard addresses the entry by id; ?index= is accepted as a consistency
// check for clients that still address cards by position.
func (h *CubeHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}
	entryID, ok := uuidParam(w, r, "entryId")
	if !ok {
		return
	}
	indexHint, ok := optionalIntQuery(w, r, "index")
	if !ok {
		return
	}
	var req UpdateCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	cube, err := h.cubeService.UpdateCard(r.Context(), middleware.GetViewer(r.Context()), cubeID, entryID, indexHint, service.CardPatch{
		Status:   req.Status,
		Finish:   req.Finish,
		Tags:     req.Tags,
		Rarity:   req.Rarity,
		CMC:      req.CMC,
		TypeLine: req.TypeLine,
		Colors:   req.Colors,
	})
	if err != nil {
		writeServiceError(w, h.logger, "cube.UpdateCard", err)
		return
	}
	h.cubeResponse(w, r, "cube.UpdateCard", cube)
}

func (h *CubeHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}
	entryID, ok := uuidParam(w, r, "entryId")
	if !ok {
		return
	}
	indexHint, ok := optionalIntQuery(w, r, "index")
	if !ok {
		return
	}

	cube, err := h.cubeService.RemoveCard(r.Context(), middleware.GetViewer(r.Context()), cubeID, entryID, indexHint)
	if err != nil {
		writeServiceError(w, h.logger, "cube.RemoveCard", err)
		return
	}
	h.cubeResponse(w, r, "cube.RemoveCard", cube)
}

func (h *CubeHandler) SetPackTemplate(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}
	// The service fills defaults before validating the template.
	var req domain.PackTemplate
	if !decodeJSON(w, r, &req) {
		return
	}

	cube, err := h.cubeService.SetPackTemplate(r.Context(), middleware.GetViewer(r.Context()), cubeID, req)
	if err != nil {
		writeServiceError(w, h.logger, "cube.SetPackTemplate", err)
		return
	}
	h.cubeResponse(w, r, "cube.SetPackTemplate", cube)
}

// Pack generates a sample pack. Omitting ?seed= mints one.
func (h *CubeHandler) Pack(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	pack, err := h.packService.GeneratePack(r.Context(), cubeID, r.URL.Query().Get("seed"))
	if err != nil {
		writeServiceError(w, h.logger, "cube.Pack", err)
		return
	}
	writeJSON(w, http.StatusOK, PackResponse{Seed: pack.Seed, Pack: pack.Names(), Cards: pack.Cards})
}

func (h *CubeHandler) ReplayPack(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	pack, err := h.packService.ReplayPack(r.Context(), cubeID, chiParam(r, "seed"))
	if err != nil {
		writeServiceError(w, h.logger, "cube.ReplayPack", err)
		return
	}
	writeJSON(w, http.StatusOK, PackResponse{Seed: pack.Seed, Pack: pack.Names(), Cards: pack.Cards})
}

func (h *CubeHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	result, err := h.cubeService.Recommendations(r.Context(), cubeID)
	if err != nil {
		writeServiceError(w, h.logger, "cube.Recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Analytics lists per-card statistics, highest rated first.
func (h *CubeHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	analytic, err := h.analyticsService.Get(r.Context(), cubeID)
	if err != nil {
		writeServiceError(w, h.logger, "cube.Analytics", err)
		return
	}

	cards := make([]CardAnalyticResponse, 0, len(analytic.Cards.Data()))
	for name, stat := range analytic.Cards.Data() {
		cards = append(cards, CardAnalyticResponse{Name: name, Picks: stat.Picks, Passes: stat.Passes, Elo: stat.Elo})
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Elo != cards[j].Elo {
			return cards[i].Elo > cards[j].Elo
		}
		return cards[i].Name < cards[j].Name
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"cubeId": cubeID.String(),
		"drafts": analytic.Drafts,
		"cards":  cards,
	})
}
