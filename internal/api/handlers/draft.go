package handlers

import (
	"net/http"

	"github.com/smartintruesdell/CubeCobra/internal/api/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

type DraftHandler struct {
	draftService *service.DraftService
	logger       *zap.SugaredLogger
}

func NewDraftHandler(draftService *service.DraftService, logger *zap.SugaredLogger) *DraftHandler {
	return &DraftHandler{draftService: draftService, logger: logger}
}

type StartDraftRequest struct {
	Seats     int    `json:"seats" validate:"omitempty,gte=2,lte=16"`
	HumanSeat int    `json:"humanSeat" validate:"gte=0"`
	BotSeed   string `json:"botSeed" validate:"max=128"`
}

type SubmitSeatRequest struct {
	Drafted    []int `json:"drafted"`
	Sideboard  []int `json:"sideboard"`
	PickOrder  []int `json:"pickOrder"`
	TrashOrder []int `json:"trashOrder"`
}

func (h *DraftHandler) Start(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}
	var req StartDraftRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	d, err := h.draftService.StartDraft(r.Context(), middleware.GetViewer(r.Context()), cubeID, service.StartDraftInput{
		Seats:     req.Seats,
		HumanSeat: req.HumanSeat,
		BotSeed:   req.BotSeed,
	})
	if err != nil {
		writeServiceError(w, h.logger, "draft.Start", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DraftHandler) ListByCube(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	limit, offset := pageQuery(r)
	drafts, err := h.draftService.ListDrafts(r.Context(), cubeID, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, "draft.ListByCube", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draftID, ok := uuidParam(w, r, "draftId")
	if !ok {
		return
	}

	d, err := h.draftService.GetDraft(r.Context(), draftID)
	if err != nil {
		writeServiceError(w, h.logger, "draft.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) SubmitSeat(w http.ResponseWriter, r *http.Request) {
	draftID, ok := uuidParam(w, r, "draftId")
	if !ok {
		return
	}
	seat, ok := intParam(w, r, "seat")
	if !ok {
		return
	}
	var req SubmitSeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.draftService.SubmitSeat(r.Context(), middleware.GetViewer(r.Context()), draftID, seat, service.SeatResult{
		Drafted:    req.Drafted,
		Sideboard:  req.Sideboard,
		PickOrder:  req.PickOrder,
		TrashOrder: req.TrashOrder,
	})
	if err != nil {
		writeServiceError(w, h.logger, "draft.SubmitSeat", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Redraft starts a new draft over the packs of a completed one, with the
// caller sitting in {seat}.
func (h *DraftHandler) Redraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := uuidParam(w, r, "draftId")
	if !ok {
		return
	}
	seat, ok := intParam(w, r, "seat")
	if !ok {
		return
	}

	d, err := h.draftService.Redraft(r.Context(), middleware.GetViewer(r.Context()), draftID, seat)
	if err != nil {
		writeServiceError(w, h.logger, "draft.Redraft", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}
