package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/api/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

type FeaturedHandler struct {
	featuredService *service.FeaturedService
	logger          *zap.SugaredLogger
}

func NewFeaturedHandler(featuredService *service.FeaturedService, logger *zap.SugaredLogger) *FeaturedHandler {
	return &FeaturedHandler{featuredService: featuredService, logger: logger}
}

type QueueCubeRequest struct {
	CubeID string `json:"cubeId" validate:"required,uuid"`
}

type MoveRequest struct {
	From *int `json:"from" validate:"required"`
	To   *int `json:"to" validate:"required"`
}

type FeaturedQueueResponse struct {
	Featured []domain.FeaturedEntry `json:"featured"`
	Queue    []domain.FeaturedEntry `json:"queue"`
	Version  int                    `json:"version"`
}

func writeQueue(w http.ResponseWriter, q *domain.FeaturedQueue) {
	split := min(domain.FeaturedCount, len(q.Entries))
	writeJSON(w, http.StatusOK, FeaturedQueueResponse{
		Featured: append([]domain.FeaturedEntry{}, q.Entries[:split]...),
		Queue:    append([]domain.FeaturedEntry{}, q.Entries[split:]...),
		Version:  q.Version,
	})
}

func (h *FeaturedHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := h.featuredService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "featured.List", err)
		return
	}
	writeQueue(w, q)
}

func (h *FeaturedHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req QueueCubeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	q, err := h.featuredService.Add(r.Context(), middleware.GetViewer(r.Context()), uuid.MustParse(req.CubeID))
	if err != nil {
		writeServiceError(w, h.logger, "featured.Add", err)
		return
	}
	writeQueue(w, q)
}

func (h *FeaturedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	cubeID, ok := uuidParam(w, r, "cubeId")
	if !ok {
		return
	}

	q, err := h.featuredService.Remove(r.Context(), middleware.GetViewer(r.Context()), cubeID)
	if err != nil {
		writeServiceError(w, h.logger, "featured.Remove", err)
		return
	}
	writeQueue(w, q)
}

func (h *FeaturedHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	q, err := h.featuredService.Move(r.Context(), middleware.GetViewer(r.Context()), *req.From, *req.To)
	if err != nil {
		writeServiceError(w, h.logger, "featured.Move", err)
		return
	}
	writeQueue(w, q)
}

func (h *FeaturedHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	q, err := h.featuredService.Rotate(r.Context(), middleware.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "featured.Rotate", err)
		return
	}
	writeQueue(w, q)
}
