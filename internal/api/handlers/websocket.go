package handlers

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"github.com/smartintruesdell/CubeCobra/internal/websocket"
	"go.uber.org/zap"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	logger      *zap.SugaredLogger
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, logger *zap.SugaredLogger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		logger:      logger,
	}
}

// Handle upgrades the connection. ?token= is optional; anonymous clients may
// follow public drafts too.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var viewer *domain.Viewer
	if token := r.URL.Query().Get("token"); token != "" {
		v, err := h.authService.ViewerFromToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		viewer = v
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	h.hub.Serve(conn, viewer)
}
