package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"ransomnotes/internal/app"
)

// Handler upgrades HTTP requests to WebSocket connections
type Handler struct {
	hub      *Hub
	service  *app.Service
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, service *app.Service, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. Clients identify themselves
// with gameId and playerId query params, both obtained from the HTTP API.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	playerID := r.URL.Query().Get("playerId")
	if gameID == "" || playerID == "" {
		http.Error(w, "gameId and playerId are required", http.StatusBadRequest)
		return
	}

	if err := h.service.VerifyPlayer(r.Context(), gameID, playerID); err != nil {
		http.Error(w, "Game or player not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, gameID, playerID, h.logger)
	h.hub.register(client)

	h.logger.Info("websocket connected", "gameId", gameID, "playerId", playerID)

	if err := h.service.SetConnected(r.Context(), gameID, playerID, true); err != nil {
		h.logger.Debug("mark connected failed", "playerId", playerID, "error", err)
	}

	client.sendConnected()

	client.Run()

	// Only the still-registered connection marks the player disconnected. A
	// connection replaced by a reconnect exits without touching presence.
	if h.hub.unregister(client) {
		if err := h.service.SetConnected(r.Context(), gameID, playerID, false); err != nil {
			h.logger.Debug("mark disconnected failed", "playerId", playerID, "error", err)
		}
	}
}
