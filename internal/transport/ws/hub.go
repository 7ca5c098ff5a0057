package ws

import (
	"log/slog"
	"sync"
)

// Hub tracks live connections per game and fans events out to them. It
// implements app.Broadcaster.
type Hub struct {
	mu     sync.RWMutex
	games  map[string]map[string]*Client
	logger *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		games:  make(map[string]map[string]*Client),
		logger: logger,
	}
}

// register attaches a client, replacing any previous connection for the
// same player.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	conns, ok := h.games[c.gameID]
	if !ok {
		conns = make(map[string]*Client)
		h.games[c.gameID] = conns
	}
	old := conns[c.playerID]
	conns[c.playerID] = c
	h.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// unregister detaches a client and reports whether it was removed. A client
// that has already been replaced by a newer connection for the same player is
// left alone.
func (h *Hub) unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.games[c.gameID]
	if !ok || conns[c.playerID] != c {
		return false
	}
	delete(conns, c.playerID)
	if len(conns) == 0 {
		delete(h.games, c.gameID)
	}
	return true
}

// Broadcast sends a message to every connected player in a game
func (h *Hub) Broadcast(gameID string, msg interface{}) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.games[gameID]))
	for _, c := range h.games[gameID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.Send(NewServerMessage(MsgEvent, msg)); err != nil {
			h.logger.Debug("broadcast send failed", "gameId", gameID, "playerId", c.playerID, "error", err)
		}
	}
}

// SendTo sends a message to one player in a game
func (h *Hub) SendTo(gameID, playerID string, msg interface{}) {
	h.mu.RLock()
	c := h.games[gameID][playerID]
	h.mu.RUnlock()

	if c == nil {
		return
	}
	if err := c.Send(NewServerMessage(MsgEvent, msg)); err != nil {
		h.logger.Debug("send failed", "gameId", gameID, "playerId", playerID, "error", err)
	}
}
