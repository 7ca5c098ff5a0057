package store

import (
	"context"
	"strings"
	"sync"

	"ransomnotes/internal/domain"
)

// Memory is an in-memory Store, used in development and tests. Snapshots are
// deep-copied on the way in and out so callers can never alias stored state.
type Memory struct {
	mu       sync.RWMutex
	games    map[string]*domain.Game
	byInvite map[string]string // uppercase invite code -> game id
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		games:    make(map[string]*domain.Game),
		byInvite: make(map[string]string),
	}
}

// Get retrieves a game by id
func (m *Memory) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	game, ok := m.games[gameID]
	if !ok {
		return nil, domain.ErrUnknownGame
	}
	return game.Clone(), nil
}

// Put saves or replaces a game snapshot
func (m *Memory) Put(ctx context.Context, game *domain.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.games[game.ID] = game.Clone()
	m.byInvite[strings.ToUpper(game.InviteCode)] = game.ID
	return nil
}

// FindByInvite retrieves a game by invite code
func (m *Memory) FindByInvite(ctx context.Context, inviteCode string) (*domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gameID, ok := m.byInvite[strings.ToUpper(inviteCode)]
	if !ok {
		return nil, domain.ErrUnknownGame
	}
	game, ok := m.games[gameID]
	if !ok {
		return nil, domain.ErrUnknownGame
	}
	return game.Clone(), nil
}

// Delete removes a game and its invite index entry
func (m *Memory) Delete(ctx context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if game, ok := m.games[gameID]; ok {
		delete(m.byInvite, strings.ToUpper(game.InviteCode))
		delete(m.games, gameID)
	}
	return nil
}
