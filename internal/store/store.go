// Package store persists one serialized game snapshot per game id, with a
// secondary index from invite code to game id. Implementations may be backed
// by memory or Redis; the game core never talks to storage directly.
package store

import (
	"context"

	"ransomnotes/internal/domain"
)

// Store is the persistence interface for game snapshots
type Store interface {
	// Get retrieves a game by id.
	// Returns domain.ErrUnknownGame if the game does not exist.
	Get(ctx context.Context, gameID string) (*domain.Game, error)

	// Put saves or replaces a game snapshot and its invite-code index entry
	Put(ctx context.Context, game *domain.Game) error

	// FindByInvite retrieves a game by invite code, case-insensitively.
	// Returns domain.ErrUnknownGame if no game has that code.
	FindByInvite(ctx context.Context, inviteCode string) (*domain.Game, error)

	// Delete removes a game and its invite-code index entry
	Delete(ctx context.Context, gameID string) error
}
