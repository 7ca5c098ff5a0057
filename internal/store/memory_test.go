package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ransomnotes/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a game by id", func(t *testing.T) {
		store := NewMemory()
		game, _ := domain.NewGame("Alice", nil)

		require.NoError(t, store.Put(ctx, game))

		got, err := store.Get(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.ID, got.ID)
		assert.Equal(t, game.InviteCode, got.InviteCode)
		assert.Len(t, got.Players, 1)
	})

	t.Run("unknown ids return ErrUnknownGame", func(t *testing.T) {
		store := NewMemory()
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUnknownGame)

		_, err = store.FindByInvite(ctx, "NOCODE")
		assert.ErrorIs(t, err, domain.ErrUnknownGame)
	})

	t.Run("finds by invite code case-insensitively", func(t *testing.T) {
		store := NewMemory()
		game, _ := domain.NewGame("Alice", nil)
		require.NoError(t, store.Put(ctx, game))

		got, err := store.FindByInvite(ctx, strings.ToLower(game.InviteCode))
		require.NoError(t, err)
		assert.Equal(t, game.ID, got.ID)
	})

	t.Run("returned snapshots do not alias stored state", func(t *testing.T) {
		store := NewMemory()
		game, host := domain.NewGame("Alice", nil)
		require.NoError(t, store.Put(ctx, game))

		first, err := store.Get(ctx, game.ID)
		require.NoError(t, err)
		first.Players[host.ID].Score = 99

		second, err := store.Get(ctx, game.ID)
		require.NoError(t, err)
		assert.Zero(t, second.Players[host.ID].Score)

		// Mutating the put value afterwards must not leak in either.
		game.Players[host.ID].Nickname = "Mallory"
		third, err := store.Get(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", third.Players[host.ID].Nickname)
	})

	t.Run("put replaces the previous snapshot", func(t *testing.T) {
		store := NewMemory()
		game, _ := domain.NewGame("Alice", nil)
		require.NoError(t, store.Put(ctx, game))

		next, _, err := game.AddPlayer("Bob")
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, next))

		got, err := store.Get(ctx, game.ID)
		require.NoError(t, err)
		assert.Len(t, got.Players, 2)
	})

	t.Run("delete removes the game and its invite entry", func(t *testing.T) {
		store := NewMemory()
		game, _ := domain.NewGame("Alice", nil)
		require.NoError(t, store.Put(ctx, game))

		require.NoError(t, store.Delete(ctx, game.ID))

		_, err := store.Get(ctx, game.ID)
		assert.ErrorIs(t, err, domain.ErrUnknownGame)
		_, err = store.FindByInvite(ctx, game.InviteCode)
		assert.ErrorIs(t, err, domain.ErrUnknownGame)

		// Deleting twice is a no-op.
		assert.NoError(t, store.Delete(ctx, game.ID))
	})
}
