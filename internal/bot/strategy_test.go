package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomChooseTiles(t *testing.T) {
	ctx := context.Background()

	t.Run("picks between one and five tiles from the hand", func(t *testing.T) {
		hand := []string{"cat", "dog", "pizza", "moon", "sock", "ghost", "tax"}
		held := make(map[string]int, len(hand))
		for _, tile := range hand {
			held[tile]++
		}

		for i := 0; i < 50; i++ {
			tiles, err := Random{}.ChooseTiles(ctx, "A prompt", hand)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(tiles), 1)
			assert.LessOrEqual(t, len(tiles), MaxTilesPerAnswer)

			used := make(map[string]int)
			for _, tile := range tiles {
				used[tile]++
			}
			for tile, n := range used {
				assert.LessOrEqual(t, n, held[tile], "tile %q over-used", tile)
			}
		}
	})

	t.Run("small hands are never exceeded", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			tiles, err := Random{}.ChooseTiles(ctx, "A prompt", []string{"only", "two"})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(tiles), 2)
		}
	})

	t.Run("empty hand is an error", func(t *testing.T) {
		_, err := Random{}.ChooseTiles(ctx, "A prompt", nil)
		assert.ErrorIs(t, err, ErrNoChoice)
	})
}

func TestRandomChooseWinner(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers human submissions", func(t *testing.T) {
		candidates := []Candidate{
			{PlayerID: "bot-a", Tiles: []string{"x"}, IsBot: true},
			{PlayerID: "human", Tiles: []string{"y"}},
			{PlayerID: "bot-b", Tiles: []string{"z"}, IsBot: true},
		}
		for i := 0; i < 25; i++ {
			winner, err := Random{}.ChooseWinner(ctx, "A prompt", candidates)
			require.NoError(t, err)
			assert.Equal(t, "human", winner)
		}
	})

	t.Run("falls back to bots when no humans submitted", func(t *testing.T) {
		candidates := []Candidate{
			{PlayerID: "bot-a", IsBot: true},
			{PlayerID: "bot-b", IsBot: true},
		}
		winner, err := Random{}.ChooseWinner(ctx, "A prompt", candidates)
		require.NoError(t, err)
		assert.Contains(t, []string{"bot-a", "bot-b"}, winner)
	})

	t.Run("no candidates is an error", func(t *testing.T) {
		_, err := Random{}.ChooseWinner(ctx, "A prompt", nil)
		assert.ErrorIs(t, err, ErrNoChoice)
	})
}
