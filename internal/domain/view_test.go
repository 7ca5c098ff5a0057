package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFor(t *testing.T) {
	t.Run("shows only the requesting player's hand", func(t *testing.T) {
		game := startedGame(t, "Bob")
		ids := game.PlayerIDsInOrder()

		state, err := game.StateFor(ids[0])
		require.NoError(t, err)

		assert.Equal(t, game.Players[ids[0]].WordTiles, state.MyTiles)
		assert.Len(t, state.Players, len(ids))
	})

	t.Run("hides submissions during the submission phase", func(t *testing.T) {
		game := startedGame(t, "Bob")
		ids := game.PlayerIDsInOrder()

		game, err := game.Submit(ids[0], game.Players[ids[0]].WordTiles[:1])
		require.NoError(t, err)

		state, err := game.StateFor(ids[1])
		require.NoError(t, err)

		require.NotNil(t, state.CurrentRound)
		assert.Empty(t, state.CurrentRound.Submissions)
		assert.Equal(t, 1, state.CurrentRound.SubmissionCount)
		assert.False(t, state.CurrentRound.HasSubmitted)

		// The submitter still sees their own submitted flag.
		mine, err := game.StateFor(ids[0])
		require.NoError(t, err)
		assert.True(t, mine.CurrentRound.HasSubmitted)
	})

	t.Run("reveals attributed submissions during judging", func(t *testing.T) {
		game := toJudging(t, startedGame(t, "Bob"))
		ids := game.PlayerIDsInOrder()

		state, err := game.StateFor(ids[0])
		require.NoError(t, err)

		require.NotNil(t, state.CurrentRound)
		assert.Len(t, state.CurrentRound.Submissions, len(ids))
		for _, sub := range state.CurrentRound.Submissions {
			assert.NotEmpty(t, sub.PlayerID)
			assert.NotEmpty(t, sub.ResponseText)
		}
		assert.Equal(t, game.CurrentRound.JudgeID == ids[0], state.CurrentRound.IsJudge)
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		game := startedGame(t, "Bob")
		_, err := game.StateFor("nobody")
		assert.ErrorIs(t, err, ErrUnknownPlayer)
	})
}

func TestStateForSerializesOnlyOwnHand(t *testing.T) {
	game := startedGame(t, "Bob")
	ids := game.PlayerIDsInOrder()

	state, err := game.StateFor(ids[0])
	require.NoError(t, err)

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	myTiles, ok := decoded["myTiles"].([]interface{})
	require.True(t, ok)
	assert.Len(t, myTiles, len(game.Players[ids[0]].WordTiles))

	// Player entries carry public fields only.
	players, ok := decoded["players"].([]interface{})
	require.True(t, ok)
	for _, entry := range players {
		fields := entry.(map[string]interface{})
		assert.NotContains(t, fields, "wordTiles")
	}
}

func TestGameSnapshotRoundTrip(t *testing.T) {
	game := toJudging(t, startedGame(t, "Bob", "Carol"))

	raw, err := json.Marshal(game)
	require.NoError(t, err)

	var restored Game
	require.NoError(t, json.Unmarshal(raw, &restored))

	again, err := json.Marshal(&restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))

	assert.Equal(t, game.Phase, restored.Phase)
	assert.Equal(t, game.CurrentRound.JudgeID, restored.CurrentRound.JudgeID)
	assert.Len(t, restored.Players, len(game.Players))
}
