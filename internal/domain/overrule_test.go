package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selfPickedGame plays a three-or-more player round to the point where the
// judge has just picked themselves.
func selfPickedGame(t *testing.T, extra ...string) *Game {
	t.Helper()
	game := toJudging(t, startedGame(t, extra...))
	next, err := game.SelectWinner(game.CurrentRound.JudgeID)
	require.NoError(t, err)
	require.True(t, next.CurrentRound.JudgePickedSelf)
	return next
}

func TestOverruleVote(t *testing.T) {
	t.Run("unanimous vote revokes the point and clears the winner", func(t *testing.T) {
		game := selfPickedGame(t, "Bob", "Carol")
		judge := game.CurrentRound.JudgeID
		require.True(t, game.CanCastOverruleVote())

		for _, id := range game.NonJudgePlayerIDs() {
			next, err := game.CastOverruleVote(id, true)
			require.NoError(t, err)
			game = next
		}

		assert.True(t, game.CurrentRound.Overruled)
		assert.Empty(t, game.CurrentRound.WinnerID)
		assert.Equal(t, 0, game.Players[judge].Score)
	})

	t.Run("a single dissent lets the pick stand", func(t *testing.T) {
		game := selfPickedGame(t, "Bob", "Carol")
		judge := game.CurrentRound.JudgeID
		voters := game.NonJudgePlayerIDs()

		game, err := game.CastOverruleVote(voters[0], true)
		require.NoError(t, err)
		game, err = game.CastOverruleVote(voters[1], false)
		require.NoError(t, err)

		assert.False(t, game.CurrentRound.Overruled)
		assert.Equal(t, judge, game.CurrentRound.WinnerID)
		assert.Equal(t, 1, game.Players[judge].Score)
		// Voting is closed once resolved.
		assert.False(t, game.CanCastOverruleVote())
	})

	t.Run("two-player games have no overrule", func(t *testing.T) {
		game := selfPickedGame(t, "Bob")
		voter := game.NonJudgePlayerIDs()[0]

		assert.False(t, game.CanCastOverruleVote())
		_, err := game.CastOverruleVote(voter, true)
		assert.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("the judge cannot vote on their own pick", func(t *testing.T) {
		game := selfPickedGame(t, "Bob", "Carol")
		_, err := game.CastOverruleVote(game.CurrentRound.JudgeID, true)
		assert.ErrorIs(t, err, ErrVoterIsJudge)
	})

	t.Run("each voter votes once", func(t *testing.T) {
		game := selfPickedGame(t, "Bob", "Carol")
		voter := game.NonJudgePlayerIDs()[0]

		game, err := game.CastOverruleVote(voter, true)
		require.NoError(t, err)
		_, err = game.CastOverruleVote(voter, false)
		assert.ErrorIs(t, err, ErrAlreadyVoted)
	})

	t.Run("no vote when the judge picked someone else", func(t *testing.T) {
		game := toJudging(t, startedGame(t, "Bob", "Carol"))
		winner := game.NonJudgePlayerIDs()[0]
		game, err := game.SelectWinner(winner)
		require.NoError(t, err)

		assert.False(t, game.CanCastOverruleVote())
		_, err = game.CastOverruleVote(game.NonJudgePlayerIDs()[0], true)
		assert.ErrorIs(t, err, ErrWrongPhase)
	})
}

// overruledGame returns a game where the judge's self-pick has just been
// unanimously overruled.
func overruledGame(t *testing.T, extra ...string) *Game {
	t.Helper()
	game := selfPickedGame(t, extra...)
	for _, id := range game.NonJudgePlayerIDs() {
		next, err := game.CastOverruleVote(id, true)
		require.NoError(t, err)
		game = next
	}
	require.True(t, game.CurrentRound.Overruled)
	return game
}

func TestWinnerVote(t *testing.T) {
	t.Run("plurality picks the replacement winner", func(t *testing.T) {
		game := overruledGame(t, "Bob", "Carol", "Dave")
		voters := game.NonJudgePlayerIDs()
		require.Len(t, voters, 3)
		require.True(t, game.CanCastWinnerVote())

		// Two votes for voters[0], one for voters[1].
		game, err := game.CastWinnerVote(voters[0], voters[1])
		require.NoError(t, err)
		game, err = game.CastWinnerVote(voters[1], voters[0])
		require.NoError(t, err)
		game, err = game.CastWinnerVote(voters[2], voters[0])
		require.NoError(t, err)

		assert.Equal(t, voters[0], game.CurrentRound.WinnerID)
		assert.Equal(t, 1, game.Players[voters[0]].Score)
		assert.False(t, game.CanCastWinnerVote())
	})

	t.Run("ties break to the earliest submission", func(t *testing.T) {
		game := overruledGame(t, "Bob", "Carol", "Dave")
		voters := game.NonJudgePlayerIDs()

		// Force a known submission order for the two candidates.
		base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
		game.CurrentRound.Submissions[voters[0]].SubmittedAt = base.Add(2 * time.Second)
		game.CurrentRound.Submissions[voters[1]].SubmittedAt = base
		game.CurrentRound.Submissions[voters[2]].SubmittedAt = base.Add(5 * time.Second)

		// voters[0] and voters[1] get one vote each, voters[2] abstains onto
		// one of them to close the vote at a tie between the two.
		game, err := game.CastWinnerVote(voters[0], voters[1])
		require.NoError(t, err)
		game, err = game.CastWinnerVote(voters[1], voters[0])
		require.NoError(t, err)
		game, err = game.CastWinnerVote(voters[2], voters[2])
		require.NoError(t, err)

		// Three candidates with one vote each; voters[1] submitted first.
		assert.Equal(t, voters[1], game.CurrentRound.WinnerID)
	})

	t.Run("the judge is not a valid candidate", func(t *testing.T) {
		game := overruledGame(t, "Bob", "Carol")
		judge := game.CurrentRound.JudgeID
		voter := game.NonJudgePlayerIDs()[0]

		_, err := game.CastWinnerVote(voter, judge)
		assert.ErrorIs(t, err, ErrInvalidWinner)
	})

	t.Run("the judge cannot vote", func(t *testing.T) {
		game := overruledGame(t, "Bob", "Carol")
		judge := game.CurrentRound.JudgeID
		candidate := game.NonJudgePlayerIDs()[0]

		_, err := game.CastWinnerVote(judge, candidate)
		assert.ErrorIs(t, err, ErrVoterIsJudge)
	})

	t.Run("no revote while the pick stands", func(t *testing.T) {
		game := selfPickedGame(t, "Bob", "Carol")
		voters := game.NonJudgePlayerIDs()

		game, err := game.CastOverruleVote(voters[0], true)
		require.NoError(t, err)
		game, err = game.CastOverruleVote(voters[1], false)
		require.NoError(t, err)

		assert.False(t, game.CanCastWinnerVote())
		_, err = game.CastWinnerVote(voters[0], voters[1])
		assert.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("each voter revotes once", func(t *testing.T) {
		game := overruledGame(t, "Bob", "Carol", "Dave")
		voters := game.NonJudgePlayerIDs()

		game, err := game.CastWinnerVote(voters[0], voters[1])
		require.NoError(t, err)
		_, err = game.CastWinnerVote(voters[0], voters[2])
		assert.ErrorIs(t, err, ErrAlreadyVoted)
	})
}
