package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ransomnotes/internal/domain"
	"ransomnotes/internal/store"
)

// recorder captures broadcast events for assertions
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Broadcast(gameID string, msg interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev, ok := msg.(Event); ok {
		r.events = append(r.events, ev)
	}
}

func (r *recorder) SendTo(gameID, playerID string, msg interface{}) {}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func testService(t *testing.T) (*Service, *recorder) {
	t.Helper()

	prompts := make([]string, 30)
	for i := range prompts {
		prompts[i] = fmt.Sprintf("Prompt %d?", i+1)
	}
	words := make([]string, 60)
	for i := range words {
		words[i] = fmt.Sprintf("word%02d", i+1)
	}

	svc := NewService(Options{
		Store:   store.NewMemory(),
		Content: &domain.Content{Prompts: prompts, Words: words},
		Logger:  slog.Default(),
	})
	rec := &recorder{}
	svc.SetBroadcaster(rec)
	return svc, rec
}

func TestServiceGameFlow(t *testing.T) {
	ctx := context.Background()
	svc, rec := testService(t)

	game, host, err := svc.CreateGame(ctx, "Alice", nil)
	require.NoError(t, err)
	require.True(t, host.IsHost)
	require.Len(t, game.InviteCode, domain.InviteCodeLength)

	game, bob, err := svc.Join(ctx, game.InviteCode, "Bob")
	require.NoError(t, err)
	require.Len(t, game.Players, 2)

	game, err = svc.Start(ctx, game.ID, host.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRoundSubmission, game.Phase)

	// Both humans submit; the second submission closes the phase and the
	// judge is selected.
	state, err := svc.GetState(ctx, game.ID, host.ID)
	require.NoError(t, err)
	game, err = svc.Submit(ctx, game.ID, host.ID, state.MyTiles[:2])
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRoundSubmission, game.Phase)

	state, err = svc.GetState(ctx, game.ID, bob.ID)
	require.NoError(t, err)
	game, err = svc.Submit(ctx, game.ID, bob.ID, state.MyTiles[:2])
	require.NoError(t, err)

	require.Equal(t, domain.PhaseRoundJudging, game.Phase)
	judgeID := game.CurrentRound.JudgeID
	require.NotEmpty(t, judgeID)

	otherID := host.ID
	if judgeID == host.ID {
		otherID = bob.ID
	}

	game, err = svc.SelectWinner(ctx, game.ID, judgeID, otherID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRoundResults, game.Phase)
	assert.Equal(t, 1, game.Players[otherID].Score)

	game, err = svc.Advance(ctx, game.ID, host.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseRoundSubmission, game.Phase)
	require.Equal(t, 2, game.CurrentRound.RoundNumber)

	// Judge rotation moved on.
	persisted, err := svc.GetState(ctx, game.ID, host.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, persisted.CurrentRound.RoundNumber)

	types := rec.types()
	assert.Contains(t, types, EventPlayerJoined)
	assert.Contains(t, types, EventGameStarted)
	assert.Contains(t, types, EventSubmissionReceived)
	assert.Contains(t, types, EventJudgingPhase)
	assert.Contains(t, types, EventRoundResults)
}

func TestServiceAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	game, host, err := svc.CreateGame(ctx, "Alice", nil)
	require.NoError(t, err)
	game, bob, err := svc.Join(ctx, game.InviteCode, "Bob")
	require.NoError(t, err)

	// Only the host may start, advance, restart or add bots.
	_, err = svc.Start(ctx, game.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotHost)
	_, _, err = svc.AddBot(ctx, game.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotHost)

	game, err = svc.Start(ctx, game.ID, host.ID)
	require.NoError(t, err)

	for _, id := range []string{host.ID, bob.ID} {
		state, err := svc.GetState(ctx, game.ID, id)
		require.NoError(t, err)
		game, err = svc.Submit(ctx, game.ID, id, state.MyTiles[:1])
		require.NoError(t, err)
	}
	require.Equal(t, domain.PhaseRoundJudging, game.Phase)

	nonJudge := game.NonJudgePlayerIDs()[0]
	_, err = svc.SelectWinner(ctx, game.ID, nonJudge, nonJudge)
	assert.ErrorIs(t, err, domain.ErrNotJudge)

	// Unknown games and players surface as such.
	_, err = svc.GetState(ctx, "missing", host.ID)
	assert.ErrorIs(t, err, domain.ErrUnknownGame)
	_, err = svc.GetState(ctx, game.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrUnknownPlayer)
	_, _, err = svc.Join(ctx, "ZZZZZZ", "Carol")
	assert.ErrorIs(t, err, domain.ErrUnknownGame)
}

func TestServiceBotsPlayAutomatically(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	game, host, err := svc.CreateGame(ctx, "Alice", nil)
	require.NoError(t, err)

	game, _, err = svc.AddBot(ctx, game.ID, host.ID)
	require.NoError(t, err)
	game, _, err = svc.AddBot(ctx, game.ID, host.ID)
	require.NoError(t, err)
	require.Len(t, game.Players, 3)

	game, err = svc.Start(ctx, game.ID, host.ID)
	require.NoError(t, err)

	// Both bots have already submitted; only the human is pending.
	require.NotNil(t, game.CurrentRound)
	assert.Len(t, game.CurrentRound.Submissions, 2)
	assert.Equal(t, domain.PhaseRoundSubmission, game.Phase)

	state, err := svc.GetState(ctx, game.ID, host.ID)
	require.NoError(t, err)
	game, err = svc.Submit(ctx, game.ID, host.ID, state.MyTiles[:1])
	require.NoError(t, err)

	// The human submission completed the round. If the rotation judge is a
	// bot, the pick has already happened and play reached results; otherwise
	// the human is judging.
	switch game.Phase {
	case domain.PhaseRoundJudging:
		assert.Equal(t, host.ID, game.CurrentRound.JudgeID)
	case domain.PhaseRoundResults:
		require.NotNil(t, game.CurrentRound)
		assert.NotEmpty(t, game.CurrentRound.WinnerID)
		assert.True(t, game.Players[game.CurrentRound.JudgeID].IsBot)
	default:
		t.Fatalf("unexpected phase %q", game.Phase)
	}
}

func TestServiceOverruleFlow(t *testing.T) {
	ctx := context.Background()
	svc, rec := testService(t)

	game, host, err := svc.CreateGame(ctx, "Alice", nil)
	require.NoError(t, err)
	game, bob, err := svc.Join(ctx, game.InviteCode, "Bob")
	require.NoError(t, err)
	game, carol, err := svc.Join(ctx, game.InviteCode, "Carol")
	require.NoError(t, err)

	game, err = svc.Start(ctx, game.ID, host.ID)
	require.NoError(t, err)

	for _, id := range []string{host.ID, bob.ID, carol.ID} {
		state, err := svc.GetState(ctx, game.ID, id)
		require.NoError(t, err)
		game, err = svc.Submit(ctx, game.ID, id, state.MyTiles[:1])
		require.NoError(t, err)
	}
	require.Equal(t, domain.PhaseRoundJudging, game.Phase)

	judgeID := game.CurrentRound.JudgeID
	game, err = svc.SelectWinner(ctx, game.ID, judgeID, judgeID)
	require.NoError(t, err)
	require.True(t, game.CurrentRound.JudgePickedSelf)

	voters := game.NonJudgePlayerIDs()
	game, err = svc.CastOverruleVote(ctx, game.ID, voters[0], true)
	require.NoError(t, err)
	game, err = svc.CastOverruleVote(ctx, game.ID, voters[1], true)
	require.NoError(t, err)

	require.True(t, game.CurrentRound.Overruled)
	assert.Zero(t, game.Players[judgeID].Score)
	assert.Contains(t, rec.types(), EventOverruleResolved)

	// Replacement winner by revote.
	game, err = svc.CastWinnerVote(ctx, game.ID, voters[0], voters[1])
	require.NoError(t, err)
	game, err = svc.CastWinnerVote(ctx, game.ID, voters[1], voters[1])
	require.NoError(t, err)

	assert.Equal(t, voters[1], game.CurrentRound.WinnerID)
	assert.Equal(t, 1, game.Players[voters[1]].Score)
}

// inviteStubStore overrides invite lookups to simulate collisions and
// storage failures.
type inviteStubStore struct {
	store.Store
	findByInvite func(ctx context.Context, code string) (*domain.Game, error)
}

func (s *inviteStubStore) FindByInvite(ctx context.Context, code string) (*domain.Game, error) {
	return s.findByInvite(ctx, code)
}

func TestCreateGameInviteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("storage failure surfaces", func(t *testing.T) {
		boom := fmt.Errorf("connection refused")
		svc := NewService(Options{
			Store: &inviteStubStore{
				Store: store.NewMemory(),
				findByInvite: func(context.Context, string) (*domain.Game, error) {
					return nil, boom
				},
			},
			Content: &domain.Content{Prompts: []string{"P?"}, Words: []string{"w"}},
			Logger:  slog.Default(),
		})

		_, _, err := svc.CreateGame(ctx, "Alice", nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("persistent collisions fail instead of overwriting", func(t *testing.T) {
		calls := 0
		mem := store.NewMemory()
		svc := NewService(Options{
			Store: &inviteStubStore{
				Store: mem,
				findByInvite: func(context.Context, string) (*domain.Game, error) {
					calls++
					return &domain.Game{}, nil
				},
			},
			Content: &domain.Content{Prompts: []string{"P?"}, Words: []string{"w"}},
			Logger:  slog.Default(),
		})

		_, _, err := svc.CreateGame(ctx, "Alice", nil)
		require.Error(t, err)
		assert.Equal(t, 5, calls)

		// Nothing was stored under the contested code.
		_, err = mem.FindByInvite(ctx, "anything")
		assert.ErrorIs(t, err, domain.ErrUnknownGame)
	})
}

func TestLocksReleasedForUnknownGames(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	_, err := svc.Start(ctx, "no-such-game", "nobody")
	require.ErrorIs(t, err, domain.ErrUnknownGame)

	svc.locks.mu.Lock()
	defer svc.locks.mu.Unlock()
	assert.Empty(t, svc.locks.locks)
}
