package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ransomnotes/internal/bot"
	"ransomnotes/internal/domain"
	"ransomnotes/internal/store"
)

// Broadcaster delivers events to connected clients. Implemented by the
// websocket hub; wired in after construction to avoid a package cycle.
type Broadcaster interface {
	Broadcast(gameID string, msg interface{})
	SendTo(gameID, playerID string, msg interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, interface{})      {}
func (noopBroadcaster) SendTo(string, string, interface{}) {}

// Service orchestrates game transitions: it serializes per-game access,
// applies pure domain transitions, persists the result, drives bot players
// and broadcasts events.
type Service struct {
	store       store.Store
	content     *domain.Content
	strategy    bot.Strategy
	fallback    bot.Strategy
	manager     *bot.Manager
	botTimeout  time.Duration
	logger      *slog.Logger
	locks       *gameLocker
	broadcaster Broadcaster
}

// Options configures a Service.
type Options struct {
	Store      store.Store
	Content    *domain.Content
	Strategy   bot.Strategy // optional; Random is used when nil or on failure
	Manager    *bot.Manager // optional; supervises the strategy backend
	BotTimeout time.Duration
	Logger     *slog.Logger
}

// NewService creates the orchestration service
func NewService(opts Options) *Service {
	if opts.BotTimeout <= 0 {
		opts.BotTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		store:       opts.Store,
		content:     opts.Content,
		strategy:    opts.Strategy,
		fallback:    &bot.Random{},
		manager:     opts.Manager,
		botTimeout:  opts.BotTimeout,
		logger:      opts.Logger,
		locks:       newGameLocker(),
		broadcaster: noopBroadcaster{},
	}
}

// SetBroadcaster wires the websocket hub in after construction
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// withGame runs fn under the game's lock with the freshest stored snapshot.
// When fn returns a non-nil game it is persisted before the lock is released.
func (s *Service) withGame(ctx context.Context, gameID string, fn func(*domain.Game) (*domain.Game, error)) (*domain.Game, error) {
	mu := s.locks.lock(gameID)
	defer mu.Unlock()

	game, err := s.store.Get(ctx, gameID)
	if err != nil {
		// A vanished game (Redis TTL expiry) releases its lock entry.
		if errors.Is(err, domain.ErrUnknownGame) {
			s.locks.forget(gameID)
		}
		return nil, err
	}

	next, err := fn(game)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// CreateGame creates a new lobby and returns the game plus the host player
func (s *Service) CreateGame(ctx context.Context, hostNickname string, cfg *domain.GameConfig) (*domain.Game, *domain.Player, error) {
	game, host := domain.NewGame(hostNickname, cfg)

	// Regenerate on the off chance the invite code is already taken.
	for i := 0; ; i++ {
		_, err := s.store.FindByInvite(ctx, game.InviteCode)
		if errors.Is(err, domain.ErrUnknownGame) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if i == 4 {
			return nil, nil, fmt.Errorf("no free invite code after %d attempts", i+1)
		}
		game.InviteCode = domain.NewInviteCode()
	}

	if err := s.store.Put(ctx, game); err != nil {
		return nil, nil, err
	}
	s.logger.Info("game created", "gameId", game.ID, "inviteCode", game.InviteCode)
	return game, host, nil
}

// Join adds a player to a lobby found by invite code
func (s *Service) Join(ctx context.Context, inviteCode, nickname string) (*domain.Game, *domain.Player, error) {
	lobby, err := s.store.FindByInvite(ctx, inviteCode)
	if err != nil {
		return nil, nil, err
	}

	var joined *domain.Player
	game, err := s.withGame(ctx, lobby.ID, func(g *domain.Game) (*domain.Game, error) {
		next, p, err := g.AddPlayer(nickname)
		if err != nil {
			return nil, err
		}
		joined = p
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.broadcaster.Broadcast(game.ID, Event{Type: EventPlayerJoined, Payload: playerJoinedPayload{
		Player:      joined.Info(),
		PlayerCount: len(game.Players),
	}})
	s.pushStates(game)
	return game, joined, nil
}

// GetState returns the requesting player's view of the game
func (s *Service) GetState(ctx context.Context, gameID, playerID string) (*domain.GameState, error) {
	game, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.StateFor(playerID)
}

// Start begins the game. Host only.
func (s *Service) Start(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if !g.IsHost(playerID) {
			return nil, domain.ErrNotHost
		}
		next, err := g.Start(s.content)
		if err != nil {
			return nil, err
		}
		return s.driveBots(ctx, next), nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(game.ID, Event{Type: EventGameStarted})
	s.announcePhase(game)
	s.pushStates(game)
	return game, nil
}

// Submit records a player's tile submission and advances to judging once
// everyone has submitted.
func (s *Service) Submit(ctx context.Context, gameID, playerID string, tiles []string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		next, err := g.Submit(playerID, tiles)
		if err != nil {
			return nil, err
		}
		return s.driveBots(ctx, next), nil
	})
	if err != nil {
		return nil, err
	}

	if game.CurrentRound != nil {
		s.broadcaster.Broadcast(game.ID, Event{Type: EventSubmissionReceived, Payload: submissionReceivedPayload{
			PlayerID:         playerID,
			SubmissionsCount: len(game.CurrentRound.Submissions),
			TotalExpected:    len(game.Players),
		}})
	}
	s.announcePhase(game)
	s.pushStates(game)
	return game, nil
}

// SelectWinner records the judge's pick for the current round
func (s *Service) SelectWinner(ctx context.Context, gameID, playerID, winnerID string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if !g.IsJudge(playerID) {
			return nil, domain.ErrNotJudge
		}
		return g.SelectWinner(winnerID)
	})
	if err != nil {
		return nil, err
	}

	s.announcePhase(game)
	s.pushStates(game)
	return game, nil
}

// Advance moves from round results into the next round. Host only.
func (s *Service) Advance(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if !g.IsHost(playerID) {
			return nil, domain.ErrNotHost
		}
		next, err := g.AdvanceRound(s.content)
		if err != nil {
			return nil, err
		}
		return s.driveBots(ctx, next), nil
	})
	if err != nil {
		return nil, err
	}

	s.announcePhase(game)
	s.pushStates(game)
	return game, nil
}

// Restart resets a finished game back to the lobby. Host only.
func (s *Service) Restart(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if !g.IsHost(playerID) {
			return nil, domain.ErrNotHost
		}
		return g.Restart()
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(game.ID, Event{Type: EventGameRestarted})
	s.pushStates(game)
	return game, nil
}

// AddBot adds a bot player to the lobby. Host only.
func (s *Service) AddBot(ctx context.Context, gameID, playerID string) (*domain.Game, *domain.Player, error) {
	var added *domain.Player
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		if !g.IsHost(playerID) {
			return nil, domain.ErrNotHost
		}
		next, p, err := g.AddBot()
		if err != nil {
			return nil, err
		}
		added = p
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.broadcaster.Broadcast(game.ID, Event{Type: EventPlayerJoined, Payload: playerJoinedPayload{
		Player:      added.Info(),
		PlayerCount: len(game.Players),
	}})
	s.pushStates(game)
	return game, added, nil
}

// CastOverruleVote records one player's vote on overturning a self-pick
func (s *Service) CastOverruleVote(ctx context.Context, gameID, playerID string, vote bool) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		return g.CastOverruleVote(playerID, vote)
	})
	if err != nil {
		return nil, err
	}

	if r := game.CurrentRound; r != nil {
		s.broadcaster.Broadcast(game.ID, Event{Type: EventOverruleVote, Payload: overruleVotePayload{
			VoterID:    playerID,
			VotesCast:  len(r.OverruleVotes),
			VotesTotal: len(game.NonJudgePlayerIDs()),
		}})
		if len(r.OverruleVotes) == len(game.NonJudgePlayerIDs()) || r.Overruled {
			s.broadcaster.Broadcast(game.ID, Event{Type: EventOverruleResolved, Payload: overruleResolvedPayload{
				Overruled: r.Overruled,
			}})
		}
	}
	s.pushStates(game)
	return game, nil
}

// CastWinnerVote records one player's revote after a successful overrule
func (s *Service) CastWinnerVote(ctx context.Context, gameID, playerID, winnerID string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		return g.CastWinnerVote(playerID, winnerID)
	})
	if err != nil {
		return nil, err
	}

	if r := game.CurrentRound; r != nil {
		s.broadcaster.Broadcast(game.ID, Event{Type: EventWinnerVote, Payload: winnerVotePayload{
			VoterID:    playerID,
			VotesCast:  len(r.WinnerVotes),
			VotesTotal: len(game.NonJudgePlayerIDs()),
		}})
	}
	s.pushStates(game)
	return game, nil
}

// ReorderTiles saves a player's preferred hand order
func (s *Service) ReorderTiles(ctx context.Context, gameID, playerID string, order []string) (*domain.Game, error) {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		return g.ReorderTiles(playerID, order)
	})
	if err != nil {
		return nil, err
	}

	if state, err := game.StateFor(playerID); err == nil {
		s.broadcaster.SendTo(game.ID, playerID, Event{Type: EventTilesUpdated, Payload: state})
	}
	return game, nil
}

// SetConnected flags a player's websocket presence
func (s *Service) SetConnected(ctx context.Context, gameID, playerID string, connected bool) error {
	game, err := s.withGame(ctx, gameID, func(g *domain.Game) (*domain.Game, error) {
		next := g.Clone()
		p, ok := next.Players[playerID]
		if !ok {
			return nil, domain.ErrUnknownPlayer
		}
		p.IsConnected = connected
		return next, nil
	})
	if err != nil {
		return err
	}

	if !connected {
		s.broadcaster.Broadcast(game.ID, Event{Type: EventPlayerLeft, Payload: playerLeftPayload{PlayerID: playerID}})
	}
	s.pushStates(game)
	return nil
}

// driveBots plays every pending bot turn for the current round: bot
// submissions during the submission phase, then the judge pick when all
// submissions are in and the judge is a bot. Returns the resulting game.
// Errors from the model strategy degrade to the random fallback, never to a
// failed player action.
func (s *Service) driveBots(ctx context.Context, game *domain.Game) *domain.Game {
	r := game.CurrentRound
	if r == nil {
		return game
	}

	if game.Phase == domain.PhaseRoundSubmission {
		for _, id := range game.PlayerIDsInOrder() {
			p := game.Players[id]
			if !p.IsBot || r.HasSubmission(id) {
				continue
			}
			tiles := s.botTiles(ctx, r.Prompt.Text, p.WordTiles)
			next, err := game.Submit(id, tiles)
			if err != nil {
				s.logger.Warn("bot submission rejected", "gameId", game.ID, "botId", id, "error", err)
				continue
			}
			game = next
			r = game.CurrentRound
		}

		if game.AllSubmitted() {
			next, err := game.AdvanceToJudging()
			if err != nil {
				s.logger.Warn("advance to judging failed", "gameId", game.ID, "error", err)
				return game
			}
			game = next
			r = game.CurrentRound
		}
	}

	if game.Phase == domain.PhaseRoundJudging && r != nil {
		judge, ok := game.Players[r.JudgeID]
		if ok && judge.IsBot {
			winnerID := s.botWinner(ctx, game)
			next, err := game.SelectWinner(winnerID)
			if err != nil {
				s.logger.Warn("bot judging failed", "gameId", game.ID, "error", err)
				return game
			}
			game = next
		}
	}
	return game
}

// botTiles picks a bot's submission, falling back to random on any failure
func (s *Service) botTiles(ctx context.Context, prompt string, hand []string) []string {
	if s.strategy != nil && s.backendReady(ctx) {
		botCtx, cancel := context.WithTimeout(ctx, s.botTimeout)
		tiles, err := s.strategy.ChooseTiles(botCtx, prompt, hand)
		cancel()
		if err == nil && len(tiles) > 0 {
			return tiles
		}
		if err != nil {
			s.logger.Warn("bot strategy failed, using fallback", "error", err)
		}
	}
	tiles, err := s.fallback.ChooseTiles(ctx, prompt, hand)
	if err != nil {
		return nil
	}
	return tiles
}

// botWinner picks the bot judge's winner from the round's submissions
func (s *Service) botWinner(ctx context.Context, game *domain.Game) string {
	r := game.CurrentRound
	candidates := make([]bot.Candidate, 0, len(r.Submissions))
	for _, id := range game.PlayerIDsInOrder() {
		sub, ok := r.Submissions[id]
		if !ok || id == r.JudgeID {
			continue
		}
		candidates = append(candidates, bot.Candidate{
			PlayerID: id,
			Tiles:    sub.TilesUsed,
			IsBot:    game.Players[id].IsBot,
		})
	}

	if s.strategy != nil && s.backendReady(ctx) {
		botCtx, cancel := context.WithTimeout(ctx, s.botTimeout)
		winnerID, err := s.strategy.ChooseWinner(botCtx, r.Prompt.Text, candidates)
		cancel()
		if err == nil {
			return winnerID
		}
		s.logger.Warn("bot judging strategy failed, using fallback", "error", err)
	}

	winnerID, err := s.fallback.ChooseWinner(ctx, r.Prompt.Text, candidates)
	if err != nil {
		return ""
	}
	return winnerID
}

func (s *Service) backendReady(ctx context.Context) bool {
	if s.manager == nil {
		return true
	}
	if !s.manager.Ensure(ctx) {
		return false
	}
	s.manager.RecordActivity()
	return true
}

// announcePhase broadcasts the event matching the game's current phase
func (s *Service) announcePhase(game *domain.Game) {
	switch game.Phase {
	case domain.PhaseRoundSubmission:
		s.broadcaster.Broadcast(game.ID, Event{Type: EventRoundStarted})
	case domain.PhaseRoundJudging:
		if r := game.CurrentRound; r != nil {
			subs := make([]domain.SubmissionInfo, 0, len(r.Submissions))
			for _, id := range game.PlayerIDsInOrder() {
				sub, ok := r.Submissions[id]
				if !ok {
					continue
				}
				subs = append(subs, domain.SubmissionInfo{
					PlayerID:     sub.PlayerID,
					ResponseText: sub.ResponseText,
				})
			}
			s.broadcaster.Broadcast(game.ID, Event{Type: EventJudgingPhase, Payload: judgingPhasePayload{
				JudgeID:     r.JudgeID,
				Prompt:      r.Prompt.Text,
				Submissions: subs,
			}})
		}
	case domain.PhaseRoundResults:
		if r := game.CurrentRound; r != nil {
			s.broadcaster.Broadcast(game.ID, Event{Type: EventRoundResults, Payload: roundResultsPayload{
				WinnerID:        r.WinnerID,
				JudgePickedSelf: r.JudgePickedSelf,
			}})
		}
	case domain.PhaseGameOver:
		winnerID := ""
		if w := game.Winner(); w != nil {
			winnerID = w.ID
		}
		s.broadcaster.Broadcast(game.ID, Event{Type: EventGameOver, Payload: gameOverPayload{WinnerID: winnerID}})
	}
}

// pushStates sends each connected player their personalized state snapshot
func (s *Service) pushStates(game *domain.Game) {
	for id := range game.Players {
		state, err := game.StateFor(id)
		if err != nil {
			continue
		}
		s.broadcaster.SendTo(game.ID, id, Event{Type: EventGameState, Payload: state})
	}
}

// VerifyPlayer checks that a player belongs to a game, for websocket auth
func (s *Service) VerifyPlayer(ctx context.Context, gameID, playerID string) error {
	game, err := s.store.Get(ctx, gameID)
	if err != nil {
		return err
	}
	if _, ok := game.Players[playerID]; !ok {
		return domain.ErrUnknownPlayer
	}
	return nil
}
