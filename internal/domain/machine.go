package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// drawTiles draws count random tiles from the pool without replacement.
// The pool itself is never depleted; independent draws may collide.
func drawTiles(pool []string, count int) []string {
	if count > len(pool) {
		count = len(pool)
	}
	tiles := make([]string, count)
	for i, j := range rand.Perm(len(pool))[:count] {
		tiles[i] = pool[j]
	}
	return tiles
}

// AddPlayer adds a player to the game during the lobby phase.
// Returns the updated snapshot and the new player.
func (g *Game) AddPlayer(nickname string) (*Game, *Player, error) {
	if g.Phase != PhaseLobby {
		return nil, nil, ErrWrongPhase
	}
	if len(g.Players) >= g.Config.MaxPlayers {
		return nil, nil, ErrGameFull
	}
	if g.isNicknameTaken(nickname) {
		return nil, nil, ErrDuplicateNickname
	}

	next := g.Clone()
	player := NewPlayer(nickname, false)
	next.Players[player.ID] = player
	return next, player, nil
}

// AddBot adds a bot player named "Bot N" to the lobby
func (g *Game) AddBot() (*Game, *Player, error) {
	if g.Phase != PhaseLobby {
		return nil, nil, ErrWrongPhase
	}
	if len(g.Players) >= g.Config.MaxPlayers {
		return nil, nil, ErrGameFull
	}

	next := g.Clone()
	bot := NewBotPlayer(fmt.Sprintf("Bot %d", g.nextBotNumber()))
	next.Players[bot.ID] = bot
	return next, bot, nil
}

// nextBotNumber returns one past the highest "Bot N" nickname in the game
func (g *Game) nextBotNumber() int {
	highest := 0
	for _, p := range g.Players {
		if !p.IsBot {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(p.Nickname, "Bot %d", &n); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// Start begins the game: deals every player their opening hand from the
// content vocabulary, snapshots the word and prompt pools, and starts
// round one. Draws are independent per player, so tile collisions across
// players are allowed.
func (g *Game) Start(content *Content) (*Game, error) {
	if g.Phase != PhaseLobby {
		return nil, ErrWrongPhase
	}
	if len(g.Players) < g.Config.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	next := g.Clone()
	for _, p := range next.Players {
		p.WordTiles = drawTiles(content.Words, next.Config.TilesPerPlayer)
	}
	next.WordPool = append([]string(nil), content.Words...)

	next.PromptsPool = make([]Prompt, 0, len(content.Prompts))
	for _, text := range content.Prompts {
		next.PromptsPool = append(next.PromptsPool, NewPrompt(text))
	}

	return next.startNewRound(), nil
}

// startNewRound selects the next unused prompt uniformly at random and opens
// a new round with no judge yet. Running out of prompts ends the game.
func (g *Game) startNewRound() *Game {
	next := g.Clone()

	used := make(map[string]bool, len(next.UsedPromptIDs))
	for _, id := range next.UsedPromptIDs {
		used[id] = true
	}
	available := make([]Prompt, 0, len(next.PromptsPool))
	for _, p := range next.PromptsPool {
		if !used[p.ID] {
			available = append(available, p)
		}
	}

	if len(available) == 0 {
		next.Phase = PhaseGameOver
		next.CurrentRound = nil
		return next
	}

	prompt := available[rand.Intn(len(available))]
	next.CurrentRound = NewRound(len(next.RoundHistory)+1, prompt)
	next.UsedPromptIDs = append(next.UsedPromptIDs, prompt.ID)
	next.Phase = PhaseRoundSubmission
	return next
}

// Submit records a player's response for the current round and removes the
// spent tiles from their hand. Every player submits, including the player
// who will later be selected as judge.
func (g *Game) Submit(playerID string, tilesUsed []string) (*Game, error) {
	if g.Phase != PhaseRoundSubmission {
		return nil, ErrWrongPhase
	}
	if g.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}
	if g.CurrentRound.HasSubmission(playerID) {
		return nil, ErrAlreadySubmitted
	}
	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if !player.HoldsTiles(tilesUsed) {
		return nil, ErrTileNotOwned
	}

	next := g.Clone()
	next.CurrentRound.Submissions[playerID] = NewSubmission(playerID, tilesUsed)
	p := next.Players[playerID]
	p.WordTiles = removeTiles(p.WordTiles, tilesUsed)
	return next, nil
}

// AllSubmitted checks if every player has submitted this round
func (g *Game) AllSubmitted() bool {
	if g.CurrentRound == nil {
		return false
	}
	return len(g.CurrentRound.Submissions) >= len(g.Players)
}

// selectJudge picks the judge for the current round by rotation over the
// sorted player-id list, a pure function of round number and the id set.
func (g *Game) selectJudge() string {
	ids := g.PlayerIDsInOrder()
	roundNumber := len(g.RoundHistory) + 1
	return ids[(roundNumber-1)%len(ids)]
}

// AdvanceToJudging selects the judge now that all players have submitted and
// moves the game to the judging phase.
func (g *Game) AdvanceToJudging() (*Game, error) {
	if g.Phase != PhaseRoundSubmission {
		return nil, ErrWrongPhase
	}
	if g.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}

	next := g.Clone()
	next.CurrentRound.JudgeID = next.selectJudge()
	next.Phase = PhaseRoundJudging
	return next, nil
}

// SelectWinner records the judge's pick and awards the point. If that point
// wins the game, the round is archived and play jumps straight to game over,
// skipping the results phase and any overrule opportunity: a game-winning
// pick is final even when the judge picked themselves.
func (g *Game) SelectWinner(winnerID string) (*Game, error) {
	if g.Phase != PhaseRoundJudging {
		return nil, ErrWrongPhase
	}
	if g.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}
	if !g.CurrentRound.HasSubmission(winnerID) {
		return nil, ErrInvalidWinner
	}

	next := g.Clone()
	round := next.CurrentRound
	round.WinnerID = winnerID
	round.JudgePickedSelf = winnerID == round.JudgeID
	next.Players[winnerID].Score++

	if next.isOver() {
		next.RoundHistory = append(next.RoundHistory, round)
		next.CurrentRound = nil
		next.Phase = PhaseGameOver
		return next, nil
	}

	next.Phase = PhaseRoundResults
	return next, nil
}

// CanCastOverruleVote checks if overrule voting is currently open. With
// exactly two players there is no third-party arbiter, so self-picks stand.
func (g *Game) CanCastOverruleVote() bool {
	if g.Phase != PhaseRoundResults {
		return false
	}
	if g.CurrentRound == nil {
		return false
	}
	if !g.CurrentRound.JudgePickedSelf {
		return false
	}
	if len(g.Players) < 3 {
		return false
	}
	if g.CurrentRound.Overruled {
		return false
	}
	// All votes in means the question is settled either way.
	return len(g.CurrentRound.OverruleVotes) < len(g.NonJudgePlayerIDs())
}

// CastOverruleVote records a non-judge player's vote on the judge's
// self-pick. Once every non-judge player has voted, a unanimous result
// revokes the judge's point and clears the winner; any split leaves the
// pick standing permanently.
func (g *Game) CastOverruleVote(playerID string, voteToOverrule bool) (*Game, error) {
	if g.Phase != PhaseRoundResults {
		return nil, ErrWrongPhase
	}
	if g.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}
	if !g.CurrentRound.JudgePickedSelf {
		return nil, ErrWrongPhase
	}
	if len(g.Players) < 3 {
		return nil, ErrWrongPhase
	}
	if playerID == g.CurrentRound.JudgeID {
		return nil, ErrVoterIsJudge
	}
	if _, ok := g.Players[playerID]; !ok {
		return nil, ErrUnknownPlayer
	}
	if _, ok := g.CurrentRound.OverruleVotes[playerID]; ok {
		return nil, ErrAlreadyVoted
	}

	next := g.Clone()
	round := next.CurrentRound
	round.OverruleVotes[playerID] = voteToOverrule

	if len(round.OverruleVotes) == len(next.NonJudgePlayerIDs()) {
		unanimous := true
		for _, v := range round.OverruleVotes {
			if !v {
				unanimous = false
				break
			}
		}
		if unanimous {
			next.Players[round.JudgeID].Score--
			round.Overruled = true
			round.WinnerID = ""
		}
	}

	return next, nil
}

// CanCastWinnerVote checks if the post-overrule winner vote is open
func (g *Game) CanCastWinnerVote() bool {
	if g.Phase != PhaseRoundResults {
		return false
	}
	if g.CurrentRound == nil {
		return false
	}
	if !g.CurrentRound.Overruled {
		return false
	}
	return g.CurrentRound.WinnerID == ""
}

// CastWinnerVote records a non-judge player's pick for the replacement
// winner after a successful overrule. Once all non-judge players have voted
// the round resolves by plurality; ties break to the earliest submission.
func (g *Game) CastWinnerVote(voterID, winnerID string) (*Game, error) {
	if g.Phase != PhaseRoundResults {
		return nil, ErrWrongPhase
	}
	if g.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}
	if !g.CurrentRound.Overruled {
		return nil, ErrWrongPhase
	}
	if voterID == g.CurrentRound.JudgeID {
		return nil, ErrVoterIsJudge
	}
	if _, ok := g.Players[voterID]; !ok {
		return nil, ErrUnknownPlayer
	}
	if _, ok := g.CurrentRound.WinnerVotes[voterID]; ok {
		return nil, ErrAlreadyVoted
	}
	if !g.CurrentRound.HasSubmission(winnerID) {
		return nil, ErrInvalidWinner
	}
	if winnerID == g.CurrentRound.JudgeID {
		return nil, ErrInvalidWinner
	}

	next := g.Clone()
	round := next.CurrentRound
	round.WinnerVotes[voterID] = winnerID

	if len(round.WinnerVotes) == len(next.NonJudgePlayerIDs()) {
		next.resolveVotedWinner()
	}

	return next, nil
}

// resolveVotedWinner tallies the winner votes in place on a cloned snapshot.
// The candidate with the most votes wins; an exact tie goes to whichever
// tied candidate submitted first in real time.
func (g *Game) resolveVotedWinner() {
	round := g.CurrentRound

	counts := make(map[string]int)
	for _, chosen := range round.WinnerVotes {
		counts[chosen]++
	}

	maxVotes := 0
	for _, n := range counts {
		if n > maxVotes {
			maxVotes = n
		}
	}

	top := make([]string, 0, len(counts))
	for id, n := range counts {
		if n == maxVotes {
			top = append(top, id)
		}
	}

	sort.Slice(top, func(i, j int) bool {
		a, b := round.Submissions[top[i]], round.Submissions[top[j]]
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return top[i] < top[j]
	})
	winnerID := top[0]

	g.Players[winnerID].Score++
	round.WinnerID = winnerID
}

// AdvanceRound archives the current round and either ends the game, when a
// player has reached the winning score, or replenishes every hand back up to
// the configured tile count and starts the next round.
func (g *Game) AdvanceRound(content *Content) (*Game, error) {
	if g.Phase != PhaseRoundResults {
		return nil, ErrWrongPhase
	}
	if g.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}

	next := g.Clone()
	next.RoundHistory = append(next.RoundHistory, next.CurrentRound)
	next.CurrentRound = nil

	if next.isOver() {
		next.Phase = PhaseGameOver
		return next, nil
	}

	for _, p := range next.Players {
		if shortfall := next.Config.TilesPerPlayer - len(p.WordTiles); shortfall > 0 {
			p.WordTiles = append(p.WordTiles, drawTiles(content.Words, shortfall)...)
		}
	}

	return next.startNewRound(), nil
}

// Restart returns a finished game to the lobby with the same players and
// host. Scores and hands are reset and the round history is cleared.
func (g *Game) Restart() (*Game, error) {
	if g.Phase != PhaseGameOver {
		return nil, ErrWrongPhase
	}

	next := g.Clone()
	for _, p := range next.Players {
		p.Score = 0
		p.WordTiles = []string{}
	}
	next.CurrentRound = nil
	next.RoundHistory = []*Round{}
	next.Phase = PhaseLobby
	return next, nil
}

// ReorderTiles rearranges a player's hand. The new order must be a
// permutation of the current hand, duplicates included.
func (g *Game) ReorderTiles(playerID string, tileOrder []string) (*Game, error) {
	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	current := append([]string(nil), player.WordTiles...)
	proposed := append([]string(nil), tileOrder...)
	sort.Strings(current)
	sort.Strings(proposed)
	if len(current) != len(proposed) {
		return nil, ErrTileOrderMismatch
	}
	for i := range current {
		if current[i] != proposed[i] {
			return nil, ErrTileOrderMismatch
		}
	}

	next := g.Clone()
	next.Players[playerID].WordTiles = append([]string(nil), tileOrder...)
	return next, nil
}
