// Package bot supplies tile selections and winner picks for bot-controlled
// players. Strategies are invoked by the orchestration layer between
// submission and judging steps, never by the game core itself.
package bot

import (
	"context"
	"errors"
	"math/rand"
)

// MaxTilesPerAnswer caps how many tiles a bot spends on one answer
const MaxTilesPerAnswer = 5

// ErrNoChoice is returned when a strategy cannot produce a selection,
// e.g. an empty hand or no candidates.
var ErrNoChoice = errors.New("bot: nothing to choose from")

// Candidate is one submission a bot judge picks between
type Candidate struct {
	PlayerID string
	Tiles    []string
	IsBot    bool
}

// Strategy decides which tiles a bot submits and which submission a bot
// judge picks. Implementations may be slow or fail; callers wrap them with a
// timeout and fall back to Random so a bot holding at least one tile is
// never left unable to submit.
type Strategy interface {
	// ChooseTiles picks 1-5 tiles from the hand to answer the prompt
	ChooseTiles(ctx context.Context, prompt string, hand []string) ([]string, error)

	// ChooseWinner picks the winning submission. The judge's own submission
	// is never among the candidates.
	ChooseWinner(ctx context.Context, prompt string, candidates []Candidate) (string, error)
}

// Random is the mandatory fallback strategy: uniform tile sampling and a
// uniform winner pick that prefers human submissions.
type Random struct{}

// ChooseTiles picks 1-5 tiles uniformly at random from the hand
func (Random) ChooseTiles(ctx context.Context, prompt string, hand []string) ([]string, error) {
	if len(hand) == 0 {
		return nil, ErrNoChoice
	}

	max := MaxTilesPerAnswer
	if len(hand) < max {
		max = len(hand)
	}
	count := 1 + rand.Intn(max)

	tiles := make([]string, count)
	for i, j := range rand.Perm(len(hand))[:count] {
		tiles[i] = hand[j]
	}
	return tiles, nil
}

// ChooseWinner picks uniformly among non-bot candidates when any exist,
// otherwise uniformly among all candidates.
func (Random) ChooseWinner(ctx context.Context, prompt string, candidates []Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoChoice
	}

	humans := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsBot {
			humans = append(humans, c)
		}
	}
	pool := candidates
	if len(humans) > 0 {
		pool = humans
	}
	return pool[rand.Intn(len(pool))].PlayerID, nil
}
