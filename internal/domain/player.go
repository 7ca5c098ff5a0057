package domain

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a player in the game
type Player struct {
	ID          string    `json:"id"`
	Nickname    string    `json:"nickname"`
	Score       int       `json:"score"`
	IsHost      bool      `json:"isHost"`
	IsConnected bool      `json:"isConnected"`
	IsBot       bool      `json:"isBot"`
	WordTiles   []string  `json:"wordTiles"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given nickname
func NewPlayer(nickname string, isHost bool) *Player {
	return &Player{
		ID:          uuid.New().String(),
		Nickname:    nickname,
		Score:       0,
		IsHost:      isHost,
		IsConnected: true,
		WordTiles:   []string{},
		JoinedAt:    time.Now().UTC(),
	}
}

// NewBotPlayer creates a bot player with the given nickname
func NewBotPlayer(nickname string) *Player {
	p := NewPlayer(nickname, false)
	p.IsBot = true
	return p
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	cp.WordTiles = append([]string(nil), p.WordTiles...)
	return &cp
}

// HoldsTiles reports whether the player's hand covers every tile in tiles,
// counting duplicate values as distinct occurrences.
func (p *Player) HoldsTiles(tiles []string) bool {
	counts := make(map[string]int, len(p.WordTiles))
	for _, t := range p.WordTiles {
		counts[t]++
	}
	for _, t := range tiles {
		if counts[t] == 0 {
			return false
		}
		counts[t]--
	}
	return true
}

// removeTiles removes one hand occurrence per used tile, first match wins.
// Duplicate values the player did not spend stay in the hand.
func removeTiles(hand, used []string) []string {
	spend := make(map[string]int, len(used))
	for _, t := range used {
		spend[t]++
	}
	remaining := make([]string, 0, len(hand))
	for _, t := range hand {
		if spend[t] > 0 {
			spend[t]--
			continue
		}
		remaining = append(remaining, t)
	}
	return remaining
}
