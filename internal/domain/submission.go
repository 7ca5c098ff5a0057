package domain

import (
	"strings"
	"time"
)

// Submission represents the tiles a player spent on the current prompt.
// Created once per player per round and never updated afterwards.
type Submission struct {
	PlayerID     string    `json:"playerId"`
	TilesUsed    []string  `json:"tilesUsed"`
	ResponseText string    `json:"responseText"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// NewSubmission creates a submission from the tiles in the order given.
// SubmittedAt is wall-clock time, used only as a deterministic tie-break
// during winner-vote resolution.
func NewSubmission(playerID string, tilesUsed []string) *Submission {
	tiles := append([]string(nil), tilesUsed...)
	return &Submission{
		PlayerID:     playerID,
		TilesUsed:    tiles,
		ResponseText: strings.Join(tiles, " "),
		SubmittedAt:  time.Now().UTC(),
	}
}

// Clone returns a deep copy of the submission
func (s *Submission) Clone() *Submission {
	cp := *s
	cp.TilesUsed = append([]string(nil), s.TilesUsed...)
	return &cp
}
