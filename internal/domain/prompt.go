package domain

import "github.com/google/uuid"

// Prompt is the question or scenario players answer with their tiles.
// Immutable once created; each prompt is used at most once per game.
type Prompt struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewPrompt creates a prompt with a fresh id
func NewPrompt(text string) Prompt {
	return Prompt{
		ID:   uuid.New().String(),
		Text: text,
	}
}
