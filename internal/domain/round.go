package domain

import "time"

// Round represents a single game round. It becomes immutable once archived
// into the game's round history.
type Round struct {
	RoundNumber int     `json:"roundNumber"`
	Prompt      Prompt  `json:"prompt"`
	JudgeID     string  `json:"judgeId,omitempty"` // empty until judging begins
	Submissions map[string]*Submission `json:"submissions"`
	WinnerID    string  `json:"winnerId,omitempty"`
	StartedAt   time.Time `json:"startedAt"`

	// Overrule protocol state, only meaningful when the judge picked
	// themselves with 3+ players in the game.
	JudgePickedSelf bool              `json:"judgePickedSelf"`
	OverruleVotes   map[string]bool   `json:"overruleVotes"` // voter id -> vote to overrule
	WinnerVotes     map[string]string `json:"winnerVotes"`   // voter id -> chosen winner id
	Overruled       bool              `json:"overruled"`
}

// NewRound creates a new round for the given prompt. The judge is not
// selected here; all players submit first, then the judge is picked when the
// game advances to judging.
func NewRound(number int, prompt Prompt) *Round {
	return &Round{
		RoundNumber:   number,
		Prompt:        prompt,
		Submissions:   make(map[string]*Submission),
		OverruleVotes: make(map[string]bool),
		WinnerVotes:   make(map[string]string),
		StartedAt:     time.Now().UTC(),
	}
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	cp := *r
	cp.Submissions = make(map[string]*Submission, len(r.Submissions))
	for id, sub := range r.Submissions {
		cp.Submissions[id] = sub.Clone()
	}
	cp.OverruleVotes = make(map[string]bool, len(r.OverruleVotes))
	for id, v := range r.OverruleVotes {
		cp.OverruleVotes[id] = v
	}
	cp.WinnerVotes = make(map[string]string, len(r.WinnerVotes))
	for id, v := range r.WinnerVotes {
		cp.WinnerVotes[id] = v
	}
	return &cp
}

// HasSubmission reports whether the player already submitted this round
func (r *Round) HasSubmission(playerID string) bool {
	_, ok := r.Submissions[playerID]
	return ok
}
