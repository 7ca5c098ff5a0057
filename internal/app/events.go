package app

import "ransomnotes/internal/domain"

// Event names pushed over the websocket. Every event carries the full
// per-player game state alongside its own payload so clients can re-render
// without a follow-up fetch.
const (
	EventPlayerJoined       = "player_joined"
	EventPlayerLeft         = "player_left"
	EventGameStarted        = "game_started"
	EventRoundStarted       = "round_started"
	EventSubmissionReceived = "submission_received"
	EventJudgingPhase       = "judging_phase"
	EventRoundResults       = "round_results"
	EventOverruleVote       = "overrule_vote"
	EventOverruleResolved   = "overrule_resolved"
	EventWinnerVote         = "winner_vote"
	EventGameOver           = "game_over"
	EventGameRestarted      = "game_restarted"
	EventTilesUpdated       = "tiles_updated"
	EventGameState          = "game_state"
)

// Event is the envelope broadcast to clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type playerJoinedPayload struct {
	Player      domain.PlayerInfo `json:"player"`
	PlayerCount int               `json:"playerCount"`
}

type playerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type submissionReceivedPayload struct {
	PlayerID         string `json:"playerId"`
	SubmissionsCount int    `json:"submissionsCount"`
	TotalExpected    int    `json:"totalExpected"`
}

type judgingPhasePayload struct {
	JudgeID     string                  `json:"judgeId"`
	Prompt      string                  `json:"prompt"`
	Submissions []domain.SubmissionInfo `json:"submissions"`
}

type roundResultsPayload struct {
	WinnerID        string `json:"winnerId"`
	JudgePickedSelf bool   `json:"judgePickedSelf"`
}

type overruleVotePayload struct {
	VoterID    string `json:"voterId"`
	VotesCast  int    `json:"votesCast"`
	VotesTotal int    `json:"votesTotal"`
}

type overruleResolvedPayload struct {
	Overruled bool `json:"overruled"`
}

type winnerVotePayload struct {
	VoterID    string `json:"voterId"`
	VotesCast  int    `json:"votesCast"`
	VotesTotal int    `json:"votesTotal"`
}

type gameOverPayload struct {
	WinnerID string `json:"winnerId"`
}
