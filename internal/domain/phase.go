package domain

// Phase represents the current phase of a game
type Phase string

const (
	PhaseLobby           Phase = "lobby"            // Waiting for players to join
	PhaseRoundSubmission Phase = "round_submission" // Players spending tiles on the prompt
	PhaseRoundJudging    Phase = "round_judging"    // Judge picking a winner
	PhaseRoundResults    Phase = "round_results"    // Winner shown, overrule window open
	PhaseGameOver        Phase = "game_over"        // Terminal until restart
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:           {PhaseRoundSubmission, PhaseGameOver},
		PhaseRoundSubmission: {PhaseRoundJudging},
		PhaseRoundJudging:    {PhaseRoundResults, PhaseGameOver},
		PhaseRoundResults:    {PhaseRoundSubmission, PhaseGameOver},
		PhaseGameOver:        {PhaseLobby},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}

// SubmissionsVisible reports whether round submissions may be shown with
// player attribution. Submissions stay hidden until judging begins so nobody
// can read the room before everyone has committed.
func (p Phase) SubmissionsVisible() bool {
	switch p {
	case PhaseRoundJudging, PhaseRoundResults, PhaseGameOver:
		return true
	}
	return false
}
