package domain

// PlayerInfo is the public view of a player, without their hand
type PlayerInfo struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	Score       int    `json:"score"`
	IsHost      bool   `json:"isHost"`
	IsConnected bool   `json:"isConnected"`
	IsBot       bool   `json:"isBot"`
}

// SubmissionInfo is the public view of a submission
type SubmissionInfo struct {
	PlayerID     string `json:"playerId"`
	ResponseText string `json:"responseText"`
}

// RoundInfo is the public view of the current round
type RoundInfo struct {
	RoundNumber     int              `json:"roundNumber"`
	Prompt          Prompt           `json:"prompt"`
	JudgeID         string           `json:"judgeId,omitempty"`
	Submissions     []SubmissionInfo `json:"submissions"`
	SubmissionCount int              `json:"submissionCount"`
	WinnerID        string           `json:"winnerId,omitempty"`
	JudgePickedSelf bool             `json:"judgePickedSelf"`
	Overruled       bool             `json:"overruled"`
	HasSubmitted    bool             `json:"hasSubmitted"`
	IsJudge         bool             `json:"isJudge"`
}

// GameState is the game as seen by one player. It never exposes other
// players' hands, and round submissions stay hidden until judging begins.
type GameState struct {
	GameID       string       `json:"gameId"`
	InviteCode   string       `json:"inviteCode"`
	Phase        Phase        `json:"phase"`
	Players      []PlayerInfo `json:"players"`
	CurrentRound *RoundInfo   `json:"currentRound,omitempty"`
	Config       GameConfig   `json:"config"`
	MyTiles      []string     `json:"myTiles"`
}

// Info returns the public view of the player
func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		ID:          p.ID,
		Nickname:    p.Nickname,
		Score:       p.Score,
		IsHost:      p.IsHost,
		IsConnected: p.IsConnected,
		IsBot:       p.IsBot,
	}
}

// StateFor builds the game state as visible to the given player
func (g *Game) StateFor(playerID string) (*GameState, error) {
	me, ok := g.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	players := make([]PlayerInfo, 0, len(g.Players))
	for _, id := range g.PlayerIDsInOrder() {
		players = append(players, g.Players[id].Info())
	}

	state := &GameState{
		GameID:     g.ID,
		InviteCode: g.InviteCode,
		Phase:      g.Phase,
		Players:    players,
		Config:     g.Config,
		MyTiles:    append([]string{}, me.WordTiles...),
	}

	if g.CurrentRound != nil {
		state.CurrentRound = g.roundInfoFor(playerID)
	}
	return state, nil
}

func (g *Game) roundInfoFor(playerID string) *RoundInfo {
	round := g.CurrentRound
	info := &RoundInfo{
		RoundNumber:     round.RoundNumber,
		Prompt:          round.Prompt,
		JudgeID:         round.JudgeID,
		Submissions:     []SubmissionInfo{},
		SubmissionCount: len(round.Submissions),
		WinnerID:        round.WinnerID,
		JudgePickedSelf: round.JudgePickedSelf,
		Overruled:       round.Overruled,
		HasSubmitted:    round.HasSubmission(playerID),
		IsJudge:         round.JudgeID == playerID,
	}

	if g.Phase.SubmissionsVisible() {
		for _, id := range g.PlayerIDsInOrder() {
			if sub, ok := round.Submissions[id]; ok {
				info.Submissions = append(info.Submissions, SubmissionInfo{
					PlayerID:     sub.PlayerID,
					ResponseText: sub.ResponseText,
				})
			}
		}
	}
	return info
}
