package domain

import (
	"crypto/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InviteCodeLength is the length of generated invite codes
const InviteCodeLength = 6

// inviteCodeChars are the characters used for invite codes
const inviteCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GameConfig holds configurable game parameters
type GameConfig struct {
	TilesPerPlayer        int `json:"tilesPerPlayer"`
	PointsToWin           int `json:"pointsToWin"`
	SubmissionTimeSeconds int `json:"submissionTimeSeconds"`
	JudgingTimeSeconds    int `json:"judgingTimeSeconds"`
	MinPlayers            int `json:"minPlayers"`
	MaxPlayers            int `json:"maxPlayers"`
}

// DefaultGameConfig returns the default game settings
func DefaultGameConfig() GameConfig {
	return GameConfig{
		TilesPerPlayer:        45,
		PointsToWin:           5,
		SubmissionTimeSeconds: 90,
		JudgingTimeSeconds:    60,
		MinPlayers:            2,
		MaxPlayers:            8,
	}
}

// Content is the vocabulary and prompt set a game is started with
type Content struct {
	Prompts []string
	Words   []string
}

// Game is the root snapshot of one game. Transitions never mutate a Game in
// place; each one clones the snapshot, applies its effect, and returns the
// new value, so concurrent readers of an old snapshot are always safe.
type Game struct {
	ID            string             `json:"id"`
	InviteCode    string             `json:"inviteCode"`
	Phase         Phase              `json:"phase"`
	Players       map[string]*Player `json:"players"`
	CurrentRound  *Round             `json:"currentRound,omitempty"`
	RoundHistory  []*Round           `json:"roundHistory"`
	Config        GameConfig         `json:"config"`
	WordPool      []string           `json:"wordPool"`
	PromptsPool   []Prompt           `json:"promptsPool"`
	UsedPromptIDs []string           `json:"usedPromptIds"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewInviteCode generates a random uppercase alphanumeric invite code.
// Uniqueness is the storage layer's concern; callers regenerate on collision.
func NewInviteCode() string {
	b := make([]byte, InviteCodeLength)
	rand.Read(b)

	code := make([]byte, InviteCodeLength)
	for i := range code {
		code[i] = inviteCodeChars[int(b[i])%len(inviteCodeChars)]
	}
	return string(code)
}

// NewGame creates a new game in the lobby phase with exactly the host player
func NewGame(hostNickname string, config *GameConfig) (*Game, *Player) {
	host := NewPlayer(hostNickname, true)
	cfg := DefaultGameConfig()
	if config != nil {
		cfg = *config
	}

	game := &Game{
		ID:            uuid.New().String(),
		InviteCode:    NewInviteCode(),
		Phase:         PhaseLobby,
		Players:       map[string]*Player{host.ID: host},
		RoundHistory:  []*Round{},
		Config:        cfg,
		WordPool:      []string{},
		PromptsPool:   []Prompt{},
		UsedPromptIDs: []string{},
		CreatedAt:     time.Now().UTC(),
	}
	return game, host
}

// Clone returns a deep copy of the game snapshot
func (g *Game) Clone() *Game {
	cp := *g
	cp.Players = make(map[string]*Player, len(g.Players))
	for id, p := range g.Players {
		cp.Players[id] = p.Clone()
	}
	if g.CurrentRound != nil {
		cp.CurrentRound = g.CurrentRound.Clone()
	}
	cp.RoundHistory = make([]*Round, len(g.RoundHistory))
	for i, r := range g.RoundHistory {
		cp.RoundHistory[i] = r.Clone()
	}
	cp.WordPool = append([]string(nil), g.WordPool...)
	cp.PromptsPool = append([]Prompt(nil), g.PromptsPool...)
	cp.UsedPromptIDs = append([]string(nil), g.UsedPromptIDs...)
	return &cp
}

// Player returns a player by ID
func (g *Game) Player(playerID string) (*Player, error) {
	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	return player, nil
}

// Host returns the host player
func (g *Game) Host() *Player {
	for _, p := range g.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// IsHost checks if the given player is the host
func (g *Game) IsHost(playerID string) bool {
	p, ok := g.Players[playerID]
	return ok && p.IsHost
}

// IsJudge checks if the given player is the current round's judge
func (g *Game) IsJudge(playerID string) bool {
	return g.CurrentRound != nil && g.CurrentRound.JudgeID == playerID
}

// PlayerIDsInOrder returns player IDs sorted lexically. This is the stable,
// content-independent order judge rotation is computed over.
func (g *Game) PlayerIDsInOrder() []string {
	ids := make([]string, 0, len(g.Players))
	for id := range g.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NonJudgePlayerIDs returns all player IDs except the current judge
func (g *Game) NonJudgePlayerIDs() []string {
	if g.CurrentRound == nil || g.CurrentRound.JudgeID == "" {
		return g.PlayerIDsInOrder()
	}
	ids := make([]string, 0, len(g.Players)-1)
	for _, id := range g.PlayerIDsInOrder() {
		if id != g.CurrentRound.JudgeID {
			ids = append(ids, id)
		}
	}
	return ids
}

// isNicknameTaken checks nicknames case-insensitively after trimming
func (g *Game) isNicknameTaken(nickname string) bool {
	normalized := strings.ToLower(strings.TrimSpace(nickname))
	for _, p := range g.Players {
		if strings.ToLower(strings.TrimSpace(p.Nickname)) == normalized {
			return true
		}
	}
	return false
}

// isOver reports whether any player has reached the winning score
func (g *Game) isOver() bool {
	for _, p := range g.Players {
		if p.Score >= g.Config.PointsToWin {
			return true
		}
	}
	return false
}

// Winner returns the player who reached the winning score, if any
func (g *Game) Winner() *Player {
	for _, id := range g.PlayerIDsInOrder() {
		if p := g.Players[id]; p.Score >= g.Config.PointsToWin {
			return p
		}
	}
	return nil
}

// CanStart checks if the game can be started
func (g *Game) CanStart() bool {
	return g.Phase == PhaseLobby && len(g.Players) >= g.Config.MinPlayers
}
