package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ransomnotes/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateGameRequest is the body for game creation
type CreateGameRequest struct {
	HostNickname string             `json:"hostNickname"`
	Config       *domain.GameConfig `json:"config,omitempty"`
}

// JoinGameRequest is the body for joining by invite code
type JoinGameRequest struct {
	Nickname string `json:"nickname"`
}

// SubmitRequest is the body for a tile submission
type SubmitRequest struct {
	TilesUsed []string `json:"tilesUsed"`
}

// JudgeRequest is the body for the judge's winner pick
type JudgeRequest struct {
	WinnerPlayerID string `json:"winnerPlayerId"`
}

// OverruleVoteRequest is the body for an overrule vote
type OverruleVoteRequest struct {
	Vote bool `json:"vote"`
}

// WinnerVoteRequest is the body for a winner revote
type WinnerVoteRequest struct {
	WinnerPlayerID string `json:"winnerPlayerId"`
}

// ReorderTilesRequest is the body for saving a hand order
type ReorderTilesRequest struct {
	TileOrder []string `json:"tileOrder"`
}

// GameJoinedResponse is returned from create and join
type GameJoinedResponse struct {
	GameID     string            `json:"gameId"`
	InviteCode string            `json:"inviteCode"`
	PlayerID   string            `json:"playerId"`
	State      *domain.GameState `json:"state"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// handleCreateGame handles POST /api/games
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.HostNickname) == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_NICKNAME", "hostNickname is required")
		return
	}

	game, host, err := s.service.CreateGame(r.Context(), req.HostNickname, req.Config)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	state, err := game.StateFor(host.ID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &GameJoinedResponse{
		GameID:     game.ID,
		InviteCode: game.InviteCode,
		PlayerID:   host.ID,
		State:      state,
	})
}

// handleJoinGame handles POST /api/games/join/{code}
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Nickname) == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_NICKNAME", "nickname is required")
		return
	}

	game, player, err := s.service.Join(r.Context(), code, req.Nickname)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	state, err := game.StateFor(player.ID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &GameJoinedResponse{
		GameID:     game.ID,
		InviteCode: game.InviteCode,
		PlayerID:   player.ID,
		State:      state,
	})
}

// handleGetState handles GET /api/games/{id}
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_PLAYER_ID", "playerId is required")
		return
	}

	state, err := s.service.GetState(r.Context(), gameID, playerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, state)
}

// handleStart handles POST /api/games/{id}/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	game, err := s.service.Start(r.Context(), gameID, playerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleSubmit handles POST /api/games/{id}/submit
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if len(req.TilesUsed) == 0 {
		s.sendError(w, http.StatusBadRequest, "MISSING_TILES", "tilesUsed is required")
		return
	}

	game, err := s.service.Submit(r.Context(), gameID, playerID, req.TilesUsed)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleJudge handles POST /api/games/{id}/judge
func (s *Server) handleJudge(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	var req JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.WinnerPlayerID == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_WINNER", "winnerPlayerId is required")
		return
	}

	game, err := s.service.SelectWinner(r.Context(), gameID, playerID, req.WinnerPlayerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleAdvance handles POST /api/games/{id}/advance
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	game, err := s.service.Advance(r.Context(), gameID, playerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleRestart handles POST /api/games/{id}/restart
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	game, err := s.service.Restart(r.Context(), gameID, playerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleAddBot handles POST /api/games/{id}/bots
func (s *Server) handleAddBot(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	game, _, err := s.service.AddBot(r.Context(), gameID, playerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleOverruleVote handles POST /api/games/{id}/overrule
func (s *Server) handleOverruleVote(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	var req OverruleVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	game, err := s.service.CastOverruleVote(r.Context(), gameID, playerID, req.Vote)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleWinnerVote handles POST /api/games/{id}/winner-vote
func (s *Server) handleWinnerVote(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	var req WinnerVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.WinnerPlayerID == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_WINNER", "winnerPlayerId is required")
		return
	}

	game, err := s.service.CastWinnerVote(r.Context(), gameID, playerID, req.WinnerPlayerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleReorderTiles handles POST /api/games/{id}/tiles/reorder
func (s *Server) handleReorderTiles(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	playerID := r.URL.Query().Get("playerId")

	var req ReorderTilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	game, err := s.service.ReorderTiles(r.Context(), gameID, playerID, req.TileOrder)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendState(w, game, playerID)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// sendState sends the caller's view of the game
func (s *Server) sendState(w http.ResponseWriter, game *domain.Game, playerID string) {
	state, err := game.StateFor(playerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, state)
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendDomainError maps a domain error onto the response envelope
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = "Internal server error"
	}
	s.sendError(w, status, code, msg)
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
