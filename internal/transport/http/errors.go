package http

import (
	"errors"
	"net/http"

	"ransomnotes/internal/domain"
)

// errorStatus maps a domain error to an HTTP status and error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownGame):
		return http.StatusNotFound, "GAME_NOT_FOUND"
	case errors.Is(err, domain.ErrUnknownPlayer):
		return http.StatusNotFound, "PLAYER_NOT_FOUND"
	case errors.Is(err, domain.ErrNotHost):
		return http.StatusForbidden, "NOT_HOST"
	case errors.Is(err, domain.ErrNotJudge):
		return http.StatusForbidden, "NOT_JUDGE"
	case errors.Is(err, domain.ErrWrongPhase):
		return http.StatusBadRequest, "WRONG_PHASE"
	case errors.Is(err, domain.ErrNoActiveRound):
		return http.StatusBadRequest, "NO_ACTIVE_ROUND"
	case errors.Is(err, domain.ErrGameFull):
		return http.StatusBadRequest, "GAME_FULL"
	case errors.Is(err, domain.ErrDuplicateNickname):
		return http.StatusBadRequest, "DUPLICATE_NICKNAME"
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		return http.StatusBadRequest, "NOT_ENOUGH_PLAYERS"
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return http.StatusBadRequest, "ALREADY_SUBMITTED"
	case errors.Is(err, domain.ErrTileNotOwned):
		return http.StatusBadRequest, "TILE_NOT_OWNED"
	case errors.Is(err, domain.ErrTileOrderMismatch):
		return http.StatusBadRequest, "TILE_ORDER_MISMATCH"
	case errors.Is(err, domain.ErrInvalidWinner):
		return http.StatusBadRequest, "INVALID_WINNER"
	case errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusBadRequest, "ALREADY_VOTED"
	case errors.Is(err, domain.ErrVoterIsJudge):
		return http.StatusBadRequest, "VOTER_IS_JUDGE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
