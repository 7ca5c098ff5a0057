package domain

import "errors"

// Domain errors. Every transition either succeeds or returns exactly one of
// these; they are caller-correctable validation failures, never internal ones.
var (
	ErrWrongPhase        = errors.New("invalid action for current phase")
	ErrNoActiveRound     = errors.New("no active round")
	ErrUnknownGame       = errors.New("game not found")
	ErrUnknownPlayer     = errors.New("player not found")
	ErrGameFull          = errors.New("game is full")
	ErrDuplicateNickname = errors.New("nickname is already taken")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrAlreadySubmitted  = errors.New("already submitted this round")
	ErrTileNotOwned      = errors.New("player does not own that tile")
	ErrInvalidWinner     = errors.New("winner must be a player who submitted")
	ErrNotHost           = errors.New("only the host can perform this action")
	ErrNotJudge          = errors.New("only the judge can perform this action")
	ErrAlreadyVoted      = errors.New("already voted this round")
	ErrVoterIsJudge      = errors.New("judge cannot vote on their own round")
	ErrTileOrderMismatch = errors.New("tile order does not match current tiles")
)
