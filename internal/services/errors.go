package services

import "errors"

// Game-logic failures surfaced to the transport layer. All are detected
// before any state mutation, so a rejected call leaves the session as it
// was. Persistence failures are not here: they are logged by the
// persister and never shown to callers.
var (
	ErrInvalidBet           = errors.New("invalid bet")
	ErrInsufficientBankroll = errors.New("insufficient bankroll")
	ErrNoActiveRound        = errors.New("no active round")
	ErrWrongPhase           = errors.New("wrong phase")
	ErrWrongHand            = errors.New("wrong hand")
	ErrIllegalAction        = errors.New("illegal action")
	ErrSessionNotFound      = errors.New("session not found")
)
