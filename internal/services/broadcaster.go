package services

import "blackjack-table-backend/internal/engine"

// Broadcaster pushes live updates to a connected player. Implemented by
// the websocket handler; the engine calls it best-effort after mutations.
type Broadcaster interface {
	BroadcastRoundUpdate(playerID string, state *engine.RoundState)
	BroadcastBankroll(playerID string, bankrollCents int64)
}
