package models

import (
	"time"

	"blackjack-table-backend/internal/engine"
)

// SessionSchemaVersion tags persisted session snapshots. Loaders treat a
// mismatched version as an absent session and start fresh.
const SessionSchemaVersion = 1

// Session is the per-player unit of game state: the shoe, the current
// round (if any), the in-play bankroll and the table rules. Exactly one
// round exists at a time, or none between rounds.
type Session struct {
	SchemaVersion int                `json:"schema_version"`
	SessionID     string             `json:"session_id"`
	PlayerID      string             `json:"player_id"`
	Shoe          *engine.Shoe       `json:"shoe"`
	RoundState    *engine.RoundState `json:"round_state,omitempty"`
	BankrollCents int64              `json:"bankroll_cents"`
	Rules         engine.Rules       `json:"rules"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewSession builds a fresh session with a shuffled shoe.
func NewSession(playerID string, rules engine.Rules, bankrollCents int64) *Session {
	shoe := engine.NewShoe(rules.NumDecks)
	shoe.Shuffle(engine.NewRNG())

	return &Session{
		SchemaVersion: SessionSchemaVersion,
		SessionID:     GenerateSessionID(),
		PlayerID:      playerID,
		Shoe:          shoe,
		BankrollCents: bankrollCents,
		Rules:         rules,
		UpdatedAt:     time.Now(),
	}
}

// Touch refreshes the idle timestamp used for TTL expiry.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
