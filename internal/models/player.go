package models

import (
	"fmt"
	"strings"
	"time"

	"blackjack-table-backend/internal/engine"
)

// PlayerRecord is the durable per-player row behind sessions: bankroll of
// record plus lifetime stats.
type PlayerRecord struct {
	ID                string    `json:"id"`
	DisplayName       string    `json:"display_name,omitempty"`
	BankrollCents     int64     `json:"bankroll_cents"`
	HandsPlayed       int64     `json:"hands_played"`
	HandsWon          int64     `json:"hands_won"`
	TotalWageredCents int64     `json:"total_wagered_cents"`
	BiggestWinCents   int64     `json:"biggest_win_cents"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// WinRate formats the lifetime win percentage.
func (p *PlayerRecord) WinRate() string {
	if p.HandsPlayed == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(p.HandsWon)/float64(p.HandsPlayed)*100)
}

// AnonymousName renders a player without a display name as "Player #XXXX"
// from the tail of the id.
func (p *PlayerRecord) AnonymousName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	id := p.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "Player #" + strings.ToUpper(id)
}

// HandRecord is one settled hand (surrender included) written to history.
type HandRecord struct {
	ID             string        `json:"id,omitempty"`
	PlayerID       string        `json:"player_id"`
	BetCents       int64         `json:"bet_cents"`
	NetResultCents int64         `json:"net_result_cents"`
	Result         engine.Result `json:"result"`
	PlayerCards    []engine.Card `json:"player_cards"`
	DealerCards    []engine.Card `json:"dealer_cards"`
	PlayerTotal    int           `json:"player_total"`
	DealerTotal    int           `json:"dealer_total"`
	WasBlackjack   bool          `json:"was_blackjack"`
	WasDouble      bool          `json:"was_double"`
	WasSplit       bool          `json:"was_split"`
	CreatedAt      time.Time     `json:"created_at"`
}

type LeaderboardCategory string

const (
	LeaderboardBiggestWin   LeaderboardCategory = "biggest_win"
	LeaderboardHandsPlayed  LeaderboardCategory = "hands_played"
	LeaderboardWinRate      LeaderboardCategory = "win_rate"
	LeaderboardTotalWagered LeaderboardCategory = "total_wagered"
)

func ParseLeaderboardCategory(s string) (LeaderboardCategory, bool) {
	switch LeaderboardCategory(s) {
	case LeaderboardBiggestWin, LeaderboardHandsPlayed, LeaderboardWinRate, LeaderboardTotalWagered:
		return LeaderboardCategory(s), true
	}
	return "", false
}

type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	PlayerID       string  `json:"player_id"`
	DisplayName    string  `json:"display_name"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
	HandsPlayed    int64   `json:"hands_played"`
}
