package engine

// Phase of a round. Rounds move PLAYER_TURN -> DEALER_TURN -> SETTLEMENT;
// SETTLEMENT is terminal and a new deal discards it.
type Phase string

const (
	PhasePlayerTurn Phase = "PLAYER_TURN"
	PhaseDealerTurn Phase = "DEALER_TURN"
	PhaseSettlement Phase = "SETTLEMENT"
)

type HandStatus string

const (
	HandActive    HandStatus = "ACTIVE"
	HandStand     HandStatus = "STAND"
	HandBust      HandStatus = "BUST"
	HandBlackjack HandStatus = "BLACKJACK"
	HandDone      HandStatus = "DONE"
)

// PlayerHand is one of the player's hands in a round. A round starts with
// one and SPLIT replaces a hand with two. Mutated only while ACTIVE.
type PlayerHand struct {
	Cards       []Card     `json:"cards"`
	Total       int        `json:"total"`
	Soft        bool       `json:"soft"`
	BetCents    int64      `json:"bet_cents"`
	Status      HandStatus `json:"status"`
	IsSplit     bool       `json:"is_split,omitempty"`
	IsSplitAces bool       `json:"is_split_aces,omitempty"`
	WasDouble   bool       `json:"was_double,omitempty"`
}

// Terminal reports whether the hand can no longer act.
func (h *PlayerHand) Terminal() bool {
	return h.Status != HandActive
}

// Recalculate refreshes Total and Soft from the cards.
func (h *PlayerHand) Recalculate() {
	h.Total, h.Soft = HandTotal(h.Cards)
}

// DealerHand holds the dealer's cards. The second card is the hole card;
// its value is withheld from totals until HoleRevealed is set.
type DealerHand struct {
	Cards        []Card `json:"cards"`
	Total        int    `json:"total,omitempty"`
	HoleRevealed bool   `json:"hole_revealed"`
}

// Upcard returns the dealer's visible first card.
func (d *DealerHand) Upcard() Card {
	return d.Cards[0]
}

type Result string

const (
	ResultWin       Result = "WIN"
	ResultLoss      Result = "LOSS"
	ResultPush      Result = "PUSH"
	ResultBlackjack Result = "BJ"
	ResultSurrender Result = "SURRENDER"
)

type HandOutcome struct {
	HandIndex      int    `json:"hand_index"`
	Result         Result `json:"result"`
	NetPayoutCents int64  `json:"net_payout_cents"`
}

type Outcome struct {
	Results  []HandOutcome `json:"results"`
	NetCents int64         `json:"net_cents"`
	Message  string        `json:"message"`
}

// RoundState is the full state of one round inside a session.
type RoundState struct {
	Phase           Phase         `json:"phase"`
	PlayerHands     []*PlayerHand `json:"player_hands"`
	ActiveHandIndex int           `json:"active_hand_index"`
	Dealer          DealerHand    `json:"dealer"`
	LegalActions    []Action      `json:"legal_actions"`
	BaseBetCents    int64         `json:"base_bet_cents"`
	Outcome         *Outcome      `json:"outcome,omitempty"`
}

// TotalBetCents sums the escrowed bets across all hands.
func (r *RoundState) TotalBetCents() int64 {
	var total int64
	for _, h := range r.PlayerHands {
		total += h.BetCents
	}
	return total
}
