package engine

// Action is a player move during PLAYER_TURN. Insurance is deliberately
// not part of the action set: no transition exists for it, so the rule
// engine never offers it.
type Action string

const (
	ActionHit       Action = "HIT"
	ActionStand     Action = "STAND"
	ActionDouble    Action = "DOUBLE"
	ActionSplit     Action = "SPLIT"
	ActionSurrender Action = "SURRENDER"
)

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionHit, ActionStand, ActionDouble, ActionSplit, ActionSurrender:
		return Action(s), true
	}
	return "", false
}

// Rules is the immutable table configuration for a session.
type Rules struct {
	NumDecks             int     `json:"num_decks"`
	DealerStandsOnSoft17 bool    `json:"dealer_stands_on_soft17"`
	BlackjackPayoutNum   int64   `json:"blackjack_payout_num"`
	BlackjackPayoutDen   int64   `json:"blackjack_payout_den"`
	DoubleAfterSplit     bool    `json:"double_after_split"`
	SurrenderAllowed     bool    `json:"surrender_allowed"`
	MaxSplitHands        int     `json:"max_split_hands"`
	ReshuffleFraction    float64 `json:"reshuffle_fraction"`
	MinBetCents          int64   `json:"min_bet_cents"`
	MaxBetCents          int64   `json:"max_bet_cents"`
}

// DefaultRules is a six-deck table paying 3:2, dealer stands on soft 17.
func DefaultRules() Rules {
	return Rules{
		NumDecks:             6,
		DealerStandsOnSoft17: true,
		BlackjackPayoutNum:   3,
		BlackjackPayoutDen:   2,
		DoubleAfterSplit:     true,
		SurrenderAllowed:     true,
		MaxSplitHands:        4,
		ReshuffleFraction:    0.25,
		MinBetCents:          100,
		MaxBetCents:          10000,
	}
}

// BlackjackPayout computes the premium payout for a natural on bet cents.
func (r Rules) BlackjackPayout(betCents int64) int64 {
	return betCents * r.BlackjackPayoutNum / r.BlackjackPayoutDen
}

// LegalActions returns the moves permitted for hand right now. It is a
// pure function, recomputed after every mutation, and never mutates state.
//   - firstAction: no card has been taken on this hand yet
//   - totalHands: hands currently in the round (caps further splits)
//   - bankrollCents: available funds, gating DOUBLE and SPLIT escrow
func LegalActions(hand *PlayerHand, rules Rules, firstAction bool, totalHands int, bankrollCents int64) []Action {
	if hand.Status != HandActive {
		return nil
	}

	actions := []Action{ActionHit, ActionStand}

	twoCards := len(hand.Cards) == 2

	if firstAction && twoCards && bankrollCents >= hand.BetCents {
		if !hand.IsSplit || rules.DoubleAfterSplit {
			actions = append(actions, ActionDouble)
		}
		if CanSplit(hand.Cards[0], hand.Cards[1]) && totalHands < rules.MaxSplitHands {
			actions = append(actions, ActionSplit)
		}
	}

	if firstAction && twoCards && !hand.IsSplit && totalHands == 1 && rules.SurrenderAllowed {
		actions = append(actions, ActionSurrender)
	}

	return actions
}

// ActionLegal reports whether action is in the set.
func ActionLegal(actions []Action, action Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
