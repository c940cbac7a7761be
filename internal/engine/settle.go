package engine

import "fmt"

// SettleAll compares each finished hand to the dealer's final cards and
// returns per-hand results plus the aggregate net. Payouts are relative to
// bets already escrowed at deal/double/split time; the state machine adds
// back net + total bet in one reconciliation. Pure function: it never
// touches the shoe or the bankroll.
func SettleAll(hands []*PlayerHand, dealerCards []Card, rules Rules) Outcome {
	dealerTotal, _ := HandTotal(dealerCards)
	dealerBust := dealerTotal > 21
	dealerBlackjack := IsBlackjack(dealerCards)

	outcome := Outcome{Results: make([]HandOutcome, 0, len(hands))}

	for i, hand := range hands {
		var result Result
		var payout int64

		switch {
		case hand.Status == HandBust:
			result = ResultLoss
			payout = -hand.BetCents
		case hand.Status == HandBlackjack && !dealerBlackjack:
			result = ResultBlackjack
			payout = rules.BlackjackPayout(hand.BetCents)
		case dealerBust:
			result = ResultWin
			payout = hand.BetCents
		default:
			// Hard-total comparison; both-blackjack lands here as a push.
			switch {
			case hand.Total > dealerTotal:
				result = ResultWin
				payout = hand.BetCents
			case hand.Total < dealerTotal:
				result = ResultLoss
				payout = -hand.BetCents
			default:
				result = ResultPush
				payout = 0
			}
		}

		outcome.Results = append(outcome.Results, HandOutcome{
			HandIndex:      i,
			Result:         result,
			NetPayoutCents: payout,
		})
		outcome.NetCents += payout
	}

	outcome.Message = settlementMessage(outcome)
	return outcome
}

func settlementMessage(outcome Outcome) string {
	if len(outcome.Results) == 1 {
		switch outcome.Results[0].Result {
		case ResultBlackjack:
			return "Blackjack!"
		case ResultWin:
			return "You win!"
		case ResultLoss:
			return "Dealer wins"
		case ResultPush:
			return "Push"
		case ResultSurrender:
			return "Surrendered"
		}
	}

	wins := 0
	for _, r := range outcome.Results {
		if r.Result == ResultWin || r.Result == ResultBlackjack {
			wins++
		}
	}
	summary := fmt.Sprintf("Won %d of %d hands", wins, len(outcome.Results))
	switch {
	case outcome.NetCents > 0:
		return summary + ", you win!"
	case outcome.NetCents < 0:
		return summary + ", dealer wins"
	default:
		return summary + ", push"
	}
}
