package engine_test

import (
	"testing"

	"blackjack-table-backend/internal/engine"
)

func finishedHand(bet int64, status engine.HandStatus, cards ...engine.Card) *engine.PlayerHand {
	h := &engine.PlayerHand{Cards: cards, BetCents: bet, Status: status}
	h.Recalculate()
	return h
}

func TestSettleBustLoses(t *testing.T) {
	hands := []*engine.PlayerHand{
		finishedHand(500, engine.HandBust, card(engine.RankKing), card(engine.RankQueen), card(engine.RankFive)),
	}
	dealer := []engine.Card{card(engine.RankTen), card(engine.RankSix), card(engine.RankKing)}

	outcome := engine.SettleAll(hands, dealer, engine.DefaultRules())
	if outcome.Results[0].Result != engine.ResultLoss {
		t.Errorf("bust hand must lose even when the dealer busts, got %s", outcome.Results[0].Result)
	}
	if outcome.NetCents != -500 {
		t.Errorf("expected net -500, got %d", outcome.NetCents)
	}
}

func TestSettleBlackjackPaysPremium(t *testing.T) {
	hands := []*engine.PlayerHand{
		finishedHand(500, engine.HandBlackjack, card(engine.RankAce), card(engine.RankKing)),
	}
	dealer := []engine.Card{card(engine.RankTen), card(engine.RankNine)}

	outcome := engine.SettleAll(hands, dealer, engine.DefaultRules())
	if outcome.Results[0].Result != engine.ResultBlackjack {
		t.Fatalf("expected BJ, got %s", outcome.Results[0].Result)
	}
	if outcome.Results[0].NetPayoutCents != 750 {
		t.Errorf("expected 3:2 payout of 750, got %d", outcome.Results[0].NetPayoutCents)
	}
	if outcome.Message != "Blackjack!" {
		t.Errorf("unexpected message %q", outcome.Message)
	}
}

func TestSettleBothBlackjackPushes(t *testing.T) {
	hands := []*engine.PlayerHand{
		finishedHand(500, engine.HandBlackjack, card(engine.RankAce), card(engine.RankKing)),
	}
	dealer := []engine.Card{card(engine.RankAce), card(engine.RankQueen)}

	outcome := engine.SettleAll(hands, dealer, engine.DefaultRules())
	if outcome.Results[0].Result != engine.ResultPush {
		t.Errorf("both blackjack should push, got %s", outcome.Results[0].Result)
	}
	if outcome.NetCents != 0 {
		t.Errorf("push should pay 0, got %d", outcome.NetCents)
	}
}

func TestSettleDealerBust(t *testing.T) {
	hands := []*engine.PlayerHand{
		finishedHand(400, engine.HandStand, card(engine.RankTen), card(engine.RankTwo)),
	}
	dealer := []engine.Card{card(engine.RankTen), card(engine.RankSix), card(engine.RankKing)}

	outcome := engine.SettleAll(hands, dealer, engine.DefaultRules())
	if outcome.Results[0].Result != engine.ResultWin {
		t.Errorf("standing hand wins against dealer bust, got %s", outcome.Results[0].Result)
	}
	if outcome.NetCents != 400 {
		t.Errorf("expected net 400, got %d", outcome.NetCents)
	}
}

func TestSettleComparison(t *testing.T) {
	dealer := []engine.Card{card(engine.RankTen), card(engine.RankNine)}
	rules := engine.DefaultRules()

	cases := []struct {
		hand   *engine.PlayerHand
		result engine.Result
		payout int64
	}{
		{finishedHand(500, engine.HandStand, card(engine.RankTen), card(engine.RankKing)), engine.ResultWin, 500},
		{finishedHand(500, engine.HandStand, card(engine.RankTen), card(engine.RankNine)), engine.ResultPush, 0},
		{finishedHand(500, engine.HandStand, card(engine.RankTen), card(engine.RankEight)), engine.ResultLoss, -500},
	}
	for _, tc := range cases {
		outcome := engine.SettleAll([]*engine.PlayerHand{tc.hand}, dealer, rules)
		if outcome.Results[0].Result != tc.result {
			t.Errorf("total %d vs 19: got %s, want %s", tc.hand.Total, outcome.Results[0].Result, tc.result)
		}
		if outcome.Results[0].NetPayoutCents != tc.payout {
			t.Errorf("total %d vs 19: payout %d, want %d", tc.hand.Total, outcome.Results[0].NetPayoutCents, tc.payout)
		}
	}
}

func TestSettleMultipleHands(t *testing.T) {
	hands := []*engine.PlayerHand{
		finishedHand(500, engine.HandStand, card(engine.RankTen), card(engine.RankKing)),
		finishedHand(500, engine.HandBust, card(engine.RankTen), card(engine.RankSix), card(engine.RankKing)),
	}
	dealer := []engine.Card{card(engine.RankTen), card(engine.RankNine)}

	outcome := engine.SettleAll(hands, dealer, engine.DefaultRules())
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(outcome.Results))
	}
	if outcome.Results[0].HandIndex != 0 || outcome.Results[1].HandIndex != 1 {
		t.Error("results must be in hand order")
	}
	if outcome.NetCents != 0 {
		t.Errorf("expected net 0 (win 500, lose 500), got %d", outcome.NetCents)
	}
}
