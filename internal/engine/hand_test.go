package engine_test

import (
	"testing"

	"blackjack-table-backend/internal/engine"
)

func card(rank engine.Rank) engine.Card {
	return engine.Card{Rank: rank, Suit: engine.SuitSpades}
}

func TestHandTotal(t *testing.T) {
	cases := []struct {
		name  string
		cards []engine.Card
		total int
		soft  bool
	}{
		{"ace king", []engine.Card{card(engine.RankAce), card(engine.RankKing)}, 21, true},
		{"two aces and nine", []engine.Card{card(engine.RankAce), card(engine.RankAce), card(engine.RankNine)}, 21, true},
		{"hard sixteen", []engine.Card{card(engine.RankTen), card(engine.RankSix)}, 16, false},
		{"soft seventeen", []engine.Card{card(engine.RankAce), card(engine.RankSix)}, 17, true},
		{"demoted ace", []engine.Card{card(engine.RankAce), card(engine.RankNine), card(engine.RankFive)}, 15, false},
		{"four aces", []engine.Card{card(engine.RankAce), card(engine.RankAce), card(engine.RankAce), card(engine.RankAce)}, 14, true},
		{"bust", []engine.Card{card(engine.RankKing), card(engine.RankQueen), card(engine.RankFive)}, 25, false},
	}

	for _, tc := range cases {
		total, soft := engine.HandTotal(tc.cards)
		if total != tc.total || soft != tc.soft {
			t.Errorf("%s: got total=%d soft=%v, want total=%d soft=%v",
				tc.name, total, soft, tc.total, tc.soft)
		}
	}
}

func TestHandTotalBounds(t *testing.T) {
	// Total must sit between the all-aces-low and all-aces-high sums, and
	// re-evaluation must not change it.
	hands := [][]engine.Card{
		{card(engine.RankAce), card(engine.RankKing)},
		{card(engine.RankAce), card(engine.RankAce), card(engine.RankNine)},
		{card(engine.RankTwo), card(engine.RankThree), card(engine.RankAce)},
		{card(engine.RankNine), card(engine.RankNine), card(engine.RankAce)},
	}

	for _, cards := range hands {
		low, high := 0, 0
		for _, c := range cards {
			if c.Rank == engine.RankAce {
				low++
				high += 11
			} else {
				low += c.Value()
				high += c.Value()
			}
		}

		total, _ := engine.HandTotal(cards)
		if total < low || total > high {
			t.Errorf("total %d outside [%d,%d] for %v", total, low, high, cards)
		}

		again, _ := engine.HandTotal(cards)
		if again != total {
			t.Errorf("re-evaluation changed total: %d then %d", total, again)
		}
	}
}

func TestIsBlackjack(t *testing.T) {
	if !engine.IsBlackjack([]engine.Card{card(engine.RankAce), card(engine.RankKing)}) {
		t.Error("ace-king should be blackjack")
	}
	if engine.IsBlackjack([]engine.Card{card(engine.RankSeven), card(engine.RankSeven), card(engine.RankSeven)}) {
		t.Error("three-card 21 is not blackjack")
	}
	if engine.IsBlackjack([]engine.Card{card(engine.RankTen), card(engine.RankNine)}) {
		t.Error("19 is not blackjack")
	}
}

func TestIsBust(t *testing.T) {
	if engine.IsBust([]engine.Card{card(engine.RankAce), card(engine.RankKing), card(engine.RankQueen)}) {
		t.Error("ace demotes to 1, total 21, not bust")
	}
	if !engine.IsBust([]engine.Card{card(engine.RankKing), card(engine.RankQueen), card(engine.RankFive)}) {
		t.Error("25 should be bust")
	}
}

func TestCanSplit(t *testing.T) {
	if !engine.CanSplit(card(engine.RankKing), engine.Card{Rank: engine.RankKing, Suit: engine.SuitHearts}) {
		t.Error("two kings should split")
	}
	if !engine.CanSplit(card(engine.RankTen), engine.Card{Rank: engine.RankTen, Suit: engine.SuitClubs}) {
		t.Error("two tens should split")
	}
	if engine.CanSplit(card(engine.RankJack), card(engine.RankQueen)) {
		t.Error("jack-queen must not split under rank equality")
	}
	if engine.CanSplit(card(engine.RankKing), card(engine.RankTen)) {
		t.Error("king-ten must not split under rank equality")
	}
}
