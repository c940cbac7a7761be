package engine_test

import (
	"math/rand"
	"testing"

	"blackjack-table-backend/internal/engine"
)

func TestNewShoeComposition(t *testing.T) {
	shoe := engine.NewShoe(2)

	if shoe.Remaining() != 104 {
		t.Fatalf("expected 104 cards, got %d", shoe.Remaining())
	}
	if shoe.Size() != 104 {
		t.Fatalf("expected size 104, got %d", shoe.Size())
	}

	counts := make(map[engine.Rank]int)
	for _, c := range shoe.Cards {
		counts[c.Rank]++
	}
	for _, rank := range engine.Ranks {
		if counts[rank] != 8 {
			t.Errorf("rank %s: expected 8 cards in two decks, got %d", rank, counts[rank])
		}
	}
}

func TestShoeDrawConservation(t *testing.T) {
	shoe := engine.NewShoe(1)
	shoe.Shuffle(rand.New(rand.NewSource(1)))

	drawn, err := shoe.Draw(10)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if len(drawn) != 10 {
		t.Fatalf("expected 10 cards, got %d", len(drawn))
	}
	if shoe.Drawn+shoe.Remaining() != shoe.Size() {
		t.Errorf("drawn %d + remaining %d != size %d", shoe.Drawn, shoe.Remaining(), shoe.Size())
	}
}

func TestShoeExhausted(t *testing.T) {
	shoe := engine.NewShoe(1)
	if _, err := shoe.Draw(53); err != engine.ErrShoeExhausted {
		t.Errorf("expected ErrShoeExhausted, got %v", err)
	}
	// A failed draw must not consume cards.
	if shoe.Remaining() != 52 {
		t.Errorf("failed draw consumed cards: %d remaining", shoe.Remaining())
	}
}

func TestShufflePreservesCards(t *testing.T) {
	shoe := engine.NewShoe(1)
	before := make(map[engine.Card]int)
	for _, c := range shoe.Cards {
		before[c]++
	}

	shoe.Shuffle(rand.New(rand.NewSource(42)))

	after := make(map[engine.Card]int)
	for _, c := range shoe.Cards {
		after[c]++
	}
	if len(after) != len(before) {
		t.Fatalf("shuffle changed distinct card count: %d vs %d", len(after), len(before))
	}
	for card, n := range before {
		if after[card] != n {
			t.Errorf("card %s: count %d before, %d after", card, n, after[card])
		}
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	a := engine.NewShoe(1)
	b := engine.NewShoe(1)
	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))

	for i := range a.Cards {
		if a.Cards[i] != b.Cards[i] {
			t.Fatalf("same seed produced different orders at index %d", i)
		}
	}
}

func TestShouldReshuffle(t *testing.T) {
	shoe := engine.NewShoe(1)
	if shoe.ShouldReshuffle(0.25) {
		t.Error("full shoe should not need a reshuffle")
	}

	if _, err := shoe.Draw(40); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	// 12 of 52 remaining, about 23%.
	if !shoe.ShouldReshuffle(0.25) {
		t.Error("depleted shoe should need a reshuffle")
	}
	if shoe.ShouldReshuffle(0.10) {
		t.Error("23%% remaining is above a 10%% threshold")
	}
}
