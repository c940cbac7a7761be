package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
)

// ErrShoeExhausted is returned when a draw asks for more cards than the
// shoe holds. Callers reshuffle at round start instead of relying on this.
var ErrShoeExhausted = errors.New("shoe exhausted")

// Shoe holds the remaining cards of a betting cycle, front of the slice
// drawn first. Drawn + len(Cards) always equals NumDecks * 52.
type Shoe struct {
	Cards    []Card `json:"cards"`
	Drawn    int    `json:"drawn"`
	NumDecks int    `json:"num_decks"`
}

// NewShoe builds an unshuffled shoe of numDecks full decks.
func NewShoe(numDecks int) *Shoe {
	if numDecks < 1 {
		numDecks = 1
	}
	cards := make([]Card, 0, numDecks*52)
	for i := 0; i < numDecks; i++ {
		cards = append(cards, NewDeck()...)
	}
	return &Shoe{Cards: cards, NumDecks: numDecks}
}

// NewRNG returns a rand source seeded from crypto/rand. Shuffle quality is
// a fairness policy choice; tests pass a fixed-seed source instead.
func NewRNG() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unreachable; fall back to
		// the package-level source rather than aborting a shuffle.
		return rand.New(rand.NewSource(rand.Int63()))
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	return rand.New(rand.NewSource(seed))
}

// Shuffle applies a Fisher-Yates permutation to the remaining cards.
func (s *Shoe) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(s.Cards), func(i, j int) {
		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	})
}

// Draw removes and returns the next n cards in order.
func (s *Shoe) Draw(n int) ([]Card, error) {
	if n < 0 || n > len(s.Cards) {
		return nil, ErrShoeExhausted
	}
	drawn := make([]Card, n)
	copy(drawn, s.Cards[:n])
	s.Cards = s.Cards[n:]
	s.Drawn += n
	return drawn, nil
}

// DrawOne removes and returns the next card.
func (s *Shoe) DrawOne() (Card, error) {
	cards, err := s.Draw(1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

func (s *Shoe) Remaining() int {
	return len(s.Cards)
}

func (s *Shoe) Size() int {
	return s.NumDecks * 52
}

// ShouldReshuffle reports whether the remaining fraction of the shoe has
// dropped below threshold. Checked only at the start of a round, never
// while hands are open.
func (s *Shoe) ShouldReshuffle(threshold float64) bool {
	if s.Size() == 0 {
		return true
	}
	return float64(s.Remaining())/float64(s.Size()) < threshold
}
