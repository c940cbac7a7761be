package engine

// Rank is the printed rank of a card. Ten, jack, queen and king all count
// as 10 toward a hand total but remain distinct ranks for split purposes.
type Rank string

const (
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
)

type Suit string

const (
	SuitSpades   Suit = "S"
	SuitHearts   Suit = "H"
	SuitDiamonds Suit = "D"
	SuitClubs    Suit = "C"
)

var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// Value returns the card's base value with aces counted as 11. Ace
// demotion to 1 is handled by HandTotal.
func (c Card) Value() int {
	switch c.Rank {
	case RankAce:
		return 11
	case RankTen, RankJack, RankQueen, RankKing:
		return 10
	case RankTwo:
		return 2
	case RankThree:
		return 3
	case RankFour:
		return 4
	case RankFive:
		return 5
	case RankSix:
		return 6
	case RankSeven:
		return 7
	case RankEight:
		return 8
	case RankNine:
		return 9
	default:
		return 0
	}
}

// NewDeck returns the 52 cards of a single deck in canonical order.
func NewDeck() []Card {
	deck := make([]Card, 0, len(Ranks)*len(Suits))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}
