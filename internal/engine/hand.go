package engine

// HandTotal computes the best blackjack total for cards. Each ace starts
// at 11 and is demoted to 1, one at a time, while the total exceeds 21.
// soft is true when at least one ace is still counted as 11.
func HandTotal(cards []Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		total += c.Value()
		if c.Rank == RankAce {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// IsBlackjack reports a natural: exactly two cards totalling 21. A 21 made
// of three or more cards is a plain 21; two-card 21s after a split are
// excluded by the caller via PlayerHand.IsSplit.
func IsBlackjack(cards []Card) bool {
	if len(cards) != 2 {
		return false
	}
	total, _ := HandTotal(cards)
	return total == 21
}

// IsBust reports whether the hard total (all aces as 1) exceeds 21.
func IsBust(cards []Card) bool {
	total, _ := HandTotal(cards)
	return total > 21
}

// CanSplit reports whether two cards form a splittable pair. The policy is
// rank equality: two kings split, king-queen does not.
func CanSplit(a, b Card) bool {
	return a.Rank == b.Rank
}
