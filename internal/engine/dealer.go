package engine

// PlayDealerHand draws cards for the dealer until the stand rule is met:
// hard 17 or better, soft 17 when the table stands on soft 17, or bust.
// Hole reveal and settlement are the round state machine's job; this only
// extends the card sequence via draw.
func PlayDealerHand(cards []Card, rules Rules, draw func() (Card, error)) ([]Card, error) {
	out := make([]Card, len(cards))
	copy(out, cards)

	for {
		total, soft := HandTotal(out)
		if total > 21 {
			return out, nil
		}
		if total > 17 {
			return out, nil
		}
		if total == 17 {
			if !soft || rules.DealerStandsOnSoft17 {
				return out, nil
			}
		}
		card, err := draw()
		if err != nil {
			return out, err
		}
		out = append(out, card)
	}
}
