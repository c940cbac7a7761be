package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"blackjack-table-backend/internal/engine"
	"blackjack-table-backend/internal/models"
)

// GameEngine drives rounds through deal, player actions, dealer play and
// settlement, mutating one session at a time. Access is serialized per
// player; different players run in parallel.
type GameEngine struct {
	store                SessionStore
	ledger               PlayerLedger
	persister            *Persister
	rules                engine.Rules
	defaultBankrollCents int64
	broadcaster          Broadcaster
	locks                sync.Map // playerID -> *sync.Mutex
}

func NewGameEngine(store SessionStore, ledger PlayerLedger, persister *Persister, rules engine.Rules, defaultBankrollCents int64) *GameEngine {
	return &GameEngine{
		store:                store,
		ledger:               ledger,
		persister:            persister,
		rules:                rules,
		defaultBankrollCents: defaultBankrollCents,
	}
}

// SetBroadcaster attaches a live-update sink. Optional; updates are
// best-effort.
func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	ge.broadcaster = b
}

func (ge *GameEngine) lockFor(playerID string) *sync.Mutex {
	mu, _ := ge.locks.LoadOrStore(playerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Session returns the player's session, creating one transparently when
// none exists. The bankroll of a fresh session comes from the ledger.
func (ge *GameEngine) Session(ctx context.Context, playerID string) (*models.Session, error) {
	mu := ge.lockFor(playerID)
	mu.Lock()
	defer mu.Unlock()

	return ge.getOrCreateSession(ctx, playerID)
}

func (ge *GameEngine) getOrCreateSession(ctx context.Context, playerID string) (*models.Session, error) {
	session, err := ge.store.Load(ctx, playerID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	bankroll := ge.defaultBankrollCents
	if player, err := ge.ledger.GetOrCreatePlayer(ctx, playerID); err != nil {
		log.Printf("failed to load player %s from ledger: %v", playerID, err)
	} else {
		bankroll = player.BankrollCents
	}

	session = models.NewSession(playerID, ge.rules, bankroll)
	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Deal starts a new round: validates the bet, reshuffles the shoe when
// depleted, draws player, dealer, player, dealer (hole), and escrows the
// bet. A player blackjack skips straight to dealer-turn finalization.
func (ge *GameEngine) Deal(ctx context.Context, playerID string, betCents int64) (*models.Session, error) {
	mu := ge.lockFor(playerID)
	mu.Lock()
	defer mu.Unlock()

	session, err := ge.getOrCreateSession(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if session.RoundState != nil && session.RoundState.Phase != engine.PhaseSettlement {
		return nil, fmt.Errorf("%w: round in progress", ErrWrongPhase)
	}

	rules := session.Rules
	if betCents < rules.MinBetCents || betCents > rules.MaxBetCents {
		return nil, fmt.Errorf("%w: bet must be between %d and %d cents", ErrInvalidBet, rules.MinBetCents, rules.MaxBetCents)
	}
	if betCents > session.BankrollCents {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBankroll, session.BankrollCents, betCents)
	}

	// Reshuffle only between rounds, never while hands are open.
	if session.Shoe.ShouldReshuffle(rules.ReshuffleFraction) || session.Shoe.Remaining() < 4 {
		shoe := engine.NewShoe(rules.NumDecks)
		shoe.Shuffle(engine.NewRNG())
		session.Shoe = shoe
	}

	drawn, err := session.Shoe.Draw(4)
	if err != nil {
		return nil, err
	}

	playerHand := &engine.PlayerHand{
		Cards:    []engine.Card{drawn[0], drawn[2]},
		BetCents: betCents,
		Status:   engine.HandActive,
	}
	playerHand.Recalculate()

	session.BankrollCents -= betCents

	roundState := &engine.RoundState{
		Phase:           engine.PhasePlayerTurn,
		PlayerHands:     []*engine.PlayerHand{playerHand},
		ActiveHandIndex: 0,
		Dealer: engine.DealerHand{
			Cards: []engine.Card{drawn[1], drawn[3]},
		},
		BaseBetCents: betCents,
	}
	session.RoundState = roundState

	if engine.IsBlackjack(playerHand.Cards) {
		playerHand.Status = engine.HandBlackjack
		roundState.Phase = engine.PhaseDealerTurn
		return ge.finalizeDealerTurn(ctx, session)
	}

	roundState.LegalActions = engine.LegalActions(playerHand, rules, true, 1, session.BankrollCents)

	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}
	ge.notify(session)

	return session, nil
}

// ApplyAction applies one player move to the active hand. Every failure
// is detected before any mutation, so a rejected action leaves the round
// exactly as it was.
func (ge *GameEngine) ApplyAction(ctx context.Context, playerID string, action engine.Action, handIndex int) (*models.Session, error) {
	mu := ge.lockFor(playerID)
	mu.Lock()
	defer mu.Unlock()

	session, err := ge.getOrCreateSession(ctx, playerID)
	if err != nil {
		return nil, err
	}

	roundState := session.RoundState
	if roundState == nil {
		return nil, ErrNoActiveRound
	}
	if roundState.Phase != engine.PhasePlayerTurn {
		return nil, fmt.Errorf("%w: phase is %s", ErrWrongPhase, roundState.Phase)
	}
	if handIndex != roundState.ActiveHandIndex {
		return nil, fmt.Errorf("%w: active hand is %d", ErrWrongHand, roundState.ActiveHandIndex)
	}
	if !engine.ActionLegal(roundState.LegalActions, action) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalAction, action)
	}

	switch action {
	case engine.ActionHit:
		return ge.handleHit(ctx, session, handIndex)
	case engine.ActionStand:
		return ge.handleStand(ctx, session, handIndex)
	case engine.ActionDouble:
		return ge.handleDouble(ctx, session, handIndex)
	case engine.ActionSplit:
		return ge.handleSplit(ctx, session, handIndex)
	case engine.ActionSurrender:
		return ge.handleSurrender(ctx, session, handIndex)
	default:
		return nil, fmt.Errorf("%w: %s", ErrIllegalAction, action)
	}
}

func (ge *GameEngine) handleHit(ctx context.Context, session *models.Session, handIndex int) (*models.Session, error) {
	roundState := session.RoundState
	hand := roundState.PlayerHands[handIndex]

	if session.Shoe.Remaining() < 1 {
		return nil, engine.ErrShoeExhausted
	}

	card, err := session.Shoe.DrawOne()
	if err != nil {
		return nil, err
	}
	hand.Cards = append(hand.Cards, card)
	hand.Recalculate()

	if engine.IsBust(hand.Cards) {
		hand.Status = engine.HandBust
		return ge.advanceToNextHand(ctx, session)
	}

	roundState.LegalActions = engine.LegalActions(hand, session.Rules, false, len(roundState.PlayerHands), session.BankrollCents)

	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}
	ge.notify(session)
	return session, nil
}

func (ge *GameEngine) handleStand(ctx context.Context, session *models.Session, handIndex int) (*models.Session, error) {
	session.RoundState.PlayerHands[handIndex].Status = engine.HandStand
	return ge.advanceToNextHand(ctx, session)
}

func (ge *GameEngine) handleDouble(ctx context.Context, session *models.Session, handIndex int) (*models.Session, error) {
	roundState := session.RoundState
	hand := roundState.PlayerHands[handIndex]

	if session.Shoe.Remaining() < 1 {
		return nil, engine.ErrShoeExhausted
	}

	// Second escrow of the same amount, then exactly one card.
	session.BankrollCents -= hand.BetCents
	hand.BetCents *= 2
	hand.WasDouble = true

	card, err := session.Shoe.DrawOne()
	if err != nil {
		return nil, err
	}
	hand.Cards = append(hand.Cards, card)
	hand.Recalculate()

	if engine.IsBust(hand.Cards) {
		hand.Status = engine.HandBust
	} else {
		hand.Status = engine.HandStand
	}
	return ge.advanceToNextHand(ctx, session)
}

func (ge *GameEngine) handleSplit(ctx context.Context, session *models.Session, handIndex int) (*models.Session, error) {
	roundState := session.RoundState
	hand := roundState.PlayerHands[handIndex]

	if session.Shoe.Remaining() < 2 {
		return nil, engine.ErrShoeExhausted
	}

	session.BankrollCents -= hand.BetCents

	card1, card2 := hand.Cards[0], hand.Cards[1]
	isSplitAces := card1.Rank == engine.RankAce

	drawn, err := session.Shoe.Draw(2)
	if err != nil {
		return nil, err
	}

	hand.Cards = []engine.Card{card1, drawn[0]}
	hand.Recalculate()
	hand.IsSplit = true
	hand.IsSplitAces = isSplitAces

	second := &engine.PlayerHand{
		Cards:       []engine.Card{card2, drawn[1]},
		BetCents:    hand.BetCents,
		Status:      engine.HandActive,
		IsSplit:     true,
		IsSplitAces: isSplitAces,
	}
	second.Recalculate()

	// Split aces take their single card and stand. A two-card 21 after a
	// split is a plain 21, also closed out immediately.
	for _, h := range []*engine.PlayerHand{hand, second} {
		if isSplitAces || h.Total == 21 {
			h.Status = engine.HandStand
		}
	}

	hands := roundState.PlayerHands
	hands = append(hands[:handIndex+1], append([]*engine.PlayerHand{second}, hands[handIndex+1:]...)...)
	roundState.PlayerHands = hands

	if hand.Terminal() {
		return ge.advanceToNextHand(ctx, session)
	}

	roundState.LegalActions = engine.LegalActions(hand, session.Rules, true, len(roundState.PlayerHands), session.BankrollCents)

	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}
	ge.notify(session)
	return session, nil
}

func (ge *GameEngine) handleSurrender(ctx context.Context, session *models.Session, handIndex int) (*models.Session, error) {
	roundState := session.RoundState
	hand := roundState.PlayerHands[handIndex]

	// Half the escrowed bet comes back; the dealer's cards stay hidden
	// and no dealer play occurs.
	refund := hand.BetCents / 2
	net := refund - hand.BetCents
	session.BankrollCents += refund
	hand.Status = engine.HandDone

	roundState.Phase = engine.PhaseSettlement
	roundState.LegalActions = nil
	roundState.Outcome = &engine.Outcome{
		Results: []engine.HandOutcome{{
			HandIndex:      handIndex,
			Result:         engine.ResultSurrender,
			NetPayoutCents: net,
		}},
		NetCents: net,
		Message:  "Surrendered",
	}

	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}

	record := models.HandRecord{
		PlayerID:       session.PlayerID,
		BetCents:       hand.BetCents,
		NetResultCents: net,
		Result:         engine.ResultSurrender,
		PlayerCards:    append([]engine.Card(nil), hand.Cards...),
		DealerCards:    append([]engine.Card(nil), roundState.Dealer.Cards...),
		PlayerTotal:    hand.Total,
	}
	ge.persistSettlement(session.PlayerID, session.BankrollCents, []models.HandRecord{record})

	ge.notify(session)
	return session, nil
}

// advanceToNextHand moves play to the next ACTIVE hand, or to the dealer
// turn once every hand is terminal.
func (ge *GameEngine) advanceToNextHand(ctx context.Context, session *models.Session) (*models.Session, error) {
	roundState := session.RoundState

	for i, hand := range roundState.PlayerHands {
		if hand.Status != engine.HandActive {
			continue
		}
		roundState.ActiveHandIndex = i
		firstAction := len(hand.Cards) == 2
		roundState.LegalActions = engine.LegalActions(hand, session.Rules, firstAction, len(roundState.PlayerHands), session.BankrollCents)

		if err := ge.store.Save(ctx, session); err != nil {
			return nil, err
		}
		ge.notify(session)
		return session, nil
	}

	roundState.Phase = engine.PhaseDealerTurn
	return ge.finalizeDealerTurn(ctx, session)
}

// finalizeDealerTurn reveals the hole card, plays the dealer out unless
// every player hand busted, settles, and reconciles the bankroll: the
// escrowed bets come back alongside the settlement net, each exactly once.
func (ge *GameEngine) finalizeDealerTurn(ctx context.Context, session *models.Session) (*models.Session, error) {
	roundState := session.RoundState
	roundState.Dealer.HoleRevealed = true
	roundState.LegalActions = nil

	allBust := true
	for _, hand := range roundState.PlayerHands {
		if hand.Status != engine.HandBust {
			allBust = false
			break
		}
	}

	if !allBust {
		finalCards, err := engine.PlayDealerHand(roundState.Dealer.Cards, session.Rules, func() (engine.Card, error) {
			return session.Shoe.DrawOne()
		})
		if err != nil && !errors.Is(err, engine.ErrShoeExhausted) {
			return nil, fmt.Errorf("dealer play failed: %w", err)
		}
		if err != nil {
			// A drained shoe ends the dealer's draw; the round settles on
			// the cards already on the table rather than stranding the
			// player in DEALER_TURN. Reachable only under configs that cut
			// the shoe far deeper than the defaults allow.
			log.Printf("shoe exhausted during dealer play for %s", session.PlayerID)
		}
		roundState.Dealer.Cards = finalCards
	}

	dealerTotal, _ := engine.HandTotal(roundState.Dealer.Cards)
	roundState.Dealer.Total = dealerTotal

	outcome := engine.SettleAll(roundState.PlayerHands, roundState.Dealer.Cards, session.Rules)
	roundState.Outcome = &outcome
	roundState.Phase = engine.PhaseSettlement

	totalBet := roundState.TotalBetCents()
	session.BankrollCents += outcome.NetCents + totalBet

	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}

	wasSplit := len(roundState.PlayerHands) > 1
	records := make([]models.HandRecord, 0, len(outcome.Results))
	for _, result := range outcome.Results {
		hand := roundState.PlayerHands[result.HandIndex]
		records = append(records, models.HandRecord{
			PlayerID:       session.PlayerID,
			BetCents:       hand.BetCents,
			NetResultCents: result.NetPayoutCents,
			Result:         result.Result,
			PlayerCards:    append([]engine.Card(nil), hand.Cards...),
			DealerCards:    append([]engine.Card(nil), roundState.Dealer.Cards...),
			PlayerTotal:    hand.Total,
			DealerTotal:    dealerTotal,
			WasBlackjack:   result.Result == engine.ResultBlackjack,
			WasDouble:      hand.WasDouble,
			WasSplit:       wasSplit,
		})
	}
	ge.persistSettlement(session.PlayerID, session.BankrollCents, records)

	ge.notify(session)
	return session, nil
}

// persistSettlement pushes the durable writes for a finished round onto
// the background queue: bankroll of record, one history row and one stats
// bump per hand.
func (ge *GameEngine) persistSettlement(playerID string, bankrollCents int64, records []models.HandRecord) {
	ge.persister.Enqueue("sync bankroll", func(ctx context.Context) error {
		return ge.ledger.SaveBankroll(ctx, playerID, bankrollCents)
	})

	for _, record := range records {
		record := record
		isWin := record.Result == engine.ResultWin || record.Result == engine.ResultBlackjack
		ge.persister.Enqueue("record hand", func(ctx context.Context) error {
			return ge.ledger.RecordHand(ctx, record)
		})
		ge.persister.Enqueue("update stats", func(ctx context.Context) error {
			return ge.ledger.UpdateStats(ctx, record.PlayerID, record.BetCents, record.NetResultCents, isWin)
		})
	}
}

// Reset restores the default bankroll, discards any round and replaces
// the shoe, both in the session and in the durable player row.
func (ge *GameEngine) Reset(ctx context.Context, playerID string) (*models.Session, error) {
	mu := ge.lockFor(playerID)
	mu.Lock()
	defer mu.Unlock()

	session := models.NewSession(playerID, ge.rules, ge.defaultBankrollCents)
	if err := ge.store.Save(ctx, session); err != nil {
		return nil, err
	}

	ge.persister.Enqueue("reset player", func(ctx context.Context) error {
		return ge.ledger.ResetPlayer(ctx, playerID, ge.defaultBankrollCents)
	})

	ge.notify(session)
	return session, nil
}

// CleanupStaleSessions sweeps idle sessions when the backing store keeps
// them in process; TTL-backed stores expire entries on their own.
func (ge *GameEngine) CleanupStaleSessions() int {
	if store, ok := ge.store.(*MemorySessionStore); ok {
		return store.Sweep()
	}
	return 0
}

func (ge *GameEngine) notify(session *models.Session) {
	if ge.broadcaster == nil {
		return
	}
	ge.broadcaster.BroadcastRoundUpdate(session.PlayerID, session.RoundState)
	ge.broadcaster.BroadcastBankroll(session.PlayerID, session.BankrollCents)
}
