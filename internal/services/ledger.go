package services

import (
	"context"

	"blackjack-table-backend/internal/models"
)

// PlayerLedger is the durable side of the game: bankroll of record,
// per-hand history and aggregate stats. The round engine calls RecordHand
// and UpdateStats once per settled hand (surrender included) and never
// retries them itself; failures are the persister's problem.
type PlayerLedger interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*models.PlayerRecord, error)
	SaveBankroll(ctx context.Context, playerID string, bankrollCents int64) error
	ResetPlayer(ctx context.Context, playerID string, bankrollCents int64) error
	RecordHand(ctx context.Context, hand models.HandRecord) error
	UpdateStats(ctx context.Context, playerID string, betCents, netResultCents int64, isWin bool) error
	PlayerStats(ctx context.Context, playerID string) (*models.PlayerRecord, error)
	HandHistory(ctx context.Context, playerID string, limit int) ([]models.HandRecord, error)
	Leaderboard(ctx context.Context, category models.LeaderboardCategory) ([]models.LeaderboardEntry, error)
}

// noopLedger is used when no database is configured: the in-memory
// session bankroll is the only record, stats and history are empty.
type noopLedger struct {
	defaultBankrollCents int64
}

func NewNoopLedger(defaultBankrollCents int64) PlayerLedger {
	return &noopLedger{defaultBankrollCents: defaultBankrollCents}
}

func (l *noopLedger) GetOrCreatePlayer(ctx context.Context, playerID string) (*models.PlayerRecord, error) {
	return &models.PlayerRecord{ID: playerID, BankrollCents: l.defaultBankrollCents}, nil
}

func (l *noopLedger) SaveBankroll(ctx context.Context, playerID string, bankrollCents int64) error {
	return nil
}

func (l *noopLedger) ResetPlayer(ctx context.Context, playerID string, bankrollCents int64) error {
	return nil
}

func (l *noopLedger) RecordHand(ctx context.Context, hand models.HandRecord) error {
	return nil
}

func (l *noopLedger) UpdateStats(ctx context.Context, playerID string, betCents, netResultCents int64, isWin bool) error {
	return nil
}

func (l *noopLedger) PlayerStats(ctx context.Context, playerID string) (*models.PlayerRecord, error) {
	return nil, nil
}

func (l *noopLedger) HandHistory(ctx context.Context, playerID string, limit int) ([]models.HandRecord, error) {
	return nil, nil
}

func (l *noopLedger) Leaderboard(ctx context.Context, category models.LeaderboardCategory) ([]models.LeaderboardEntry, error) {
	return nil, nil
}
