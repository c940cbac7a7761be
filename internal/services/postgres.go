package services

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blackjack-table-backend/internal/engine"
	"blackjack-table-backend/internal/models"
)

//go:embed schema.sql
var schema embed.FS

const (
	maxHistoryPerPlayer = 50
	leaderboardLimit    = 50
	minHandsForWinRate  = 10
)

// PostgresLedger is the pgx-backed PlayerLedger.
type PostgresLedger struct {
	pool                 *pgxpool.Pool
	defaultBankrollCents int64
}

func NewPostgresLedger(ctx context.Context, dsn string, defaultBankrollCents int64) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	ledger := &PostgresLedger{pool: pool, defaultBankrollCents: defaultBankrollCents}
	if err := ledger.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return ledger, nil
}

func (l *PostgresLedger) migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := l.pool.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Close() {
	l.pool.Close()
}

func (l *PostgresLedger) GetOrCreatePlayer(ctx context.Context, playerID string) (*models.PlayerRecord, error) {
	var p models.PlayerRecord
	err := l.pool.QueryRow(ctx, `
        INSERT INTO players (id, bankroll_cents)
        VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET updated_at = now()
        RETURNING id, COALESCE(display_name, ''), bankroll_cents,
                  hands_played, hands_won, total_wagered, biggest_win,
                  created_at, updated_at
    `, playerID, l.defaultBankrollCents).Scan(
		&p.ID, &p.DisplayName, &p.BankrollCents,
		&p.HandsPlayed, &p.HandsWon, &p.TotalWageredCents, &p.BiggestWinCents,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}
	return &p, nil
}

func (l *PostgresLedger) SaveBankroll(ctx context.Context, playerID string, bankrollCents int64) error {
	_, err := l.pool.Exec(ctx, `
        UPDATE players SET bankroll_cents = $2, updated_at = now() WHERE id = $1
    `, playerID, bankrollCents)
	return err
}

func (l *PostgresLedger) ResetPlayer(ctx context.Context, playerID string, bankrollCents int64) error {
	_, err := l.pool.Exec(ctx, `
        UPDATE players SET bankroll_cents = $2, updated_at = now() WHERE id = $1
    `, playerID, bankrollCents)
	return err
}

func (l *PostgresLedger) RecordHand(ctx context.Context, hand models.HandRecord) error {
	playerCards, err := json.Marshal(hand.PlayerCards)
	if err != nil {
		return err
	}
	dealerCards, err := json.Marshal(hand.DealerCards)
	if err != nil {
		return err
	}

	_, err = l.pool.Exec(ctx, `
        INSERT INTO hand_history (player_id, bet_cents, net_result_cents, result,
                                  player_cards, dealer_cards, player_total, dealer_total,
                                  was_blackjack, was_double, was_split)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `, hand.PlayerID, hand.BetCents, hand.NetResultCents, string(hand.Result),
		playerCards, dealerCards, hand.PlayerTotal, hand.DealerTotal,
		hand.WasBlackjack, hand.WasDouble, hand.WasSplit)
	if err != nil {
		return fmt.Errorf("failed to record hand: %w", err)
	}

	// Keep only the most recent entries per player.
	_, err = l.pool.Exec(ctx, `
        DELETE FROM hand_history
        WHERE player_id = $1
          AND id NOT IN (
            SELECT id FROM hand_history
            WHERE player_id = $1
            ORDER BY created_at DESC
            LIMIT $2
          )
    `, hand.PlayerID, maxHistoryPerPlayer)
	return err
}

func (l *PostgresLedger) UpdateStats(ctx context.Context, playerID string, betCents, netResultCents int64, isWin bool) error {
	won := 0
	if isWin {
		won = 1
	}
	_, err := l.pool.Exec(ctx, `
        UPDATE players
           SET hands_played = hands_played + 1,
               hands_won = hands_won + $2,
               total_wagered = total_wagered + $3,
               biggest_win = GREATEST(biggest_win, $4),
               updated_at = now()
         WHERE id = $1
    `, playerID, won, betCents, max(netResultCents, int64(0)))
	return err
}

func (l *PostgresLedger) PlayerStats(ctx context.Context, playerID string) (*models.PlayerRecord, error) {
	var p models.PlayerRecord
	err := l.pool.QueryRow(ctx, `
        SELECT id, COALESCE(display_name, ''), bankroll_cents,
               hands_played, hands_won, total_wagered, biggest_win,
               created_at, updated_at
          FROM players WHERE id = $1
    `, playerID).Scan(
		&p.ID, &p.DisplayName, &p.BankrollCents,
		&p.HandsPlayed, &p.HandsWon, &p.TotalWageredCents, &p.BiggestWinCents,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player stats: %w", err)
	}
	return &p, nil
}

func (l *PostgresLedger) HandHistory(ctx context.Context, playerID string, limit int) ([]models.HandRecord, error) {
	if limit <= 0 || limit > maxHistoryPerPlayer {
		limit = 20
	}

	rows, err := l.pool.Query(ctx, `
        SELECT id, player_id, bet_cents, net_result_cents, result,
               player_cards, dealer_cards, player_total, dealer_total,
               was_blackjack, was_double, was_split, created_at
          FROM hand_history
         WHERE player_id = $1
         ORDER BY created_at DESC
         LIMIT $2
    `, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load hand history: %w", err)
	}
	defer rows.Close()

	var history []models.HandRecord
	for rows.Next() {
		var h models.HandRecord
		var result string
		var playerCards, dealerCards []byte
		if err := rows.Scan(&h.ID, &h.PlayerID, &h.BetCents, &h.NetResultCents, &result,
			&playerCards, &dealerCards, &h.PlayerTotal, &h.DealerTotal,
			&h.WasBlackjack, &h.WasDouble, &h.WasSplit, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Result = engine.Result(result)
		if err := json.Unmarshal(playerCards, &h.PlayerCards); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dealerCards, &h.DealerCards); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (l *PostgresLedger) Leaderboard(ctx context.Context, category models.LeaderboardCategory) ([]models.LeaderboardEntry, error) {
	switch category {
	case models.LeaderboardBiggestWin:
		return l.simpleLeaderboard(ctx, "biggest_win", func(v int64) string {
			return models.FormatCurrency(v)
		})
	case models.LeaderboardHandsPlayed:
		return l.simpleLeaderboard(ctx, "hands_played", func(v int64) string {
			return fmt.Sprintf("%d", v)
		})
	case models.LeaderboardTotalWagered:
		return l.simpleLeaderboard(ctx, "total_wagered", func(v int64) string {
			return models.FormatCurrency(v)
		})
	case models.LeaderboardWinRate:
		return l.winRateLeaderboard(ctx)
	default:
		return nil, fmt.Errorf("unknown leaderboard category: %s", category)
	}
}

func (l *PostgresLedger) simpleLeaderboard(ctx context.Context, column string, format func(int64) string) ([]models.LeaderboardEntry, error) {
	// column comes from the fixed switch above, never from callers.
	rows, err := l.pool.Query(ctx, fmt.Sprintf(`
        SELECT id, COALESCE(display_name, ''), %s, hands_played
          FROM players
         WHERE %s > 0
         ORDER BY %s DESC
         LIMIT $1
    `, column, column, column), leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var p models.PlayerRecord
		var value int64
		if err := rows.Scan(&p.ID, &p.DisplayName, &value, &p.HandsPlayed); err != nil {
			return nil, err
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:           len(entries) + 1,
			PlayerID:       p.ID,
			DisplayName:    p.AnonymousName(),
			Value:          float64(value),
			FormattedValue: format(value),
			HandsPlayed:    p.HandsPlayed,
		})
	}
	return entries, rows.Err()
}

func (l *PostgresLedger) winRateLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	rows, err := l.pool.Query(ctx, `
        SELECT id, COALESCE(display_name, ''), hands_played, hands_won
          FROM players
         WHERE hands_played >= $1
    `, minHandsForWinRate)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var p models.PlayerRecord
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.HandsPlayed, &p.HandsWon); err != nil {
			return nil, err
		}
		rate := float64(p.HandsWon) / float64(p.HandsPlayed) * 100
		entries = append(entries, models.LeaderboardEntry{
			PlayerID:       p.ID,
			DisplayName:    p.AnonymousName(),
			Value:          rate,
			FormattedValue: fmt.Sprintf("%.1f%%", rate),
			HandsPlayed:    p.HandsPlayed,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	if len(entries) > leaderboardLimit {
		entries = entries[:leaderboardLimit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
