package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"blackjack-table-backend/internal/config"
	"blackjack-table-backend/internal/models"
)

// RedisSessionStore persists session snapshots as JSON blobs with a TTL,
// so idle sessions expire server-side without a sweeper.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(cfg *config.Config) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSessionStore{
		client: client,
		ttl:    cfg.SessionTTL,
	}, nil
}

func (s *RedisSessionStore) Load(ctx context.Context, playerID string) (*models.Session, error) {
	key := fmt.Sprintf(KeyPlayerSession, playerID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// An old snapshot layout is treated as no session at all; a fresh one
	// is created with the bankroll re-sourced from the ledger.
	if session.SchemaVersion != models.SessionSchemaVersion {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session) error {
	session.Touch()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := fmt.Sprintf(KeyPlayerSession, session.PlayerID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, playerID string) error {
	key := fmt.Sprintf(KeyPlayerSession, playerID)
	return s.client.Del(ctx, key).Err()
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
