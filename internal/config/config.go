package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"blackjack-table-backend/internal/engine"
)

// Config carries everything read from the environment at startup. Only
// JWT_SECRET is mandatory; the rest falls back to development defaults.
type Config struct {
	Port string
	Env  string

	RedisAddr string
	RedisPass string
	RedisDB   int

	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	SessionTTL           time.Duration
	DefaultBankrollCents int64

	NumDecks          int
	MinBetCents       int64
	MaxBetCents       int64
	StandOnSoft17     bool
	ReshuffleFraction float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		RedisDB:   int(getEnvInt("REDIS_DB", 0)),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 7*24*time.Hour),

		SessionTTL:           getEnvDuration("SESSION_TTL", time.Hour),
		DefaultBankrollCents: getEnvInt("DEFAULT_BANKROLL_CENTS", 100000),

		NumDecks:          int(getEnvInt("NUM_DECKS", 6)),
		MinBetCents:       getEnvInt("MIN_BET_CENTS", 100),
		MaxBetCents:       getEnvInt("MAX_BET_CENTS", 10000),
		StandOnSoft17:     getEnvBool("DEALER_STANDS_SOFT_17", true),
		ReshuffleFraction: getEnvFloat("RESHUFFLE_FRACTION", 0.25),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MinBetCents <= 0 || cfg.MaxBetCents < cfg.MinBetCents {
		return nil, fmt.Errorf("invalid bet limits: min %d, max %d", cfg.MinBetCents, cfg.MaxBetCents)
	}

	return cfg, nil
}

// Rules materializes the table configuration. Payout ratio, splitting
// and surrender rules are fixed; deck count, limits and dealer soft-17
// behavior come from the environment.
func (c *Config) Rules() engine.Rules {
	rules := engine.DefaultRules()
	rules.NumDecks = c.NumDecks
	rules.MinBetCents = c.MinBetCents
	rules.MaxBetCents = c.MaxBetCents
	rules.DealerStandsOnSoft17 = c.StandOnSoft17
	rules.ReshuffleFraction = c.ReshuffleFraction
	return rules
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
