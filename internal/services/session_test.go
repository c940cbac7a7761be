package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"blackjack-table-backend/internal/config"
	"blackjack-table-backend/internal/engine"
	"blackjack-table-backend/internal/models"
	"blackjack-table-backend/internal/services"
)

func TestMemorySessionStore(t *testing.T) {
	store := services.NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, services.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	session := models.NewSession("p1", engine.DefaultRules(), 100000)
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SessionID != session.SessionID {
		t.Errorf("expected session %s, got %s", session.SessionID, loaded.SessionID)
	}

	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "p1"); !errors.Is(err, services.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemorySessionStoreCopies(t *testing.T) {
	store := services.NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := models.NewSession("p1", engine.DefaultRules(), 100000)
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	// Mutating what the caller kept must not leak into the store.
	session.BankrollCents = 1

	loaded, err := store.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.BankrollCents != 100000 {
		t.Errorf("saved snapshot changed through the caller's pointer: %d", loaded.BankrollCents)
	}

	// Nor mutating what Load handed back.
	loaded.BankrollCents = 2
	loaded.Shoe.Cards = loaded.Shoe.Cards[:10]

	again, err := store.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if again.BankrollCents != 100000 {
		t.Errorf("stored snapshot changed through a loaded copy: %d", again.BankrollCents)
	}
	if again.Shoe.Remaining() != session.Shoe.Remaining() {
		t.Errorf("stored shoe changed through a loaded copy: %d cards", again.Shoe.Remaining())
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := services.NewMemorySessionStore(20 * time.Millisecond)
	ctx := context.Background()

	session := models.NewSession("p1", engine.DefaultRules(), 100000)
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "p1"); err != nil {
		t.Fatalf("fresh session should load: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := store.Load(ctx, "p1"); !errors.Is(err, services.ErrSessionNotFound) {
		t.Errorf("expected idle session to read as absent, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired load should evict, store has %d", store.Len())
	}
}

func TestMemorySessionStoreSweep(t *testing.T) {
	store := services.NewMemorySessionStore(20 * time.Millisecond)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := store.Save(ctx, models.NewSession(id, engine.DefaultRules(), 100000)); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(50 * time.Millisecond)
	if err := store.Save(ctx, models.NewSession("c", engine.DefaultRules(), 100000)); err != nil {
		t.Fatal(err)
	}

	if removed := store.Sweep(); removed != 2 {
		t.Errorf("expected 2 sessions swept, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session left, got %d", store.Len())
	}
	if _, err := store.Load(ctx, "c"); err != nil {
		t.Errorf("fresh session should survive the sweep: %v", err)
	}
}

func TestMemorySessionStoreSchemaVersion(t *testing.T) {
	store := services.NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := models.NewSession("p1", engine.DefaultRules(), 100000)
	session.SchemaVersion = 0
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(ctx, "p1"); !errors.Is(err, services.ErrSessionNotFound) {
		t.Errorf("a foreign schema version must read as an absent session, got %v", err)
	}
}

func TestRedisSessionStore(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:  "localhost:6379",
		SessionTTL: time.Minute,
	}

	store, err := services.NewRedisSessionStore(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	playerID := "test_player_sessions"
	defer store.Delete(ctx, playerID)

	if _, err := store.Load(ctx, playerID); !errors.Is(err, services.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	session := models.NewSession(playerID, engine.DefaultRules(), 100000)
	session.BankrollCents = 98765
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, playerID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.BankrollCents != 98765 {
		t.Errorf("expected bankroll 98765, got %d", loaded.BankrollCents)
	}
	if loaded.Shoe.Remaining() != session.Shoe.Remaining() {
		t.Errorf("shoe should round-trip intact: %d vs %d", loaded.Shoe.Remaining(), session.Shoe.Remaining())
	}
}
