package models_test

import (
	"encoding/json"
	"testing"

	"blackjack-table-backend/internal/engine"
	"blackjack-table-backend/internal/models"
)

func TestNewSession(t *testing.T) {
	rules := engine.DefaultRules()
	session := models.NewSession("player-1", rules, 100000)

	if session.SessionID == "" {
		t.Error("session should have an ID")
	}
	if session.SchemaVersion != models.SessionSchemaVersion {
		t.Errorf("expected schema version %d, got %d", models.SessionSchemaVersion, session.SchemaVersion)
	}
	if session.Shoe.Remaining() != rules.NumDecks*52 {
		t.Errorf("fresh shoe should hold %d cards, got %d", rules.NumDecks*52, session.Shoe.Remaining())
	}
	if session.RoundState != nil {
		t.Error("fresh session has no round")
	}
	if session.BankrollCents != 100000 {
		t.Errorf("expected bankroll 100000, got %d", session.BankrollCents)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	session := models.NewSession("player-1", engine.DefaultRules(), 100000)

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var loaded models.Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if loaded.SessionID != session.SessionID {
		t.Errorf("session ID changed across the codec: %s vs %s", loaded.SessionID, session.SessionID)
	}
	if loaded.Shoe.Remaining() != session.Shoe.Remaining() {
		t.Errorf("shoe size changed across the codec: %d vs %d", loaded.Shoe.Remaining(), session.Shoe.Remaining())
	}
}

func TestPlayerRecordFormatting(t *testing.T) {
	p := &models.PlayerRecord{ID: "abcd1234efgh5678", HandsPlayed: 10, HandsWon: 4}
	if p.WinRate() != "40.0%" {
		t.Errorf("expected win rate 40.0%%, got %s", p.WinRate())
	}
	if p.AnonymousName() != "Player #5678" {
		t.Errorf("unexpected anonymous name %s", p.AnonymousName())
	}

	named := &models.PlayerRecord{ID: "x", DisplayName: "Ace"}
	if named.AnonymousName() != "Ace" {
		t.Errorf("display name should win, got %s", named.AnonymousName())
	}

	fresh := &models.PlayerRecord{ID: "x"}
	if fresh.WinRate() != "0.0%" {
		t.Errorf("zero hands should format as 0.0%%, got %s", fresh.WinRate())
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := models.FormatCurrency(12345); got != "$123.45" {
		t.Errorf("expected $123.45, got %s", got)
	}
}
