package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"blackjack-table-backend/internal/models"
)

// SessionStore is the repository boundary for game sessions, keyed by
// player. Implementations must be internally consistent regardless of
// backing store; the engine serializes access per player on top.
// Sessions cross the boundary by value: a caller may render or mutate
// what Load or Save handed back without racing another request.
type SessionStore interface {
	Load(ctx context.Context, playerID string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, playerID string) error
}

// MemorySessionStore keeps sessions in-process. Used when Redis is not
// configured, and by tests. Snapshots are deep-copied through JSON on
// both Load and Save, the same round-trip the Redis store gets for free,
// so no live pointers are shared between requests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

func cloneSession(session *models.Session) (*models.Session, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to copy session: %w", err)
	}
	var out models.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to copy session: %w", err)
	}
	return &out, nil
}

func (s *MemorySessionStore) Load(ctx context.Context, playerID string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[playerID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && time.Since(session.UpdatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.sessions, playerID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.SchemaVersion != models.SessionSchemaVersion {
		return nil, ErrSessionNotFound
	}
	return cloneSession(session)
}

func (s *MemorySessionStore) Save(ctx context.Context, session *models.Session) error {
	session.Touch()

	stored, err := cloneSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[session.PlayerID] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, playerID string) error {
	s.mu.Lock()
	delete(s.sessions, playerID)
	s.mu.Unlock()
	return nil
}

// Sweep drops sessions idle past the TTL and returns how many it removed.
func (s *MemorySessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := time.Now()
	for playerID, session := range s.sessions {
		if now.Sub(session.UpdatedAt) > s.ttl {
			delete(s.sessions, playerID)
			removed++
		}
	}
	return removed
}

func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
