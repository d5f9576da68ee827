package memory

import (
	"context"
	"sync"
	"time"
)

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

// SessionStore is the in-process fallback for dev and tests. It mirrors the
// Redis store's semantics but is not shared across instances.
type SessionStore struct {
	mu sync.RWMutex
	// token -> entry
	tokenToEntry map[string]tokenEntry
	// userID -> set(token)
	userTokens map[string]map[string]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokenToEntry: make(map[string]tokenEntry),
		userTokens:   make(map[string]map[string]struct{}),
	}
}

func (s *SessionStore) Add(ctx context.Context, userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokenToEntry[token] = tokenEntry{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	if s.userTokens[userID] == nil {
		s.userTokens[userID] = make(map[string]struct{})
	}
	s.userTokens[userID][token] = struct{}{}
	return nil
}

func (s *SessionStore) Contains(ctx context.Context, userID, token string) (bool, error) {
	s.mu.RLock()
	entry, ok := s.tokenToEntry[token]
	s.mu.RUnlock()

	if !ok || entry.userID != userID {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		_ = s.Remove(ctx, token)
		return false, nil
	}
	return true, nil
}

func (s *SessionStore) Remove(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokenToEntry[token]
	if !ok {
		return nil // idempotent
	}
	delete(s.tokenToEntry, token)
	if set := s.userTokens[entry.userID]; set != nil {
		delete(set, token)
		if len(set) == 0 {
			delete(s.userTokens, entry.userID)
		}
	}
	return nil
}

func (s *SessionStore) RemoveAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tok := range s.userTokens[userID] {
		delete(s.tokenToEntry, tok)
	}
	delete(s.userTokens, userID)
	return nil
}
