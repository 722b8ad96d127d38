package csrf

import (
	"context"
	"sync"
)

// NewInMemorySessionStore returns a SessionStore backed by an in-memory map.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{tokens: make(map[string]string)}
}

// InMemorySessionStore implements SessionStore for tests and single-process
// deployments.
type InMemorySessionStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// Get returns the live token for the session.
func (s *InMemorySessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	token, ok := s.tokens[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNoToken
	}
	return token, nil
}

// Set stores the session's token, replacing any previous one.
func (s *InMemorySessionStore) Set(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	s.tokens[sessionID] = token
	s.mu.Unlock()
	return nil
}

// Delete removes the session's token.
func (s *InMemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.tokens, sessionID)
	s.mu.Unlock()
	return nil
}
