package ratelimit

import (
	"context"
	"maps"
	"sync"
)

// NewMemoryStore returns a Store backed by an in-memory map. Suited to
// tests and single-process deployments that can afford to forget counters
// on restart.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// MemoryStore implements Store with a mutex-guarded map.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// Update runs fn against a copy of the record set and commits it back,
// all under the store lock.
func (s *MemoryStore) Update(_ context.Context, fn func(records map[string]Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := maps.Clone(s.records)
	if err := fn(working); err != nil {
		return err
	}
	s.records = working
	return nil
}

// Len reports the number of tracked identities. Useful for tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
