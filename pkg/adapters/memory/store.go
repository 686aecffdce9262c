package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    string
	expireAt time.Time
}

// Store implements ports.KVStore in memory.
// Safe for concurrent use. Intended for tests and the dev store mode;
// nothing survives a restart.
type Store struct {
	data map[string]entry
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]entry),
	}
}

// Set stores value under key. A zero ttl means no expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return nil
}

// Get retrieves the value under key, lazily dropping expired entries.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !e.expireAt.IsZero() && time.Now().After(e.expireAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
