package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.KVStore using Redis.
//
// The underlying go-redis client connects lazily on the first command
// and multiplexes requests over one logical connection, so the store
// carries no connection state of its own. Backend errors are returned
// to the caller as-is: a transient Redis failure surfaces immediately
// instead of being retried or masked.
type Store struct {
	client *backend.Client
}

// New creates a Redis store from a URL-style endpoint, e.g.
// "redis://localhost:6379/0".
func New(url string) (*Store, error) {
	opts, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &Store{client: backend.NewClient(opts)}, nil
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client) *Store {
	return &Store{client: client}
}

// Set writes value under key. A zero ttl stores without expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get reads the value under key. redis.Nil maps to (found=false, nil):
// an absent key is a normal outcome, not an error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == backend.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Delete removes key. Redis DEL on a missing key is a no-op, which
// gives Delete its idempotence.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Ping checks backend reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
