package ports

import (
	"context"
	"time"
)

// KVStore defines the interface for the key-value backend holding
// session records. Keys and values are plain strings; the registry owns
// key derivation and JSON encoding.
//
// Implementations establish their backend connection lazily on first
// use and reuse one logical connection per process. Backend I/O errors
// propagate to the caller unmodified: no retry, no backoff.
type KVStore interface {
	// Set writes a value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get reads the value under key. The second return distinguishes an
	// absent key (false) from a present empty string (true).
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable. Diagnostic only; no
	// operation blocks on it.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
