package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a session lock.
type UnlockFunc func(ctx context.Context) error

// SessionLocker serializes read-modify-write sequences on a single
// session key. Without it, concurrent updates to the same session can
// lose appends (both read the same prior record and the second write
// wins). The registry uses a locker only when one is configured.
type SessionLocker interface {
	// Lock blocks until the lock for key is acquired, the context is
	// canceled, or the TTL expires (implementation specific). The
	// returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
