package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/ctxstore/pkg/ports"
)

// localLocker is an in-process SessionLocker for tests: one mutex per
// key, TTL ignored.
type localLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLocalLocker() *localLocker {
	return &localLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *localLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func(ctx context.Context) error {
		m.Unlock()
		return nil
	}, nil
}
