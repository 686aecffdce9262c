package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ctxstore/internal/logging"
	"github.com/aretw0/ctxstore/pkg/domain"
	"github.com/aretw0/ctxstore/pkg/ports"
	"github.com/google/uuid"
)

// DefaultPrefix is the key namespace session records are stored under.
const DefaultPrefix = "cline:context:"

// lockTTL bounds how long a crashed holder can block a session key.
const lockTTL = 30 * time.Second

// Registry derives storage keys from (directory, session ID) pairs and
// implements the session operations as get/modify/set sequences against
// a ports.KVStore. It holds no session state of its own.
type Registry struct {
	store  ports.KVStore
	prefix string
	ttl    time.Duration
	locker ports.SessionLocker
	logger *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithPrefix overrides the storage key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// WithTTL sets an expiry applied to every record write. Zero (the
// default) stores records without expiry.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

// WithLocker serializes read-modify-write sequences per session key.
// Without a locker, concurrent updates to the same session can lose
// appends; callers that care must serialize externally or configure
// one.
func WithLocker(locker ports.SessionLocker) Option {
	return func(r *Registry) {
		r.locker = locker
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a Registry over the given store.
func NewRegistry(store ports.KVStore, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		prefix: DefaultPrefix,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key derives the storage key for a (directory, session ID) pair:
// prefix + first 8 hex chars of SHA-256(directory) + ":" + sessionID.
//
// The hash keeps keys short and path-safe; at 32 bits it is not
// collision resistant, and two directories sharing a truncated hash
// merely share a key namespace prefix. Records stay disambiguated by
// the session ID suffix.
func (r *Registry) Key(directory, sessionID string) string {
	sum := sha256.Sum256([]byte(directory))
	return r.prefix + hex.EncodeToString(sum[:4]) + ":" + sessionID
}

// NewSessionID returns a fresh random 128-bit ID as 32 lowercase hex
// characters. IDs are not checked against the store for collisions;
// the space is large enough that a duplicate is not a practical
// concern.
func NewSessionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Create writes a fresh session context for directory and returns its
// session ID. Every call yields a new session, even for the same
// directory.
func (r *Registry) Create(ctx context.Context, directory string) (string, error) {
	sessionID := NewSessionID()
	record := domain.NewSessionContext(directory)

	if err := r.write(ctx, r.Key(directory, sessionID), record); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Debug("session created", "directory", directory, "session_id", sessionID)
	return sessionID, nil
}

// Get returns the session context, or (nil, nil) when the session does
// not exist: absence is a normal outcome, not an error. Reading
// touches lastAccessed and writes the record back; the returned value
// carries the new lastAccessed and the history as read.
func (r *Registry) Get(ctx context.Context, directory, sessionID string) (*domain.SessionContext, error) {
	var record *domain.SessionContext
	err := r.withLock(ctx, directory, sessionID, func(ctx context.Context) error {
		key := r.Key(directory, sessionID)

		loaded, found, err := r.read(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		loaded.Touch()
		if err := r.write(ctx, key, loaded); err != nil {
			return fmt.Errorf("failed to write back last access: %w", err)
		}
		record = loaded
		return nil
	})
	return record, err
}

// Update appends one history entry to an existing session. A missing
// session is domain.ErrSessionNotFound: unlike Create, Update requires
// the session to already exist.
func (r *Registry) Update(ctx context.Context, directory, sessionID, content string) error {
	return r.withLock(ctx, directory, sessionID, func(ctx context.Context) error {
		key := r.Key(directory, sessionID)

		record, found, err := r.read(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrSessionNotFound
		}

		record.Append(content)
		if err := r.write(ctx, key, record); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
}

// End deletes the session key unconditionally. Ending a session that
// does not exist is not an error.
func (r *Registry) End(ctx context.Context, directory, sessionID string) error {
	return r.store.Delete(ctx, r.Key(directory, sessionID))
}

// Validate reports whether a session exists and its stored directory
// matches the supplied one. It delegates to Get, so a successful
// validation touches lastAccessed.
func (r *Registry) Validate(ctx context.Context, directory, sessionID string) (bool, error) {
	record, err := r.Get(ctx, directory, sessionID)
	if err != nil {
		return false, err
	}
	return record != nil && record.Directory == directory, nil
}

// Exists is a pure existence probe: unlike Validate it reads without
// writing back, leaving lastAccessed untouched.
func (r *Registry) Exists(ctx context.Context, directory, sessionID string) (bool, error) {
	_, found, err := r.store.Get(ctx, r.Key(directory, sessionID))
	return found, err
}

func (r *Registry) read(ctx context.Context, key string) (*domain.SessionContext, bool, error) {
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var record domain.SessionContext
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session context: %w", err)
	}
	return &record, true, nil
}

func (r *Registry) write(ctx context.Context, key string, record *domain.SessionContext) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session context: %w", err)
	}
	return r.store.Set(ctx, key, string(data), r.ttl)
}

// withLock runs fn under the session lock when a locker is configured;
// otherwise fn runs bare and the read-modify-write can race.
func (r *Registry) withLock(ctx context.Context, directory, sessionID string, fn func(context.Context) error) error {
	if r.locker == nil {
		return fn(ctx)
	}

	unlock, err := r.locker.Lock(ctx, r.Key(directory, sessionID), lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			r.logger.Warn("failed to release session lock (will expire via TTL)",
				"session_id", sessionID,
				"err", err,
			)
		}
	}()

	return fn(ctx)
}
