package domain

import "time"

// HistoryEntry is a single appended line of session history.
// Timestamps are serialized as RFC 3339 strings; insertion order is
// chronological order and entries are never mutated after append.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// Metadata tracks the session lifecycle timestamps.
type Metadata struct {
	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"createdAt"`
	// LastAccessed is bumped on every read and every write.
	LastAccessed time.Time `json:"lastAccessed"`
}

// SessionContext is the record stored per (directory, session ID) pair.
// It is the unit of persistence: the whole record is serialized as JSON
// and written back on every mutation.
type SessionContext struct {
	Directory string         `json:"directory"`
	History   []HistoryEntry `json:"history"`
	Metadata  Metadata       `json:"metadata"`
}

// NewSessionContext creates a fresh context for a directory with empty
// history and both timestamps set to now.
func NewSessionContext(directory string) *SessionContext {
	now := time.Now().UTC()
	return &SessionContext{
		Directory: directory,
		History:   []HistoryEntry{},
		Metadata: Metadata{
			CreatedAt:    now,
			LastAccessed: now,
		},
	}
}

// Append adds one history entry stamped now and touches LastAccessed.
func (c *SessionContext) Append(content string) {
	now := time.Now().UTC()
	c.History = append(c.History, HistoryEntry{
		Timestamp: now,
		Content:   content,
	})
	c.Metadata.LastAccessed = now
}

// Touch bumps LastAccessed to now.
func (c *SessionContext) Touch() {
	c.Metadata.LastAccessed = time.Now().UTC()
}
