package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/ctxstore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionContext(t *testing.T) {
	record := domain.NewSessionContext("/proj")

	assert.Equal(t, "/proj", record.Directory)
	assert.NotNil(t, record.History)
	assert.Empty(t, record.History)
	assert.Equal(t, record.Metadata.CreatedAt, record.Metadata.LastAccessed)
}

func TestAppend_OrderAndTimestamps(t *testing.T) {
	record := domain.NewSessionContext("/proj")

	record.Append("first")
	record.Append("second")

	require.Len(t, record.History, 2)
	assert.Equal(t, "first", record.History[0].Content)
	assert.Equal(t, "second", record.History[1].Content)
	assert.False(t, record.History[1].Timestamp.Before(record.History[0].Timestamp))
	assert.Equal(t, record.History[1].Timestamp, record.Metadata.LastAccessed)
}

func TestTouch(t *testing.T) {
	record := domain.NewSessionContext("/proj")
	created := record.Metadata.CreatedAt

	time.Sleep(2 * time.Millisecond)
	record.Touch()

	assert.Equal(t, created, record.Metadata.CreatedAt, "CreatedAt never changes")
	assert.True(t, record.Metadata.LastAccessed.After(created))
}

func TestSessionContext_JSONShape(t *testing.T) {
	record := domain.NewSessionContext("/proj")
	record.Append("hello")

	data, err := json.Marshal(record)
	require.NoError(t, err)

	// The wire shape is fixed: directory, history entries with ISO-8601
	// timestamps, and metadata with createdAt/lastAccessed.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "directory")
	assert.Contains(t, decoded, "history")
	assert.Contains(t, decoded, "metadata")

	meta := decoded["metadata"].(map[string]any)
	_, err = time.Parse(time.RFC3339Nano, meta["createdAt"].(string))
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339Nano, meta["lastAccessed"].(string))
	assert.NoError(t, err)

	history := decoded["history"].([]any)
	require.Len(t, history, 1)
	entry := history[0].(map[string]any)
	assert.Equal(t, "hello", entry["content"])
}
