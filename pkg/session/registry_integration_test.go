package session_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisadapter "github.com/aretw0/ctxstore/pkg/adapters/redis"
	"github.com/aretw0/ctxstore/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RedisKeyLayout(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	r := session.NewRegistry(redisadapter.NewFromClient(client))
	ctx := context.Background()

	id, err := r.Create(ctx, "/proj")
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("/proj"))
	key := "cline:context:" + hex.EncodeToString(sum[:4]) + ":" + id
	assert.True(t, mr.Exists(key), "record should live under the derived key")

	require.NoError(t, r.End(ctx, "/proj", id))
	assert.False(t, mr.Exists(key))
}

func TestRegistry_RedisLocker_SerializesUpdates(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	r := session.NewRegistry(
		redisadapter.NewFromClient(client),
		session.WithLocker(redisadapter.NewLocker(client, session.DefaultPrefix)),
	)
	ctx := context.Background()

	id, err := r.Create(ctx, "/proj")
	require.NoError(t, err)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- r.Update(ctx, "/proj", id, "entry")
		}()
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	record, err := r.Get(ctx, "/proj", id)
	require.NoError(t, err)
	assert.Len(t, record.History, 2)
}
