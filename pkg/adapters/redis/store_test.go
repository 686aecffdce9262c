package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/ctxstore/pkg/adapters/redis"
	"github.com/aretw0/ctxstore/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	tests.KVStoreContractTest(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newTestStore(t)
	tests.KVStoreTTLContractTest(t, store, mr.FastForward)
}

func TestRedisStore_New_InvalidURL(t *testing.T) {
	_, err := redis.New("not-a-redis-url")
	assert.Error(t, err)
}

func TestRedisStore_New_ConnectsLazily(t *testing.T) {
	// Construction must not dial; the first command does.
	store, err := redis.New("redis://localhost:0")
	require.NoError(t, err)
	defer store.Close()

	err = store.Ping(context.Background())
	assert.Error(t, err, "expected ping against a dead endpoint to fail")
}

func TestRedisStore_BackendError_Propagates(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", 0))

	// Kill the backend; the error must reach the caller unmodified.
	mr.Close()

	_, _, err := store.Get(ctx, "k")
	assert.Error(t, err)
}
