package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ctxstore/pkg/ports"
)

// KVStoreContractTest is a reusable suite that verifies an adapter
// complies with ports.KVStore. Callers pass a fresh, empty store.
func KVStoreContractTest(t *testing.T, store ports.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Absent", func(t *testing.T) {
		val, found, err := store.Get(ctx, "contract:missing")
		if err != nil {
			t.Fatalf("unexpected error on absent key: %v", err)
		}
		if found {
			t.Errorf("expected absent, got value %q", val)
		}
	})

	t.Run("Set_Get_RoundTrip", func(t *testing.T) {
		if err := store.Set(ctx, "contract:a", `{"n":1}`, 0); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		val, found, err := store.Get(ctx, "contract:a")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !found {
			t.Fatal("expected key to be present")
		}
		if val != `{"n":1}` {
			t.Errorf("value mismatch: got %q", val)
		}
	})

	t.Run("EmptyValue_IsPresent", func(t *testing.T) {
		// An empty string is a legal value, distinct from absence.
		if err := store.Set(ctx, "contract:empty", "", 0); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		val, found, err := store.Get(ctx, "contract:empty")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !found {
			t.Error("expected empty value to count as present")
		}
		if val != "" {
			t.Errorf("expected empty string, got %q", val)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := store.Set(ctx, "contract:b", "one", 0); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := store.Set(ctx, "contract:b", "two", 0); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}
		val, _, err := store.Get(ctx, "contract:b")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if val != "two" {
			t.Errorf("expected overwritten value, got %q", val)
		}
	})

	t.Run("Delete_Idempotent", func(t *testing.T) {
		if err := store.Set(ctx, "contract:c", "gone", 0); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := store.Delete(ctx, "contract:c"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, found, err := store.Get(ctx, "contract:c")
		if err != nil {
			t.Fatalf("get after delete failed: %v", err)
		}
		if found {
			t.Error("expected key to be gone after delete")
		}
		// Deleting again must not error.
		if err := store.Delete(ctx, "contract:c"); err != nil {
			t.Errorf("second delete errored: %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Errorf("ping failed: %v", err)
		}
	})
}

// KVStoreTTLContractTest verifies expiry behavior for stores whose
// backend supports it. The advance function fast-forwards backend time
// (miniredis) or sleeps (real clocks).
func KVStoreTTLContractTest(t *testing.T, store ports.KVStore, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	if err := store.Set(ctx, "contract:ttl", "expiring", time.Second); err != nil {
		t.Fatalf("set with ttl failed: %v", err)
	}
	_, found, err := store.Get(ctx, "contract:ttl")
	if err != nil || !found {
		t.Fatalf("expected key present before expiry (found=%v err=%v)", found, err)
	}

	advance(2 * time.Second)

	_, found, err = store.Get(ctx, "contract:ttl")
	if err != nil {
		t.Fatalf("get after expiry failed: %v", err)
	}
	if found {
		t.Error("expected key to expire")
	}
}
