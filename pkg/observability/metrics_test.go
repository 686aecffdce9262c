package observability_test

import (
	"testing"
	"time"

	"github.com/aretw0/ctxstore/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := observability.NewMetrics()

	m.Record("create_session", "ok", 5*time.Millisecond)
	m.Record("create_session", "ok", 7*time.Millisecond)
	m.Record("update_context", "not_found", time.Millisecond)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	count := testutil.CollectAndCount(m.Registry())
	assert.Greater(t, count, 0)
}

func TestMetrics_IndependentInstances(t *testing.T) {
	// Private registries mean two instances never collide.
	a := observability.NewMetrics()
	b := observability.NewMetrics()

	a.Record("get_context", "ok", time.Millisecond)

	bf, err := b.Gatherer().Gather()
	require.NoError(t, err)
	assert.Empty(t, bf, "instance b has recorded nothing")
}
