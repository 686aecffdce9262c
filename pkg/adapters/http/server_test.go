package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/aretw0/ctxstore/pkg/adapters/http"
	"github.com/aretw0/ctxstore/pkg/adapters/memory"
	"github.com/aretw0/ctxstore/pkg/domain"
	"github.com/aretw0/ctxstore/pkg/observability"
	"github.com/aretw0/ctxstore/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	registry := session.NewRegistry(store)
	handler := httpadapter.NewHandler(registry, store, observability.NewMetrics())
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server, directory string) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions", "application/json",
		strings.NewReader(`{"directory":"`+directory+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body["sessionId"], 32)
	return body["sessionId"]
}

func TestSessions_RoundTrip(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "/proj")

	// Append an entry.
	resp, err := http.Post(srv.URL+"/sessions/"+id+"/history", "application/json",
		strings.NewReader(`{"directory":"/proj","content":"hello"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Read it back.
	resp, err = http.Get(srv.URL + "/sessions/" + id + "?directory=%2Fproj")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record domain.SessionContext
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, "/proj", record.Directory)
	require.Len(t, record.History, 1)
	assert.Equal(t, "hello", record.History[0].Content)
}

func TestGetContext_Absent_ReturnsNull(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/sessions/deadbeefdeadbeefdeadbeefdeadbeef?directory=%2Fproj")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(buf.String()))
}

func TestUpdateContext_MissingSession_Is404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sessions/deadbeefdeadbeefdeadbeefdeadbeef/history",
		"application/json",
		strings.NewReader(`{"directory":"/proj","content":"orphan"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateContext_Validation(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "/proj")

	cases := []struct {
		name string
		body string
	}{
		{"missing directory", `{"content":"x"}`},
		{"missing content", `{"directory":"/proj"}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/sessions/"+id+"/history",
				"application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestEndSession_Idempotent(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "/proj")

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete,
			srv.URL+"/sessions/"+id+"?directory=%2Fproj", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Ended sessions are absent.
	resp, err := http.Get(srv.URL + "/sessions/" + id + "/exists?directory=%2Fproj")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body["exists"])
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Exercise an op so the counter exists, then scrape.
	createSession(t, srv, "/proj")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ctxstore_operations_total")
}
