package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/ctxstore/pkg/domain"
	"github.com/aretw0/ctxstore/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the interface the HTTP adapter needs from the session
// registry.
type Registry interface {
	Create(ctx context.Context, directory string) (string, error)
	Get(ctx context.Context, directory, sessionID string) (*domain.SessionContext, error)
	Update(ctx context.Context, directory, sessionID, content string) error
	End(ctx context.Context, directory, sessionID string) error
	Exists(ctx context.Context, directory, sessionID string) (bool, error)
}

// Pinger is the diagnostic probe behind /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server mirrors the MCP tool surface over REST.
type Server struct {
	registry Registry
	pinger   Pinger
	metrics  *observability.Metrics
}

// NewHandler builds the HTTP handler: session routes, /healthz and,
// when metrics are given, /metrics.
func NewHandler(registry Registry, pinger Pinger, metrics *observability.Metrics) http.Handler {
	s := &Server{
		registry: registry,
		pinger:   pinger,
		metrics:  metrics,
	}

	r := chi.NewRouter()

	r.Post("/sessions", s.instrument("create_session", s.createSession))
	r.Get("/sessions/{sessionID}", s.instrument("get_context", s.getContext))
	r.Get("/sessions/{sessionID}/exists", s.instrument("exists", s.exists))
	r.Post("/sessions/{sessionID}/history", s.instrument("update_context", s.updateContext))
	r.Delete("/sessions/{sessionID}", s.instrument("end_session", s.endSession))

	r.Get("/healthz", s.healthz)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if s.metrics != nil {
			s.metrics.Record(op, outcomeOf(rec.status), time.Since(start))
		}
	}
}

func outcomeOf(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "invalid"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= 500:
		return "error"
	default:
		return "ok"
	}
}

type createSessionRequest struct {
	Directory string `json:"directory"`
}

type updateContextRequest struct {
	Directory string  `json:"directory"`
	Content   *string `json:"content"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Directory == "" {
		writeError(w, http.StatusBadRequest, "directory must be a non-empty string")
		return
	}

	sessionID, err := s.registry.Create(r.Context(), body.Directory)
	if err != nil {
		slog.Error("create session failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": sessionID})
}

func (s *Server) getContext(w http.ResponseWriter, r *http.Request) {
	directory := r.URL.Query().Get("directory")
	if directory == "" {
		writeError(w, http.StatusBadRequest, "directory query parameter is required")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	record, err := s.registry.Get(r.Context(), directory, sessionID)
	if err != nil {
		slog.Error("get context failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A missing session is a normal outcome: 200 with a null body.
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) exists(w http.ResponseWriter, r *http.Request) {
	directory := r.URL.Query().Get("directory")
	if directory == "" {
		writeError(w, http.StatusBadRequest, "directory query parameter is required")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	found, err := s.registry.Exists(r.Context(), directory, sessionID)
	if err != nil {
		slog.Error("exists check failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": found})
}

func (s *Server) updateContext(w http.ResponseWriter, r *http.Request) {
	var body updateContextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Directory == "" {
		writeError(w, http.StatusBadRequest, "directory must be a non-empty string")
		return
	}
	if body.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	err := s.registry.Update(r.Context(), body.Directory, sessionID, *body.Content)
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found: "+sessionID)
		return
	}
	if err != nil {
		slog.Error("update context failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	directory := r.URL.Query().Get("directory")
	if directory == "" {
		writeError(w, http.StatusBadRequest, "directory query parameter is required")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.registry.End(r.Context(), directory, sessionID); err != nil {
		slog.Error("end session failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
