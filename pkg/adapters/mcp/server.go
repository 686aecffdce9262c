package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ctxstore"
	"github.com/aretw0/ctxstore/pkg/domain"
	"github.com/aretw0/ctxstore/pkg/observability"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registry is the interface the MCP server needs from the session
// registry.
type Registry interface {
	Create(ctx context.Context, directory string) (string, error)
	Get(ctx context.Context, directory, sessionID string) (*domain.SessionContext, error)
	Update(ctx context.Context, directory, sessionID, content string) error
	End(ctx context.Context, directory, sessionID string) error
}

// Server exposes the session registry as an MCP tool server.
type Server struct {
	registry  Registry
	metrics   *observability.Metrics
	mcpServer *server.MCPServer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithMetrics records operation counts and latencies.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new MCP Server instance over the given registry.
func NewServer(registry Registry, opts ...ServerOption) *Server {
	s := &Server{
		registry:  registry,
		mcpServer: server.NewMCPServer("ctxstore", strings.TrimSpace(ctxstore.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new session context for a directory. Returns the session ID."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory path the session is scoped to")),
	), s.instrument("create_session", s.handleCreateSession))

	s.mcpServer.AddTool(mcp.NewTool("get_context",
		mcp.WithDescription("Get the accumulated context for a session. Returns null if the session does not exist."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory path the session is scoped to")),
		mcp.WithString("sessionId", mcp.Required(), mcp.Description("Session ID returned by create_session")),
	), s.instrument("get_context", s.handleGetContext))

	s.mcpServer.AddTool(mcp.NewTool("update_context",
		mcp.WithDescription("Append a history entry to an existing session."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory path the session is scoped to")),
		mcp.WithString("sessionId", mcp.Required(), mcp.Description("Session ID returned by create_session")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to append to the session history")),
	), s.instrument("update_context", s.handleUpdateContext))

	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Destroy a session. Ending a session that does not exist succeeds."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory path the session is scoped to")),
		mcp.WithString("sessionId", mcp.Required(), mcp.Description("Session ID returned by create_session")),
	), s.instrument("end_session", s.handleEndSession))
}

// instrument wraps a tool handler with metrics recording. Tool error
// results count by their kind; transport-level errors never occur here
// because handlers report failures in-band.
func (s *Server) instrument(op string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := handler(ctx, request)
		if s.metrics != nil {
			s.metrics.Record(op, outcomeOf(result, err), time.Since(start))
		}
		return result, err
	}
}

func outcomeOf(result *mcp.CallToolResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case result != nil && result.IsError:
		return "error"
	default:
		return "ok"
	}
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetArguments()
	if err := requireString(raw, "directory"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var args createSessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID, err := s.registry.Create(ctx, args.Directory)
	if err != nil {
		slog.Error("create_session failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"sessionId": sessionID})
}

func (s *Server) handleGetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetArguments()
	for _, name := range []string{"directory", "sessionId"} {
		if err := requireString(raw, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.registry.Get(ctx, args.Directory, args.SessionID)
	if err != nil {
		slog.Error("get_context failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if record == nil {
		// "No such session" is a normal outcome, not an error.
		return mcp.NewToolResultText("null"), nil
	}

	return jsonResult(record)
}

func (s *Server) handleUpdateContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetArguments()
	for _, name := range []string{"directory", "sessionId"} {
		if err := requireString(raw, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := requirePresent(raw, "content"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var args updateContextArgs
	if err := decodeArgs(raw, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err := s.registry.Update(ctx, args.Directory, args.SessionID, args.Content)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("session not found: %s", args.SessionID)), nil
	}
	if err != nil {
		slog.Error("update_context failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]bool{"success": true})
}

func (s *Server) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetArguments()
	for _, name := range []string{"directory", "sessionId"} {
		if err := requireString(raw, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.registry.End(ctx, args.Directory, args.SessionID); err != nil {
		slog.Error("end_session failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]bool{"success": true})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
