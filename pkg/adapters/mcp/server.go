// Package mcp exposes the quiz engine as an MCP server, so agent hosts
// can drive quiz sessions as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quizflow/quizflow"
	"github.com/quizflow/quizflow/internal/logging"
	"github.com/quizflow/quizflow/pkg/adapters/httpapi"
	"github.com/quizflow/quizflow/pkg/session"
)

// Engine is the surface the MCP layer needs; it matches the HTTP
// adapter's view of the quiz engine.
type Engine = httpapi.Engine

// Server wraps the quiz Engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the MCP server and registers the quiz tools.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("quizflow-mcp", quizflow.Version),
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

// ServeSSE starts the server on the given port using SSE, shutting
// down gracefully when the context is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
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

func (s *Server) registerTools() {
	// TOOL: start_session
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Create a new quiz session and return its ID."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := session.NewSessionID()
		state, err := s.engine.Start(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("start failed: %v", err)), nil
		}
		payload, _ := json.Marshal(map[string]any{
			"session_id": state.SessionID,
			"phase":      state.Phase,
		})
		return mcp.NewToolResultText(string(payload)), nil
	})

	// TOOL: quiz_turn
	turnTool := mcp.NewTool("quiz_turn",
		mcp.WithDescription("Send one user message to a quiz session and get the engine's reply. Creates the session if it does not exist."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The quiz session ID")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithOutputSchema[quizflow.TurnResult](),
	)
	s.mcpServer.AddTool(turnTool, mcp.NewStructuredToolHandler(s.handleTurn))

	// TOOL: get_session
	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Fetch the full state of a quiz session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The quiz session ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := request.GetString("session_id", "")
		state, err := s.engine.Sessions().Load(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		payload, _ := json.Marshal(state)
		return mcp.NewToolResultText(string(payload)), nil
	})

	// TOOL: reset_session
	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Clear a session's quiz progress, keeping it alive for a fresh quiz."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The quiz session ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := request.GetString("session_id", "")
		if err := s.engine.Reset(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
		}
		return mcp.NewToolResultText(`{"status": "reset"}`), nil
	})

	// TOOL: list_sessions
	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List the IDs of all active quiz sessions."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.engine.Sessions().List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		payload, _ := json.Marshal(map[string][]string{"sessions": ids})
		return mcp.NewToolResultText(string(payload)), nil
	})
}

func (s *Server) handleTurn(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (quizflow.TurnResult, error) {
	sessionID, _ := args["session_id"].(string)
	input, _ := args["input"].(string)
	if sessionID == "" || input == "" {
		return quizflow.TurnResult{}, fmt.Errorf("session_id and input are required")
	}

	turn, err := s.engine.Turn(ctx, sessionID, input)
	if err != nil {
		return quizflow.TurnResult{}, fmt.Errorf("turn failed: %w", err)
	}

	// The full state is heavy for tool output; the session can be
	// fetched explicitly via get_session.
	result := *turn
	result.State = nil

	s.logger.Debug("mcp turn handled", "session_id", sessionID, "phase", result.Phase)
	return result, nil
}
