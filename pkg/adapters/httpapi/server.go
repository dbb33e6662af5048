// Package httpapi exposes the quiz engine over a JSON REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quizflow/quizflow"
	"github.com/quizflow/quizflow/internal/logging"
	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/session"
)

// maxInputBytes bounds a single user message.
const maxInputBytes = 8 << 10

// Engine is the surface the HTTP layer needs from the quiz engine.
type Engine interface {
	Turn(ctx context.Context, sessionID, input string) (*quizflow.TurnResult, error)
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	Reset(ctx context.Context, sessionID string) error
	Sessions() *session.Manager
}

// Server handles the REST routes.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/health", s.getHealth)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/turn", s.postTurn)
			r.Post("/reset", s.postReset)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type createSessionResponse struct {
	SessionID string       `json:"session_id"`
	Phase     domain.Phase `json:"phase"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sessionID := session.NewSessionID()
	state, err := s.engine.Start(r.Context(), sessionID)
	if err != nil {
		s.serverError(w, "failed to create session", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: state.SessionID,
		Phase:     state.Phase,
	})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.Sessions().List(r.Context())
	if err != nil {
		s.serverError(w, "failed to list sessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.Sessions().Load(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, "failed to load session", err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.engine.Sessions().Delete(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, "failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type turnRequest struct {
	Input string `json:"input"`
}

func (s *Server) postTurn(w http.ResponseWriter, r *http.Request) {
	var body turnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBytes)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Input) == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	turn, err := s.engine.Turn(r.Context(), chi.URLParam(r, "sessionID"), body.Input)
	if err != nil {
		s.serverError(w, "turn failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, turn)
}

func (s *Server) postReset(w http.ResponseWriter, r *http.Request) {
	err := s.engine.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, "reset failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
