package quizflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizflow/quizflow/internal/logging"
	"github.com/quizflow/quizflow/internal/routing"
	"github.com/quizflow/quizflow/pkg/adapters/memory"
	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/quizflow/quizflow/pkg/session"
	"github.com/quizflow/quizflow/pkg/steps"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

// maxStepsPerTurn bounds the dispatch loop. A healthy turn needs at
// most a handful of steps (analyze, validate, generate); the bound only
// matters if routing degenerates into a cycle.
const maxStepsPerTurn = 12

// Engine is the high-level entry point. It wraps the routing engine,
// the step set and the session manager behind a turn-based API.
type Engine struct {
	router   *routing.Router
	steps    map[domain.Target]ports.Step
	sessions *session.Manager

	store        ports.StateStore
	locker       ports.DistributedLocker
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	maxQuestions int

	routerOpts []routing.Option
}

// Option configures the Engine.
type Option func(*Engine)

// WithStore sets the session persistence backend (default: in-memory).
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed session locking for multi-replica
// deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a structured logger for the engine and everything it
// wires.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxQuestions sets the question count for finite quizzes started
// by this engine (default domain.DefaultMaxQuestions). Values below 1
// are ignored.
func WithMaxQuestions(n int) Option {
	return func(e *Engine) {
		e.maxQuestions = n
	}
}

// WithRecorder injects a routing metrics recorder.
func WithRecorder(rec routing.Recorder) Option {
	return func(e *Engine) {
		e.routerOpts = append(e.routerOpts, routing.WithRecorder(rec))
	}
}

// WithRoutingMiddleware appends transforms to the router's middleware
// chain.
func WithRoutingMiddleware(mw ...routing.Middleware) Option {
	return func(e *Engine) {
		e.routerOpts = append(e.routerOpts, routing.WithMiddleware(mw...))
	}
}

// WithStep replaces the step registered for its target. Used to swap a
// single step implementation without rebuilding the whole set.
func WithStep(step ports.Step) Option {
	return func(e *Engine) {
		e.steps[step.Name()] = step
	}
}

// New initializes an Engine around the given chat model.
func New(model ports.ChatModel, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("quizflow: a chat model is required")
	}

	e := &Engine{
		logger: logging.NewNop(),
	}

	// The step set must exist before WithStep can override entries, and
	// options may replace the logger, so build the defaults in two
	// passes: logger-independent first, then apply options, then wire.
	e.steps = steps.All(model)
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = memory.NewStore()
	}

	sessionOpts := []session.Option{
		session.WithLogger(e.logger),
		session.WithNewState(e.newState),
	}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)

	routerOpts := append([]routing.Option{routing.WithLogger(e.logger)}, e.routerOpts...)
	e.router = routing.NewRouter(routerOpts...)

	return e, nil
}

// newState builds a fresh session state with the engine's configured
// quiz defaults applied.
func (e *Engine) newState(sessionID string) *domain.State {
	state := domain.NewState(sessionID)
	if e.maxQuestions > 0 {
		state.MaxQuestions = e.maxQuestions
	}
	return state
}

// TurnResult is what one conversational turn produced.
type TurnResult struct {
	SessionID string        `json:"session_id"`
	Response  string        `json:"response"`
	Phase     domain.Phase  `json:"phase"`
	Intent    domain.Intent `json:"intent,omitempty"`
	Ended     bool          `json:"ended"`
	State     *domain.State `json:"state,omitempty"`
}

// Turn processes one user message for the session: load (or create) the
// state, run the analyze/route/dispatch loop until the next user-input
// point, persist, and return the composed response. Turns for the same
// session are serialized by the session manager.
func (e *Engine) Turn(ctx context.Context, sessionID, input string) (*TurnResult, error) {
	var result *TurnResult

	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := e.store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			state = e.newState(sessionID)
		} else if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if state.Metadata == nil {
			// An empty metadata map is dropped by serializing stores.
			state.Metadata = make(map[string]any)
		}

		state.UserInput = input
		state.Intent = domain.IntentNone

		ended := e.runTurn(ctx, state)

		result = &TurnResult{
			SessionID: sessionID,
			Response:  e.composeResponse(state, ended),
			Phase:     state.Phase,
			Intent:    state.Intent,
			Ended:     ended,
			State:     state.Clone(),
		}
		state.AddConversationEntry(input, result.Response)

		if ended {
			return e.store.Delete(ctx, sessionID)
		}
		return e.store.Save(ctx, sessionID, state)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runTurn drives the dispatch loop. It reports whether the session
// reached the terminal target.
func (e *Engine) runTurn(ctx context.Context, state *domain.State) bool {
	target := domain.TargetQueryAnalyzer

	for i := 0; i < maxStepsPerTurn; i++ {
		step, ok := e.steps[target]
		if !ok {
			e.logger.Error("no step registered for target, ending turn",
				"session_id", state.SessionID, "target", target)
			return false
		}

		e.emitStepStart(ctx, state, target)
		result := step.Run(ctx, state)
		e.emitStepEnd(ctx, state, target, result)

		next := e.router.RouteAfter(target, state, result)
		e.emitRouteDecided(ctx, state, next)

		if next.Terminal() {
			return true
		}
		if next == domain.TargetQueryAnalyzer && target != domain.TargetQueryAnalyzer {
			// Routing back to analysis means the turn's work is done and
			// the conversation waits for the user.
			return false
		}
		target = next
	}

	e.logger.Warn("turn hit the step budget, yielding to the user",
		"session_id", state.SessionID, "phase", state.Phase)
	return false
}

// composeResponse assembles the user-facing reply from what the steps
// left in the state. Clarification and summary messages are consumed;
// the pending question is not.
func (e *Engine) composeResponse(state *domain.State, ended bool) string {
	// Serializing stores JSON round-trip the metadata map into generic
	// types; the typed decode recovers the documented keys either way.
	var meta domain.ResponseMetadata
	if err := domain.DecodeMetadata(state.Metadata, &meta); err != nil {
		e.logger.Warn("undecodable session metadata, replying without it",
			"session_id", state.SessionID, "err", err)
	}

	var parts []string

	if meta.Clarification != "" {
		parts = append(parts, meta.Clarification)
		delete(state.Metadata, domain.MetaClarification)
	}
	if len(meta.SuggestedTopics) > 0 {
		parts = append(parts, "Some ideas: "+strings.Join(meta.SuggestedTopics, ", "))
	}
	if meta.LastFeedback != "" {
		parts = append(parts, meta.LastFeedback)
		delete(state.Metadata, domain.MetaLastFeedback)
	}
	if meta.Summary != "" && state.QuizCompleted {
		parts = append(parts, meta.Summary)
		delete(state.Metadata, domain.MetaSummary)
	}

	if state.HasPendingQuestion() {
		parts = append(parts, formatQuestion(state))
	}

	if ended {
		parts = append(parts, "Thanks for playing! Goodbye.")
	}
	if len(parts) == 0 {
		parts = append(parts, "What would you like to be quizzed on?")
	}
	return strings.Join(parts, "\n\n")
}

func formatQuestion(state *domain.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question %d: %s", state.QuestionIndex+1, state.CurrentQuestion)
	for i, opt := range state.QuestionOptions {
		fmt.Fprintf(&sb, "\n  %c) %s", 'A'+i, opt)
	}
	return sb.String()
}

// Reset clears the session's quiz progress through the session-manager
// step, keeping the session alive for a fresh quiz.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := e.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		step := e.steps[domain.TargetSessionManager]
		e.emitStepStart(ctx, state, step.Name())
		result := step.Run(ctx, state)
		e.emitStepEnd(ctx, state, step.Name(), result)
		e.router.RouteAfter(step.Name(), state, result)

		return e.store.Save(ctx, sessionID, state)
	})
}

// Start creates (or loads) a session without consuming a user message.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.sessions.LoadOrStart(ctx, sessionID)
}

// Sessions exposes the session manager for embedding callers.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

func (e *Engine) emitRouteDecided(ctx context.Context, state *domain.State, target domain.Target) {
	if e.hooks.OnRouteDecided == nil {
		return
	}
	e.hooks.OnRouteDecided(ctx, &domain.RouteEvent{
		Type:      domain.EventRouteDecided,
		Timestamp: time.Now(),
		SessionID: state.SessionID,
		FromPhase: state.Phase,
		Intent:    state.Intent,
		Target:    target,
	})
}

func (e *Engine) emitStepStart(ctx context.Context, state *domain.State, step domain.Target) {
	if e.hooks.OnStepStart == nil {
		return
	}
	e.hooks.OnStepStart(ctx, &domain.StepEvent{
		Type:      domain.EventStepStart,
		Timestamp: time.Now(),
		SessionID: state.SessionID,
		Step:      step,
	})
}

func (e *Engine) emitStepEnd(ctx context.Context, state *domain.State, step domain.Target, result domain.Result) {
	if e.hooks.OnStepEnd == nil {
		return
	}
	e.hooks.OnStepEnd(ctx, &domain.StepEvent{
		Type:      domain.EventStepEnd,
		Timestamp: time.Now(),
		SessionID: state.SessionID,
		Step:      step,
		Result:    &result,
	})
}
