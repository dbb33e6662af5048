package routing

import (
	"fmt"
	"log/slog"

	"github.com/quizflow/quizflow/internal/logging"
	"github.com/quizflow/quizflow/pkg/domain"
)

// Router is the top-level dispatcher. It applies session-wide overrides
// (exit, restart) before delegating to the phase router for the current
// phase, then runs the middleware chain, the validator and the metrics
// recorder over the decision.
type Router struct {
	logger     *slog.Logger
	recorder   Recorder
	middleware []Middleware
}

// Option configures the Router.
type Option func(*Router)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithRecorder injects a metrics recorder. The recorder is an explicit
// dependency so per-session metrics stay isolable in tests.
func WithRecorder(rec Recorder) Option {
	return func(r *Router) {
		r.recorder = rec
	}
}

// WithMiddleware appends transforms to the middleware chain, applied
// in registration order after each phase-router decision.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// NewRouter creates a router with a no-op logger and recorder.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		logger:   logging.NewNop(),
		recorder: NopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route decides the next processing step from the session state alone.
// It is invoked after the query analyzer has classified the user's
// input. The algorithm cannot fail: a panic anywhere in the decision
// path is caught, recorded into LastError for the next cycle's
// classifier, and mapped to the QueryAnalyzer fallback.
func (r *Router) Route(state *domain.State) (target domain.Target) {
	defer r.recoverPanic(state, &target)
	return r.finish(state, r.decide(state))
}

// RouteAfter decides the next step once a specific processing step has
// completed, branching on the step's result. Failures flow through the
// error classifier and retry policy; successes follow the step's
// success rules.
func (r *Router) RouteAfter(step domain.Target, state *domain.State, result domain.Result) (target domain.Target) {
	defer r.recoverPanic(state, &target)
	if !result.OK {
		return r.finish(state, r.routeFailure(step, state, result))
	}
	return r.finish(state, r.routeSuccess(step, state))
}

// finish runs the shared tail of every decision: middleware chain,
// validator, metrics.
func (r *Router) finish(state *domain.State, target domain.Target) domain.Target {
	for _, mw := range r.middleware {
		target = mw(state, target)
	}
	target = r.validate(state, target)
	r.recorder.RecordDecision(state.Phase, target)
	r.logger.Info("routing decision",
		"session_id", state.SessionID,
		"phase", state.Phase,
		"target", target,
	)
	return target
}

// recoverPanic converts a routing panic into the self-healing fallback.
func (r *Router) recoverPanic(state *domain.State, target *domain.Target) {
	if rec := recover(); rec != nil {
		if state != nil {
			state.LastError = fmt.Sprintf("router panic: %v", rec)
		}
		r.logger.Error("routing panicked, using fallback target", "panic", rec)
		*target = domain.TargetQueryAnalyzer
	}
}

// decide implements the first-match-wins override algorithm and the
// phase dispatch. It reads state but mutates nothing; intent overrides
// are phase-router business.
func (r *Router) decide(state *domain.State) domain.Target {
	switch state.Intent {
	case domain.IntentExit:
		return domain.TargetEnd
	case domain.IntentNewQuiz:
		// Phase reset is performed by the target step, not here.
		return domain.TargetTopicValidator
	}

	switch state.Phase {
	case domain.PhaseTopicSelection:
		return r.routeTopicSelection(state)
	case domain.PhaseTopicValidation:
		return r.routeTopicValidation(state)
	case domain.PhaseQuizActive:
		return r.routeQuizActive(state)
	case domain.PhaseQuestionAnswered:
		return r.routeQuestionAnswered(state)
	case domain.PhaseQuizComplete:
		return r.routeQuizComplete(state)
	default:
		// Unknown or corrupt phase: self-heal via re-analysis.
		r.logger.Warn("unknown phase, routing to query analyzer",
			"session_id", state.SessionID, "phase", state.Phase)
		return domain.TargetQueryAnalyzer
	}
}

// routeFailure classifies the diagnostic, consumes LastError, and maps
// the retry policy's decision onto a target. All retry bookkeeping
// lives here; steps never retry themselves.
func (r *Router) routeFailure(step domain.Target, state *domain.State, result domain.Result) domain.Target {
	state.LastError = result.Err
	kind := ClassifyError(state.LastError)
	state.LastError = ""
	r.recorder.RecordErrorKind(kind)

	action := NextAction(kind, state.RetryCount, state.TotalRetries)
	r.logger.Warn("step failed",
		"session_id", state.SessionID,
		"step", step,
		"kind", kind,
		"action", action.String(),
		"retry_count", state.RetryCount,
		"total_retries", state.TotalRetries,
	)

	switch action {
	case ActionRetry:
		state.RetryCount++
		state.TotalRetries++
		return step
	case ActionFallback:
		state.TotalRetries++
		r.markFallback(step, state)
		return step
	case ActionTerminate:
		return domain.TargetEnd
	default:
		return domain.TargetClarificationHandler
	}
}

// markFallback flags the step's simplified mode so the re-run takes the
// deterministic path instead of the model call.
func (r *Router) markFallback(step domain.Target, state *domain.State) {
	if state.Metadata == nil {
		state.Metadata = make(map[string]any)
	}
	switch step {
	case domain.TargetAnswerValidator:
		state.Metadata[domain.MetaFallbackGrading] = true
	case domain.TargetQuizGenerator:
		state.Metadata[domain.MetaFallbackGeneration] = true
	}
}

// routeSuccess applies the per-step success rules. The retry counter
// resets only on an actual phase advance: a topic validator that ran
// cleanly but rejected the topic keeps accumulating RetryCount, which
// is what bounds the clarification loop.
func (r *Router) routeSuccess(step domain.Target, state *domain.State) domain.Target {
	switch step {
	case domain.TargetQueryAnalyzer:
		// Intent is now known; fall through to phase dispatch.
		return r.decide(state)

	case domain.TargetTopicValidator:
		if state.TopicValidated {
			state.RetryCount = 0
		}
		return r.routeTopicValidation(state)

	case domain.TargetQuizGenerator:
		// Question presented. Control returns to the user; the next
		// turn starts with analysis of their reply.
		state.RetryCount = 0
		return domain.TargetQueryAnalyzer

	case domain.TargetAnswerValidator:
		state.RetryCount = 0
		return domain.TargetScoreGenerator

	case domain.TargetScoreGenerator:
		state.RetryCount = 0
		if state.QuizCompleted {
			return domain.TargetQuizCompletionHandler
		}
		state.IncrementQuestion()
		return domain.TargetQuizGenerator

	case domain.TargetClarificationHandler,
		domain.TargetQuizCompletionHandler,
		domain.TargetSessionManager:
		return domain.TargetQueryAnalyzer

	default:
		return domain.TargetQueryAnalyzer
	}
}
