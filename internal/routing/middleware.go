package routing

import (
	"log/slog"

	"github.com/quizflow/quizflow/pkg/domain"
)

// Middleware transforms a proposed routing target before validation.
// The chain is explicit and ordered: middlewares run in registration
// order, each seeing the previous one's output.
type Middleware func(state *domain.State, target domain.Target) domain.Target

// LoggingMiddleware logs every proposed decision without altering it.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(state *domain.State, target domain.Target) domain.Target {
		logger.Debug("routing decision proposed",
			"session_id", state.SessionID,
			"phase", state.Phase,
			"intent", state.Intent,
			"target", target,
		)
		return target
	}
}
