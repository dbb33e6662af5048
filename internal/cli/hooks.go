package cli

import (
	"context"
	"log/slog"

	"github.com/quizflow/quizflow/pkg/domain"
)

// DebugHooks logs every routing decision and step dispatch, for the
// --debug flag.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRouteDecided: func(ctx context.Context, e *domain.RouteEvent) {
			logger.Debug("route decided", "session_id", e.SessionID, "phase", e.FromPhase, "intent", e.Intent, "target", e.Target)
		},
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug(string(e.Type), "session_id", e.SessionID, "step", e.Step)
		},
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			if e.Result != nil && !e.Result.OK {
				logger.Debug("step failed", "session_id", e.SessionID, "step", e.Step, "err", e.Result.Err)
				return
			}
			logger.Debug(string(e.Type), "session_id", e.SessionID, "step", e.Step)
		},
	}
}
