package routing

// RetryAction is what the policy tells the router to do with a failed step.
type RetryAction int

const (
	// ActionRetry re-runs the same step unchanged.
	ActionRetry RetryAction = iota
	// ActionFallback re-runs the step in its simplified deterministic
	// mode (rule-based grading, template-built question).
	ActionFallback
	// ActionEscalate hands the turn to the clarification handler.
	ActionEscalate
	// ActionTerminate ends the session.
	ActionTerminate
)

func (a RetryAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionEscalate:
		return "escalate"
	case ActionTerminate:
		return "terminate"
	}
	return "unknown"
}

// SessionRetryBudget is the hard circuit breaker: once a session has
// burned this many retries across all error kinds, the router stops
// bouncing between categories and terminates.
const SessionRetryBudget = 5

// Per-kind retry ceilings, tuned by how expensive and how transient
// each category is. User input is never retried automatically; asking
// the user again is always cheaper and more likely to help.
var retryCeilings = map[ErrorKind]int{
	KindUserInput:  0,
	KindLLM:        3,
	KindValidation: 3,
	KindNetwork:    2,
	KindUnknown:    0,
}

// Kinds that have a cheaper deterministic alternative to degrade to
// once their ceiling is hit.
var fallbackKinds = map[ErrorKind]bool{
	KindLLM:        true,
	KindValidation: true,
}

// NextAction decides bounded retry versus degradation for a failed step.
// retryCount is the per-phase attempt counter; totalRetries is the
// session-wide counter that never resets.
func NextAction(kind ErrorKind, retryCount, totalRetries int) RetryAction {
	if totalRetries >= SessionRetryBudget {
		return ActionTerminate
	}
	if retryCount < retryCeilings[kind] {
		return ActionRetry
	}
	if fallbackKinds[kind] {
		return ActionFallback
	}
	return ActionEscalate
}
