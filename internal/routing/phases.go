package routing

import "github.com/quizflow/quizflow/pkg/domain"

// topicValidationRetryLimit bounds how many clarification loops the
// topic validation phase tolerates before giving up on the session.
const topicValidationRetryLimit = 3

// routeTopicSelection handles the opening of a session. Ambiguous input
// defaults to asking for clarification; the engine never silently
// guesses a topic.
func (r *Router) routeTopicSelection(state *domain.State) domain.Target {
	switch state.Intent {
	case domain.IntentStartQuiz:
		return domain.TargetTopicValidator
	case domain.IntentClarification:
		return domain.TargetClarificationHandler
	default:
		return domain.TargetClarificationHandler
	}
}

// routeTopicValidation branches on the validation outcome rather than
// intent: the topic validator step has already run and written
// TopicValidated.
func (r *Router) routeTopicValidation(state *domain.State) domain.Target {
	if state.TopicValidated {
		return domain.TargetQuizGenerator
	}
	if state.RetryCount >= topicValidationRetryLimit {
		return domain.TargetEnd
	}
	return domain.TargetClarificationHandler
}

// routeQuizActive decides what unstructured input means while a
// question is open. Unclassified input during a pending question is
// almost certainly an answer, so the intent is overridden to
// answer_question. The override is idempotent: routing the resulting
// state again yields the same target.
func (r *Router) routeQuizActive(state *domain.State) domain.Target {
	switch state.Intent {
	case domain.IntentAnswerQuestion:
		return domain.TargetAnswerValidator
	case domain.IntentClarification:
		return domain.TargetClarificationHandler
	}

	if state.HasPendingQuestion() && state.HasInput() {
		r.logger.Debug("overriding ambiguous intent to answer_question",
			"session_id", state.SessionID, "intent", state.Intent)
		state.Intent = domain.IntentAnswerQuestion
		return domain.TargetAnswerValidator
	}
	return domain.TargetClarificationHandler
}

// routeQuestionAnswered proceeds to scoring unless explicitly told to
// pause. A completed quiz goes straight to the completion handler.
func (r *Router) routeQuestionAnswered(state *domain.State) domain.Target {
	if state.QuizCompleted {
		return domain.TargetQuizCompletionHandler
	}
	switch state.Intent {
	case domain.IntentContinue, domain.IntentAnswerQuestion:
		return domain.TargetScoreGenerator
	case domain.IntentClarification:
		return domain.TargetClarificationHandler
	default:
		return domain.TargetScoreGenerator
	}
}

// routeQuizComplete only restarts or ends.
func (r *Router) routeQuizComplete(state *domain.State) domain.Target {
	switch state.Intent {
	case domain.IntentNewQuiz, domain.IntentStartQuiz:
		return domain.TargetTopicValidator
	default:
		return domain.TargetEnd
	}
}
