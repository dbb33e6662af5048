package steps

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/quizflow/quizflow/pkg/prompts"
)

// ClarificationHandler prepares a helpful message for unclear input or
// a rejected topic. It never fails: a model error degrades to a static
// message, since clarification is itself the recovery path.
type ClarificationHandler struct {
	model  ports.ChatModel
	logger *slog.Logger
}

// NewClarificationHandler builds the clarification step.
func NewClarificationHandler(model ports.ChatModel, opts ...Option) *ClarificationHandler {
	o := applyOptions(opts)
	return &ClarificationHandler{model: model, logger: o.logger}
}

func (h *ClarificationHandler) Name() domain.Target {
	return domain.TargetClarificationHandler
}

func (h *ClarificationHandler) Run(ctx context.Context, state *domain.State) domain.Result {
	message := h.build(ctx, state)
	state.Metadata[domain.MetaClarification] = message
	state.Intent = domain.IntentNone
	state.Touch()
	return domain.Ok()
}

func (h *ClarificationHandler) build(ctx context.Context, state *domain.State) string {
	issueType := issueTypeForPhase(state.Phase)

	if h.model != nil {
		prompt, err := prompts.Clarification(state, issueType)
		if err == nil {
			if raw, err := h.model.Complete(ctx, prompts.SystemPrompt, prompt); err == nil {
				if msg := strings.TrimSpace(raw); msg != "" {
					return msg
				}
			} else {
				h.logger.Warn("clarification model call failed, using static message",
					"session_id", state.SessionID, "err", err)
			}
		}
	}

	return staticClarification(state)
}

func issueTypeForPhase(phase domain.Phase) string {
	switch phase {
	case domain.PhaseTopicSelection, domain.PhaseTopicValidation:
		return "TOPIC_UNCLEAR"
	case domain.PhaseQuizActive:
		return "ANSWER_FORMAT"
	default:
		return "UNCLEAR_INTENT"
	}
}

func staticClarification(state *domain.State) string {
	switch state.Phase {
	case domain.PhaseTopicSelection, domain.PhaseTopicValidation:
		return "What topic would you like to be quizzed on? For example: \"World History\" or \"Python programming\"."
	case domain.PhaseQuizActive:
		if state.CurrentQuestion != "" {
			return "Please answer the current question, or say \"next\" to skip, \"new quiz\" to change topic, or \"exit\" to stop.\n\n" + state.CurrentQuestion
		}
		return "Say \"next\" for another question, \"new quiz\" to change topic, or \"exit\" to stop."
	case domain.PhaseQuizComplete:
		return "The quiz is finished. Say \"new quiz\" to try another topic or \"exit\" to end the session."
	default:
		return "I didn't quite get that. You can start a quiz by naming a topic, or say \"exit\" to stop."
	}
}

// QuizCompletionHandler closes out the quiz: final summary, flags, and
// the transition into the completed phase. The summary prefers the
// model's narrative and falls back to a deterministic one.
type QuizCompletionHandler struct {
	model  ports.ChatModel
	logger *slog.Logger
}

// NewQuizCompletionHandler builds the completion step.
func NewQuizCompletionHandler(model ports.ChatModel, opts ...Option) *QuizCompletionHandler {
	o := applyOptions(opts)
	return &QuizCompletionHandler{model: model, logger: o.logger}
}

func (h *QuizCompletionHandler) Name() domain.Target {
	return domain.TargetQuizCompletionHandler
}

func (h *QuizCompletionHandler) Run(ctx context.Context, state *domain.State) domain.Result {
	state.QuizCompleted = true
	state.QuizActive = false
	state.Phase = domain.PhaseQuizComplete
	state.Metadata[domain.MetaSummary] = h.summarize(ctx, state)
	state.Touch()

	h.logger.Info("session summary written",
		"session_id", state.SessionID,
		"topic", state.Topic,
		"score", state.TotalScore,
		"answered", state.TotalAnswered,
	)
	return domain.Ok()
}

func (h *QuizCompletionHandler) summarize(ctx context.Context, state *domain.State) string {
	if h.model != nil && state.TotalAnswered > 0 {
		prompt, err := prompts.Summary(state)
		if err == nil {
			if raw, err := h.model.Complete(ctx, prompts.SystemPrompt, prompt); err == nil {
				if msg := strings.TrimSpace(raw); msg != "" {
					return msg
				}
			} else {
				h.logger.Warn("summary model call failed, using static summary",
					"session_id", state.SessionID, "err", err)
			}
		}
	}

	return staticSummary(state)
}

func staticSummary(state *domain.State) string {
	if state.TotalAnswered == 0 {
		return "Quiz ended before any questions were answered. Come back anytime!"
	}
	return fmt.Sprintf("Quiz complete! Topic: %s. You answered %d of %d questions correctly (%.1f%%). Final score: %d.",
		state.Topic, state.CorrectCount, state.TotalAnswered, state.Accuracy(), state.TotalScore)
}

// SessionManager resets the session for a fresh quiz. A topic the
// analyzer already extracted for the new quiz survives the reset,
// unvalidated, so the next routing decision can send it straight to
// topic validation.
type SessionManager struct {
	logger *slog.Logger
}

// NewSessionManager builds the session reset step.
func NewSessionManager(opts ...Option) *SessionManager {
	o := applyOptions(opts)
	return &SessionManager{logger: o.logger}
}

func (h *SessionManager) Name() domain.Target {
	return domain.TargetSessionManager
}

func (h *SessionManager) Run(ctx context.Context, state *domain.State) domain.Result {
	carryTopic := ""
	if !state.TopicValidated {
		// Only a freshly-extracted (not yet validated) topic belongs to
		// the next quiz; a validated one is the old quiz's.
		carryTopic = state.Topic
	}

	state.ResetForNewQuiz()
	state.Topic = carryTopic

	h.logger.Info("session reset for new quiz",
		"session_id", state.SessionID, "carry_topic", carryTopic)
	return domain.Ok()
}
