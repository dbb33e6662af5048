package steps

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/quizflow/quizflow/pkg/prompts"
)

// TopicValidator vets the requested topic for quiz suitability. A
// rejected topic is not an error: the step reports Ok with
// TopicValidated false and an incremented retry count, and the router
// decides whether to ask again or give up.
type TopicValidator struct {
	model  ports.ChatModel
	logger *slog.Logger
}

// NewTopicValidator builds the topic validation step.
func NewTopicValidator(model ports.ChatModel, opts ...Option) *TopicValidator {
	o := applyOptions(opts)
	return &TopicValidator{model: model, logger: o.logger}
}

func (v *TopicValidator) Name() domain.Target {
	return domain.TargetTopicValidator
}

func (v *TopicValidator) Run(ctx context.Context, state *domain.State) domain.Result {
	// A fresh, unvalidated topic arriving while old quiz progress is
	// still around means the user restarted mid-quiz. Clear the residue
	// before validating; the topic and conversation log survive.
	if !state.TopicValidated && (state.QuizActive || state.QuizCompleted || state.TotalAnswered > 0) {
		topic := state.Topic
		state.ResetForNewQuiz()
		state.Topic = topic
	}

	state.Phase = domain.PhaseTopicValidation

	topic := strings.TrimSpace(state.Topic)
	if topic == "" {
		v.reject(state, "I couldn't find a topic in that. What would you like to be quizzed on?", nil)
		return domain.Ok()
	}

	prompt, err := prompts.TopicValidation(topic)
	if err != nil {
		return domain.Failedf("failed to build topic validation prompt: %v", err)
	}

	raw, err := v.model.Complete(ctx, prompts.SystemPrompt, prompt)
	if err != nil {
		return domain.Failedf("LLM topic validation failed: %v", err)
	}

	var resp prompts.TopicValidationResponse
	if err := prompts.Decode(raw, &resp); err != nil {
		return domain.Failedf("LLM topic validation returned malformed output: %v", err)
	}

	if !resp.IsValid {
		reason := resp.Reason
		if reason == "" {
			reason = "That topic doesn't work well for a quiz."
		}
		v.reject(state, reason, resp.Suggestions)
		v.logger.Info("topic rejected",
			"session_id", state.SessionID, "topic", topic, "retry_count", state.RetryCount)
		return domain.Ok()
	}

	state.Topic = topic
	state.TopicValidated = true
	if resp.Difficulty != "" {
		state.Metadata[domain.MetaDifficulty] = resp.Difficulty
	}
	delete(state.Metadata, domain.MetaSuggestedTopics)
	state.Touch()
	return domain.Ok()
}

func (v *TopicValidator) reject(state *domain.State, reason string, suggestions []string) {
	state.TopicValidated = false
	state.RetryCount++
	state.Metadata[domain.MetaClarification] = reason
	if len(suggestions) > 0 {
		state.Metadata[domain.MetaSuggestedTopics] = suggestions
	}
	state.Touch()
}
