package steps

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/quizflow/quizflow/pkg/prompts"
)

// exitWords are matched against the whole trimmed input.
var exitWords = map[string]bool{
	"exit": true, "quit": true, "bye": true, "goodbye": true,
	"done": true, "stop": true,
}

// continueWords are matched against the whole trimmed input.
var continueWords = map[string]bool{
	"next": true, "continue": true, "more": true, "next question": true,
}

// newQuizPhrases are matched as substrings.
var newQuizPhrases = []string{"new quiz", "different topic", "start over", "another quiz"}

// QueryAnalyzer classifies the user's intent. Unambiguous keyword
// inputs are resolved without a model call; everything else goes
// through the intent classification prompt. When the intent starts a
// quiz, the analyzer also extracts the topic from the input.
type QueryAnalyzer struct {
	model  ports.ChatModel
	logger *slog.Logger
}

// NewQueryAnalyzer builds the analyzer step.
func NewQueryAnalyzer(model ports.ChatModel, opts ...Option) *QueryAnalyzer {
	o := applyOptions(opts)
	return &QueryAnalyzer{model: model, logger: o.logger}
}

func (a *QueryAnalyzer) Name() domain.Target {
	return domain.TargetQueryAnalyzer
}

func (a *QueryAnalyzer) Run(ctx context.Context, state *domain.State) domain.Result {
	input := strings.TrimSpace(state.UserInput)
	if input == "" {
		state.Intent = domain.IntentClarification
		return domain.Ok()
	}

	if intent, ok := intentFromKeywords(input); ok {
		state.Intent = intent
		a.logger.Debug("intent resolved from keywords",
			"session_id", state.SessionID, "intent", intent)
	} else if state.HasPendingQuestion() {
		// A pending question plus free-form input is an answer; the
		// router applies the same heuristic, this just avoids a model
		// call for the common case.
		state.Intent = domain.IntentAnswerQuestion
	} else {
		intent, err := a.classify(ctx, state)
		if err != nil {
			return domain.Failedf("LLM intent classification failed: %v", err)
		}
		state.Intent = intent
	}

	switch state.Intent {
	case domain.IntentAnswerQuestion:
		state.UserAnswer = state.UserInput
	case domain.IntentStartQuiz, domain.IntentNewQuiz:
		topic, err := a.extractTopic(ctx, input)
		if err != nil {
			return domain.Failedf("LLM topic extraction failed: %v", err)
		}
		if topic != "" {
			state.Topic = topic
			state.TopicValidated = false
		}
	}

	state.Touch()
	return domain.Ok()
}

func (a *QueryAnalyzer) classify(ctx context.Context, state *domain.State) (domain.Intent, error) {
	prompt, err := prompts.IntentClassification(state)
	if err != nil {
		return domain.IntentNone, err
	}

	raw, err := a.model.Complete(ctx, prompts.SystemPrompt, prompt)
	if err != nil {
		return domain.IntentNone, err
	}

	var resp prompts.IntentResponse
	if err := prompts.Decode(raw, &resp); err != nil {
		return domain.IntentNone, err
	}

	switch resp.Intent {
	case domain.IntentStartQuiz, domain.IntentAnswerQuestion, domain.IntentNewQuiz,
		domain.IntentExit, domain.IntentContinue, domain.IntentClarification:
		return resp.Intent, nil
	default:
		return domain.IntentClarification, nil
	}
}

func (a *QueryAnalyzer) extractTopic(ctx context.Context, input string) (string, error) {
	prompt, err := prompts.TopicExtraction(input)
	if err != nil {
		return "", err
	}

	raw, err := a.model.Complete(ctx, prompts.SystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	var resp prompts.TopicExtractionResponse
	if err := prompts.Decode(raw, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Topic), nil
}

func intentFromKeywords(input string) (domain.Intent, bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	lower = strings.TrimRight(lower, ".!?")

	if exitWords[lower] {
		return domain.IntentExit, true
	}
	if continueWords[lower] {
		return domain.IntentContinue, true
	}
	for _, phrase := range newQuizPhrases {
		if strings.Contains(lower, phrase) {
			return domain.IntentNewQuiz, true
		}
	}
	return domain.IntentNone, false
}
