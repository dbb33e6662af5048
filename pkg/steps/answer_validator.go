package steps

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/quizflow/quizflow/pkg/prompts"
)

// AnswerValidator grades the user's answer to the current question.
// Normally the model grades; when the router has flagged degraded
// grading, the rule-based matcher takes over.
type AnswerValidator struct {
	model  ports.ChatModel
	logger *slog.Logger
}

// NewAnswerValidator builds the answer grading step.
func NewAnswerValidator(model ports.ChatModel, opts ...Option) *AnswerValidator {
	o := applyOptions(opts)
	return &AnswerValidator{model: model, logger: o.logger}
}

func (v *AnswerValidator) Name() domain.Target {
	return domain.TargetAnswerValidator
}

func (v *AnswerValidator) Run(ctx context.Context, state *domain.State) domain.Result {
	if state.CurrentQuestion == "" {
		return domain.Failed("answer grading requires a pending question")
	}
	if strings.TrimSpace(state.UserAnswer) == "" {
		state.UserAnswer = state.UserInput
	}

	var (
		correct  bool
		feedback string
	)
	if state.Metadata[domain.MetaFallbackGrading] == true {
		correct, feedback = v.gradeByRules(state)
	} else {
		var err error
		correct, feedback, err = v.gradeByModel(ctx, state)
		if err != nil {
			return domain.Failedf("LLM answer grading failed: %v", err)
		}
	}

	state.AnswerIsCorrect = &correct
	state.AnswerFeedback = feedback
	state.Phase = domain.PhaseQuestionAnswered
	state.Touch()
	return domain.Ok()
}

func (v *AnswerValidator) gradeByModel(ctx context.Context, state *domain.State) (bool, string, error) {
	prompt, err := prompts.AnswerValidation(state)
	if err != nil {
		return false, "", err
	}

	raw, err := v.model.Complete(ctx, prompts.SystemPrompt, prompt)
	if err != nil {
		return false, "", err
	}

	var resp prompts.GradingResponse
	if err := prompts.Decode(raw, &resp); err != nil {
		return false, "", err
	}
	return resp.IsCorrect, resp.Feedback, nil
}

// gradeByRules is the deterministic matcher the grading path degrades
// to: normalized equality, option-letter resolution for multiple
// choice, and true/false synonym mapping. With no answer key (template
// questions) any substantive answer passes.
func (v *AnswerValidator) gradeByRules(state *domain.State) (bool, string) {
	user := normalizeAnswer(state.UserAnswer)
	want := normalizeAnswer(state.CorrectAnswer)

	if want == "" {
		if user == "" {
			return false, "I didn't catch an answer there. Give it a try!"
		}
		return true, "Thanks for your answer!"
	}

	correct := user == want
	if !correct {
		switch state.QuestionType {
		case domain.QuestionMultipleChoice:
			correct = matchOptionLetter(user, want, state.QuestionOptions)
		case domain.QuestionTrueFalse:
			correct = matchTrueFalse(user, want)
		}
	}

	if correct {
		return true, "Correct!"
	}
	return false, "Not quite. The correct answer was: " + state.CorrectAnswer
}

func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRight(s, ".!?")
}

// matchOptionLetter accepts an option letter (a-d) that resolves to the
// correct option text, or the correct option's letter itself.
func matchOptionLetter(user, want string, options []string) bool {
	if len(user) == 1 {
		idx := int(user[0] - 'a')
		if idx >= 0 && idx < len(options) && normalizeAnswer(options[idx]) == want {
			return true
		}
	}
	if len(want) == 1 {
		idx := int(want[0] - 'a')
		if idx >= 0 && idx < len(options) && normalizeAnswer(options[idx]) == user {
			return true
		}
	}
	return false
}

var truthyAnswers = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true,
}

var falsyAnswers = map[string]bool{
	"false": true, "f": true, "no": true, "n": true,
}

func matchTrueFalse(user, want string) bool {
	switch {
	case truthyAnswers[want]:
		return truthyAnswers[user]
	case falsyAnswers[want]:
		return falsyAnswers[user]
	default:
		return false
	}
}
