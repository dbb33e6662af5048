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

// questionTypeRotation spreads question formats across the quiz.
var questionTypeRotation = []domain.QuestionType{
	domain.QuestionMultipleChoice,
	domain.QuestionOpenEnded,
	domain.QuestionTrueFalse,
	domain.QuestionFillInBlank,
}

// fallbackQuestionTemplates back the degraded generation path. They are
// open-ended with no reference answer, so grading degrades to the
// rule-based matcher as well.
var fallbackQuestionTemplates = []string{
	"Describe one important fact about %s.",
	"Explain a key concept from %s in your own words.",
	"Name something notable related to %s and say why it matters.",
	"What is one thing a beginner should know about %s?",
}

// QuizGenerator produces the next question for the validated topic.
// When the router has flagged degraded generation, it builds a template
// question instead of calling the model.
type QuizGenerator struct {
	model  ports.ChatModel
	logger *slog.Logger
}

// NewQuizGenerator builds the question generation step.
func NewQuizGenerator(model ports.ChatModel, opts ...Option) *QuizGenerator {
	o := applyOptions(opts)
	return &QuizGenerator{model: model, logger: o.logger}
}

func (g *QuizGenerator) Name() domain.Target {
	return domain.TargetQuizGenerator
}

func (g *QuizGenerator) Run(ctx context.Context, state *domain.State) domain.Result {
	if !state.TopicValidated || state.Topic == "" {
		return domain.Failed("quiz generation requires a validated topic")
	}

	if state.Metadata[domain.MetaFallbackGeneration] == true {
		g.applyTemplateQuestion(state)
		state.Touch()
		return domain.Ok()
	}

	questionType := questionTypeRotation[state.QuestionIndex%len(questionTypeRotation)]

	prompt, err := prompts.QuestionGeneration(state, questionType)
	if err != nil {
		return domain.Failedf("failed to build question generation prompt: %v", err)
	}

	raw, err := g.model.Complete(ctx, prompts.SystemPrompt, prompt)
	if err != nil {
		return domain.Failedf("LLM question generation failed: %v", err)
	}

	var resp prompts.QuestionResponse
	if err := prompts.Decode(raw, &resp); err != nil {
		return domain.Failedf("LLM question generation returned malformed output: %v", err)
	}
	if strings.TrimSpace(resp.Question) == "" {
		return domain.Failed("LLM question generation returned an empty question")
	}
	if resp.Type != domain.QuestionOpenEnded && strings.TrimSpace(resp.CorrectAnswer) == "" {
		return domain.Failedf("LLM question generation returned no answer key for a %s question", resp.Type)
	}
	if resp.Type == domain.QuestionMultipleChoice && len(resp.Options) < 2 {
		return domain.Failed("LLM question generation returned a multiple choice question without options")
	}

	state.CurrentQuestion = resp.Question
	state.QuestionType = resp.Type
	state.QuestionOptions = resp.Options
	state.CorrectAnswer = resp.CorrectAnswer
	state.UserAnswer = ""
	state.AnswerIsCorrect = nil
	state.AnswerFeedback = ""
	state.QuizActive = true
	state.Phase = domain.PhaseQuizActive
	state.Touch()

	g.logger.Debug("question generated",
		"session_id", state.SessionID,
		"question_index", state.QuestionIndex,
		"question_type", resp.Type,
	)
	return domain.Ok()
}

func (g *QuizGenerator) applyTemplateQuestion(state *domain.State) {
	tmpl := fallbackQuestionTemplates[state.QuestionIndex%len(fallbackQuestionTemplates)]

	state.CurrentQuestion = fmt.Sprintf(tmpl, state.Topic)
	state.QuestionType = domain.QuestionOpenEnded
	state.QuestionOptions = nil
	state.CorrectAnswer = ""
	state.UserAnswer = ""
	state.AnswerIsCorrect = nil
	state.AnswerFeedback = ""
	state.QuizActive = true
	state.Phase = domain.PhaseQuizActive
	// Template questions have no answer key, so grading must degrade too.
	state.Metadata[domain.MetaFallbackGrading] = true

	g.logger.Warn("using template question after degraded generation",
		"session_id", state.SessionID, "question_index", state.QuestionIndex)
}
