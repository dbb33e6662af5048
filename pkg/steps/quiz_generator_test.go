package steps_test

import (
	"context"
	"testing"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validatedState() *domain.State {
	state := domain.NewState("s1")
	state.Topic = "Astronomy"
	state.TopicValidated = true
	return state
}

func TestQuizGenerator_GeneratesMultipleChoice(t *testing.T) {
	model := staticModel(`{
		"question": "Which planet is largest?",
		"type": "multiple_choice",
		"correct_answer": "Jupiter",
		"options": ["Mars", "Jupiter", "Venus", "Mercury"],
		"explanation": "Jupiter is the largest planet."
	}`)
	gen := steps.NewQuizGenerator(model)

	state := validatedState()
	res := gen.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)

	assert.Equal(t, "Which planet is largest?", state.CurrentQuestion)
	assert.Equal(t, domain.QuestionMultipleChoice, state.QuestionType)
	assert.Equal(t, "Jupiter", state.CorrectAnswer)
	assert.Len(t, state.QuestionOptions, 4)
	assert.True(t, state.QuizActive)
	assert.Equal(t, domain.PhaseQuizActive, state.Phase)
	assert.Nil(t, state.AnswerIsCorrect)
}

func TestQuizGenerator_RequiresValidatedTopic(t *testing.T) {
	gen := steps.NewQuizGenerator(failingModel("model should not be called"))

	state := domain.NewState("s1")
	state.Topic = "Astronomy" // not validated

	res := gen.Run(context.Background(), state)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "validated topic")
}

func TestQuizGenerator_RejectsEmptyQuestion(t *testing.T) {
	gen := steps.NewQuizGenerator(staticModel(`{"question": "", "type": "open_ended"}`))

	res := gen.Run(context.Background(), validatedState())
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "empty question")
}

func TestQuizGenerator_RejectsMissingAnswerKey(t *testing.T) {
	gen := steps.NewQuizGenerator(staticModel(`{"question": "Is water wet?", "type": "true_false", "correct_answer": ""}`))

	res := gen.Run(context.Background(), validatedState())
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "answer key")
}

func TestQuizGenerator_ModelFailureIsFailedResult(t *testing.T) {
	gen := steps.NewQuizGenerator(failingModel("timeout while waiting for completion"))

	res := gen.Run(context.Background(), validatedState())
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "LLM question generation failed")
}

func TestQuizGenerator_FallbackBuildsTemplateQuestion(t *testing.T) {
	// The degraded generation path must not touch the model.
	gen := steps.NewQuizGenerator(failingModel("model should not be called"))

	state := validatedState()
	state.Metadata[domain.MetaFallbackGeneration] = true

	res := gen.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)

	assert.Contains(t, state.CurrentQuestion, "Astronomy")
	assert.Equal(t, domain.QuestionOpenEnded, state.QuestionType)
	assert.Empty(t, state.CorrectAnswer)
	assert.Equal(t, true, state.Metadata[domain.MetaFallbackGrading],
		"no answer key means grading must degrade too")
	assert.True(t, state.QuizActive)
}
