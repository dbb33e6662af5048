package steps_test

import (
	"context"
	"testing"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingQuestionState() *domain.State {
	state := validatedState()
	state.QuizActive = true
	state.Phase = domain.PhaseQuizActive
	state.CurrentQuestion = "Which planet is largest?"
	state.QuestionType = domain.QuestionMultipleChoice
	state.QuestionOptions = []string{"Mars", "Jupiter", "Venus", "Mercury"}
	state.CorrectAnswer = "Jupiter"
	return state
}

func TestAnswerValidator_ModelGrading(t *testing.T) {
	model := staticModel(`{"is_correct": true, "score_percentage": 100, "feedback": "Spot on!"}`)
	validator := steps.NewAnswerValidator(model)

	state := pendingQuestionState()
	state.UserAnswer = "Jupiter"

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)

	require.NotNil(t, state.AnswerIsCorrect)
	assert.True(t, *state.AnswerIsCorrect)
	assert.Equal(t, "Spot on!", state.AnswerFeedback)
	assert.Equal(t, domain.PhaseQuestionAnswered, state.Phase)
}

func TestAnswerValidator_UsesUserInputWhenAnswerUnset(t *testing.T) {
	validator := steps.NewAnswerValidator(staticModel(`{"is_correct": false, "feedback": "nope"}`))

	state := pendingQuestionState()
	state.UserInput = "Mars"

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, "Mars", state.UserAnswer)
}

func TestAnswerValidator_RequiresPendingQuestion(t *testing.T) {
	validator := steps.NewAnswerValidator(failingModel("model should not be called"))

	state := domain.NewState("s1")
	state.UserAnswer = "42"

	res := validator.Run(context.Background(), state)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "pending question")
}

func TestAnswerValidator_ModelFailureIsFailedResult(t *testing.T) {
	validator := steps.NewAnswerValidator(failingModel("service unavailable"))

	state := pendingQuestionState()
	state.UserAnswer = "Jupiter"

	res := validator.Run(context.Background(), state)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "LLM answer grading failed")
}

func TestAnswerValidator_RuleBasedGrading(t *testing.T) {
	// Degraded grading must never call the model.
	validator := steps.NewAnswerValidator(failingModel("model should not be called"))

	cases := []struct {
		name    string
		mutate  func(*domain.State)
		answer  string
		correct bool
	}{
		{"exact match", func(s *domain.State) {}, "Jupiter", true},
		{"case and punctuation insensitive", func(s *domain.State) {}, "  jupiter! ", true},
		{"wrong answer", func(s *domain.State) {}, "Mars", false},
		{"option letter resolves", func(s *domain.State) {}, "b", true},
		{"wrong option letter", func(s *domain.State) {}, "a", false},
		{
			"true/false synonyms",
			func(s *domain.State) {
				s.QuestionType = domain.QuestionTrueFalse
				s.QuestionOptions = nil
				s.CorrectAnswer = "true"
			},
			"yes", true,
		},
		{
			"no answer key accepts substance",
			func(s *domain.State) {
				s.QuestionType = domain.QuestionOpenEnded
				s.QuestionOptions = nil
				s.CorrectAnswer = ""
			},
			"planets orbit the sun", true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := pendingQuestionState()
			state.Metadata[domain.MetaFallbackGrading] = true
			tc.mutate(state)
			state.UserAnswer = tc.answer

			res := validator.Run(context.Background(), state)
			require.True(t, res.OK, res.Err)
			require.NotNil(t, state.AnswerIsCorrect)
			assert.Equal(t, tc.correct, *state.AnswerIsCorrect)
		})
	}
}
