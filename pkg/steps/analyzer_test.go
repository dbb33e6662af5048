package steps_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/quizflow/quizflow/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticModel always returns the same completion.
func staticModel(response string) ports.ChatModelFunc {
	return func(ctx context.Context, system, user string) (string, error) {
		return response, nil
	}
}

// failingModel always errors.
func failingModel(msg string) ports.ChatModelFunc {
	return func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New(msg)
	}
}

func TestQueryAnalyzer_KeywordFastPath(t *testing.T) {
	// The model must never be consulted for keyword inputs.
	model := failingModel("model should not be called")
	analyzer := steps.NewQueryAnalyzer(model)
	ctx := context.Background()

	cases := []struct {
		input string
		want  domain.Intent
	}{
		{"exit", domain.IntentExit},
		{"Quit!", domain.IntentExit},
		{"bye", domain.IntentExit},
		{"next", domain.IntentContinue},
		{"Continue", domain.IntentContinue},
		{"more", domain.IntentContinue},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			state := domain.NewState("s1")
			state.UserInput = tc.input

			res := analyzer.Run(ctx, state)
			require.True(t, res.OK, res.Err)
			assert.Equal(t, tc.want, state.Intent)
		})
	}
}

func TestQueryAnalyzer_NewQuizPhraseExtractsTopic(t *testing.T) {
	model := ports.ChatModelFunc(func(ctx context.Context, system, user string) (string, error) {
		// Only the topic extraction prompt should reach the model.
		require.Contains(t, user, "Extract the quiz topic")
		return `{"topic": "Roman History", "confidence": 0.9}`, nil
	})
	analyzer := steps.NewQueryAnalyzer(model)

	state := domain.NewState("s1")
	state.UserInput = "let's do a new quiz about ancient rome"

	res := analyzer.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, domain.IntentNewQuiz, state.Intent)
	assert.Equal(t, "Roman History", state.Topic)
	assert.False(t, state.TopicValidated)
}

func TestQueryAnalyzer_PendingQuestionIsAnswer(t *testing.T) {
	analyzer := steps.NewQueryAnalyzer(failingModel("model should not be called"))

	state := domain.NewState("s1")
	state.CurrentQuestion = "What is 2+2?"
	state.UserInput = "4"

	res := analyzer.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, domain.IntentAnswerQuestion, state.Intent)
	assert.Equal(t, "4", state.UserAnswer)
}

func TestQueryAnalyzer_LLMClassification(t *testing.T) {
	calls := 0
	model := ports.ChatModelFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		if strings.Contains(user, "intent classifier") {
			return `{"intent": "start_quiz", "confidence": 0.85}`, nil
		}
		return `{"topic": "Jazz", "confidence": 0.8}`, nil
	})
	analyzer := steps.NewQueryAnalyzer(model)

	state := domain.NewState("s1")
	state.UserInput = "I'd love to learn about jazz"

	res := analyzer.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, domain.IntentStartQuiz, state.Intent)
	assert.Equal(t, "Jazz", state.Topic)
	assert.Equal(t, 2, calls, "classification and extraction")
}

func TestQueryAnalyzer_UnknownModelIntentBecomesClarification(t *testing.T) {
	analyzer := steps.NewQueryAnalyzer(staticModel(`{"intent": "wat", "confidence": 0.2}`))

	state := domain.NewState("s1")
	state.UserInput = "blorp"

	res := analyzer.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, domain.IntentClarification, state.Intent)
}

func TestQueryAnalyzer_EmptyInputIsClarification(t *testing.T) {
	analyzer := steps.NewQueryAnalyzer(failingModel("model should not be called"))

	state := domain.NewState("s1")
	state.UserInput = "   "

	res := analyzer.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, domain.IntentClarification, state.Intent)
}

func TestQueryAnalyzer_ModelFailureIsFailedResult(t *testing.T) {
	analyzer := steps.NewQueryAnalyzer(failingModel("connection refused"))

	state := domain.NewState("s1")
	state.UserInput = "tell me about philosophy"

	res := analyzer.Run(context.Background(), state)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "LLM intent classification failed")
}
