package steps_test

import (
	"context"
	"testing"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicValidator_AcceptsValidTopic(t *testing.T) {
	model := staticModel(`{"is_valid": true, "confidence": 0.95, "difficulty_level": "intermediate"}`)
	validator := steps.NewTopicValidator(model)

	state := domain.NewState("s1")
	state.Topic = "  World War II  "

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)

	assert.True(t, state.TopicValidated)
	assert.Equal(t, "World War II", state.Topic, "topic is trimmed")
	assert.Equal(t, domain.PhaseTopicValidation, state.Phase)
	assert.Equal(t, 0, state.RetryCount)
	assert.Equal(t, "intermediate", state.Metadata[domain.MetaDifficulty])
}

func TestTopicValidator_RejectsInvalidTopic(t *testing.T) {
	model := staticModel(`{"is_valid": false, "confidence": 0.9, "reason": "too personal", "suggestions": ["Psychology", "Sociology"]}`)
	validator := steps.NewTopicValidator(model)

	state := domain.NewState("s1")
	state.Topic = "my neighbor's secrets"

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err, "rejection is not a step failure")

	assert.False(t, state.TopicValidated)
	assert.Equal(t, 1, state.RetryCount)
	assert.Equal(t, "too personal", state.Metadata[domain.MetaClarification])
	assert.Equal(t, []string{"Psychology", "Sociology"}, state.Metadata[domain.MetaSuggestedTopics])
}

func TestTopicValidator_EmptyTopicRejectsWithoutModelCall(t *testing.T) {
	validator := steps.NewTopicValidator(failingModel("model should not be called"))

	state := domain.NewState("s1")

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.False(t, state.TopicValidated)
	assert.Equal(t, 1, state.RetryCount)
	assert.NotEmpty(t, state.Metadata[domain.MetaClarification])
}

func TestTopicValidator_ModelFailureIsFailedResult(t *testing.T) {
	validator := steps.NewTopicValidator(failingModel("rate limit exceeded"))

	state := domain.NewState("s1")
	state.Topic = "Chemistry"

	res := validator.Run(context.Background(), state)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "LLM topic validation failed")
	assert.False(t, state.TopicValidated)
}

func TestTopicValidator_MidQuizRestartClearsProgress(t *testing.T) {
	validator := steps.NewTopicValidator(staticModel(`{"is_valid": true, "confidence": 0.9}`))

	state := domain.NewState("s1")
	state.QuizActive = true
	state.TotalAnswered = 4
	state.TotalScore = 3
	state.History = []domain.ConversationEntry{{User: "old"}}
	// The analyzer extracted a new topic for the restart.
	state.Topic = "Chemistry"
	state.TopicValidated = false

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)

	assert.True(t, state.TopicValidated)
	assert.Equal(t, "Chemistry", state.Topic)
	assert.Zero(t, state.TotalAnswered, "old quiz progress is gone")
	assert.Zero(t, state.TotalScore)
	assert.Len(t, state.History, 1, "conversation log survives")
}

func TestTopicValidator_AcceptanceClearsSuggestions(t *testing.T) {
	validator := steps.NewTopicValidator(staticModel(`{"is_valid": true, "confidence": 0.9}`))

	state := domain.NewState("s1")
	state.Topic = "Biology"
	state.Metadata[domain.MetaSuggestedTopics] = []string{"stale"}

	res := validator.Run(context.Background(), state)
	require.True(t, res.OK, res.Err)
	assert.NotContains(t, state.Metadata, domain.MetaSuggestedTopics)
}
