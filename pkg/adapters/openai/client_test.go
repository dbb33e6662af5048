package openai_test

import (
	"testing"

	"github.com/quizflow/quizflow/pkg/adapters/openai"
	"github.com/quizflow/quizflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := openai.New("")
	assert.Error(t, err)
}

func TestNew_ImplementsChatModel(t *testing.T) {
	client, err := openai.New("sk-test",
		openai.WithModel("gpt-4o"),
		openai.WithTemperature(0.2),
		openai.WithMaxTokens(512),
	)
	require.NoError(t, err)

	var _ ports.ChatModel = client
}
