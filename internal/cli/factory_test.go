package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizflow/quizflow/internal/config"
	"github.com/quizflow/quizflow/internal/logging"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.OpenAI.APIKey = "sk-test"
	return cfg
}

func TestBuildEngine_Memory(t *testing.T) {
	engine, cleanup, err := BuildEngine(testConfig(), logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, engine)
}

func TestBuildEngine_QuizMaxQuestions(t *testing.T) {
	cfg := testConfig()
	cfg.Quiz.MaxQuestions = 3

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	// Sessions started by the built engine carry the configured quiz
	// length, not the domain default.
	state, err := engine.Start(context.Background(), "quiz-size")
	require.NoError(t, err)
	assert.Equal(t, 3, state.MaxQuestions)
}

func TestBuildEngine_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Storage = "redis"
	cfg.Redis.Addr = mr.Addr()

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	// The engine persists sessions through the redis store.
	state, err := engine.Start(context.Background(), "factory-test")
	require.NoError(t, err)
	assert.Equal(t, "factory-test", state.SessionID)
	assert.NotEmpty(t, mr.Keys())
}

func TestBuildEngine_EncryptedRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Storage = "redis"
	cfg.Redis.Addr = mr.Addr()
	cfg.Security.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	_, err = engine.Start(context.Background(), "enc-test")
	require.NoError(t, err)

	// The raw redis value is an envelope, not plaintext state JSON.
	raw, err := mr.Get("quizflow:session:enc-test")
	require.NoError(t, err)
	assert.Contains(t, raw, "__encrypted__")

	state, err := engine.Sessions().Load(context.Background(), "enc-test")
	require.NoError(t, err)
	assert.Equal(t, "enc-test", state.SessionID)
}

func TestBuildEngine_BadEncryptionKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EncryptionKey = "too-short"

	_, _, err := BuildEngine(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestBuildEngine_MissingAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAI.APIKey = ""

	_, _, err := BuildEngine(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewLogger_Levels(t *testing.T) {
	cfg := config.Default()

	for _, level := range []string{"debug", "info", "warn", "error", "silent"} {
		cfg.LogLevel = level
		assert.NotNil(t, NewLogger(cfg, false), level)
	}

	// Debug flag wins regardless of configured level.
	cfg.LogLevel = "error"
	logger := NewLogger(cfg, true)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
