// Package cli assembles engines from configuration for the quizflow
// commands. It keeps wiring logic out of the cobra layer so it can be
// tested without a terminal.
package cli

import (
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/quizflow/quizflow"
	"github.com/quizflow/quizflow/internal/config"
	"github.com/quizflow/quizflow/internal/logging"
	"github.com/quizflow/quizflow/pkg/adapters/memory"
	"github.com/quizflow/quizflow/pkg/adapters/openai"
	"github.com/quizflow/quizflow/pkg/adapters/redis"
	"github.com/quizflow/quizflow/pkg/persistence/middleware"
	"github.com/quizflow/quizflow/pkg/ports"
)

// BuildEngine wires a full engine from configuration: the OpenAI chat
// model, the configured session store, and any extra options from the
// caller (recorder, hooks). The returned cleanup closes backend
// connections and is safe to call once.
func BuildEngine(cfg config.Config, logger *slog.Logger, extra ...quizflow.Option) (*quizflow.Engine, func(), error) {
	model, err := BuildModel(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []quizflow.Option{
		quizflow.WithLogger(logger),
		quizflow.WithMaxQuestions(cfg.Quiz.MaxQuestions),
	}
	cleanup := func() {}

	var store ports.StateStore = memory.NewStore()
	if cfg.Storage == "redis" {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redis.NewFromClient(client, redis.WithTTL(cfg.Redis.TTL))
		opts = append(opts, quizflow.WithLocker(redis.NewLocker(client, "quizflow:lock:")))
		cleanup = func() { _ = client.Close() }
	}

	store, err = wrapStore(store, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	opts = append(opts, quizflow.WithStore(store))

	opts = append(opts, extra...)

	engine, err := quizflow.New(model, opts...)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build engine: %w", err)
	}
	return engine, cleanup, nil
}

// wrapStore applies the configured persistence middleware: PII masking
// first, then encryption, so masked metadata is what gets encrypted.
func wrapStore(store ports.StateStore, cfg config.Config) (ports.StateStore, error) {
	var mws []middleware.Middleware

	if len(cfg.Security.MaskMetadata) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Security.MaskMetadata))
	}

	key, err := cfg.Security.DecodeEncryptionKey()
	if err != nil {
		return nil, err
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	return middleware.Chain(store, mws...), nil
}

// BuildModel creates the ChatModel from the OpenAI settings.
func BuildModel(cfg config.Config, logger *slog.Logger) (ports.ChatModel, error) {
	return openai.New(cfg.OpenAI.APIKey,
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithTemperature(cfg.OpenAI.Temperature),
		openai.WithMaxTokens(cfg.OpenAI.MaxTokens),
		openai.WithLogger(logger),
	)
}

// NewLogger builds the application logger from the configured level.
// Debug mode always wins over the configured level.
func NewLogger(cfg config.Config, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	switch cfg.LogLevel {
	case "debug":
		return logging.New(slog.LevelDebug)
	case "warn":
		return logging.New(slog.LevelWarn)
	case "error":
		return logging.New(slog.LevelError)
	case "silent", "off":
		return logging.NewNop()
	default:
		return logging.New(slog.LevelInfo)
	}
}
