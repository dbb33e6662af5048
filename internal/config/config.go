package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI and server need to assemble an engine.
// Values come from an optional YAML file, overridden by environment
// variables (a .env file is honored when present, matching local
// development workflows).
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Storage     string `yaml:"storage"`

	OpenAI   OpenAIConfig   `yaml:"openai"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Security SecurityConfig `yaml:"security"`
}

type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type QuizConfig struct {
	MaxQuestions int `yaml:"max_questions"`
}

type SecurityConfig struct {
	// EncryptionKey enables encryption at rest for persisted sessions.
	// Base64-encoded 32-byte key (AES-256).
	EncryptionKey string `yaml:"encryption_key"`
	// MaskMetadata lists regex patterns; metadata keys matching any of
	// them are masked before persistence.
	MaskMetadata []string `yaml:"mask_metadata"`
}

// DecodeEncryptionKey returns the decoded key bytes, or nil when
// encryption is disabled.
func (c *SecurityConfig) DecodeEncryptionKey() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Environment: "development",
		LogLevel:    "info",
		Storage:     "memory",
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Quiz: QuizConfig{
			MaxQuestions: 10,
		},
	}
}

// Load reads the YAML file at path (if non-empty), then applies
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Environment, "QUIZFLOW_ENV")
	setString(&c.LogLevel, "QUIZFLOW_LOG_LEVEL")
	setString(&c.Storage, "QUIZFLOW_STORAGE")

	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")
	setFloat(&c.OpenAI.Temperature, "OPENAI_TEMPERATURE")
	setInt(&c.OpenAI.MaxTokens, "OPENAI_MAX_TOKENS")

	setString(&c.Redis.Addr, "QUIZFLOW_REDIS_ADDR")
	setString(&c.Redis.Password, "QUIZFLOW_REDIS_PASSWORD")
	setInt(&c.Redis.DB, "QUIZFLOW_REDIS_DB")

	setString(&c.HTTP.Addr, "QUIZFLOW_HTTP_ADDR")
	setInt(&c.Quiz.MaxQuestions, "QUIZFLOW_MAX_QUESTIONS")

	setString(&c.Security.EncryptionKey, "QUIZFLOW_ENCRYPTION_KEY")
}

// Validate checks settings that have no sane fallback.
func (c *Config) Validate() error {
	if c.Environment == "production" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required in production")
	}
	if c.Quiz.MaxQuestions <= 0 {
		return fmt.Errorf("quiz.max_questions must be positive, got %d", c.Quiz.MaxQuestions)
	}
	if c.Storage != "memory" && c.Storage != "redis" {
		return fmt.Errorf("storage must be 'memory' or 'redis', got %q", c.Storage)
	}
	if _, err := c.Security.DecodeEncryptionKey(); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float32, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			*dst = float32(f)
		}
	}
}
