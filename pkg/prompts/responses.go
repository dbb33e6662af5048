package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quizflow/quizflow/pkg/domain"
)

// IntentResponse is the payload of the intent classification prompt.
type IntentResponse struct {
	Intent     domain.Intent `json:"intent"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning,omitempty"`
}

// TopicExtractionResponse is the payload of the topic extraction prompt.
type TopicExtractionResponse struct {
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

// TopicValidationResponse is the payload of the topic validation prompt.
type TopicValidationResponse struct {
	IsValid     bool     `json:"is_valid"`
	Confidence  float64  `json:"confidence"`
	Difficulty  string   `json:"difficulty_level,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// QuestionResponse is the payload of the question generation prompt.
type QuestionResponse struct {
	Question      string              `json:"question"`
	Type          domain.QuestionType `json:"type"`
	CorrectAnswer string              `json:"correct_answer"`
	Options       []string            `json:"options,omitempty"`
	Explanation   string              `json:"explanation,omitempty"`
}

// GradingResponse is the payload of the answer validation prompt.
type GradingResponse struct {
	IsCorrect       bool   `json:"is_correct"`
	ScorePercentage int    `json:"score_percentage"`
	Feedback        string `json:"feedback"`
}

// Decode unmarshals an LLM JSON response into out. Chat models often
// wrap JSON in markdown code fences or add prose around it, so Decode
// extracts the outermost JSON object before unmarshaling.
func Decode(raw string, out any) error {
	payload := extractJSON(raw)
	if payload == "" {
		return fmt.Errorf("no JSON object in model response %q", truncate(raw, 80))
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to decode model response: %w", err)
	}
	return nil
}

func extractJSON(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
