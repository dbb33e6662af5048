package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Documented State.Metadata keys. Steps and routers communicate through
// these; everything else in the map is opaque to the engine.
const (
	// MetaSuggestedTopics holds alternative topics proposed by the topic
	// validator when the requested one is rejected.
	MetaSuggestedTopics = "suggested_topics"

	// MetaClarification holds the message the clarification handler
	// prepared for the user.
	MetaClarification = "clarification_message"

	// MetaFallbackGrading marks that rule-based answer matching replaced
	// model grading after the LLM retry ceiling was hit.
	MetaFallbackGrading = "fallback_grading"

	// MetaFallbackGeneration marks that a template-built question replaced
	// model generation after the retry ceiling was hit.
	MetaFallbackGeneration = "fallback_generation"

	// MetaDifficulty is a difficulty adjustment hint for the generator.
	MetaDifficulty = "difficulty"

	// MetaLastFeedback carries the graded-answer feedback across the
	// question increment, which clears the per-question fields.
	MetaLastFeedback = "last_feedback"

	// MetaSummary holds the Summary written by the completion handler.
	MetaSummary = "summary"
)

// ResponseMetadata is the typed view of the metadata keys the steps
// leave for response composition. The engine decodes the whole metadata
// map into it each turn; keys outside this view are ignored.
type ResponseMetadata struct {
	Clarification   string   `json:"clarification_message,omitempty" mapstructure:"clarification_message"`
	SuggestedTopics []string `json:"suggested_topics,omitempty" mapstructure:"suggested_topics"`
	LastFeedback    string   `json:"last_feedback,omitempty" mapstructure:"last_feedback"`
	Summary         string   `json:"summary,omitempty" mapstructure:"summary"`
}

// DecodeMetadata decodes a metadata value into a typed struct using
// mapstructure tags. JSON round-trips through a store turn []string
// into []any and structs into generic maps; the weakly typed decode
// recovers the typed view either way.
func DecodeMetadata(value any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build metadata decoder: %w", err)
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}
	return nil
}
