package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		text string
		want ErrorKind
	}{
		{"llm beats timeout", "LLM request timed out", KindLLM},
		{"api failure", "API returned status 500", KindLLM},
		{"plain timeout", "request timed out after 30s", KindNetwork},
		{"connection refused", "connection refused by upstream", KindNetwork},
		{"bad format", "response format did not match expectations", KindValidation},
		{"invalid content", "invalid question structure", KindValidation},
		{"unclear input", "user input was unclear", KindUserInput},
		{"empty diagnostic", "", KindUnknown},
		{"whitespace only", "   ", KindUnknown},
		{"unmatched", "something happened", KindUnknown},
		{"case insensitive", "NETWORK unreachable", KindNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyError(tc.text))
		})
	}
}

func TestClassifyError_Pure(t *testing.T) {
	// Same input, same output, no state.
	for i := 0; i < 3; i++ {
		assert.Equal(t, KindLLM, ClassifyError("LLM request timed out"))
	}
}
