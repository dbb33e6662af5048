package routing

import "strings"

// ErrorKind is the category assigned to a failed step's diagnostic.
type ErrorKind string

const (
	KindUserInput  ErrorKind = "user_input"
	KindLLM        ErrorKind = "llm"
	KindValidation ErrorKind = "validation"
	KindNetwork    ErrorKind = "network"
	KindUnknown    ErrorKind = "unknown"
)

// Keyword tables checked in priority order. Infrastructure failures
// (LLM, network) are more actionable to retry than content failures,
// so they win ties. "llm" outranks "timeout": an LLM request timing
// out is an LLM failure first.
var classifierRules = []struct {
	kind     ErrorKind
	keywords []string
}{
	{KindLLM, []string{"llm", "api", "model", "completion"}},
	{KindNetwork, []string{"timeout", "network", "connection", "unreachable"}},
	{KindValidation, []string{"format", "invalid", "parse", "malformed"}},
	{KindUserInput, []string{"input", "unclear", "ambiguous", "empty"}},
}

// ClassifyError maps a free-text diagnostic onto an ErrorKind by
// substring matching against the lower-cased text. This is a
// best-effort heuristic; anything unmatched is Unknown.
func ClassifyError(errorText string) ErrorKind {
	text := strings.ToLower(strings.TrimSpace(errorText))
	if text == "" {
		return KindUnknown
	}
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.kind
			}
		}
	}
	return KindUnknown
}
