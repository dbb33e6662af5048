package ports

import "context"

// ChatModel is the transport-level contract for the language model the
// LLM-backed steps call. Timeouts and retries at the transport level
// are the implementation's concern; failures surface to the router
// only as Failed step results.
type ChatModel interface {
	// Complete sends a system+user prompt pair and returns the raw
	// completion text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChatModelFunc adapts a function to the ChatModel interface, which
// keeps step tests free of mock frameworks.
type ChatModelFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f ChatModelFunc) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}
