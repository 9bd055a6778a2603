package llm

import "context"

// ChatRequest is a provider-neutral system+user chat completion call.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

// ChatCompleter sends one chat completion and returns the text of the first choice.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
