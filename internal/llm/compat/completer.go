package compat

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/joseph-ayodele/docextract/internal/llm"
)

// sdkCompleter implements llm.ChatCompleter with the official OpenAI Go SDK.
// Works against any OpenAI-compatible backend, Mistral's chat API included.
type sdkCompleter struct {
	client openai.Client
}

func newSDKCompleter(cfg Config, httpClient *http.Client) *sdkCompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// escalation goes to the other provider, never back to this one
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(normalizeBaseURL(cfg.BaseURL)))
	}
	return &sdkCompleter{client: openai.NewClient(opts...)}
}

func (s *sdkCompleter) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(req.MaxTokens),
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return completion.Choices[0].Message.Content, nil
}
