package compat

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/llm"
)

// Config describes one OpenAI-compatible chat-completion provider.
type Config struct {
	Provider    string           // "mistral", "openai"; used in logs
	Method      constants.Method // tag for successful results
	APIKey      string           // checked at call time, not construction
	APIKeyEnv   string           // env var name quoted in the missing-key message
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration // http client timeout
}

// Client is a schema-guided field extractor backed by a chat completion API.
type Client struct {
	cfg       Config
	completer llm.ChatCompleter
	logger    *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCompleter replaces the SDK-backed completer (tests, alternative transports).
func WithCompleter(c llm.ChatCompleter) Option {
	return func(cl *Client) {
		if c != nil {
			cl.completer = c
		}
	}
}

func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = strings.ToUpper(cfg.Provider) + "_API_KEY"
	}
	if cfg.Method == "" {
		cfg.Method = constants.MethodChatCompletion
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = 0
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{cfg: cfg, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.completer == nil {
		c.completer = newSDKCompleter(cfg, &http.Client{Timeout: cfg.Timeout})
	}
	return c
}

// MistralChat is the primary chat-extraction profile.
func MistralChat(cfg *common.Config) Config {
	return Config{
		Provider:    "mistral",
		Method:      constants.MethodChatCompletion,
		APIKey:      cfg.Mistral.APIKey,
		APIKeyEnv:   "MISTRAL_API_KEY",
		BaseURL:     cfg.Mistral.BaseURL,
		Model:       cfg.Mistral.ChatModel,
		Temperature: cfg.Extraction.Temperature,
		MaxTokens:   cfg.Extraction.MaxTokens,
		Timeout:     cfg.Extraction.HTTPTimeout,
	}
}

// OpenAIFallback is the secondary chat-extraction profile.
func OpenAIFallback(cfg *common.Config) Config {
	return Config{
		Provider:    "openai",
		Method:      constants.MethodOpenAIFallback,
		APIKey:      cfg.OpenAI.APIKey,
		APIKeyEnv:   "OPENAI_API_KEY",
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.Extraction.Temperature,
		MaxTokens:   cfg.Extraction.MaxTokens,
		Timeout:     cfg.Extraction.HTTPTimeout,
	}
}

// the SDK joins relative paths onto the base URL, which must end in a slash
func normalizeBaseURL(u string) string {
	if u == "" || strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
