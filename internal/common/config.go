package common

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Mistral    MistralConfig    `yaml:"mistral"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Log        LogConfig        `yaml:"log"`
}

// MistralConfig holds the primary provider family (OCR + chat).
type MistralConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	OCRModel  string `yaml:"ocr_model"`
	ChatModel string `yaml:"chat_model"`
}

// OpenAIConfig holds the secondary (fallback) provider.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ExtractionConfig holds sampling and transport settings shared by chat adapters.
type ExtractionConfig struct {
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// DefaultConfig returns the built-in defaults, without consulting the environment.
func DefaultConfig() *Config {
	return &Config{
		Mistral: MistralConfig{
			BaseURL:   "https://api.mistral.ai/v1",
			OCRModel:  "mistral-ocr-latest",
			ChatModel: "mistral-large-latest",
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4",
		},
		Extraction: ExtractionConfig{
			Temperature: 0.1,
			MaxTokens:   1000,
			HTTPTimeout: 120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig layers defaults, an optional YAML file (path may be empty) and
// environment variables, in that order. API keys are not validated here:
// each adapter checks its own credential when it is invoked.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, ConfigError("parse config file", err)
		}
	}

	cfg.Mistral.APIKey = getEnv("MISTRAL_API_KEY", cfg.Mistral.APIKey)
	cfg.Mistral.BaseURL = getEnv("MISTRAL_BASE_URL", cfg.Mistral.BaseURL)
	cfg.Mistral.OCRModel = getEnv("MISTRAL_OCR_MODEL", cfg.Mistral.OCRModel)
	cfg.Mistral.ChatModel = getEnv("MISTRAL_CHAT_MODEL", cfg.Mistral.ChatModel)

	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.OpenAI.Model)

	cfg.Extraction.Temperature = getEnvAsFloat64("EXTRACT_TEMPERATURE", cfg.Extraction.Temperature)
	cfg.Extraction.MaxTokens = getEnvAsInt64("EXTRACT_MAX_TOKENS", cfg.Extraction.MaxTokens)
	cfg.Extraction.HTTPTimeout = getEnvAsDuration("HTTP_TIMEOUT", cfg.Extraction.HTTPTimeout)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would make every provider call fail.
func (c *Config) Validate() error {
	v := NewValidator().
		Field("mistral.base_url", c.Mistral.BaseURL, Required, HTTPURL).
		Field("mistral.ocr_model", c.Mistral.OCRModel, Required).
		Field("mistral.chat_model", c.Mistral.ChatModel, Required).
		Field("openai.base_url", c.OpenAI.BaseURL, Required, HTTPURL).
		Field("openai.model", c.OpenAI.Model, Required).
		Field("extraction.temperature", c.Extraction.Temperature, Between(0, 2)).
		Field("extraction.max_tokens", c.Extraction.MaxTokens, Positive).
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "warning", "error")).
		Field("log.format", c.Log.Format, OneOf("text", "json"))
	return v.Err()
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
