package common

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"MISTRAL_API_KEY", "MISTRAL_BASE_URL", "MISTRAL_OCR_MODEL", "MISTRAL_CHAT_MODEL",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	"EXTRACT_TEMPERATURE", "EXTRACT_MAX_TOKENS", "HTTP_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearConfigEnv blanks every variable LoadConfig reads; empty means unset to getEnv.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mistral.OCRModel != "mistral-ocr-latest" || cfg.Mistral.ChatModel != "mistral-large-latest" {
		t.Errorf("mistral = %+v", cfg.Mistral)
	}
	if cfg.OpenAI.Model != "gpt-4" {
		t.Errorf("openai model = %q", cfg.OpenAI.Model)
	}
	if cfg.Extraction.Temperature != 0.1 || cfg.Extraction.MaxTokens != 1000 {
		t.Errorf("extraction = %+v", cfg.Extraction)
	}
	if cfg.Mistral.APIKey != "" || cfg.OpenAI.APIKey != "" {
		t.Error("API keys must not have defaults")
	}
}

func TestLoadConfigLayers(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "docextract.yaml")
	yaml := `
mistral:
  chat_model: mistral-small-latest
openai:
  model: gpt-4o
  base_url: http://localhost:9000/v1
extraction:
  temperature: 0.3
  http_timeout: 30s
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_MODEL", "gpt-4-turbo")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EXTRACT_MAX_TOKENS", "2048")
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mistral.ChatModel != "mistral-small-latest" {
		t.Errorf("file layer lost: chat_model = %q", cfg.Mistral.ChatModel)
	}
	if cfg.Mistral.OCRModel != "mistral-ocr-latest" {
		t.Errorf("default lost: ocr_model = %q", cfg.Mistral.OCRModel)
	}
	if cfg.OpenAI.Model != "gpt-4-turbo" {
		t.Errorf("env should override file: model = %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.BaseURL != "http://localhost:9000/v1" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.Extraction.Temperature != 0.3 || cfg.Extraction.MaxTokens != 2048 {
		t.Errorf("extraction = %+v", cfg.Extraction)
	}
	if cfg.Extraction.HTTPTimeout != 30*time.Second {
		t.Errorf("unparseable env should keep the file value: timeout = %v", cfg.Extraction.HTTPTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantSub string
	}{
		{name: "bad yaml", yaml: "mistral: [unclosed", wantSub: "parse config file"},
		{name: "temperature range", env: map[string]string{"EXTRACT_TEMPERATURE": "3.5"}, wantSub: "extraction.temperature"},
		{name: "max tokens", env: map[string]string{"EXTRACT_MAX_TOKENS": "-1"}, wantSub: "extraction.max_tokens"},
		{name: "base url", env: map[string]string{"MISTRAL_BASE_URL": "api.mistral.ai"}, wantSub: "mistral.base_url"},
		{name: "log format", env: map[string]string{"LOG_FORMAT": "xml"}, wantSub: "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "c.yaml")
				if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsConfigError(err) {
				t.Errorf("error %v is not a config error", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !IsConfigError(err) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}
