package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
)

type countingExtractor struct {
	res   extract.Result
	calls int
	last  extract.Request
}

func (c *countingExtractor) Extract(_ context.Context, req extract.Request) extract.Result {
	c.calls++
	c.last = req
	return c.res
}

type fakes struct {
	ocr, primary, fallback *countingExtractor
}

func (f *fakes) total() int { return f.ocr.calls + f.primary.calls + f.fallback.calls }

func (f *fakes) factory(*common.Config, *slog.Logger) extractors {
	return extractors{ocr: f.ocr, primary: f.primary, fallback: f.fallback}
}

func newFakes(t *testing.T) *fakes {
	t.Helper()
	primary, err := extract.ParseObject([]byte(`{"first_name": "John", "last_name": "Doe"}`))
	if err != nil {
		t.Fatal(err)
	}
	secondary, err := extract.ParseObject([]byte(`{"first_name": "Maria", "last_name": "Garcia"}`))
	if err != nil {
		t.Fatal(err)
	}
	return &fakes{
		ocr:      &countingExtractor{res: extract.Fail("MISTRAL_API_KEY environment variable not set", "")},
		primary:  &countingExtractor{res: extract.Ok(primary, constants.MethodChatCompletion)},
		fallback: &countingExtractor{res: extract.Ok(secondary, constants.MethodOpenAIFallback)},
	}
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nBT (John Doe) Tj ET"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "EXTRACT_TEMPERATURE", "EXTRACT_MAX_TOKENS", "MISTRAL_BASE_URL", "OPENAI_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, b)
	}
	return m
}

func TestRunMalformedSchemaMakesNoProviderCalls(t *testing.T) {
	clearEnv(t)
	for _, schema := range []string{"{not json", `["a", "b"]`, `"text"`} {
		f := newFakes(t)
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"--schema", schema, writePDF(t)}, &stdout, &stderr, f.factory)

		if code != 1 {
			t.Errorf("schema %q: exit = %d, want 1", schema, code)
		}
		if f.total() != 0 {
			t.Errorf("schema %q: %d provider calls", schema, f.total())
		}
		if stdout.Len() != 0 {
			t.Errorf("schema %q: stdout = %q", schema, stdout.String())
		}
		if !strings.Contains(stderr.String(), "invalid JSON schema") {
			t.Errorf("schema %q: stderr = %q", schema, stderr.String())
		}
	}
}

func TestRunPlaceholderEscalates(t *testing.T) {
	clearEnv(t)
	f := newFakes(t)
	var stdout, stderr bytes.Buffer
	args := []string{"--schema", `{"first_name": "", "last_name": ""}`, writePDF(t)}
	if code := run(context.Background(), args, &stdout, &stderr, f.factory); code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}

	out := decode(t, stdout.Bytes())
	if out["method"] != "openai_fallback" || out["first_name"] != "Maria" {
		t.Errorf("result = %v", out)
	}
	if f.ocr.calls != 0 {
		t.Error("OCR called without --ocr-api")
	}
	if f.primary.last.SystemPrompt != constants.DefaultSystemPrompt {
		t.Errorf("system prompt = %q", f.primary.last.SystemPrompt)
	}
	if !strings.Contains(stderr.String(), "pipeline.fallback.attempt") {
		t.Error("fallback decision not logged to stderr")
	}
}

func TestRunNoFallback(t *testing.T) {
	clearEnv(t)
	f := newFakes(t)
	var stdout, stderr bytes.Buffer
	args := []string{"--no-fallback", "--ocr-api", "--system-prompt", "custom", writePDF(t)}
	if code := run(context.Background(), args, &stdout, &stderr, f.factory); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := decode(t, stdout.Bytes())
	if out["method"] != "chat_completion" {
		t.Errorf("result = %v", out)
	}
	if f.fallback.calls != 0 {
		t.Error("fallback called with --no-fallback")
	}
	if f.ocr.calls != 1 {
		t.Errorf("ocr calls = %d", f.ocr.calls)
	}
	if got := f.primary.last.Schema.Keys(); len(got) != 1 || got[0] != "text" {
		t.Errorf("default schema keys = %v", got)
	}
	if f.primary.last.SystemPrompt != "custom" {
		t.Errorf("system prompt = %q", f.primary.last.SystemPrompt)
	}
}

func TestRunUnreadablePDFIsAResult(t *testing.T) {
	clearEnv(t)
	f := newFakes(t)
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "absent.pdf")
	if code := run(context.Background(), []string{missing}, &stdout, &stderr, f.factory); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := decode(t, stdout.Bytes())
	msg, _ := out["error"].(string)
	if !strings.HasPrefix(msg, "Could not read PDF") {
		t.Errorf("result = %v", out)
	}
	if f.total() != 0 {
		t.Errorf("%d provider calls for an unreadable file", f.total())
	}
}

func TestRunOutputFile(t *testing.T) {
	clearEnv(t)
	f := newFakes(t)
	var stdout, stderr bytes.Buffer
	outPath := filepath.Join(t.TempDir(), "out.json")
	if code := run(context.Background(), []string{"--output", outPath, writePDF(t)}, &stdout, &stderr, f.factory); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q", stdout.String())
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if out := decode(t, b); out["method"] != "openai_fallback" {
		t.Errorf("file result = %v", out)
	}
	if !strings.Contains(stderr.String(), "results written") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunUsage(t *testing.T) {
	clearEnv(t)
	f := newFakes(t)
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr, f.factory); code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "usage: docextract") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunFlagsAfterPathIsUsageError(t *testing.T) {
	clearEnv(t)
	f := newFakes(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{writePDF(t), "--no-fallback"}, &stdout, &stderr, f.factory)
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if f.total() != 0 {
		t.Errorf("%d provider calls", f.total())
	}
	if !strings.Contains(stderr.String(), "flags must come before <pdf_path>") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
