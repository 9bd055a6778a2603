package extract

import (
	"context"
)

// Document is the input PDF, read once per invocation.
type Document struct {
	Path  string
	Bytes []byte
	Pages int // best-effort; 0 when unknown
}

// Strategy holds the caller's switches.
type Strategy struct {
	UseOCR        bool // try the dedicated OCR service first
	Fallback      bool // allow escalation to the secondary provider
	IncludeImages bool // ask the OCR service for embedded images
}

// Request is everything one extraction needs. It is built once and not mutated.
type Request struct {
	Document     Document
	Schema       FieldSchema
	SystemPrompt string
	Strategy     Strategy
}

// Extractor wraps one provider call. Implementations never return a Go error:
// every failure is reported as a failed Result.
type Extractor interface {
	Extract(ctx context.Context, req Request) Result
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, req Request) Result

func (f ExtractorFunc) Extract(ctx context.Context, req Request) Result { return f(ctx, req) }
