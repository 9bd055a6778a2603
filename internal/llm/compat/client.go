package compat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/llm"
	"github.com/joseph-ayodele/docextract/internal/ocr"
)

// Extract implements extract.Extractor: raw PDF text + field schema -> JSON fields.
// Failures come back as failed results; a parse failure carries the unparsed reply.
func (c *Client) Extract(ctx context.Context, req extract.Request) extract.Result {
	log := common.LoggerFrom(ctx, c.logger).With("provider", c.cfg.Provider, "model", c.cfg.Model)
	start := time.Now()

	log.Info("llm.extract.start",
		"temp", c.cfg.Temperature,
		"max_tokens", c.cfg.MaxTokens,
		"schema_fields", req.Schema.Len(),
		"pdf_bytes", len(req.Document.Bytes),
	)

	fields, raw, err := c.extractFields(ctx, req, log)
	if err != nil {
		log.Error("llm.extract.failed",
			"kind", common.ErrorKind(err),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fail(err.Error(), raw)
	}

	log.Info("llm.extract.ok",
		"method", c.cfg.Method,
		"fields", fields.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return extract.Ok(fields, c.cfg.Method)
}

// extractFields returns the parsed fields, or an error plus the raw reply when there was one.
func (c *Client) extractFields(ctx context.Context, req extract.Request, log *slog.Logger) (extract.Object, string, error) {
	if c.cfg.APIKey == "" {
		return extract.Object{}, "", common.NewKindError(common.ErrMissingCredential,
			"%s environment variable not set", c.cfg.APIKeyEnv)
	}

	text := ocr.ExtractRawText(req.Document.Bytes)
	if strings.TrimSpace(text) == "" {
		return extract.Object{}, "", common.NewKindError(common.ErrNoText, "No text could be extracted from PDF")
	}
	log.Debug("llm.extract.raw_text", "text_len", len(text))

	user, err := llm.BuildUserPrompt(req.Schema, text)
	if err != nil {
		return extract.Object{}, "", common.NewKindError(common.ErrInvalidInput, "build prompt: %v", err)
	}

	reply, err := c.completer.Complete(ctx, llm.ChatRequest{
		Model:       c.cfg.Model,
		System:      req.SystemPrompt,
		User:        user,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return extract.Object{}, "", common.NewKindError(common.ErrProvider, "%s: %v", c.cfg.Provider, err)
	}

	cleaned := llm.CleanJSONResponse(reply)
	fields, err := extract.ParseObject([]byte(cleaned))
	if err != nil {
		return extract.Object{}, reply, common.NewKindError(common.ErrParse, "Failed to parse JSON response: %v", err)
	}

	// Missing fields are reported, not rejected: the schema is guidance for the model.
	if req.Schema.Len() > 0 {
		if vErr := llm.ValidateJSONAgainstSchema(llm.BuildFieldsJSONSchema(req.Schema), []byte(cleaned)); vErr != nil {
			log.Warn("llm.extract.schema_mismatch", "error", vErr)
		}
	}
	if reserved := extract.ReservedKeys(fields); len(reserved) > 0 {
		log.Warn("llm.extract.reserved_keys_dropped", "keys", reserved)
	}
	return fields, "", nil
}
