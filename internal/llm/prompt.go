package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/extract"
)

// BuildUserPrompt embeds the field schema (indented, caller key order) and the
// document text into the extraction instruction sent as the user message.
func BuildUserPrompt(schema extract.FieldSchema, text string) (string, error) {
	schemaJSON, err := schema.Indent("  ")
	if err != nil {
		return "", fmt.Errorf("render schema: %w", err)
	}

	var b strings.Builder
	b.WriteString("Extract the following fields from this document text.\n\n")
	b.WriteString("RETURN ONLY JSON with these exact fields:\n")
	b.WriteString(schemaJSON)
	b.WriteString("\n\nDocument text:\n")
	b.WriteString(text)
	return b.String(), nil
}
