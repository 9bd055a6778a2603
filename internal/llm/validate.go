package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/docextract/internal/extract"
)

// BuildFieldsJSONSchema returns a JSON-Schema requiring an object that carries
// every field named in schema. Field types are left open: descriptions are hints,
// not types.
func BuildFieldsJSONSchema(schema extract.FieldSchema) map[string]any {
	keys := schema.Keys()
	props := make(map[string]any, len(keys))
	for _, k := range keys {
		props[k] = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   keys,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
