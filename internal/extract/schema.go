package extract

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/common"
)

// FieldSchema maps field names to free-text descriptions, in caller order.
// Descriptions are passed to providers verbatim and never type-checked.
type FieldSchema = Object

// ParseFieldSchema decodes the caller-supplied schema. Anything other than a
// JSON object is a configuration error.
func ParseFieldSchema(raw string) (FieldSchema, error) {
	if strings.TrimSpace(raw) == "" {
		return FieldSchema{}, common.ConfigError("invalid JSON schema: empty", nil)
	}
	s, err := ParseObject([]byte(raw))
	if err != nil {
		return FieldSchema{}, common.ConfigError(fmt.Sprintf("invalid JSON schema: %s", raw), err)
	}
	return s, nil
}
