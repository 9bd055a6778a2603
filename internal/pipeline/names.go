package pipeline

import (
	"strings"

	"github.com/joseph-ayodele/docextract/internal/extract"
)

// Field-name candidates for a person name, highest priority first.
var (
	firstNameKeys = []string{"patient_first_name", "first_name"}
	lastNameKeys  = []string{"patient_last_name", "last_name"}
)

const combinedNameKey = "name"

// ResolveName picks a first and last name out of extracted fields. Each part
// is resolved on its own: the first non-empty string among its candidate keys,
// else a token of the combined "name" field split on whitespace (first token
// for the first name, last token for the last name). "Mary Jane Watson" gives
// ("Mary", "Watson"); a single word fills both parts.
func ResolveName(fields extract.Object) (first, last string) {
	tokens := strings.Fields(fields.String(combinedNameKey))

	first = firstNonEmpty(fields, firstNameKeys)
	if first == "" && len(tokens) > 0 {
		first = tokens[0]
	}
	last = firstNonEmpty(fields, lastNameKeys)
	if last == "" && len(tokens) > 0 {
		last = tokens[len(tokens)-1]
	}
	return first, last
}

func firstNonEmpty(fields extract.Object, keys []string) string {
	for _, k := range keys {
		if v := fields.String(k); v != "" {
			return v
		}
	}
	return ""
}
