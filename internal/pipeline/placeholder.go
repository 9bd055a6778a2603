package pipeline

import "strings"

// placeholderMarkers are substrings that suggest a provider replaced the real
// name: stock names and redaction words.
var placeholderMarkers = []string{
	"john", "jane", "doe", "smith",
	"patient", "redacted", "confidential",
	"example", "sample", "test",
}

// IsPlaceholderName reports whether first/last look like a censorship
// substitution. An empty part means no opinion and returns false.
//
// Matching is by substring, so real names that contain a marker
// ("John Smith", "Johnson", "Testa") are flagged too. Known limitation.
func IsPlaceholderName(first, last string) bool {
	if first == "" || last == "" {
		return false
	}
	full := strings.ToLower(first + " " + last)
	for _, m := range placeholderMarkers {
		if strings.Contains(full, m) {
			return true
		}
	}
	return false
}
