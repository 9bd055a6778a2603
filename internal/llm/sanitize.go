package llm

import (
	"regexp"
	"strings"
)

var (
	reCodeFence = regexp.MustCompile("```json\\n?|\\n?```")
	reBold      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic    = regexp.MustCompile(`\*(.*?)\*`)
)

// CleanJSONResponse strips markdown artifacts from a model reply so the
// remainder can be handed to a strict JSON parser: code fences (with or
// without a json tag), **bold** and *italic* markers, surrounding whitespace.
//
// A single pass can expose new markers (an italic span that sat between
// backticks, say), so passes repeat until nothing changes. Every pass that
// changes the text makes it shorter, so this terminates, and the result is a
// fixpoint: CleanJSONResponse(CleanJSONResponse(s)) == CleanJSONResponse(s).
func CleanJSONResponse(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = reCodeFence.ReplaceAllString(s, "")
	s = reBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
