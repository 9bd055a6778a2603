package ocr

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var (
	reTextBlock = regexp.MustCompile(`BT[\s\S]*?ET`)
	reShowText  = regexp.MustCompile(`\((.*?)\)\s*T[jJ]`)
)

// ExtractRawText pulls literal strings shown by Tj/TJ operators out of
// BT ... ET text blocks, without parsing the PDF. Compressed content streams
// are invisible to it. The result is space-joined in document order, and
// "" when nothing matched. It never fails: bytes are read as UTF-8 and
// invalid sequences become U+FFFD.
func ExtractRawText(pdf []byte) string {
	if len(pdf) == 0 {
		return ""
	}
	s := decodeUTF8(pdf)

	var parts []string
	for _, block := range reTextBlock.FindAllString(s, -1) {
		for _, m := range reShowText.FindAllStringSubmatch(block, -1) {
			parts = append(parts, m[1])
		}
	}
	return strings.Join(parts, " ")
}

// the decoder replaces invalid bytes instead of reporting them
func decodeUTF8(b []byte) string {
	out, _ := unicode.UTF8.NewDecoder().Bytes(b)
	return string(out)
}
