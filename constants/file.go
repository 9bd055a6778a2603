package constants

import "strings"

// AllowedExtensions holds the file extensions accepted as input documents.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// PDFMagic is the header every PDF file starts with.
const PDFMagic = "%PDF-"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without the dot) is an accepted input extension.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
