package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalid     = regexp.MustCompile(`[^a-z0-9]+`)
	fileNameInvalid = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// Slugify derives a URL-safe lowercase slug from free text: runs of
// non-alphanumeric characters collapse to a single hyphen, trimmed at the
// ends. Slugifying a slug is a no-op.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SafeFileName derives a filesystem-safe object name: any character outside
// [a-zA-Z0-9._-] becomes a hyphen. Empty input falls back to "sound".
func SafeFileName(input string) string {
	cleaned := fileNameInvalid.ReplaceAllString(strings.TrimSpace(input), "-")
	if cleaned == "" {
		return "sound"
	}
	return cleaned
}
