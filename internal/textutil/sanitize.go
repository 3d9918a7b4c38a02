package textutil

import "strings"

// segmentReplacer replaces filesystem-unsafe characters with safe alternatives.
var segmentReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeSegment makes a director or category name safe to use as a single
// destination path segment. Slashes, backslashes, colons, and asterisks become
// dashes; other unsafe characters are removed. Leading dots are dropped so a
// segment can never climb out of its parent directory.
func SanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	cleaned := strings.TrimSpace(segmentReplacer.Replace(name))
	cleaned = strings.TrimLeft(cleaned, ".")
	return strings.Join(strings.Fields(cleaned), " ")
}
