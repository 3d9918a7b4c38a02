package language

import (
	"strings"
	"sync"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// namedBases are the languages recognized by English name. Codes are always
// recognized through ISO 639 parsing.
var namedBases = []string{
	"en", "fr", "it", "de", "es", "pt", "ja", "ko", "zh", "ru", "sv", "da", "no", "fi",
	"nl", "pl", "cs", "hu", "el", "tr", "hi", "bn", "ta", "te", "fa", "ar", "he", "th",
	"id", "ro", "sr", "hr", "uk", "yue", "cmn",
}

// aliases covers source-specific spellings that are not ISO 639.
var aliases = map[string]string{
	"cn":        "yue", // TMDB's code for Cantonese
	"mandarin":  "zh",
	"cantonese": "yue",
	"farsi":     "fa",
	"flemish":   "nl",
}

var byName = sync.OnceValue(func() map[string]string {
	namer := display.English.Languages()
	names := make(map[string]string, len(namedBases))
	for _, code := range namedBases {
		base, err := xlang.ParseBase(code)
		if err != nil {
			continue
		}
		if name := strings.ToLower(namer.Name(base)); name != "" {
			names[name] = base.String()
		}
	}
	return names
})

// Normalize returns the shortest ISO 639 code for a language code or English
// name, or "" when the value is empty, a placeholder, or unrecognized.
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "", "n/a", "none", "xx", "und":
		return ""
	}
	if code, ok := aliases[value]; ok {
		return code
	}
	if code, ok := byName()[value]; ok {
		return code
	}
	if len(value) > 3 {
		return ""
	}
	base, err := xlang.ParseBase(value)
	if err != nil {
		return ""
	}
	return base.String()
}

// NormalizeList normalizes and deduplicates values, keeping first-seen order
// and dropping anything unrecognized.
func NormalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		code := Normalize(value)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// DisplayName returns the English name for a code, or the code uppercased
// when it is not recognized.
func DisplayName(code string) string {
	normalized := Normalize(code)
	if normalized == "" {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	base, err := xlang.ParseBase(normalized)
	if err != nil {
		return strings.ToUpper(normalized)
	}
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return strings.ToUpper(normalized)
}
