package metadata

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// countryAliases covers historical states and short forms that CLDR names
// differently or no longer lists.
var countryAliases = map[string]string{
	"usa":            "US",
	"uk":             "GB",
	"great britain":  "GB",
	"england":        "GB",
	"south korea":    "KR",
	"north korea":    "KP",
	"hong kong":      "HK",
	"russia":         "RU",
	"iran":           "IR",
	"taiwan":         "TW",
	"czech republic": "CZ",
	"czechoslovakia": "CS",
	"soviet union":   "SU",
	"yugoslavia":     "YU",
	"west germany":   "DE",
	"east germany":   "DD",
}

var countryNames = sync.OnceValue(func() map[string]string {
	namer := display.English.Regions()
	names := make(map[string]string, 256)
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			region, err := language.ParseRegion(string([]rune{a, b}))
			if err != nil || !region.IsCountry() {
				continue
			}
			if name := strings.ToLower(namer.Name(region)); name != "" {
				if _, taken := names[name]; !taken {
					names[name] = region.String()
				}
			}
		}
	}
	return names
})

// CountryCode maps a country name or code to an ISO 3166-1 alpha-2 code.
// Two-letter values pass through uppercased. Unrecognized names are kept as
// an uppercased token so they still count as known, non-matching evidence.
// Empty values and the "N/A" placeholder return "".
func CountryCode(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	key := strings.ToLower(value)
	switch key {
	case "", "n/a", "none", "unknown":
		return ""
	}
	if len(key) == 2 {
		return strings.ToUpper(key)
	}
	if code, ok := countryAliases[key]; ok {
		return code
	}
	if code, ok := countryNames()[key]; ok {
		return code
	}
	if len(key) == 3 {
		if region, err := language.ParseRegion(strings.ToUpper(key)); err == nil && region.IsCountry() {
			return region.String()
		}
	}
	return strings.ToUpper(value)
}

// CountryCodes maps and deduplicates values, keeping first-seen order.
func CountryCodes(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		code := CountryCode(value)
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
