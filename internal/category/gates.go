package category

import (
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"

	"curator/internal/metadata"
	"curator/internal/rules"
	"curator/internal/textnorm"
)

// names folds director names for the director gate: case, diacritics and
// punctuation are ignored on both sides.
var names = textnorm.New(nil)

// GateStatus is the three-valued outcome of a gate, plus not_applicable for
// gates skipped after a decade failure or unrestricted on that axis.
type GateStatus string

const (
	StatusPass          GateStatus = "pass"
	StatusFail          GateStatus = "fail"
	StatusUntestable    GateStatus = "untestable"
	StatusNotApplicable GateStatus = "not_applicable"
)

// NotFail reports whether the status does not contradict the category.
func (s GateStatus) NotFail() bool {
	return s != StatusFail
}

// Route names the path through which a category matched.
type Route string

const (
	RouteNone         Route = ""
	RouteDirector     Route = "director"
	RouteStructural   Route = "country_genre"
	RouteSubstitution Route = "keyword_substitution"
	RouteMovement     Route = "movement_tag"
)

// Evaluation is the gate breakdown for one category.
type Evaluation struct {
	Category     string     `json:"category"`
	Decade       GateStatus `json:"decade"`
	Director     GateStatus `json:"director"`
	Country      GateStatus `json:"country"`
	Genre        GateStatus `json:"genre"`
	MatchedTags  []string   `json:"matched_tags,omitempty"`
	MatchedTerms []string   `json:"matched_terms,omitempty"`
	Substituted  bool       `json:"substituted,omitempty"`
	Matched      bool       `json:"matched"`
	Route        Route      `json:"route,omitempty"`
}

// Passes counts passing gates; a keyword substitution counts as a genre pass.
func (e Evaluation) Passes() int {
	count := 0
	for _, status := range []GateStatus{e.Decade, e.Director, e.Country, e.Genre} {
		if status == StatusPass {
			count++
		}
	}
	if e.Substituted && e.Genre != StatusPass {
		count++
	}
	return count
}

// minTextTerms is how many distinct free-text terms substitute for the genre gate.
const minTextTerms = 2

// Evaluate runs the gates for one category. It has no side effects.
func Evaluate(category rules.Category, film metadata.Film) Evaluation {
	eval := Evaluation{
		Category: category.Name,
		Decade:   decadeGate(category, film),
	}
	if eval.Decade == StatusFail {
		eval.Director = StatusNotApplicable
		eval.Country = StatusNotApplicable
		eval.Genre = StatusNotApplicable
		return eval
	}

	eval.Director = directorGate(category, film.Director)
	eval.Country = countryGate(category, film.Countries)
	eval.Genre = genreGate(category, film.Genres)
	eval.MatchedTags = matchTags(category.KeywordTags, film.Keywords)
	eval.MatchedTerms = matchTerms(category.TextTerms, film.TextBlob())

	if eval.Country == StatusPass && eval.Decade == StatusPass && eval.Genre != StatusPass {
		eval.Substituted = len(eval.MatchedTags) > 0 || len(eval.MatchedTerms) >= minTextTerms
	}

	switch {
	case eval.Director == StatusPass:
		eval.Route = RouteDirector
	case eval.Country.NotFail() && eval.Genre == StatusPass:
		eval.Route = RouteStructural
	case eval.Country.NotFail() && eval.Substituted:
		eval.Route = RouteSubstitution
	case category.Movement && len(eval.MatchedTags) > 0:
		eval.Route = RouteMovement
	}
	eval.Matched = eval.Route != RouteNone
	return eval
}

func decadeGate(category rules.Category, film metadata.Film) GateStatus {
	decade := film.Decade()
	if decade == 0 {
		return StatusUntestable
	}
	if category.RestrictsDecades() && !category.Decades.Contains(decade) {
		return StatusFail
	}
	return StatusPass
}

func directorGate(category rules.Category, director string) GateStatus {
	director = names.Normalize(director, false)
	if director == "" {
		return StatusUntestable
	}
	for _, candidate := range category.Directors {
		candidate = names.Normalize(candidate, false)
		if candidate == "" {
			continue
		}
		if strings.Contains(director, candidate) || strings.Contains(candidate, director) {
			return StatusPass
		}
	}
	return StatusFail
}

func countryGate(category rules.Category, countries []string) GateStatus {
	if !category.RestrictsCountries() {
		return StatusNotApplicable
	}
	known := false
	for _, code := range countries {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		known = true
		if category.Countries.Contains(code) {
			return StatusPass
		}
	}
	if !known {
		return StatusUntestable
	}
	return StatusFail
}

func genreGate(category rules.Category, genres []string) GateStatus {
	known := false
	for _, genre := range genres {
		genre = strings.ToLower(strings.TrimSpace(genre))
		if genre == "" {
			continue
		}
		known = true
		if category.Genres.Contains(genre) {
			return StatusPass
		}
	}
	if !known {
		return StatusUntestable
	}
	return StatusFail
}

func matchTags(tags mapset.Set[string], keywords []string) []string {
	var matched []string
	seen := make(map[string]struct{})
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.Join(strings.Fields(keyword), " "))
		if _, dup := seen[keyword]; dup || !tags.Contains(keyword) {
			continue
		}
		seen[keyword] = struct{}{}
		matched = append(matched, keyword)
	}
	return matched
}

func matchTerms(terms []string, text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)
	var matched []string
	for _, term := range terms {
		if containsWord(text, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

// containsWord reports whether term occurs in text bounded by non-alphanumerics.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if isBoundaryBefore(text, start) && isBoundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func isBoundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isBoundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
