// Package filename turns media file names into metadata records.
//
// Year rule: a parenthesised or bracketed four-digit year wins over any bare
// year token, and a bare year is only taken when it is not the first token,
// so "2001 - A Space Odyssey (1968)" yields 1968. A bracketed
// "[Tier-Decade-Extra]" token is returned as the user tag.
package filename

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"curator/internal/metadata"
	"curator/internal/textnorm"
)

const (
	minYear = 1880
	maxYear = 2100
)

var (
	enclosedYearPattern = regexp.MustCompile(`[\(\[]\s*(\d{4})\s*[\)\]]`)
	userTagPattern      = regexp.MustCompile(`\[\s*([A-Za-z]+-[^\]]*)\]`)
	bracketNoisePattern = regexp.MustCompile(`[\(\[][^\)\]]*[\)\]]`)
	tokenSplitPattern   = regexp.MustCompile(`[\s._]+`)
	edgeTrimSet         = " -–—_.,:;"
)

var mediaExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".m4v": {}, ".avi": {}, ".mov": {}, ".wmv": {},
	".mpg": {}, ".mpeg": {}, ".ts": {}, ".m2ts": {}, ".iso": {}, ".webm": {},
}

// Parser extracts records from file names.
type Parser struct {
	norm  *textnorm.Normalizer
	title cases.Caser
}

// New creates a parser that detects the normalizer's format signals.
func New(norm *textnorm.Normalizer) *Parser {
	return &Parser{norm: norm, title: cases.Title(language.Und)}
}

// Parse builds a record from a file name or path. Only the base name is used.
func (p *Parser) Parse(name string) metadata.Record {
	base := filepath.Base(strings.TrimSpace(name))
	rec := metadata.Record{Filename: base}

	stem := base
	if ext := strings.ToLower(filepath.Ext(stem)); ext != "" {
		if _, ok := mediaExtensions[ext]; ok {
			stem = strings.TrimSuffix(stem, filepath.Ext(stem))
		}
	}

	rec.FormatSignals = p.norm.DetectSignals(stem)

	if match := userTagPattern.FindStringSubmatchIndex(stem); match != nil {
		rec.UserTag = strings.TrimSpace(stem[match[2]:match[3]])
		stem = stem[:match[0]] + " " + stem[match[1]:]
	}

	title, year := splitYear(stem)
	rec.Year = year
	rec.Title = p.cleanTitle(title)
	return rec
}

// splitYear returns the title portion and the release year (0 when absent).
func splitYear(stem string) (string, int) {
	matches := enclosedYearPattern.FindAllStringSubmatchIndex(stem, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		year, _ := strconv.Atoi(stem[m[2]:m[3]])
		if validYear(year) && strings.TrimSpace(stem[:m[0]]) != "" {
			return stem[:m[0]], year
		}
	}

	tokens := tokenSplitPattern.Split(strings.TrimSpace(stem), -1)
	for i := len(tokens) - 1; i >= 1; i-- {
		if len(tokens[i]) != 4 {
			continue
		}
		year, err := strconv.Atoi(tokens[i])
		if err != nil || !validYear(year) {
			continue
		}
		return strings.Join(tokens[:i], " "), year
	}
	return stem, 0
}

func validYear(year int) bool {
	return year >= minYear && year <= maxYear
}

func (p *Parser) cleanTitle(raw string) string {
	title := bracketNoisePattern.ReplaceAllString(raw, " ")
	if !strings.Contains(strings.TrimSpace(title), " ") {
		title = strings.NewReplacer(".", " ", "_", " ").Replace(title)
	}
	title = p.norm.StripSignals(title)
	title = strings.Trim(title, edgeTrimSet)
	title = strings.Join(strings.Fields(title), " ")
	if title != "" && title == strings.ToLower(title) {
		title = p.title.String(title)
	}
	return title
}
