package curated

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"curator/internal/logging"
	"curator/internal/textnorm"
)

var canonLine = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)\s*$`)

// Canon is the set of must-place reference works keyed by normalized
// (title, year).
type Canon struct {
	norm    *textnorm.Normalizer
	entries mapset.Set[string]
	errors  []*ParseError
}

// LoadCanon opens and parses the canon document at path.
func LoadCanon(path string, norm *textnorm.Normalizer, logger *slog.Logger) (*Canon, error) {
	file, err := openDocument("canon", path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseCanon(file, norm, logger)
}

// ParseCanon reads one "Title (Year)" per line.
func ParseCanon(r io.Reader, norm *textnorm.Normalizer, logger *slog.Logger) (*Canon, error) {
	logger = logging.NewComponentLogger(logger, "curated.canon")
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read canon document: %w", err)
	}

	c := &Canon{norm: norm, entries: mapset.NewThreadUnsafeSet[string]()}
	for _, line := range lines {
		if strings.HasPrefix(line.text, "#") {
			continue
		}
		m := canonLine.FindStringSubmatch(line.text)
		if m == nil {
			perr := &ParseError{Line: line.number, Text: line.text, Err: ErrMalformedEntry}
			c.errors = append(c.errors, perr)
			logging.WarnWithContext(logger, "skipping canon entry", "curated_entry_skipped",
				logging.Int("line", perr.Line),
				logging.String("text", perr.Text),
				logging.Error(perr.Err),
				logging.String(logging.FieldErrorHint, "use 'Title (Year)'"),
				logging.String(logging.FieldImpact, "title is not treated as canon"),
			)
			continue
		}
		year, _ := strconv.Atoi(m[2])
		if key := c.key(m[1], year); key != "" {
			c.entries.Add(key)
		}
	}
	logger.Debug("canon loaded", logging.Int("entries", c.entries.Cardinality()))
	return c, nil
}

func (c *Canon) key(title string, year int) string {
	normalized := c.norm.Normalize(title, true)
	if normalized == "" || year <= 0 {
		return ""
	}
	return normalized + "|" + strconv.Itoa(year)
}

// Contains reports whether (title, year) is a canon work.
func (c *Canon) Contains(title string, year int) bool {
	if c == nil {
		return false
	}
	key := c.key(title, year)
	return key != "" && c.entries.Contains(key)
}

// Len returns the number of canon works.
func (c *Canon) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Cardinality()
}

// Errors returns the skipped lines.
func (c *Canon) Errors() []*ParseError {
	return append([]*ParseError(nil), c.errors...)
}
