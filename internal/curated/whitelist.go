package curated

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"curator/internal/logging"
	"curator/internal/tier"
)

// Whitelist is the decade-scoped registry of core directors. Matching is
// exact after lowercasing and trimming; there is no fuzzy or surname match.
type Whitelist struct {
	byDecade  map[int]mapset.Set[string]
	canonical map[string]string
	errors    []*ParseError
}

// LoadWhitelist opens and parses the whitelist document at path.
func LoadWhitelist(path string, logger *slog.Logger) (*Whitelist, error) {
	file, err := openDocument("whitelist", path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseWhitelist(file, logger)
}

// ParseWhitelist reads "## 1960s" decade headings followed by one director
// per line. Names listed before any heading are skipped.
func ParseWhitelist(r io.Reader, logger *slog.Logger) (*Whitelist, error) {
	logger = logging.NewComponentLogger(logger, "curated.whitelist")
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read whitelist document: %w", err)
	}

	w := &Whitelist{
		byDecade:  make(map[int]mapset.Set[string]),
		canonical: make(map[string]string),
	}
	decade := 0
	for _, line := range lines {
		if strings.HasPrefix(line.text, "#") {
			heading := strings.TrimSpace(strings.TrimLeft(line.text, "#"))
			if start, ok := tier.ParseDecade(heading); ok {
				decade = start
			} else {
				decade = 0
			}
			continue
		}
		if decade == 0 {
			perr := &ParseError{Line: line.number, Text: line.text, Err: fmt.Errorf("%w: director outside a decade section", ErrMalformedEntry)}
			w.errors = append(w.errors, perr)
			logging.WarnWithContext(logger, "skipping whitelist entry", "curated_entry_skipped",
				logging.Int("line", perr.Line),
				logging.String("text", perr.Text),
				logging.Error(perr.Err),
				logging.String(logging.FieldErrorHint, "place directors under a '## 1960s' style heading"),
				logging.String(logging.FieldImpact, "director is not whitelisted"),
			)
			continue
		}
		name := strings.Join(strings.Fields(line.text), " ")
		key := whitelistKey(name)
		if key == "" {
			continue
		}
		if _, ok := w.canonical[key]; !ok {
			w.canonical[key] = name
		}
		bucket, ok := w.byDecade[decade]
		if !ok {
			bucket = mapset.NewThreadUnsafeSet[string]()
			w.byDecade[decade] = bucket
		}
		bucket.Add(key)
	}
	logger.Debug("whitelist loaded",
		logging.Int("directors", len(w.canonical)),
		logging.Int("decades", len(w.byDecade)),
	)
	return w, nil
}

func whitelistKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// IsWhitelisted reports whether name appears in any decade section.
func (w *Whitelist) IsWhitelisted(name string) bool {
	_, ok := w.CanonicalName(name)
	return ok
}

// CanonicalName returns the spelling used in the document.
func (w *Whitelist) CanonicalName(name string) (string, bool) {
	if w == nil {
		return "", false
	}
	canonical, ok := w.canonical[whitelistKey(name)]
	return canonical, ok
}

// DecadeFor returns the decade label for year when the director is listed in
// that exact decade section. A director listed only under other decades does
// not qualify.
func (w *Whitelist) DecadeFor(name string, year int) (string, bool) {
	if w == nil || year <= 0 {
		return "", false
	}
	key := whitelistKey(name)
	if _, ok := w.canonical[key]; !ok {
		return "", false
	}
	decade := (year / 10) * 10
	bucket, ok := w.byDecade[decade]
	if !ok || !bucket.Contains(key) {
		return "", false
	}
	return tier.DecadeLabel(year), true
}

// Decades returns the decade starts present in the document, ascending.
func (w *Whitelist) Decades() []int {
	decades := make([]int, 0, len(w.byDecade))
	for d := range w.byDecade {
		decades = append(decades, d)
	}
	sort.Ints(decades)
	return decades
}

// Directors returns the canonical names listed for a decade, sorted.
func (w *Whitelist) Directors(decade int) []string {
	bucket, ok := w.byDecade[decade]
	if !ok {
		return nil
	}
	names := make([]string, 0, bucket.Cardinality())
	for _, key := range bucket.ToSlice() {
		names = append(names, w.canonical[key])
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct directors.
func (w *Whitelist) Len() int {
	if w == nil {
		return 0
	}
	return len(w.canonical)
}

// Errors returns the skipped lines.
func (w *Whitelist) Errors() []*ParseError {
	return append([]*ParseError(nil), w.errors...)
}
