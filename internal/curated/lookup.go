package curated

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"curator/internal/logging"
	"curator/internal/textnorm"
	"curator/internal/tier"
)

var (
	lookupWithYear    = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)\s*(?:→|->|=>)\s*(.+)$`)
	lookupWithoutYear = regexp.MustCompile(`^(.+?)\s*(?:→|->|=>)\s*(.+)$`)
	ambiguityMarkers  = regexp.MustCompile(`(?i)\s(or|either)\s|\?|\|`)
)

// Target is a curated destination. Decade may be empty, in which case the
// film's own decade is used; Raw is the destination exactly as written.
type Target struct {
	Tier   tier.Tier
	Decade string
	Subdir string
	Raw    string
}

// Entry is one accepted lookup line.
type Entry struct {
	Title  string
	Year   int
	Target Target
	Line   int
}

// Conflict records a later entry that disagreed with an earlier one.
type Conflict struct {
	Key     string
	Kept    Entry
	Ignored Entry
}

type lookupKey struct {
	title string
	year  int
}

// Lookup maps (normalized title, year) to a curated destination. Year 0 is
// the fallback key used when the exact year misses.
type Lookup struct {
	norm      *textnorm.Normalizer
	entries   map[lookupKey]Entry
	conflicts []Conflict
	errors    []*ParseError
}

// LoadLookup opens and parses the lookup document at path.
func LoadLookup(path string, norm *textnorm.Normalizer, logger *slog.Logger) (*Lookup, error) {
	file, err := openDocument("lookup", path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseLookup(file, norm, logger)
}

// ParseLookup parses "Title (Year) → Destination" lines. The first entry for
// a key wins; conflicting repeats and malformed lines are logged and skipped.
func ParseLookup(r io.Reader, norm *textnorm.Normalizer, logger *slog.Logger) (*Lookup, error) {
	logger = logging.NewComponentLogger(logger, "curated.lookup")
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read lookup document: %w", err)
	}

	l := &Lookup{norm: norm, entries: make(map[lookupKey]Entry)}
	for _, line := range lines {
		if strings.HasPrefix(line.text, "#") {
			continue
		}
		entry, perr := parseLookupLine(line)
		if perr != nil {
			l.errors = append(l.errors, perr)
			logging.WarnWithContext(logger, "skipping lookup entry", "curated_entry_skipped",
				logging.Int("line", perr.Line),
				logging.String("text", perr.Text),
				logging.Error(perr.Err),
				logging.String(logging.FieldErrorHint, "write one unambiguous destination per entry"),
				logging.String(logging.FieldImpact, "the title falls through to heuristic stages"),
			)
			continue
		}
		title := norm.Normalize(entry.Title, true)
		if title == "" {
			continue
		}
		l.add(logger, lookupKey{title: title, year: entry.Year}, entry)
		if entry.Year != 0 {
			l.add(logger, lookupKey{title: title}, entry)
		}
	}
	logger.Debug("lookup table loaded",
		logging.Int("entries", len(l.entries)),
		logging.Int("conflicts", len(l.conflicts)),
		logging.Int("skipped", len(l.errors)),
	)
	return l, nil
}

func (l *Lookup) add(logger *slog.Logger, key lookupKey, entry Entry) {
	existing, ok := l.entries[key]
	if !ok {
		l.entries[key] = entry
		return
	}
	if existing.Target == entry.Target {
		return
	}
	// A titled fallback only conflicts when both entries lack a year.
	if key.year == 0 && (existing.Year != 0 || entry.Year != 0) {
		return
	}
	keyLabel := key.title + "|" + strconv.Itoa(key.year)
	l.conflicts = append(l.conflicts, Conflict{Key: keyLabel, Kept: existing, Ignored: entry})
	logging.WarnWithContext(logger, "conflicting lookup entry ignored", "curated_entry_conflict",
		logging.String("key", keyLabel),
		logging.Int("kept_line", existing.Line),
		logging.Int("ignored_line", entry.Line),
		logging.String("kept", existing.Target.Raw),
		logging.String("ignored", entry.Target.Raw),
		logging.String(logging.FieldErrorHint, "remove one of the duplicate lines"),
	)
}

func parseLookupLine(line documentLine) (Entry, *ParseError) {
	var title, dest string
	year := 0
	if m := lookupWithYear.FindStringSubmatch(line.text); m != nil {
		title, dest = m[1], m[3]
		year, _ = strconv.Atoi(m[2])
	} else if m := lookupWithoutYear.FindStringSubmatch(line.text); m != nil {
		title, dest = m[1], m[2]
	} else {
		return Entry{}, &ParseError{Line: line.number, Text: line.text, Err: ErrMalformedEntry}
	}

	target, err := ParseTarget(dest)
	if err != nil {
		return Entry{}, &ParseError{Line: line.number, Text: line.text, Err: err}
	}
	return Entry{Title: strings.TrimSpace(title), Year: year, Target: target, Line: line.number}, nil
}

// ParseTarget parses a destination such as "Core/1960s/Jean-Luc Godard",
// "Satellite/Giallo/1970s", or "Reference". Ambiguous destinations are rejected.
func ParseTarget(value string) (Target, error) {
	raw := strings.Trim(strings.TrimSpace(value), "`")
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty destination", ErrMalformedEntry)
	}
	if ambiguityMarkers.MatchString(" " + raw + " ") {
		return Target{}, ErrAmbiguousDestination
	}

	segments := make([]string, 0, 3)
	for _, seg := range strings.Split(raw, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return Target{}, fmt.Errorf("%w: empty destination", ErrMalformedEntry)
	}
	t, ok := tier.Parse(segments[0])
	if !ok {
		return Target{}, fmt.Errorf("%w: unknown tier %q", ErrMalformedEntry, segments[0])
	}

	target := Target{Tier: t, Raw: strings.Join(segments, "/") + "/"}
	var rest []string
	for _, seg := range segments[1:] {
		if _, isDecade := tier.ParseDecade(seg); isDecade && target.Decade == "" {
			target.Decade = strings.ToLower(seg)
			continue
		}
		rest = append(rest, seg)
	}
	if len(rest) > 1 {
		return Target{}, fmt.Errorf("%w: too many path segments", ErrMalformedEntry)
	}
	if len(rest) == 1 {
		target.Subdir = rest[0]
	}
	if t.NeedsSubdir() && target.Subdir == "" {
		return Target{}, fmt.Errorf("%w: %s destination needs a subdirectory", ErrMalformedEntry, t)
	}
	return target, nil
}

// Find returns the entry for (title, year), falling back to the title alone.
func (l *Lookup) Find(title string, year int) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	normalized := l.norm.Normalize(title, true)
	if normalized == "" {
		return Entry{}, false
	}
	if year > 0 {
		if entry, ok := l.entries[lookupKey{title: normalized, year: year}]; ok {
			return entry, true
		}
	}
	// The title key answers any year, so a mistyped or re-release year still
	// reaches the curated destination.
	entry, ok := l.entries[lookupKey{title: normalized}]
	return entry, ok
}

// Len returns the number of keys, fallbacks included.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Conflicts returns the ignored duplicate entries.
func (l *Lookup) Conflicts() []Conflict {
	return append([]Conflict(nil), l.conflicts...)
}

// Errors returns the skipped lines.
func (l *Lookup) Errors() []*ParseError {
	return append([]*ParseError(nil), l.errors...)
}
