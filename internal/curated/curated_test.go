package curated_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curator/internal/curated"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/textnorm"
	"curator/internal/tier"
)

var testNorm = textnorm.New([]string{"director's cut", "remastered", "criterion", "1080p"})

const lookupDoc = `# Explicit placements

- Breathless (1960) → Core/1960s/Jean-Luc Godard
- Deep Red (1975) -> Satellite/Giallo
- Deep Red (1975) → Popcorn
- Solaris (1972) → Core/Andrei Tarkovsky
- Amélie (2001) → Reference
- The Thing (1982) → Core or Reference
- Stalker (1979) → Satellite/?
- Nothing here
- Undated Oddity → Staging/Review
- Gone (1999) → Archive/Elsewhere
`

func parseLookup(t *testing.T) *curated.Lookup {
	t.Helper()
	l, err := curated.ParseLookup(strings.NewReader(lookupDoc), testNorm, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseLookup returned error: %v", err)
	}
	return l
}

func TestLookupFindExactAndFallback(t *testing.T) {
	l := parseLookup(t)

	entry, ok := l.Find("Breathless", 1960)
	if !ok || entry.Target.Tier != tier.Core || entry.Target.Decade != "1960s" || entry.Target.Subdir != "Jean-Luc Godard" {
		t.Fatalf("unexpected entry %+v ok=%v", entry, ok)
	}

	if entry, ok := l.Find("Breathless", 0); !ok || entry.Year != 1960 {
		t.Fatalf("expected title fallback for unknown year, got %+v ok=%v", entry, ok)
	}
	if entry, ok := l.Find("Breathless", 1983); !ok || entry.Year != 1960 {
		t.Fatalf("expected title fallback for a different year, got %+v ok=%v", entry, ok)
	}
	if entry, ok := l.Find("Undated Oddity", 1950); !ok || entry.Target.Tier != tier.Staging || entry.Target.Subdir != "Review" {
		t.Fatalf("expected undated entry, got %+v ok=%v", entry, ok)
	}
	if _, ok := l.Find("Unknown Film", 1960); ok {
		t.Fatal("expected miss")
	}
}

func TestLookupNormalizationSymmetry(t *testing.T) {
	l := parseLookup(t)
	want, _ := l.Find("Amélie", 2001)
	for _, variant := range []string{"AMELIE", "Amélie (Remastered)", "Amelie.Criterion.1080p", "amélie - Director's Cut"} {
		got, ok := l.Find(variant, 2001)
		if !ok || got.Target != want.Target {
			t.Errorf("Find(%q) = %+v ok=%v, want %+v", variant, got, ok, want)
		}
	}
}

func TestLookupFirstEntryWinsAndConflictsRecorded(t *testing.T) {
	l := parseLookup(t)
	entry, ok := l.Find("Deep Red", 1975)
	if !ok || entry.Target.Tier != tier.Satellite || entry.Target.Subdir != "Giallo" {
		t.Fatalf("expected first entry to win, got %+v", entry)
	}
	conflicts := l.Conflicts()
	if len(conflicts) != 1 || conflicts[0].Ignored.Target.Tier != tier.Popcorn {
		t.Fatalf("unexpected conflicts %+v", conflicts)
	}
}

func TestLookupRejectsAmbiguousAndMalformed(t *testing.T) {
	l := parseLookup(t)
	if _, ok := l.Find("The Thing", 1982); ok {
		t.Fatal("ambiguous entry must not be accepted")
	}
	if _, ok := l.Find("Stalker", 1979); ok {
		t.Fatal("question-mark entry must not be accepted")
	}
	var ambiguous, malformed int
	for _, perr := range l.Errors() {
		switch {
		case errors.Is(perr, curated.ErrAmbiguousDestination):
			ambiguous++
		case errors.Is(perr, curated.ErrMalformedEntry):
			malformed++
		}
	}
	if ambiguous != 2 {
		t.Fatalf("expected 2 ambiguous entries, got %d (%v)", ambiguous, l.Errors())
	}
	if malformed != 2 {
		t.Fatalf("expected 2 malformed entries, got %d (%v)", malformed, l.Errors())
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want curated.Target
		err  bool
	}{
		{"Core/1960s/Jean-Luc Godard", curated.Target{Tier: tier.Core, Decade: "1960s", Subdir: "Jean-Luc Godard", Raw: "Core/1960s/Jean-Luc Godard/"}, false},
		{"Satellite/Giallo/1970s/", curated.Target{Tier: tier.Satellite, Decade: "1970s", Subdir: "Giallo", Raw: "Satellite/Giallo/1970s/"}, false},
		{"reference", curated.Target{Tier: tier.Reference, Raw: "reference/"}, false},
		{"Core/1960s", curated.Target{}, true},
		{"Satellite/a/b", curated.Target{}, true},
		{"/", curated.Target{}, true},
		{"Popcorn | Reference", curated.Target{}, true},
	}
	for _, tt := range tests {
		got, err := curated.ParseTarget(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseTarget(%q) err = %v, want error %v", tt.in, err, tt.err)
			continue
		}
		if !tt.err && got != tt.want {
			t.Errorf("ParseTarget(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

const whitelistDoc = `# Core directors

## 1960s
- Jean-Luc Godard
- Stanley Kubrick
- Agnès Varda

## 1970s
- Stanley Kubrick
- Andrei Tarkovsky

## Notes
- Not A Director
`

func TestWhitelistDecadeScoping(t *testing.T) {
	w, err := curated.ParseWhitelist(strings.NewReader(whitelistDoc), logging.NewNop())
	if err != nil {
		t.Fatalf("ParseWhitelist returned error: %v", err)
	}

	if got, ok := w.DecadeFor("jean-luc godard ", 1960); !ok || got != "1960s" {
		t.Fatalf("DecadeFor godard 1960 = %q, %v", got, ok)
	}
	if _, ok := w.DecadeFor("Jean-Luc Godard", 1975); ok {
		t.Fatal("director listed only in 1960s must not qualify for 1975")
	}
	if got, ok := w.DecadeFor("Stanley Kubrick", 1971); !ok || got != "1970s" {
		t.Fatalf("DecadeFor kubrick 1971 = %q, %v", got, ok)
	}
	if _, ok := w.DecadeFor("Andrei Tarkovsky", 0); ok {
		t.Fatal("unknown year must not qualify")
	}
	if name, ok := w.CanonicalName("  AGNÈS   VARDA "); !ok || name != "Agnès Varda" {
		t.Fatalf("CanonicalName = %q, %v", name, ok)
	}
	if w.IsWhitelisted("Godard") {
		t.Fatal("surname-only matches must not be whitelisted")
	}
	if w.IsWhitelisted("Not A Director") {
		t.Fatal("names outside decade sections must be skipped")
	}
	if len(w.Errors()) != 1 {
		t.Fatalf("expected one skipped line, got %v", w.Errors())
	}
	if got := w.Directors(1970); len(got) != 2 || got[0] != "Andrei Tarkovsky" {
		t.Fatalf("Directors(1970) = %v", got)
	}
	if w.Len() != 4 {
		t.Fatalf("Len = %d, want 4", w.Len())
	}
}

func TestCanonContains(t *testing.T) {
	doc := "# Canon\n- Citizen Kane (1941)\n- The Rules of the Game (1939)\n- Untitled\n"
	c, err := curated.ParseCanon(strings.NewReader(doc), testNorm, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseCanon returned error: %v", err)
	}
	if !c.Contains("CITIZEN KANE (Criterion)", 1941) {
		t.Fatal("expected normalized canon hit")
	}
	if c.Contains("Citizen Kane", 1942) {
		t.Fatal("canon must match the exact year")
	}
	if c.Len() != 2 || len(c.Errors()) != 1 {
		t.Fatalf("unexpected canon size %d errors %v", c.Len(), c.Errors())
	}
}

func TestSkippedEntriesLogStructuredWarnings(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "curated.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := curated.ParseWhitelist(strings.NewReader(whitelistDoc), logger); err != nil {
		t.Fatalf("ParseWhitelist returned error: %v", err)
	}
	if _, err := curated.ParseCanon(strings.NewReader("- Untitled\n"), testNorm, logger); err != nil {
		t.Fatalf("ParseCanon returned error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var warnings int
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("decode json log %q: %v", line, err)
		}
		if payload["level"] != "warn" {
			continue
		}
		warnings++
		if payload[logging.FieldEventType] != "curated_entry_skipped" {
			t.Fatalf("event_type = %v in %v", payload[logging.FieldEventType], payload)
		}
		for _, key := range []string{logging.FieldErrorHint, logging.FieldImpact, "error"} {
			if payload[key] == nil || payload[key] == "" {
				t.Fatalf("missing %s in %v", key, payload)
			}
		}
	}
	if warnings != 2 {
		t.Fatalf("warnings = %d, want one per skipped line", warnings)
	}
}

func TestLoadMissingDocumentIsConfigurationError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.md")
	_, err := curated.LoadLookup(missing, testNorm, logging.NewNop())
	if !errors.Is(err, services.ErrConfiguration) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected configuration error wrapping not-exist, got %v", err)
	}
	if _, err := curated.LoadWhitelist(missing, nil); !services.IsFatal(err) {
		t.Fatalf("expected fatal whitelist error, got %v", err)
	}
	if _, err := curated.LoadCanon(missing, testNorm, nil); !services.IsFatal(err) {
		t.Fatalf("expected fatal canon error, got %v", err)
	}
}
