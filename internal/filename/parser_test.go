package filename

import (
	"slices"
	"testing"

	"curator/internal/textnorm"
)

func newTestParser() *Parser {
	return New(textnorm.New([]string{"1080p", "bluray", "criterion", "director's cut", "remastered"}))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		title   string
		year    int
		userTag string
	}{
		{"parenthesised year", "Breathless (1960).mkv", "Breathless", 1960, ""},
		{"leading numeric title", "2001 - A Space Odyssey (1968).mkv", "2001 - A Space Odyssey", 1968, ""},
		{"bracketed year", "Stalker [1979].mp4", "Stalker", 1979, ""},
		{"dotted release name", "Blade.Runner.1982.1080p.BluRay.mkv", "Blade Runner", 1982, ""},
		{"leading bare year ignored", "1917.mkv", "1917", 0, ""},
		{"bare year after title", "Nineteen Eighty-Four 1984.avi", "Nineteen Eighty-Four", 1984, ""},
		{"no year", "Some Film.mkv", "Some Film", 0, ""},
		{"user tag", "Deep Red (1975) [Satellite-1970s-Giallo].mkv", "Deep Red", 1975, "Satellite-1970s-Giallo"},
		{"signals stripped", "Apocalypse Now (1979) Director's Cut Remastered.mkv", "Apocalypse Now", 1979, ""},
		{"lowercase title cased", "la.dolce.vita.1960.mkv", "La Dolce Vita", 1960, ""},
		{"path ignored", "/media/incoming/Alphaville (1965).mkv", "Alphaville", 1965, ""},
		{"paren noise dropped", "Rashomon (Criterion) (1950).mkv", "Rashomon", 1950, ""},
	}
	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := p.Parse(tt.in)
			if rec.Title != tt.title {
				t.Errorf("title = %q, want %q", rec.Title, tt.title)
			}
			if rec.Year != tt.year {
				t.Errorf("year = %d, want %d", rec.Year, tt.year)
			}
			if rec.UserTag != tt.userTag {
				t.Errorf("user tag = %q, want %q", rec.UserTag, tt.userTag)
			}
		})
	}
}

func TestParseDetectsSignalsAndKeepsFilename(t *testing.T) {
	rec := newTestParser().Parse("/x/Blade.Runner.1982.1080p.BluRay.mkv")
	if rec.Filename != "Blade.Runner.1982.1080p.BluRay.mkv" {
		t.Fatalf("filename = %q", rec.Filename)
	}
	if !slices.Contains(rec.FormatSignals, "1080p") || !slices.Contains(rec.FormatSignals, "bluray") {
		t.Fatalf("signals = %v", rec.FormatSignals)
	}
}
