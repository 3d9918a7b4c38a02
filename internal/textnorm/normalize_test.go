package textnorm

import (
	"slices"
	"testing"
)

var testSignals = []string{"director's cut", "extended", "extended edition", "remastered", "1080p", "bluray", "criterion"}

func TestNormalize(t *testing.T) {
	n := New(testSignals)
	tests := []struct {
		name  string
		in    string
		strip bool
		want  string
	}{
		{"lowercase and collapse", "  Breathless   ", true, "breathless"},
		{"diacritics", "Amélie", true, "amelie"},
		{"ampersand", "Romeo & Juliet", true, "romeo and juliet"},
		{"apostrophe deleted", "Schindler's List", true, "schindlers list"},
		{"punctuation to space", "2001: A Space Odyssey", true, "2001 a space odyssey"},
		{"signal stripped", "Apocalypse Now Director's Cut", true, "apocalypse now"},
		{"signal dotted", "Blade.Runner.Remastered.1080p.BluRay", true, "blade runner"},
		{"longest signal first", "Aliens Extended Edition", true, "aliens"},
		{"signal kept without strip", "Aliens Extended Edition", false, "aliens extended edition"},
		{"signal inside word untouched", "Unextended Play", true, "unextended play"},
		{"empty", "   ", true, ""},
		{"non-latin letters kept", "Rashōmon", true, "rashomon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.in, tt.strip); got != tt.want {
				t.Fatalf("Normalize(%q, %v) = %q, want %q", tt.in, tt.strip, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(testSignals)
	inputs := []string{
		"Amélie (Remastered)",
		"Léon: The Professional - Extended",
		"Tom & Jerry's Criterion Criterion",
		"L'Avventura",
		"Ça tourne à Manhattan",
	}
	for _, in := range inputs {
		for _, strip := range []bool{true, false} {
			once := n.Normalize(in, strip)
			twice := n.Normalize(once, strip)
			if once != twice {
				t.Errorf("not idempotent for %q (strip=%v): %q then %q", in, strip, once, twice)
			}
		}
	}
}

func TestNormalizeSymmetricAcrossContaminatedVariants(t *testing.T) {
	n := New(testSignals)
	base := n.Normalize("The Conformist", true)
	for _, variant := range []string{
		"The Conformist Remastered",
		"THE CONFORMIST (Criterion)",
		"The.Conformist.1080p.BluRay",
		"The Conformist - Director's Cut",
	} {
		if got := n.Normalize(variant, true); got != base {
			t.Errorf("Normalize(%q) = %q, want %q", variant, got, base)
		}
	}
}

func TestDetectSignals(t *testing.T) {
	n := New(testSignals)
	got := n.DetectSignals("Aliens.1986.Extended.Edition.1080p.BluRay")
	for _, want := range []string{"extended edition", "1080p", "bluray"} {
		if !slices.Contains(got, want) {
			t.Fatalf("DetectSignals missing %q in %v", want, got)
		}
	}
	if slices.Contains(got, "extended") {
		t.Fatalf("expected shorter overlapping signal to be consumed, got %v", got)
	}
	if got := n.DetectSignals("Plain Title"); len(got) != 0 {
		t.Fatalf("expected no signals, got %v", got)
	}
}

func TestPhrasesLongestFirst(t *testing.T) {
	phrases := New([]string{"cut", "final cut", " CUT "}).Phrases()
	if len(phrases) != 2 || phrases[0] != "final cut" {
		t.Fatalf("unexpected phrases %v", phrases)
	}
}

func TestStripSignalsKeepsCase(t *testing.T) {
	n := New(testSignals)
	if got := n.StripSignals("Apocalypse Now: Director's Cut 1080p"); got != "Apocalypse Now:" {
		t.Fatalf("StripSignals = %q", got)
	}
}
