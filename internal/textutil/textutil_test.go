package textutil

import (
	"math"
	"testing"
)

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jean-Luc Godard", "Jean-Luc Godard"},
		{"  AC/DC: Live  ", "AC-DC- Live"},
		{"What?", "What"},
		{"../escape", "-escape"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeSegment(tt.in); got != tt.want {
			t.Errorf("SanitizeSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"breathless", "breathless", 0},
		{"amélie", "amelie", 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := SimilarityRatio("", ""); got != 1 {
		t.Fatalf("empty strings ratio = %v, want 1", got)
	}
	if got := SimilarityRatio("abcd", "wxyz"); got != 0 {
		t.Fatalf("disjoint ratio = %v, want 0", got)
	}
	got := SimilarityRatio("kitten", "sitting")
	if math.Abs(got-(1-3.0/7.0)) > 1e-9 {
		t.Fatalf("kitten/sitting ratio = %v", got)
	}
}
