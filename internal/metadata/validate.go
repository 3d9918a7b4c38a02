package metadata

import (
	"curator/internal/config"
	"curator/internal/textnorm"
	"curator/internal/textutil"
)

// Validator rejects search candidates that are probably a different film:
// a dissimilar title, or a release year too far from the query year.
type Validator struct {
	norm          *textnorm.Normalizer
	minSimilarity float64
	maxYearDelta  int
	maxCandidates int
}

// NewValidator builds a validator from the matching configuration.
func NewValidator(norm *textnorm.Normalizer, cfg config.Matching) Validator {
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 1
	}
	return Validator{
		norm:          norm,
		minSimilarity: cfg.TitleSimilarity,
		maxYearDelta:  cfg.MaxYearDelta,
		maxCandidates: maxCandidates,
	}
}

// Accept reports whether candidate plausibly matches the query. The second
// return value names the failed check.
func (v Validator) Accept(title string, year int, candidate Candidate) (bool, string) {
	query := v.norm.Normalize(title, true)
	found := v.norm.Normalize(candidate.Title, true)
	if textutil.SimilarityRatio(query, found) < v.minSimilarity {
		return false, "title_dissimilar"
	}
	if year > 0 && candidate.Year > 0 {
		delta := year - candidate.Year
		if delta < 0 {
			delta = -delta
		}
		if delta > v.maxYearDelta {
			return false, "year_mismatch"
		}
	}
	return true, ""
}

// Pick returns the first acceptable candidate among the top few.
func (v Validator) Pick(title string, year int, candidates []Candidate) (Candidate, bool) {
	for i, candidate := range candidates {
		if i >= v.maxCandidates {
			break
		}
		if ok, _ := v.Accept(title, year, candidate); ok {
			return candidate, true
		}
	}
	return Candidate{}, false
}
