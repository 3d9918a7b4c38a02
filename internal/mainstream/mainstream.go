// Package mainstream recognizes broadly commercial films that cleared no
// curated category, so they can be placed in Popcorn rather than Unsorted.
package mainstream

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"curator/internal/config"
	"curator/internal/metadata"
)

// Signals is the evidence the classifier inspects.
type Signals struct {
	Title         string
	Year          int
	Countries     []string
	Genres        []string
	Cast          []string
	FormatSignals []string
	Popularity    float64
	VoteCount     int
}

// SignalsFromFilm extracts classifier inputs from a merged film.
func SignalsFromFilm(film metadata.Film) Signals {
	return Signals{
		Title:         film.Title,
		Year:          film.Year,
		Countries:     film.Countries,
		Genres:        film.Genres,
		Cast:          film.Cast,
		FormatSignals: film.FormatSignals,
		Popularity:    film.Popularity,
		VoteCount:     film.VoteCount,
	}
}

// Verdict records every boolean signal alongside the outcome.
type Verdict struct {
	Mainstream bool   `json:"mainstream"`
	Country    bool   `json:"country"`
	Genre      bool   `json:"genre"`
	Strong     bool   `json:"strong_signal"`
	Cast       bool   `json:"cast"`
	Popular    bool   `json:"popular"`
	Excluded   string `json:"excluded_by,omitempty"`
	NoYear     bool   `json:"no_year,omitempty"`
}

// Classifier holds the configured vocabulary.
type Classifier struct {
	countries    mapset.Set[string]
	genres       mapset.Set[string]
	cast         mapset.Set[string]
	strong       mapset.Set[string]
	exploitation []string
	popularity   float64
	votes        int
}

// New builds a classifier from configuration.
func New(cfg config.Mainstream) *Classifier {
	c := &Classifier{
		countries:  mapset.NewThreadUnsafeSet[string](),
		genres:     lowerSet(cfg.Genres),
		cast:       lowerSet(cfg.Cast),
		strong:     lowerSet(cfg.StrongSignals),
		popularity: cfg.PopularityThreshold,
		votes:      cfg.VoteThreshold,
	}
	for _, code := range cfg.Countries {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			c.countries.Add(code)
		}
	}
	for _, keyword := range cfg.ExploitationKeywords {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
			c.exploitation = append(c.exploitation, keyword)
		}
	}
	return c
}

// Classify reports whether the film reads as mainstream. A film is mainstream
// when any of these hold:
//
//	country AND genre AND (cast OR popular)
//	country AND genre AND strong signal
//	strong signal AND (cast OR popular)
//
// A title containing an exploitation keyword is never mainstream, and a film
// without a known year never qualifies.
func (c *Classifier) Classify(s Signals) Verdict {
	v := Verdict{
		Country: anyIn(c.countries, s.Countries, strings.ToUpper),
		Genre:   anyIn(c.genres, s.Genres, strings.ToLower),
		Strong:  anyIn(c.strong, s.FormatSignals, strings.ToLower),
		Cast:    anyIn(c.cast, s.Cast, strings.ToLower),
		Popular: (c.popularity > 0 && s.Popularity >= c.popularity) || (c.votes > 0 && s.VoteCount >= c.votes),
	}
	if s.Year <= 0 {
		v.NoYear = true
		return v
	}
	title := strings.ToLower(s.Title)
	for _, keyword := range c.exploitation {
		if strings.Contains(title, keyword) {
			v.Excluded = keyword
			return v
		}
	}
	reach := v.Cast || v.Popular
	v.Mainstream = (v.Country && v.Genre && (reach || v.Strong)) || (v.Strong && reach)
	return v
}

func anyIn(set mapset.Set[string], values []string, fold func(string) string) bool {
	for _, value := range values {
		if set.Contains(fold(strings.Join(strings.Fields(value), " "))) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, value := range values {
		if value = strings.ToLower(strings.Join(strings.Fields(value), " ")); value != "" {
			set.Add(value)
		}
	}
	return set
}
