package metadata

import (
	"strings"

	"curator/internal/language"
)

// Record is the metadata parsed from a single media file. Year 0 means the
// release year is unknown; empty strings mean the field is absent.
type Record struct {
	Filename      string   `json:"filename"`
	Title         string   `json:"title"`
	Year          int      `json:"year,omitempty"`
	Director      string   `json:"director,omitempty"`
	Language      string   `json:"language,omitempty"`
	Country       string   `json:"country,omitempty"`
	UserTag       string   `json:"user_tag,omitempty"`
	FormatSignals []string `json:"format_signals,omitempty"`
}

// HasYear reports whether the release year is known.
func (r Record) HasYear() bool {
	return r.Year > 0
}

// Enrichment is what an external source knows about a film.
type Enrichment struct {
	Source     string   `json:"source"`
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	Director   string   `json:"director,omitempty"`
	Language   string   `json:"language,omitempty"`
	Countries  []string `json:"countries,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Overview   string   `json:"overview,omitempty"`
	Tagline    string   `json:"tagline,omitempty"`
	Plot       string   `json:"plot,omitempty"`
	Cast       []string `json:"cast,omitempty"`
	Popularity float64  `json:"popularity,omitempty"`
	VoteCount  int      `json:"vote_count,omitempty"`
}

// Candidate is a search hit before details are fetched.
type Candidate struct {
	ID    string
	Title string
	Year  int
}

// Film is the merged working copy handed to the classification stages. The
// embedded Record keeps the file's own values; enrichment only fills gaps.
type Film struct {
	Record
	Countries  []string
	Genres     []string
	Keywords   []string
	Overview   string
	Tagline    string
	Plot       string
	Cast       []string
	Popularity float64
	VoteCount  int
}

// FilmFromRecord builds a working copy with no external enrichment.
func FilmFromRecord(rec Record) Film {
	film := Film{Record: rec}
	if code := language.Normalize(rec.Language); code != "" {
		film.Language = code
	}
	if code := CountryCode(rec.Country); code != "" {
		film.Country = code
		film.Countries = []string{code}
	}
	return film
}

// Decade returns the floor-to-ten bucket of the film's year, or 0 when unknown.
func (f Film) Decade() int {
	return DecadeOf(f.Year)
}

// DecadeOf floors a year to its decade, returning 0 for unknown years.
func DecadeOf(year int) int {
	if year <= 0 {
		return 0
	}
	return (year / 10) * 10
}

// TextBlob joins the free-text fields scanned for keyword terms.
func (f Film) TextBlob() string {
	parts := make([]string, 0, 3)
	for _, value := range []string{f.Overview, f.Tagline, f.Plot} {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, "\n")
}
