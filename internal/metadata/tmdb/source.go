package tmdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"curator/internal/language"
	"curator/internal/metadata"
)

var _ metadata.Source = (*Client)(nil)

// Name identifies TMDB as metadata source A.
func (c *Client) Name() string {
	return "tmdb"
}

// Search implements metadata.Source. Results keep TMDB's relevance order.
func (c *Client) Search(ctx context.Context, title string, year int) ([]metadata.Candidate, error) {
	resp, err := c.SearchMovie(ctx, title, year)
	if err != nil {
		return nil, err
	}
	candidates := make([]metadata.Candidate, 0, len(resp.Results))
	for _, result := range resp.Results {
		candidates = append(candidates, metadata.Candidate{
			ID:    strconv.FormatInt(result.ID, 10),
			Title: result.Title,
			Year:  yearFromDate(result.ReleaseDate),
		})
	}
	return candidates, nil
}

// Details implements metadata.Source.
func (c *Client) Details(ctx context.Context, id string) (*metadata.Enrichment, error) {
	movieID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("tmdb id %q: %w", id, err)
	}
	details, err := c.GetMovieDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return details.Enrichment(), nil
}

// Enrichment converts the TMDB payload into the shared enrichment shape.
func (d *MovieDetails) Enrichment() *metadata.Enrichment {
	out := &metadata.Enrichment{
		Source:     "tmdb",
		ID:         strconv.FormatInt(d.ID, 10),
		Title:      d.Title,
		Year:       yearFromDate(d.ReleaseDate),
		Language:   language.Normalize(d.OriginalLanguage),
		Overview:   d.Overview,
		Tagline:    d.Tagline,
		Popularity: d.Popularity,
		VoteCount:  int(d.VoteCount),
	}
	for _, crew := range d.Credits.Crew {
		if crew.Job == "Director" {
			out.Director = crew.Name
			break
		}
	}
	for _, country := range d.ProductionCountries {
		out.Countries = append(out.Countries, country.ISO31661)
	}
	for _, genre := range d.Genres {
		out.Genres = append(out.Genres, genre.Name)
	}
	for _, keyword := range d.Keywords.Keywords {
		out.Keywords = append(out.Keywords, keyword.Name)
	}
	cast := append(d.Credits.Cast[:0:0], d.Credits.Cast...)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	for i, member := range cast {
		if i >= 10 {
			break
		}
		out.Cast = append(out.Cast, member.Name)
	}
	return out
}

// yearFromDate extracts the year from a TMDB date string (e.g. "1960-03-16").
func yearFromDate(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
