package omdb

import (
	"context"
	"strconv"
	"strings"

	"curator/internal/language"
	"curator/internal/metadata"
)

var _ metadata.Source = (*Client)(nil)

// Name identifies OMDb as metadata source B.
func (c *Client) Name() string {
	return "omdb"
}

// Search implements metadata.Source.
func (c *Client) Search(ctx context.Context, title string, year int) ([]metadata.Candidate, error) {
	resp, err := c.SearchMovies(ctx, title, year)
	if err != nil {
		return nil, err
	}
	candidates := make([]metadata.Candidate, 0, len(resp.Search))
	for _, hit := range resp.Search {
		candidates = append(candidates, metadata.Candidate{
			ID:    hit.IMDbID,
			Title: hit.Title,
			Year:  parseYear(hit.Year),
		})
	}
	return candidates, nil
}

// Details implements metadata.Source.
func (c *Client) Details(ctx context.Context, id string) (*metadata.Enrichment, error) {
	title, err := c.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	return title.Enrichment(), nil
}

// Enrichment converts the OMDb payload into the shared enrichment shape.
func (t *Title) Enrichment() *metadata.Enrichment {
	out := &metadata.Enrichment{
		Source:    "omdb",
		ID:        t.IMDbID,
		Title:     t.Title,
		Year:      parseYear(t.Year),
		Genres:    splitList(t.Genre),
		Plot:      present(t.Plot),
		Cast:      splitList(t.Actors),
		VoteCount: parseVotes(t.IMDbVotes),
	}
	if directors := splitList(t.Director); len(directors) > 0 {
		out.Director = directors[0]
	}
	if languages := language.NormalizeList(splitList(t.Language)); len(languages) > 0 {
		out.Language = languages[0]
	}
	out.Countries = metadata.CountryCodes(splitList(t.Country))
	return out
}

// splitList splits OMDb comma lists, dropping the "N/A" placeholder.
func splitList(value string) []string {
	value = present(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func present(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

// parseYear reads the leading year from values such as "1968" or "1968–1970".
func parseYear(value string) int {
	value = strings.TrimSpace(value)
	if len(value) < 4 {
		return 0
	}
	year, err := strconv.Atoi(value[:4])
	if err != nil {
		return 0
	}
	return year
}

func parseVotes(value string) int {
	value = strings.ReplaceAll(present(value), ",", "")
	if value == "" {
		return 0
	}
	votes, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return votes
}
