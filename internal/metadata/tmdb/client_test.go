package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"curator/internal/metadata/tmdb"
	"curator/internal/services"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchFiltersByYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Errorf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if got := r.URL.Query().Get("primary_release_year"); got != "1960" {
			t.Errorf("primary_release_year = %q, want 1960", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":269,"title":"Breathless","release_date":"1960-03-16"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	candidates, err := client.Search(context.Background(), "Breathless", 1960)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "269" || candidates[0].Year != 1960 {
		t.Fatalf("unexpected candidates: %#v", candidates)
	}
}

func TestDetailsMapsEnrichment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/269" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,keywords" {
			t.Errorf("append_to_response = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"id": 269, "title": "Breathless", "release_date": "1960-03-16",
			"original_language": "fr", "overview": "A small-time thief...", "tagline": "",
			"popularity": 14.2, "vote_count": 2100,
			"genres": [{"name": "Crime"}, {"name": "Drama"}],
			"production_countries": [{"iso_3166_1": "FR"}],
			"credits": {
				"cast": [{"name": "Jean Seberg", "order": 1}, {"name": "Jean-Paul Belmondo", "order": 0}],
				"crew": [{"name": "Raoul Coutard", "job": "Director of Photography"}, {"name": "Jean-Luc Godard", "job": "Director"}]
			},
			"keywords": {"keywords": [{"name": "nouvelle vague"}]}
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got, err := client.Details(context.Background(), "269")
	if err != nil {
		t.Fatalf("Details returned error: %v", err)
	}
	if got.Director != "Jean-Luc Godard" {
		t.Fatalf("director = %q", got.Director)
	}
	if !slices.Equal(got.Countries, []string{"FR"}) || !slices.Equal(got.Genres, []string{"Crime", "Drama"}) {
		t.Fatalf("unexpected countries/genres %v %v", got.Countries, got.Genres)
	}
	if !slices.Equal(got.Cast, []string{"Jean-Paul Belmondo", "Jean Seberg"}) {
		t.Fatalf("cast not ordered by billing: %v", got.Cast)
	}
	if got.Year != 1960 || got.VoteCount != 2100 || got.Language != "fr" {
		t.Fatalf("unexpected details %+v", got)
	}
	if !slices.Equal(got.Keywords, []string{"nouvelle vague"}) {
		t.Fatalf("keywords = %v", got.Keywords)
	}
}

func TestHTTPErrorsCarryMarkers(t *testing.T) {
	tests := []struct {
		status int
		marker error
	}{
		{http.StatusInternalServerError, services.ErrTransient},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusUnauthorized, services.ErrConfiguration},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		client, err := tmdb.New("key", server.URL, "")
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		_, err = client.SearchMovie(context.Background(), "fail", 0)
		server.Close()
		if !errors.Is(err, tt.marker) {
			t.Fatalf("status %d: expected %v, got %v", tt.status, tt.marker, err)
		}
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "   ", 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}
