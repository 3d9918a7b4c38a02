package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"curator/internal/services"
)

// SearchHit is one entry of an OMDb search response.
type SearchHit struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
}

// SearchResponse models the OMDb s= response.
type SearchResponse struct {
	Search       []SearchHit `json:"Search"`
	TotalResults string      `json:"totalResults"`
	Response     string      `json:"Response"`
	Error        string      `json:"Error"`
}

// Title models the OMDb i= response.
type Title struct {
	Title     string `json:"Title"`
	Year      string `json:"Year"`
	Director  string `json:"Director"`
	Country   string `json:"Country"`
	Genre     string `json:"Genre"`
	Language  string `json:"Language"`
	Plot      string `json:"Plot"`
	Actors    string `json:"Actors"`
	IMDbVotes string `json:"imdbVotes"`
	IMDbID    string `json:"imdbID"`
	Response  string `json:"Response"`
	Error     string `json:"Error"`
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovies runs an s= search restricted to movies.
func (c *Client) SearchMovies(ctx context.Context, query string, year int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("s", query)
	params.Set("type", "movie")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}
	var payload SearchResponse
	if err := c.get(ctx, "search", params, &payload); err != nil {
		return nil, err
	}
	if !strings.EqualFold(payload.Response, "true") {
		// "Movie not found!" is an empty result, not a failure.
		return &SearchResponse{Response: payload.Response, Error: payload.Error}, nil
	}
	return &payload, nil
}

// GetTitle fetches full details for an IMDb identifier.
func (c *Client) GetTitle(ctx context.Context, imdbID string) (*Title, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, errors.New("imdb id must not be empty")
	}
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")
	var payload Title
	if err := c.get(ctx, "details", params, &payload); err != nil {
		return nil, err
	}
	if !strings.EqualFold(payload.Response, "true") {
		return nil, services.Wrap(services.ErrNotFound, "omdb", "details", payload.Error, nil)
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, op string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse omdb url: %w", err)
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		marker := services.ErrTransient
		var timeout interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "omdb", op, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return services.Wrap(services.ErrConfiguration, "omdb", op, "api key rejected", nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return services.Wrap(services.ErrTransient, "omdb", op, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	default:
		return services.Wrap(services.ErrExternalTool, "omdb", op, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternalTool, "omdb", op, "decode response", err)
	}
	return nil
}
