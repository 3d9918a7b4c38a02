// Package tmdb provides the minimal TMDB API client used as the primary
// metadata source.
//
// It exposes movie search filtered by release year and a detail lookup that
// pulls credits and keywords in one request. Client also satisfies
// metadata.Source so it can be wrapped in a metadata.CachedSource. Options
// allow tests to supply custom HTTP clients.
package tmdb
