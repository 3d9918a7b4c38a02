// Package omdb provides a minimal Open Movie Database client used as the
// secondary metadata source. OMDb reports countries, genres, and credits as
// comma-separated display strings; the client splits them and maps country
// names onto ISO 3166-1 codes so they line up with TMDB data.
package omdb
