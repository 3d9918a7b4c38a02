// Package config loads, normalizes, and validates curator configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours TMDB_API_KEY and OMDB_API_KEY environment
// fallbacks. Curated document locations, metadata source credentials, and
// classifier vocabularies are all discovered in one pass.
//
// Validation failures are tagged with services.ErrConfiguration so the CLI can
// abort before any file is processed.
package config
