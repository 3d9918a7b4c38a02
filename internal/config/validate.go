package config

import (
	"fmt"
	"strings"

	"curator/internal/services"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateSources,
		c.validateMatching,
		c.validateMainstream,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
		}
	}
	return nil
}

func (c *Config) validateSources() error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	if c.TMDB.Enabled && c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required when tmdb.enabled is true. Set TMDB_API_KEY or edit %s", defaultPath)
	}
	if c.OMDb.Enabled && c.OMDb.APIKey == "" {
		return fmt.Errorf("omdb.api_key is required when omdb.enabled is true. Set OMDB_API_KEY or edit %s", defaultPath)
	}
	return ensurePositiveMap(map[string]int{
		"tmdb.timeout_seconds": c.TMDB.TimeoutSeconds,
		"omdb.timeout_seconds": c.OMDb.TimeoutSeconds,
	})
}

func (c *Config) validateMatching() error {
	if c.Matching.TitleSimilarity < 0 || c.Matching.TitleSimilarity > 1 {
		return fmt.Errorf("matching.title_similarity must be between 0 and 1")
	}
	if c.Matching.MaxYearDelta < 0 {
		return fmt.Errorf("matching.max_year_delta must be >= 0")
	}
	return nil
}

func (c *Config) validateMainstream() error {
	if c.Mainstream.PopularityThreshold < 0 {
		return fmt.Errorf("mainstream.popularity_threshold must be >= 0")
	}
	if c.Mainstream.VoteThreshold < 0 {
		return fmt.Errorf("mainstream.vote_threshold must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
