package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeOMDb()
	c.normalizeMatching()
	c.Normalization.FormatSignals = normalizeList(c.Normalization.FormatSignals)
	c.normalizeMainstream()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key   string
		value *string
	}{
		{"paths.state_dir", &c.Paths.StateDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.output_dir", &c.Paths.OutputDir},
		{"paths.lookup_file", &c.Paths.LookupFile},
		{"paths.whitelist_file", &c.Paths.WhitelistFile},
		{"paths.canon_file", &c.Paths.CanonFile},
		{"paths.rules_file", &c.Paths.RulesFile},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	if c.Paths.StateDir == "" {
		expanded, err := expandPath(defaultStateDir)
		if err != nil {
			return fmt.Errorf("paths.state_dir: %w", err)
		}
		c.Paths.StateDir = expanded
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeOMDb() {
	c.OMDb.APIKey = strings.TrimSpace(c.OMDb.APIKey)
	if c.OMDb.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDb.APIKey = strings.TrimSpace(value)
		}
	}
	c.OMDb.BaseURL = strings.TrimSpace(c.OMDb.BaseURL)
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = defaultOMDbBaseURL
	}
	if c.OMDb.TimeoutSeconds <= 0 {
		c.OMDb.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.MaxCandidates <= 0 {
		c.Matching.MaxCandidates = defaultMaxCandidates
	}
}

func (c *Config) normalizeMainstream() {
	c.Mainstream.Countries = normalizeCodes(c.Mainstream.Countries)
	c.Mainstream.Genres = normalizeList(c.Mainstream.Genres)
	c.Mainstream.Cast = normalizeList(c.Mainstream.Cast)
	c.Mainstream.StrongSignals = normalizeList(c.Mainstream.StrongSignals)
	c.Mainstream.ExploitationKeywords = normalizeList(c.Mainstream.ExploitationKeywords)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeList lowercases, trims, and de-duplicates values preserving order.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func normalizeCodes(values []string) []string {
	out := normalizeList(values)
	for i := range out {
		out[i] = strings.ToUpper(out[i])
	}
	return out
}
