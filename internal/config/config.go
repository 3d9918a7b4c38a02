package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"curator/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and curated document locations.
type Paths struct {
	StateDir      string `toml:"state_dir"`
	LogDir        string `toml:"log_dir"`
	OutputDir     string `toml:"output_dir"`
	LookupFile    string `toml:"lookup_file"`
	WhitelistFile string `toml:"whitelist_file"`
	CanonFile     string `toml:"canon_file"`
	RulesFile     string `toml:"rules_file"`
}

// TMDB contains configuration for The Movie Database API (metadata source A).
type TMDB struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OMDb contains configuration for the Open Movie Database API (metadata source B).
type OMDb struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Matching controls how external search candidates are validated.
type Matching struct {
	TitleSimilarity float64 `toml:"title_similarity"`
	MaxYearDelta    int     `toml:"max_year_delta"`
	MaxCandidates   int     `toml:"max_candidates"`
}

// Normalization lists the format signal phrases stripped from titles before
// they are used as lookup keys.
type Normalization struct {
	FormatSignals []string `toml:"format_signals"`
}

// Mainstream holds the fallback classifier vocabulary and thresholds.
type Mainstream struct {
	Countries            []string `toml:"countries"`
	Genres               []string `toml:"genres"`
	Cast                 []string `toml:"cast"`
	StrongSignals        []string `toml:"strong_signals"`
	ExploitationKeywords []string `toml:"exploitation_keywords"`
	PopularityThreshold  float64  `toml:"popularity_threshold"`
	VoteThreshold        int      `toml:"vote_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the curator.
//
// Configuration sections by subsystem:
//   - Paths: state, logs, manifests, and curated documents
//   - TMDB / OMDb: external metadata sources
//   - Matching: candidate validation thresholds
//   - Normalization: format signals stripped from lookup keys
//   - Mainstream: fallback classifier vocabulary
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	TMDB          TMDB          `toml:"tmdb"`
	OMDb          OMDb          `toml:"omdb"`
	Matching      Matching      `toml:"matching"`
	Normalization Normalization `toml:"normalization"`
	Mainstream    Mainstream    `toml:"mainstream"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("curator.toml")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state, log, and output directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CachePath returns the SQLite cache file for the named metadata source.
func (c *Config) CachePath(source string) string {
	return filepath.Join(c.Paths.StateDir, "cache", source+".db")
}

// LockPath returns the run lock file guarding cap counters and caches.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "curator.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
