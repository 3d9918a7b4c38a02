// Package testsupport builds configurations and curated fixture documents
// for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"curator/internal/config"
)

// Default curated fixtures written by NewConfig.
const (
	DefaultLookup = `# Curated lookup
- Deep Red (1975) → Satellite/Giallo
- Le Samouraï (1967) → Reference/1960s
- Undated Curiosity → Staging/Review
- The Thing (1982) → Core or Reference
`
	DefaultWhitelist = `# Core directors

## 1960s
- Jean-Luc Godard
- Stanley Kubrick

## 1980s
- Stanley Kubrick
`
	DefaultCanon = `# Canon
- Citizen Kane (1941)
- The Rules of the Game (1939)
`
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t         testing.TB
	baseDir   string
	cfg       *config.Config
	lookup    string
	whitelist string
	canon     string
	rules     string
}

// NewConfig produces a config rooted in a per-test temp directory with the
// curated documents written. External sources are disabled unless an option
// enables them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutputDir = filepath.Join(base, "manifests")
	cfgVal.Paths.LookupFile = filepath.Join(base, "curated", "lookup.md")
	cfgVal.Paths.WhitelistFile = filepath.Join(base, "curated", "whitelist.md")
	cfgVal.Paths.CanonFile = filepath.Join(base, "curated", "canon.md")
	cfgVal.TMDB.Enabled = false
	cfgVal.OMDb.Enabled = false

	builder := &configBuilder{
		t:         t,
		baseDir:   base,
		cfg:       &cfgVal,
		lookup:    DefaultLookup,
		whitelist: DefaultWhitelist,
		canon:     DefaultCanon,
	}
	for _, opt := range opts {
		opt(builder)
	}

	WriteDocument(t, cfgVal.Paths.LookupFile, builder.lookup)
	WriteDocument(t, cfgVal.Paths.WhitelistFile, builder.whitelist)
	WriteDocument(t, cfgVal.Paths.CanonFile, builder.canon)
	if builder.rules != "" {
		cfgVal.Paths.RulesFile = filepath.Join(base, "curated", "rules.toml")
		WriteDocument(t, cfgVal.Paths.RulesFile, builder.rules)
	}
	return builder.cfg
}

// WithTMDB enables source A against baseURL.
func WithTMDB(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.Enabled = true
		b.cfg.TMDB.APIKey = "test"
		b.cfg.TMDB.BaseURL = baseURL
	}
}

// WithOMDb enables source B against baseURL.
func WithOMDb(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.Enabled = true
		b.cfg.OMDb.APIKey = "test"
		b.cfg.OMDb.BaseURL = baseURL
	}
}

// WithLookup replaces the lookup document content.
func WithLookup(content string) ConfigOption {
	return func(b *configBuilder) {
		b.lookup = content
	}
}

// WithWhitelist replaces the whitelist document content.
func WithWhitelist(content string) ConfigOption {
	return func(b *configBuilder) {
		b.whitelist = content
	}
}

// WithCanon replaces the canon document content.
func WithCanon(content string) ConfigOption {
	return func(b *configBuilder) {
		b.canon = content
	}
}

// WithRules writes a rules file and points the config at it.
func WithRules(content string) ConfigOption {
	return func(b *configBuilder) {
		b.rules = content
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
