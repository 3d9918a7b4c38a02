package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"curator/internal/category"
	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/curated"
	"curator/internal/filename"
	"curator/internal/logging"
	"curator/internal/mainstream"
	"curator/internal/metadata"
	"curator/internal/metadata/cache"
	"curator/internal/metadata/omdb"
	"curator/internal/metadata/tmdb"
	"curator/internal/rules"
	"curator/internal/textnorm"
)

// Source names used for cache files.
const (
	SourceTMDB = "tmdb"
	SourceOMDb = "omdb"
)

// KnownSources lists metadata sources in priority order (A then B).
var KnownSources = []string{SourceTMDB, SourceOMDb}

// Source is an enabled metadata source and its cache.
type Source struct {
	Cached *metadata.CachedSource
	Store  *cache.Store
}

// Environment is everything a classification run needs.
type Environment struct {
	Config     *config.Config
	Normalizer *textnorm.Normalizer
	Parser     *filename.Parser
	Rules      *rules.Rules
	Engine     *classify.Engine
	Sources    []Source

	logger *slog.Logger
}

type envOptions struct {
	httpClient *http.Client
}

// EnvOption customizes Open.
type EnvOption func(*envOptions)

// WithHTTPClient routes metadata requests through client.
func WithHTTPClient(client *http.Client) EnvOption {
	return func(o *envOptions) {
		o.httpClient = client
	}
}

// Open loads curated documents and rules and connects enabled sources. A
// missing curated document is a configuration error.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...EnvOption) (*Environment, error) {
	if cfg == nil {
		return nil, errors.New("batch: config is required")
	}
	var options envOptions
	for _, opt := range opts {
		opt(&options)
	}
	logger = logging.NewComponentLogger(logger, "batch")

	norm := textnorm.New(cfg.Normalization.FormatSignals)
	lookup, err := curated.LoadLookup(cfg.Paths.LookupFile, norm, logger)
	if err != nil {
		return nil, err
	}
	whitelist, err := curated.LoadWhitelist(cfg.Paths.WhitelistFile, logger)
	if err != nil {
		return nil, err
	}
	canon, err := curated.LoadCanon(cfg.Paths.CanonFile, norm, logger)
	if err != nil {
		return nil, err
	}
	rs, err := rules.Load(cfg.Paths.RulesFile)
	if err != nil {
		return nil, err
	}

	env := &Environment{
		Config:     cfg,
		Normalizer: norm,
		Parser:     filename.New(norm),
		Rules:      rs,
		logger:     logger,
	}
	deps := classify.Deps{
		Normalizer: norm,
		Lookup:     lookup,
		Whitelist:  whitelist,
		Canon:      canon,
		Categories: category.New(rs, nil, logger),
		Mainstream: mainstream.New(cfg.Mainstream),
		Logger:     logger,
	}

	validator := metadata.NewValidator(norm, cfg.Matching)
	if cfg.TMDB.Enabled {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
			tmdb.WithHTTPClient(options.httpClient),
			tmdb.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		source, err := env.attach(client, validator)
		if err != nil {
			return nil, err
		}
		deps.SourceA = source
	}
	if cfg.OMDb.Enabled {
		client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL,
			omdb.WithHTTPClient(options.httpClient),
			omdb.WithTimeout(time.Duration(cfg.OMDb.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("omdb client: %w", err)
		}
		source, err := env.attach(client, validator)
		if err != nil {
			env.Close()
			return nil, err
		}
		deps.SourceB = source
	}

	engine, err := classify.New(deps)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Engine = engine

	logger.Debug("environment ready",
		logging.Int("lookup_entries", lookup.Len()),
		logging.Int("whitelisted_directors", whitelist.Len()),
		logging.Int("canon_entries", canon.Len()),
		logging.String("rules", rs.Source),
		logging.Int("sources", len(env.Sources)),
	)
	return env, nil
}

func (e *Environment) attach(source metadata.Source, validator metadata.Validator) (*metadata.CachedSource, error) {
	store, err := cache.Open(e.Config.CachePath(source.Name()))
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", source.Name(), err)
	}
	cached := metadata.NewCachedSource(source, store, validator, e.Normalizer, e.logger)
	e.Sources = append(e.Sources, Source{Cached: cached, Store: store})
	return cached, nil
}

// SourceStats returns the per-source hit/miss counters.
func (e *Environment) SourceStats() []metadata.CacheStats {
	stats := make([]metadata.CacheStats, 0, len(e.Sources))
	for _, source := range e.Sources {
		stats = append(stats, source.Cached.Stats())
	}
	return stats
}

// Close releases the cache databases.
func (e *Environment) Close() error {
	var errs []error
	for _, source := range e.Sources {
		if err := source.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.Sources = nil
	return errors.Join(errs...)
}

// NamedStore is a cache database opened for maintenance.
type NamedStore struct {
	Name  string
	Store *cache.Store
}

// OpenCaches opens the cache files that exist for the known sources. Caller
// closes the returned stores.
func OpenCaches(cfg *config.Config) ([]NamedStore, error) {
	var stores []NamedStore
	for _, name := range KnownSources {
		path := cfg.CachePath(name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			CloseCaches(stores)
			return nil, fmt.Errorf("stat %s cache: %w", name, err)
		}
		store, err := cache.Open(path)
		if err != nil {
			CloseCaches(stores)
			return nil, fmt.Errorf("open %s cache: %w", name, err)
		}
		stores = append(stores, NamedStore{Name: name, Store: store})
	}
	return stores, nil
}

// CloseCaches closes stores returned by OpenCaches.
func CloseCaches(stores []NamedStore) {
	for _, s := range stores {
		s.Store.Close()
	}
}
