package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/textnorm"
)

// Source is an external metadata catalogue.
type Source interface {
	Name() string
	Search(ctx context.Context, title string, year int) ([]Candidate, error)
	Details(ctx context.Context, id string) (*Enrichment, error)
}

// Cache persists lookup outcomes. A nil payload with found=true is a cached
// "no result" sentinel.
type Cache interface {
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	Put(ctx context.Context, key string, payload []byte) error
	InvalidateMisses(ctx context.Context) (int64, error)
}

// CacheStats reports how lookups were served during this process.
type CacheStats struct {
	Source   string `json:"source"`
	Hits     int64  `json:"hits"`
	Misses   int64  `json:"misses"`
	Failures int64  `json:"failures"`
}

// CachedSource wraps a Source with validation, persistence, and soft failure.
// Lookups are expected from a single goroutine; counters are atomic so Stats
// may be read concurrently.
type CachedSource struct {
	source    Source
	cache     Cache
	validator Validator
	norm      *textnorm.Normalizer
	logger    *slog.Logger

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// NewCachedSource wires a source to its cache.
func NewCachedSource(source Source, cache Cache, validator Validator, norm *textnorm.Normalizer, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		source:    source,
		cache:     cache,
		validator: validator,
		norm:      norm,
		logger:    logging.NewComponentLogger(logger, "metadata."+source.Name()),
	}
}

// Name returns the wrapped source name.
func (c *CachedSource) Name() string {
	return c.source.Name()
}

// CacheKey builds the persisted key for a query: normalized title and year.
func CacheKey(norm *textnorm.Normalizer, title string, year int) string {
	return norm.Normalize(title, true) + "|" + strconv.Itoa(year)
}

// Lookup returns enrichment for the query or nil when the source has nothing
// usable. Errors never escape; they are logged and cached as a sentinel.
func (c *CachedSource) Lookup(ctx context.Context, title string, year int) *Enrichment {
	key := CacheKey(c.norm, title, year)
	logger := logging.WithContext(ctx, c.logger)

	payload, found, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "metadata cache read failed", "metadata_cache_failed",
			logging.String("key", key),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache file if it is corrupt"),
		)
	case found && payload == nil:
		c.hits.Add(1)
		return nil
	case found:
		var cached Enrichment
		if err := json.Unmarshal(payload, &cached); err == nil {
			c.hits.Add(1)
			return &cached
		}
		logger.Debug("discarding undecodable cache entry", logging.String("key", key))
	}

	c.misses.Add(1)
	result, err := c.fetch(ctx, title, year)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		c.failures.Add(1)
		if services.IsFatal(err) {
			// Credential failures are never cached.
			logging.WarnWithContext(logger, "metadata source rejected credentials", "metadata_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the api_key for "+c.source.Name()),
				logging.String(logging.FieldImpact, "result not cached; file classified without this source"),
			)
			return nil
		}
		if services.IsSoft(err) {
			logger.Debug("metadata lookup failed",
				logging.String(logging.FieldEventType, "metadata_lookup_failed"),
				logging.String("title", title),
				logging.Int("year", year),
				logging.Error(err),
			)
		} else {
			logging.WarnWithContext(logger, "metadata lookup failed unexpectedly", "metadata_lookup_failed",
				logging.String("title", title),
				logging.Int("year", year),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the "+c.source.Name()+" response for this title"),
				logging.String(logging.FieldImpact, "file classified without this source"),
			)
		}
	}
	c.store(ctx, logger, key, result)
	return result
}

func (c *CachedSource) fetch(ctx context.Context, title string, year int) (*Enrichment, error) {
	candidates, err := c.source.Search(ctx, title, year)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	candidate, ok := c.validator.Pick(title, year, candidates)
	if !ok {
		return nil, nil
	}
	details, err := c.source.Details(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("details %s: %w", candidate.ID, err)
	}
	if details == nil {
		return nil, nil
	}
	if details.Source == "" {
		details.Source = c.source.Name()
	}
	return details, nil
}

func (c *CachedSource) store(ctx context.Context, logger *slog.Logger, key string, result *Enrichment) {
	var payload []byte
	if result != nil {
		encoded, err := json.Marshal(result)
		if err != nil {
			logger.Debug("encode cache entry failed", logging.Error(err))
			return
		}
		payload = encoded
	}
	if err := c.cache.Put(ctx, key, payload); err != nil {
		logging.WarnWithContext(logger, "metadata cache write failed", "metadata_cache_failed",
			logging.String("key", key),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the lookup will be repeated next run"),
		)
	}
}

// InvalidateMisses removes cached "no result" sentinels so they are
// re-queried on the next run.
func (c *CachedSource) InvalidateMisses(ctx context.Context) (int64, error) {
	return c.cache.InvalidateMisses(ctx)
}

// Stats returns the hit/miss counters for this process.
func (c *CachedSource) Stats() CacheStats {
	return CacheStats{
		Source:   c.source.Name(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
	}
}
