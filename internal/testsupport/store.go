package testsupport

import (
	"testing"

	"curator/internal/config"
	"curator/internal/metadata/cache"
)

// MustOpenCache opens the cache store for source and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config, source string) *cache.Store {
	t.Helper()

	store, err := cache.Open(cfg.CachePath(source))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
