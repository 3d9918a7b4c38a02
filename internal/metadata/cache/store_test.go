package cache_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"curator/internal/metadata"
	"curator/internal/metadata/cache"
)

var _ metadata.Cache = (*cache.Store)(nil)

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache", "tmdb.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTripAndSentinels(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "missing|0"); err != nil || found {
		t.Fatalf("expected absent key, got found=%v err=%v", found, err)
	}

	if err := store.Put(ctx, "breathless|1960", []byte(`{"title":"Breathless"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "nothing|1999", nil); err != nil {
		t.Fatalf("Put sentinel failed: %v", err)
	}

	payload, found, err := store.Get(ctx, "breathless|1960")
	if err != nil || !found || string(payload) != `{"title":"Breathless"}` {
		t.Fatalf("unexpected entry %q found=%v err=%v", payload, found, err)
	}
	payload, found, err = store.Get(ctx, "nothing|1999")
	if err != nil || !found || payload != nil {
		t.Fatalf("expected sentinel, got %q found=%v err=%v", payload, found, err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Entries != 2 || counts.Misses != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}

	removed, err := store.InvalidateMisses(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("InvalidateMisses = %d, %v", removed, err)
	}
	if _, found, _ := store.Get(ctx, "nothing|1999"); found {
		t.Fatal("expected sentinel removed")
	}
	if _, found, _ := store.Get(ctx, "breathless|1960"); !found {
		t.Fatal("expected real entry to survive invalidation")
	}
}

func TestStorePutReplaces(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.Put(ctx, "k|0", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "k|0", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	payload, found, err := store.Get(ctx, "k|0")
	if err != nil || !found || string(payload) != "x" {
		t.Fatalf("expected replaced payload, got %q found=%v err=%v", payload, found, err)
	}
}

func TestStoreReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omdb.db")
	store, err := cache.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Put(context.Background(), "a|1", []byte("1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_ = store.Close()

	reopened, err := cache.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if _, found, _ := reopened.Get(context.Background(), "a|1"); !found {
		t.Fatal("expected entry after reopen")
	}
	if errors.Is(err, cache.ErrSchemaMismatch) {
		t.Fatal("unexpected schema mismatch")
	}
}
