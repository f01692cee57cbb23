package lookupcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gndfinder/internal/testsupport"
)

type tally map[string]int

func (t tally) ObserveCache(tier, result string) { t[tier+"/"+result]++ }

func openTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache", "lookup.db"), opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutThenGetServesFromMemory(t *testing.T) {
	counts := tally{}
	store := openTestStore(t, Options{Recorder: counts})
	ctx := context.Background()

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss on empty cache")
	}
	store.Put(ctx, "k", []byte(`{"totalItems":0}`))
	body, ok := store.Get(ctx, "k")
	if !ok || string(body) != `{"totalItems":0}` {
		t.Fatalf("Get = %q, %v", body, ok)
	}
	if counts["memory/hit"] != 1 || counts["sqlite/miss"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestPersistedEntriesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.db")
	ctx := context.Background()

	first, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first.Put(ctx, "https://lobid.org/gnd/search?q=Bach", []byte("payload"))
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	counts := tally{}
	second, err := Open(path, Options{Recorder: counts})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	body, ok := second.Get(ctx, "https://lobid.org/gnd/search?q=Bach")
	if !ok || string(body) != "payload" {
		t.Fatalf("Get = %q, %v", body, ok)
	}
	if counts["sqlite/hit"] != 1 {
		t.Fatalf("expected sqlite hit, got %v", counts)
	}
	if _, ok := second.Get(ctx, "https://lobid.org/gnd/search?q=Bach"); !ok {
		t.Fatal("expected second read to hit")
	}
	if counts["memory/hit"] != 1 {
		t.Fatalf("expected promotion to memory tier, got %v", counts)
	}
}

func TestExpiredEntriesAreIgnoredAndPruned(t *testing.T) {
	store := openTestStore(t, Options{TTL: time.Hour})
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	store.Put(ctx, "old", []byte("stale"))
	store.now = func() time.Time { return base.Add(50 * time.Minute) }
	store.Put(ctx, "new", []byte("fresh"))
	store.memory.Flush()

	store.now = func() time.Time { return base.Add(90 * time.Minute) }
	if _, ok := store.Get(ctx, "old"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if body, ok := store.Get(ctx, "new"); !ok || string(body) != "fresh" {
		t.Fatalf("expected fresh entry, got %q %v", body, ok)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 2 || stats.Expired != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !stats.Oldest.Equal(base) {
		t.Fatalf("oldest = %v, want %v", stats.Oldest, base)
	}

	removed, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}

func TestClearEmptiesBothTiers(t *testing.T) {
	store := openTestStore(t, Options{})
	ctx := context.Background()
	store.Put(ctx, "a", []byte("1"))
	store.Put(ctx, "b", []byte("2"))

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if _, ok := store.Get(ctx, "a"); ok {
		t.Fatal("expected miss after clear")
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 0 || !stats.Oldest.IsZero() {
		t.Fatalf("unexpected stats after clear %+v", stats)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.db")
	store, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(path, Options{}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Cache.Enabled = false
	store, err := OpenFromConfig(cfg, nil, nil)
	if err != nil || store != nil {
		t.Fatalf("expected nil store when disabled, got %v %v", store, err)
	}

	cfg.Cache.Enabled = true
	store, err = OpenFromConfig(cfg, nil, nil)
	if err != nil {
		t.Fatalf("OpenFromConfig failed: %v", err)
	}
	defer store.Close()
	if store.Path() != cfg.Cache.Path {
		t.Fatalf("path = %q, want %q", store.Path(), cfg.Cache.Path)
	}
}

func TestNilStoreIsInert(t *testing.T) {
	var store *Store
	store.Put(context.Background(), "k", []byte("v"))
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("nil store should miss")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close on nil store: %v", err)
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	if !isSQLiteBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected busy error to be detected")
	}
	if isSQLiteBusy(errors.New("no such table")) {
		t.Fatal("unexpected busy classification")
	}
	calls := 0
	err := retryOnBusy(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("retryOnBusy = %v after %d calls", err, calls)
	}
}
