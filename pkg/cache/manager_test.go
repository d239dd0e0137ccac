package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/homevista/property-listings/internal/testutil"
	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
)

// failingClient simulates an unreachable cache backend.
type failingClient struct{}

var errBackendDown = errors.New("backend unavailable")

func (failingClient) Get(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (failingClient) Set(context.Context, string, []byte, time.Duration) error {
	return errBackendDown
}
func (failingClient) Delete(context.Context, string) error         { return errBackendDown }
func (failingClient) Exists(context.Context, string) (bool, error) { return false, errBackendDown }
func (failingClient) Keys(context.Context, string) ([]string, error) {
	return nil, errBackendDown
}
func (failingClient) Ping(context.Context) error { return errBackendDown }
func (failingClient) Close() error               { return nil }

func seedStore(t *testing.T, st store.Store, titles ...string) {
	t.Helper()
	ctx := context.Background()
	for _, title := range titles {
		_, err := st.CreateProperty(ctx, &property.Property{
			Title:    title,
			Price:    100000,
			Location: "Testville",
		})
		if err != nil {
			t.Fatalf("seed %q: %v", title, err)
		}
	}
}

func TestFetchAll_MissQueriesStoreOnce(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewCountingStore(testutil.OpenStore(t))
	seedStore(t, st, "First", "Second", "Third")

	manager := cache.NewManager(cache.NewMemoryClient(), st)

	properties, err := manager.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(properties) != 3 {
		t.Fatalf("Expected 3 properties, got %d", len(properties))
	}
	// Newest first.
	if properties[0].Title != "Third" || properties[2].Title != "First" {
		t.Errorf("Wrong order: got %q ... %q", properties[0].Title, properties[2].Title)
	}
	if !manager.IsCached(ctx) {
		t.Error("Expected snapshot to be cached after fetch")
	}
	if st.ListCalls() != 1 {
		t.Errorf("Expected 1 store query, got %d", st.ListCalls())
	}

	// Second fetch is served from cache: zero additional store queries.
	again, err := manager.FetchAll(ctx)
	if err != nil {
		t.Fatalf("Second FetchAll failed: %v", err)
	}
	if len(again) != 3 {
		t.Errorf("Expected 3 properties from cache, got %d", len(again))
	}
	if st.ListCalls() != 1 {
		t.Errorf("Expected cached fetch to skip the store, got %d queries", st.ListCalls())
	}
}

func TestFetchAll_EmptyStore(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)
	manager := cache.NewManager(cache.NewMemoryClient(), st)

	properties, err := manager.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(properties) != 0 {
		t.Errorf("Expected empty result, got %d", len(properties))
	}
	// An empty snapshot is still a snapshot.
	if !manager.IsCached(ctx) {
		t.Error("Expected empty snapshot to be cached")
	}
}

func TestFetchAll_FailOpenOnCacheError(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewCountingStore(testutil.OpenStore(t))
	seedStore(t, st, "Only")

	manager := cache.NewManager(failingClient{}, st)

	for i := 0; i < 3; i++ {
		properties, err := manager.FetchAll(ctx)
		if err != nil {
			t.Fatalf("FetchAll %d failed: %v", i, err)
		}
		if len(properties) != 1 {
			t.Fatalf("Expected 1 property, got %d", len(properties))
		}
	}
	// Every call degrades to a direct store query.
	if st.ListCalls() != 3 {
		t.Errorf("Expected 3 store queries, got %d", st.ListCalls())
	}
	if manager.IsCached(ctx) {
		t.Error("IsCached must report false when the backend is down")
	}
}

func TestFetchAll_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewCountingStore(testutil.OpenStore(t))
	st.FailList = true

	manager := cache.NewManager(cache.NewMemoryClient(), st)

	if _, err := manager.FetchAll(ctx); err == nil {
		t.Error("Expected store error to propagate")
	}
}

func TestFetchAll_CorruptEntryFallsBack(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewCountingStore(testutil.OpenStore(t))
	seedStore(t, st, "Only")

	client := cache.NewMemoryClient()
	if err := client.Set(ctx, cache.AllPropertiesKey, []byte("not json"), cache.TTL); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	manager := cache.NewManager(client, st)
	properties, err := manager.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(properties) != 1 {
		t.Fatalf("Expected 1 property, got %d", len(properties))
	}

	// The corrupt entry was replaced with a valid snapshot.
	if _, err := manager.FetchAll(ctx); err != nil {
		t.Fatalf("Second FetchAll failed: %v", err)
	}
	if st.ListCalls() != 1 {
		t.Errorf("Expected snapshot to be repopulated, got %d store queries", st.ListCalls())
	}
}

func TestInvalidate_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)
	manager := cache.NewManager(cache.NewMemoryClient(), st)

	// Invalidating an absent key succeeds.
	if err := manager.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate on empty cache failed: %v", err)
	}

	seedStore(t, st, "Only")
	if _, err := manager.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if err := manager.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if manager.IsCached(ctx) {
		t.Error("Expected cache to be empty after invalidate")
	}
	if err := manager.Invalidate(ctx); err != nil {
		t.Fatalf("Repeated invalidate failed: %v", err)
	}
}

func TestInvalidateThenFetchReflectsStore(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)
	manager := cache.NewManager(cache.NewMemoryClient(), st)

	seedStore(t, st, "One")
	if _, err := manager.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	// Write behind the cache's back, then invalidate.
	seedStore(t, st, "Two")
	if err := manager.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	properties, err := manager.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(properties) != 2 {
		t.Errorf("Expected fetch after invalidation to see 2 properties, got %d", len(properties))
	}
}

func TestCachedCount(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)
	manager := cache.NewManager(cache.NewMemoryClient(), st)

	if _, ok := manager.CachedCount(ctx); ok {
		t.Error("Expected no cached count before any fetch")
	}

	seedStore(t, st, "One", "Two")
	if _, err := manager.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	count, ok := manager.CachedCount(ctx)
	if !ok {
		t.Fatal("Expected cached count after fetch")
	}
	if count != 2 {
		t.Errorf("Expected cached count 2, got %d", count)
	}
}

func TestRefresh_ReflectsCurrentStore(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewCountingStore(testutil.OpenStore(t))
	manager := cache.NewManager(cache.NewMemoryClient(), st)

	seedStore(t, st, "One")
	if _, err := manager.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	seedStore(t, st, "Two")

	properties, err := manager.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(properties) != 2 {
		t.Errorf("Expected refresh to see 2 properties, got %d", len(properties))
	}
	if !manager.IsCached(ctx) {
		t.Error("Expected refresh to repopulate the cache")
	}
}

func TestFetchProperty(t *testing.T) {
	ctx := context.Background()
	inner := testutil.OpenStore(t)
	st := testutil.NewCountingStore(inner)
	manager := cache.NewManager(cache.NewMemoryClient(), st)

	created, err := inner.CreateProperty(ctx, &property.Property{
		Title: "Detail", Price: 1, Location: "Here",
	})
	if err != nil {
		t.Fatalf("CreateProperty failed: %v", err)
	}

	p, err := manager.FetchProperty(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchProperty failed: %v", err)
	}
	if p.Title != "Detail" {
		t.Errorf("Title mismatch: got %q", p.Title)
	}

	// Cached now: no further store lookups.
	if _, err := manager.FetchProperty(ctx, created.ID); err != nil {
		t.Fatalf("Second FetchProperty failed: %v", err)
	}
	if st.GetCalls() != 1 {
		t.Errorf("Expected 1 store lookup, got %d", st.GetCalls())
	}
}

func TestFetchProperty_NotFound(t *testing.T) {
	ctx := context.Background()
	manager := cache.NewManager(cache.NewMemoryClient(), testutil.OpenStore(t))

	_, err := manager.FetchProperty(ctx, 12345)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
