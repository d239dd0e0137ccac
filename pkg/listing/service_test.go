package listing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homevista/property-listings/internal/testutil"
	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/listing"
	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
)

// brokenClient simulates an unreachable cache backend.
type brokenClient struct{}

var errDown = errors.New("backend unavailable")

func (brokenClient) Get(context.Context, string) ([]byte, error) { return nil, errDown }
func (brokenClient) Set(context.Context, string, []byte, time.Duration) error {
	return errDown
}
func (brokenClient) Delete(context.Context, string) error           { return errDown }
func (brokenClient) Exists(context.Context, string) (bool, error)   { return false, errDown }
func (brokenClient) Keys(context.Context, string) ([]string, error) { return nil, errDown }
func (brokenClient) Ping(context.Context) error                     { return errDown }
func (brokenClient) Close() error                                   { return nil }

type fixture struct {
	service *listing.Service
	manager *cache.Manager
	client  *cache.MemoryClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenStore(t)
	client := cache.NewMemoryClient()
	manager := cache.NewManager(client, db)
	return &fixture{
		service: listing.NewService(db, cache.NewHooks(manager)),
		manager: manager,
		client:  client,
	}
}

func (f *fixture) mustCreate(t *testing.T, title string, price float64) *property.Property {
	t.Helper()
	created, err := f.service.CreateProperty(context.Background(), &property.Property{
		Title: title, Price: price, Location: "Testville",
	})
	require.NoError(t, err)
	return created
}

func TestCreateInvalidatesListingCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.manager.FetchAll(ctx)
	require.NoError(t, err)
	require.True(t, f.manager.IsCached(ctx))

	f.mustCreate(t, "New Listing", 100)
	require.False(t, f.manager.IsCached(ctx), "create hook must drop the snapshot")

	properties, err := f.manager.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, properties, 1)
}

func TestUpdateInvalidatesBothLanes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.mustCreate(t, "Listing", 100)

	// Warm both lanes.
	_, err := f.manager.FetchAll(ctx)
	require.NoError(t, err)
	_, err = f.manager.FetchProperty(ctx, created.ID)
	require.NoError(t, err)

	newPrice := 200.0
	updated, err := f.service.UpdateProperty(ctx, &store.UpdateProperty{
		ID:    created.ID,
		Price: &newPrice,
	})
	require.NoError(t, err)
	require.Equal(t, 200.0, updated.Price)
	require.False(t, f.manager.IsCached(ctx))

	// The per-record entry was dropped: the next fetch sees the new
	// price rather than a stale snapshot.
	fresh, err := f.manager.FetchProperty(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 200.0, fresh.Price)
}

func TestDeleteInvalidatesBothLanes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.mustCreate(t, "Doomed", 100)

	_, err := f.manager.FetchAll(ctx)
	require.NoError(t, err)
	_, err = f.manager.FetchProperty(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteProperty(ctx, created.ID))
	require.False(t, f.manager.IsCached(ctx))

	_, err = f.manager.FetchProperty(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteMissing(t *testing.T) {
	f := newFixture(t)
	err := f.service.DeleteProperty(context.Background(), 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWritesSucceedWhenCacheIsDown(t *testing.T) {
	// A failed invalidation must not abort the triggering write.
	ctx := context.Background()
	db := testutil.OpenStore(t)
	manager := cache.NewManager(brokenClient{}, db)
	service := listing.NewService(db, cache.NewHooks(manager))

	created, err := service.CreateProperty(ctx, &property.Property{
		Title: "Survivor", Price: 1, Location: "Here",
	})
	require.NoError(t, err)

	newTitle := "Renamed"
	_, err = service.UpdateProperty(ctx, &store.UpdateProperty{ID: created.ID, Title: &newTitle})
	require.NoError(t, err)

	require.NoError(t, service.DeleteProperty(ctx, created.ID))
}

func TestGetOrCreateProperty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, created, err := f.service.GetOrCreateProperty(ctx, &property.Property{
		Title: "Unique", Price: 50, Location: "Somewhere",
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.service.GetOrCreateProperty(ctx, &property.Property{
		Title: "Unique", Price: 999, Location: "Elsewhere",
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	// The existing row wins; the new defaults are ignored.
	require.Equal(t, 50.0, second.Price)
}
