package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homevista/property-listings/internal/testutil"
	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/listing"
	"github.com/homevista/property-listings/pkg/seed"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenStore(t)
	manager := cache.NewManager(cache.NewMemoryClient(), db)
	service := listing.NewService(db, cache.NewHooks(manager))

	first, err := seed.Run(ctx, service)
	require.NoError(t, err)
	require.Equal(t, 5, first.Created)
	require.Zero(t, first.Existing)

	// Re-running creates nothing and reports every record as existing.
	second, err := seed.Run(ctx, service)
	require.NoError(t, err)
	require.Zero(t, second.Created)
	require.Equal(t, 5, second.Existing)

	count, err := db.CountProperties(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	villa, err := db.GetPropertyByTitle(ctx, "Luxury Villa in Miami")
	require.NoError(t, err)
	require.Equal(t, 1250000.00, villa.Price)
	require.Equal(t, "Miami, FL", villa.Location)
}
