// Package cache provides the read-through listing cache and its
// invalidation hooks.
//
// The manager keeps a single snapshot of all properties under one
// well-known key with a one-hour TTL, plus an independent per-record
// lane. Every cache backend failure is handled inside this package by
// degrading to a direct store query (fail-open): callers never see a
// cache error, only store errors.
//
// # Basic Usage
//
//	client := cache.NewRedisClient(redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	}))
//
//	manager := cache.NewManager(client, propertyStore)
//
//	// Read through the cache
//	properties, err := manager.FetchAll(ctx)
//
//	// Drop the snapshot after a write
//	hooks := cache.NewHooks(manager)
//	hooks.OnCreated(ctx, created)
//
// # Consistency
//
// The cache fill is not mutually exclusive: concurrent misses may each
// query the store and overwrite the key with their own snapshot.
// Last-write-wins is acceptable because every snapshot is an equally
// valid point-in-time view. Invalidation followed by a fetch always
// reflects the store state at fetch time.
//
// # Metrics
//
// The package exports Prometheus counters:
//
//   - listings_cache_hits_total{lane} - Cache hits by lane (all, property)
//   - listings_cache_misses_total{lane} - Cache misses by lane
//   - listings_cache_errors_total{operation} - Backend operation errors
//   - listings_cache_invalidations_total{trigger} - Invalidations by trigger
package cache
