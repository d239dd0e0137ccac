// Package metrics documents the Prometheus metrics exported by the
// property listings service. The metrics themselves are defined in
// pkg/cache via promauto to avoid circular dependencies; this package
// holds the shared registry reference for the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their
// defining packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - listings_cache_hits_total{lane} (Counter): Cache hits by lane (all, property)
//   - listings_cache_misses_total{lane} (Counter): Cache misses by lane
//   - listings_cache_errors_total{operation} (Counter): Backend operation errors
//   - listings_cache_invalidations_total{trigger} (Counter): Invalidations by trigger
//     (created, updated, deleted, manual, refresh)
//
// Note these counters track in-process manager activity. The
// /cache-metrics/ pages report the Redis server's own keyspace
// counters instead, which cover every client of the backend.
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(listings_cache_hits_total[5m])) /
//   (sum(rate(listings_cache_hits_total[5m])) + sum(rate(listings_cache_misses_total[5m])))
//
//   # Invalidation Rate by Trigger
//   rate(listings_cache_invalidations_total[5m])
//
//   # Backend Error Rate
//   rate(listings_cache_errors_total[5m])
