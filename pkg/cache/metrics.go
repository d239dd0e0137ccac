package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by lane (all, property)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_cache_hits_total",
			Help: "Total number of listing cache hits",
		},
		[]string{"lane"},
	)

	// CacheMisses tracks cache misses by lane
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_cache_misses_total",
			Help: "Total number of listing cache misses",
		},
		[]string{"lane"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "exists"
	)

	// CacheInvalidations tracks invalidations by trigger
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_cache_invalidations_total",
			Help: "Total number of cache invalidations by trigger",
		},
		[]string{"trigger"}, // "created", "updated", "deleted", "manual", "refresh"
	)
)

// Lane labels for hit/miss counters.
const (
	laneAll      = "all"
	laneProperty = "property"
)
