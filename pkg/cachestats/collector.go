// Package cachestats reads raw hit/miss statistics from the Redis
// backend and derives a performance verdict from them.
package cachestats

import (
	"bufio"
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/logging"
)

// Metrics is a point-in-time snapshot of backend-reported cache
// statistics. Error is set instead of a failure being raised; all
// other fields are zero-valued in that case.
type Metrics struct {
	KeyspaceHits     int64   `json:"keyspace_hits"`
	KeyspaceMisses   int64   `json:"keyspace_misses"`
	TotalOperations  int64   `json:"total_operations"`
	HitRatio         float64 `json:"hit_ratio"`
	HitRatioPct      float64 `json:"hit_ratio_percentage"`
	MissRatio        float64 `json:"miss_ratio"`
	MissRatioPct     float64 `json:"miss_ratio_percentage"`
	UsedMemory       int64   `json:"used_memory"`
	UsedMemoryHuman  string  `json:"used_memory_human"`
	CachedKeysCount  int     `json:"cached_keys_count"`
	RedisVersion     string  `json:"redis_version"`
	ConnectedClients int64   `json:"connected_clients"`
	UptimeSeconds    int64   `json:"uptime_in_seconds"`
	UptimeDays       int64   `json:"uptime_in_days"`
	Error            string  `json:"error,omitempty"`
}

// Backend is the introspection surface the collector needs. It is
// satisfied by *redis.Client.
type Backend interface {
	Info(ctx context.Context, section ...string) *redis.StringCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

// Collector reads cache statistics from a Redis backend. The read is
// side-effect free.
type Collector struct {
	backend Backend
	logger  zerolog.Logger
}

// NewCollector creates a collector over the given backend. A nil
// backend is allowed (cache backends without an introspection
// interface); Collect then reports an error-marked result.
func NewCollector(backend Backend) *Collector {
	return &Collector{
		backend: backend,
		logger:  logging.NewLogger("cache-stats"),
	}
}

// Collect reads hit/miss counters, memory usage, and server facts from
// the backend. On any backend failure it returns zero-valued Metrics
// carrying an error marker instead of an error value, so callers can
// always render the result.
func (c *Collector) Collect(ctx context.Context) *Metrics {
	if c.backend == nil {
		return &Metrics{
			Error:           "cache backend does not expose statistics",
			UsedMemoryHuman: "0B",
			RedisVersion:    "unknown",
		}
	}

	raw, err := c.backend.Info(ctx, "stats", "memory", "server", "clients").Result()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to read cache statistics")
		return &Metrics{
			Error:           err.Error(),
			UsedMemoryHuman: "0B",
			RedisVersion:    "unknown",
		}
	}

	info := parseInfo(raw)
	m := &Metrics{
		KeyspaceHits:     info.intField("keyspace_hits"),
		KeyspaceMisses:   info.intField("keyspace_misses"),
		UsedMemory:       info.intField("used_memory"),
		UsedMemoryHuman:  info.strField("used_memory_human", "0B"),
		RedisVersion:     info.strField("redis_version", "unknown"),
		ConnectedClients: info.intField("connected_clients"),
		UptimeSeconds:    info.intField("uptime_in_seconds"),
		UptimeDays:       info.intField("uptime_in_days"),
	}

	m.TotalOperations = m.KeyspaceHits + m.KeyspaceMisses
	if m.TotalOperations > 0 {
		m.HitRatio = float64(m.KeyspaceHits) / float64(m.TotalOperations)
		m.MissRatio = 1 - m.HitRatio
	}
	m.HitRatioPct = round2(m.HitRatio * 100)
	m.MissRatioPct = round2(m.MissRatio * 100)

	// Key count is best-effort; a failed KEYS scan leaves it at zero.
	if keys, err := c.backend.Keys(ctx, cache.KeyPattern).Result(); err == nil {
		m.CachedKeysCount = len(keys)
	} else {
		c.logger.Warn().Err(err).Msg("Failed to count cached keys")
	}

	c.logger.Info().
		Int64("hits", m.KeyspaceHits).
		Int64("misses", m.KeyspaceMisses).
		Float64("hit_ratio_pct", m.HitRatioPct).
		Int("cached_keys", m.CachedKeysCount).
		Msg("Cache metrics collected")

	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// infoFields is the parsed form of a redis INFO response.
type infoFields map[string]string

// parseInfo parses the INFO wire format: "key:value" lines with
// "#"-prefixed section headers and CRLF line endings.
func parseInfo(raw string) infoFields {
	fields := make(infoFields)
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields
}

func (f infoFields) intField(key string) int64 {
	v, err := strconv.ParseInt(f[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (f infoFields) strField(key, fallback string) string {
	if v, ok := f[key]; ok && v != "" {
		return v
	}
	return fallback
}
