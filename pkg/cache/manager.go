package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/homevista/property-listings/pkg/logging"
	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
)

// Manager mediates between the property store and the cache backend.
// Reads go through the cache (read-through, one-hour TTL); every cache
// backend failure degrades to a direct store query. Store errors are
// the only errors that cross this boundary.
type Manager struct {
	client Client
	store  store.Store
	logger zerolog.Logger
}

// NewManager creates a cache manager over the given client and store.
func NewManager(client Client, st store.Store) *Manager {
	if client == nil {
		panic("cache client cannot be nil")
	}
	if st == nil {
		panic("store cannot be nil")
	}
	return &Manager{
		client: client,
		store:  st,
		logger: logging.NewLogger("cache-manager"),
	}
}

// FetchAll returns all properties, newest first. On a cache hit the
// cached snapshot is returned without touching the store. On a miss
// the store is queried exactly once and the result cached for TTL.
// Cache backend failures fall back to an uncached store query.
func (m *Manager) FetchAll(ctx context.Context) ([]*property.Property, error) {
	populate := false

	data, err := m.client.Get(ctx, AllPropertiesKey)
	switch {
	case err == nil:
		entry, derr := decodeListings(data)
		if derr == nil {
			CacheHits.WithLabelValues(laneAll).Inc()
			m.logger.Debug().
				Int("count", len(entry.Properties)).
				Time("cached_at", entry.CachedAt).
				Msg("Cache hit: serving properties from cache")
			return entry.Properties, nil
		}
		// Corrupt entry: drop it and treat as a miss.
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(derr).Msg("Dropping corrupt listing cache entry")
		_ = m.client.Delete(ctx, AllPropertiesKey)
		populate = true
	case errors.Is(err, ErrCacheMiss):
		CacheMisses.WithLabelValues(laneAll).Inc()
		m.logger.Debug().Msg("Cache miss: fetching properties from store")
		populate = true
	default:
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Msg("Cache get failed, falling back to store")
	}

	properties, err := m.store.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	if populate {
		m.populate(ctx, properties)
	}
	return properties, nil
}

func (m *Manager) populate(ctx context.Context, properties []*property.Property) {
	entry := listingsEntry{
		Properties: properties,
		CachedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Msg("Failed to marshal listing cache entry")
		return
	}
	if err := m.client.Set(ctx, AllPropertiesKey, data, TTL); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Msg("Failed to cache properties")
		return
	}
	m.logger.Debug().
		Int("count", len(properties)).
		Dur("ttl", TTL).
		Msg("Cached properties")
}

// IsCached reports whether the listing snapshot currently exists in
// the cache. Backend failures report false.
func (m *Manager) IsCached(ctx context.Context) bool {
	exists, err := m.client.Exists(ctx, AllPropertiesKey)
	if err != nil {
		CacheErrors.WithLabelValues("exists").Inc()
		m.logger.Warn().Err(err).Msg("Cache exists check failed")
		return false
	}
	return exists
}

// CachedCount returns the length of the cached snapshot without a
// store query. The second return value is false when no snapshot is
// cached or the backend failed.
func (m *Manager) CachedCount(ctx context.Context) (int, bool) {
	data, err := m.client.Get(ctx, AllPropertiesKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			CacheErrors.WithLabelValues("get").Inc()
			m.logger.Warn().Err(err).Msg("Cached count lookup failed")
		}
		return 0, false
	}
	entry, err := decodeListings(data)
	if err != nil {
		return 0, false
	}
	return len(entry.Properties), true
}

// Invalidate deletes the listing snapshot. Deleting an absent key is
// not an error; only a backend failure is.
func (m *Manager) Invalidate(ctx context.Context) error {
	return m.invalidateAs(ctx, "manual")
}

func (m *Manager) invalidateAs(ctx context.Context, trigger string) error {
	if err := m.client.Delete(ctx, AllPropertiesKey); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("invalidate listings: %w", err)
	}
	CacheInvalidations.WithLabelValues(trigger).Inc()
	m.logger.Debug().Str("trigger", trigger).Msg("Listing cache invalidated")
	return nil
}

// InvalidateProperty deletes the per-record cache entry for one
// property.
func (m *Manager) InvalidateProperty(ctx context.Context, id int64) error {
	if err := m.client.Delete(ctx, PropertyKey(id)); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("invalidate property %d: %w", id, err)
	}
	return nil
}

// Refresh invalidates the listing snapshot and immediately refills it,
// so the returned sequence reflects the store state at the time of the
// call. A failed invalidation is logged and the fetch proceeds anyway.
func (m *Manager) Refresh(ctx context.Context) ([]*property.Property, error) {
	if err := m.invalidateAs(ctx, "refresh"); err != nil {
		m.logger.Warn().Err(err).Msg("Refresh could not invalidate cache")
	}
	return m.FetchAll(ctx)
}

// FetchProperty returns one property through the per-record cache
// lane. A store miss surfaces as store.ErrNotFound; cache backend
// failures degrade to a direct store lookup.
func (m *Manager) FetchProperty(ctx context.Context, id int64) (*property.Property, error) {
	key := PropertyKey(id)

	data, err := m.client.Get(ctx, key)
	if err == nil {
		var p property.Property
		if derr := json.Unmarshal(data, &p); derr == nil {
			CacheHits.WithLabelValues(laneProperty).Inc()
			return &p, nil
		}
		_ = m.client.Delete(ctx, key)
	} else if errors.Is(err, ErrCacheMiss) {
		CacheMisses.WithLabelValues(laneProperty).Inc()
	} else {
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Int64("property_id", id).Msg("Property cache get failed")
	}

	p, err := m.store.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := m.client.Set(ctx, key, data, TTL); err != nil {
			CacheErrors.WithLabelValues("set").Inc()
			m.logger.Warn().Err(err).Int64("property_id", id).Msg("Failed to cache property")
		}
	}
	return p, nil
}

func decodeListings(data []byte) (*listingsEntry, error) {
	var entry listingsEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if entry.Properties == nil {
		entry.Properties = make([]*property.Property, 0)
	}
	return &entry, nil
}
