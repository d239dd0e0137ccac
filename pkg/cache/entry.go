package cache

import (
	"time"

	"github.com/homevista/property-listings/pkg/property"
)

// listingsEntry is the JSON envelope stored under AllPropertiesKey.
// It records when the snapshot was taken; expiry itself is enforced by
// the backend TTL.
type listingsEntry struct {
	Properties []*property.Property `json:"properties"`
	CachedAt   time.Time            `json:"cached_at"`
}
