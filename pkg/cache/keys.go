package cache

import (
	"fmt"
	"time"
)

// keyPrefix namespaces every cache key written by this service so the
// stats collector can count them with a single pattern match.
const keyPrefix = "property_listings:"

const (
	// AllPropertiesKey holds the full listing snapshot. At most one
	// such entry exists at a time.
	AllPropertiesKey = keyPrefix + "all_properties"

	// KeyPattern matches every key owned by this service.
	KeyPattern = keyPrefix + "*"

	// TTL is how long cached entries live. Both the listing snapshot
	// and per-record entries use the same one-hour window.
	TTL = 3600 * time.Second
)

// PropertyKey returns the per-record cache key for one property.
func PropertyKey(id int64) string {
	return fmt.Sprintf("%sproperty_%d", keyPrefix, id)
}
