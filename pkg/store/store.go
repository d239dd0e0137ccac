// Package store defines the persistence contract for property listings.
package store

import (
	"context"
	"errors"

	"github.com/homevista/property-listings/pkg/property"
)

// ErrNotFound is returned by single-record lookups when no row matches.
var ErrNotFound = errors.New("property not found")

// UpdateProperty carries a partial update for one property.
// Nil fields are left unchanged. CreatedAt is immutable and
// intentionally absent.
type UpdateProperty struct {
	ID          int64
	Title       *string
	Description *string
	Price       *float64
	Location    *string
}

// Store is the persistence interface for property records.
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateProperty inserts a new property and returns it with
	// ID and CreatedAt populated.
	CreateProperty(ctx context.Context, create *property.Property) (*property.Property, error)

	// ListProperties returns all properties ordered by creation
	// timestamp descending (newest first).
	ListProperties(ctx context.Context) ([]*property.Property, error)

	// GetProperty returns one property by ID, or ErrNotFound.
	GetProperty(ctx context.Context, id int64) (*property.Property, error)

	// GetPropertyByTitle returns the first property with the given
	// title, or ErrNotFound. Title is a natural dedup key for
	// seeding but is not unique at the schema level.
	GetPropertyByTitle(ctx context.Context, title string) (*property.Property, error)

	// UpdateProperty applies a partial update and returns the
	// updated row, or ErrNotFound.
	UpdateProperty(ctx context.Context, update *UpdateProperty) (*property.Property, error)

	// DeleteProperty removes one property by ID, or ErrNotFound.
	DeleteProperty(ctx context.Context, id int64) error

	// CountProperties returns the live row count.
	CountProperties(ctx context.Context) (int, error)

	Close() error
}
