// Package listing implements the property write path. Every mutation
// goes through Service so the cache change hooks fire explicitly on
// each successful insert, update, and delete.
package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/logging"
	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
)

// Service couples the store with the cache change hooks.
type Service struct {
	store  store.Store
	hooks  *cache.Hooks
	logger zerolog.Logger
}

// NewService creates a listing service. hooks may be nil, in which
// case writes skip cache invalidation (useful for offline tooling).
func NewService(st store.Store, hooks *cache.Hooks) *Service {
	if st == nil {
		panic("store cannot be nil")
	}
	return &Service{
		store:  st,
		hooks:  hooks,
		logger: logging.NewLogger("listing-service"),
	}
}

// Store exposes the underlying store for read-only collaborators.
func (s *Service) Store() store.Store {
	return s.store
}

// CreateProperty inserts a property and invalidates the listing cache.
func (s *Service) CreateProperty(ctx context.Context, create *property.Property) (*property.Property, error) {
	created, err := s.store.CreateProperty(ctx, create)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Stringer("property", created).Msg("Property created")
	if s.hooks != nil {
		s.hooks.OnCreated(ctx, created)
	}
	return created, nil
}

// UpdateProperty applies a partial update and invalidates both cache
// lanes. The pre-update hook logs title/price changes first.
func (s *Service) UpdateProperty(ctx context.Context, update *store.UpdateProperty) (*property.Property, error) {
	if s.hooks != nil {
		// Best-effort diff for the audit log; a racing delete just
		// skips it.
		if old, err := s.store.GetProperty(ctx, update.ID); err == nil {
			incoming := *old
			if update.Title != nil {
				incoming.Title = *update.Title
			}
			if update.Price != nil {
				incoming.Price = *update.Price
			}
			s.hooks.OnUpdating(ctx, old, &incoming)
		}
	}

	updated, err := s.store.UpdateProperty(ctx, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Stringer("property", updated).Msg("Property updated")
	if s.hooks != nil {
		s.hooks.OnUpdated(ctx, updated)
	}
	return updated, nil
}

// DeleteProperty removes a property and invalidates both cache lanes.
func (s *Service) DeleteProperty(ctx context.Context, id int64) error {
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Stringer("property", p).Msg("Property deleted")
	if s.hooks != nil {
		s.hooks.OnDeleted(ctx, p)
	}
	return nil
}

// GetOrCreateProperty looks a property up by title and creates it when
// absent. The boolean reports whether a new row was created. Title is
// the natural dedup key used by the seeder.
func (s *Service) GetOrCreateProperty(ctx context.Context, create *property.Property) (*property.Property, bool, error) {
	existing, err := s.store.GetPropertyByTitle(ctx, create.Title)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup property by title: %w", err)
	}
	created, err := s.CreateProperty(ctx, create)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
