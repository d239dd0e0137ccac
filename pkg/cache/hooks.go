package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/homevista/property-listings/pkg/logging"
	"github.com/homevista/property-listings/pkg/property"
)

// Hooks invalidates cached entries when a property row changes. The
// write path calls them explicitly after each successful insert,
// update, or delete. A failed invalidation is logged, never
// propagated: it must not abort the triggering write.
type Hooks struct {
	manager *Manager
	logger  zerolog.Logger
}

// NewHooks creates change hooks bound to the given cache manager.
func NewHooks(manager *Manager) *Hooks {
	if manager == nil {
		panic("cache manager cannot be nil")
	}
	return &Hooks{
		manager: manager,
		logger:  logging.NewLogger("cache-hooks"),
	}
}

// OnCreated invalidates the listing snapshot after an insert.
func (h *Hooks) OnCreated(ctx context.Context, p *property.Property) {
	h.invalidate(ctx, p, "created")
}

// OnUpdated invalidates the listing snapshot and the per-record entry
// after an update.
func (h *Hooks) OnUpdated(ctx context.Context, p *property.Property) {
	h.invalidate(ctx, p, "updated")
}

// OnDeleted invalidates the listing snapshot and the per-record entry
// after a delete.
func (h *Hooks) OnDeleted(ctx context.Context, p *property.Property) {
	h.invalidate(ctx, p, "deleted")
}

// OnUpdating logs title/price differences before an update is
// persisted. Purely observational; it performs no invalidation.
func (h *Hooks) OnUpdating(_ context.Context, old, updated *property.Property) {
	if old == nil || updated == nil {
		return
	}
	if old.Title != updated.Title {
		h.logger.Info().
			Int64("property_id", old.ID).
			Str("from", old.Title).
			Str("to", updated.Title).
			Msg("Property title changing")
	}
	if old.Price != updated.Price {
		h.logger.Info().
			Int64("property_id", old.ID).
			Float64("from", old.Price).
			Float64("to", updated.Price).
			Msg("Property price changing")
	}
}

func (h *Hooks) invalidate(ctx context.Context, p *property.Property, trigger string) {
	if err := h.manager.invalidateAs(ctx, trigger); err != nil {
		h.logger.Error().Err(err).
			Str("trigger", trigger).
			Stringer("property", p).
			Msg("Failed to invalidate listing cache")
	} else {
		h.logger.Debug().
			Str("trigger", trigger).
			Stringer("property", p).
			Msg("Listing cache invalidated by change hook")
	}

	// The per-record lane has to follow row changes too, or a stale
	// copy would outlive the row it describes.
	if trigger == "created" {
		return
	}
	if err := h.manager.InvalidateProperty(ctx, p.ID); err != nil {
		h.logger.Error().Err(err).
			Int64("property_id", p.ID).
			Msg("Failed to invalidate property cache entry")
	}
}
