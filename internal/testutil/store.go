// Package testutil provides testing utilities for the property
// listings service.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
	"github.com/homevista/property-listings/pkg/store/sqlite"
)

// OpenStore opens an in-memory SQLite store that is closed when the
// test finishes.
func OpenStore(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return db
}

// CountingStore wraps a store and counts every read, so tests can
// assert how often the cache manager fell through to the store.
type CountingStore struct {
	store.Store

	mu        sync.Mutex
	listCalls int
	getCalls  int

	// FailList forces ListProperties to return an error.
	FailList bool
}

// NewCountingStore wraps the given store.
func NewCountingStore(inner store.Store) *CountingStore {
	return &CountingStore{Store: inner}
}

func (c *CountingStore) ListProperties(ctx context.Context) ([]*property.Property, error) {
	c.mu.Lock()
	c.listCalls++
	fail := c.FailList
	c.mu.Unlock()
	if fail {
		return nil, errors.New("store unavailable")
	}
	return c.Store.ListProperties(ctx)
}

func (c *CountingStore) GetProperty(ctx context.Context, id int64) (*property.Property, error) {
	c.mu.Lock()
	c.getCalls++
	c.mu.Unlock()
	return c.Store.GetProperty(ctx, id)
}

// ListCalls reports how many times ListProperties was called.
func (c *CountingStore) ListCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls
}

// GetCalls reports how many times GetProperty was called.
func (c *CountingStore) GetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls
}
