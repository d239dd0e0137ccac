// Package property defines the property listing domain model.
package property

import (
	"fmt"
	"strings"
	"time"
)

// Property is a single real-estate listing record.
// The store assigns ID and CreatedAt at insert time; CreatedAt is immutable.
type Property struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the invariants required for persisting a property.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price must be non-negative (got %v)", p.Price)
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (p *Property) String() string {
	return fmt.Sprintf("%s (%s)", p.Title, p.Location)
}
