// Package seed loads the sample property data set.
package seed

import (
	"context"

	"github.com/homevista/property-listings/pkg/listing"
	"github.com/homevista/property-listings/pkg/logging"
	"github.com/homevista/property-listings/pkg/property"
)

// SampleProperties is the fixed development data set. Titles act as
// the dedup key, so re-running the seeder never duplicates rows.
var SampleProperties = []property.Property{
	{
		Title:       "Luxury Villa in Miami",
		Description: "Beautiful 4-bedroom villa with ocean view and private pool",
		Price:       1250000.00,
		Location:    "Miami, FL",
	},
	{
		Title:       "Downtown Apartment",
		Description: "Modern 2-bedroom apartment in city center with amazing views",
		Price:       450000.00,
		Location:    "New York, NY",
	},
	{
		Title:       "Country House",
		Description: "Spacious country house with large garden and peaceful surroundings",
		Price:       320000.00,
		Location:    "Austin, TX",
	},
	{
		Title:       "Beachfront Condo",
		Description: "Luxurious beachfront condo with direct beach access",
		Price:       750000.00,
		Location:    "San Diego, CA",
	},
	{
		Title:       "Mountain Cabin",
		Description: "Cozy cabin in the mountains perfect for weekend getaways",
		Price:       280000.00,
		Location:    "Denver, CO",
	},
}

// Result reports what a seeding run did.
type Result struct {
	Created  int
	Existing int
}

// Run inserts the sample properties with get-or-create semantics and
// logs one line per record.
func Run(ctx context.Context, svc *listing.Service) (*Result, error) {
	logger := logging.NewLogger("seed")
	result := &Result{}

	for i := range SampleProperties {
		p := SampleProperties[i]
		_, created, err := svc.GetOrCreateProperty(ctx, &p)
		if err != nil {
			return result, err
		}
		if created {
			result.Created++
			logger.Info().Str("title", p.Title).Msg("Created property")
		} else {
			result.Existing++
			logger.Info().Str("title", p.Title).Msg("Property already exists")
		}
	}
	return result, nil
}
