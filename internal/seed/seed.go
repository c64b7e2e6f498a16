// Package seed loads the reference skateparks into an empty store.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/multierr"

	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/metrics"
)

//go:embed parks.json
var parksJSON []byte

type venueStore interface {
	CreateVenue(ctx context.Context, venue models.Skatepark) (*models.Skatepark, error)
	ListVenues(ctx context.Context, filter enums.VenueFilter) ([]models.Skatepark, error)
}

type park struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	ImageURL    string   `json:"image_url"`
	IsFree      bool     `json:"is_free"`
	Price       *string  `json:"price"`
	Rating      int      `json:"rating"`
	Features    []string `json:"features"`
	IsFeatured  bool     `json:"is_featured"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (p park) toModel() models.Skatepark {
	return models.Skatepark{
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		ImageURL:    p.ImageURL,
		IsFree:      p.IsFree,
		Price:       p.Price,
		Rating:      p.Rating,
		Features:    append(pq.StringArray{}, p.Features...),
		IsFeatured:  p.IsFeatured,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
	}
}

// Parks returns the reference skateparks in insertion order.
func Parks() ([]models.Skatepark, error) {
	var parks []park
	if err := json.Unmarshal(parksJSON, &parks); err != nil {
		return nil, fmt.Errorf("decoding seed parks: %w", err)
	}
	out := make([]models.Skatepark, 0, len(parks))
	for _, p := range parks {
		out = append(out, p.toModel())
	}
	return out, nil
}

// Run inserts the reference parks when the store has no venues and returns how
// many were created. A non-empty store is left alone.
func Run(ctx context.Context, store venueStore, m *metrics.DirectoryMetrics, logg *logger.Logger) (int, error) {
	existing, err := store.ListVenues(ctx, enums.VenueFilterAll)
	if err != nil {
		return 0, fmt.Errorf("checking existing skateparks: %w", err)
	}
	if len(existing) > 0 {
		logg.Info(logg.WithField(ctx, "existing", len(existing)), "skateparks present, skipping seed")
		return 0, nil
	}

	parks, err := Parks()
	if err != nil {
		return 0, err
	}

	var (
		created int
		errs    error
	)
	for _, p := range parks {
		if _, err := store.CreateVenue(ctx, p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seeding %q: %w", p.Name, err))
			continue
		}
		created++
		m.IncVenueCreated("seed")
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"created": created, "total": len(parks)}), "skatepark seed completed")
	return created, errs
}
