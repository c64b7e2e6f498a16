package proximity

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/skateparkfinder/skatepark-backend/internal/search"
	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/geo"
)

// Result pairs a venue with its great-circle distance from the query point.
type Result struct {
	Venue      models.Skatepark
	DistanceKm float64
}

// Query locates venues within radiusKm of a coordinate. No defaulting happens here;
// callers decide the radius.
type Query struct {
	venues search.VenueLister
}

func NewQuery(venues search.VenueLister) (*Query, error) {
	if venues == nil {
		return nil, fmt.Errorf("venue lister required")
	}
	return &Query{venues: venues}, nil
}

// Nearby returns venues whose distance from (lat, lng) is <= radiusKm, nearest first.
// Venues missing either coordinate are skipped. Ties keep listing order.
//
// All venues are loaded and filtered in process.
func (q *Query) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Result, error) {
	if err := validatePoint(lat, lng, radiusKm); err != nil {
		return nil, err
	}

	venues, err := q.venues.ListVenues(ctx, enums.VenueFilterAll)
	if err != nil {
		return nil, err
	}

	origin := geo.Point{Lat: lat, Lng: lng}
	results := make([]Result, 0, len(venues))
	for _, v := range venues {
		if !v.HasCoordinates() {
			continue
		}
		d := origin.DistanceTo(geo.Point{Lat: *v.Latitude, Lng: *v.Longitude})
		if d <= radiusKm {
			results = append(results, Result{Venue: v, DistanceKm: d})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	return results, nil
}

// validatePoint only rejects values that are not numbers at all.
func validatePoint(lat, lng, radiusKm float64) error {
	var fields []string
	for _, in := range []struct {
		name  string
		value float64
	}{{"latitude", lat}, {"longitude", lng}, {"radius", radiusKm}} {
		if math.IsNaN(in.value) || math.IsInf(in.value, 0) {
			fields = append(fields, in.name)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "coordinates must be finite numbers").
		WithDetails(map[string]any{"fields": fields})
}
