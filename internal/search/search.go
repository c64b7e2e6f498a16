package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
)

// VenueLister is the slice of the record store the composer reads from.
type VenueLister interface {
	ListVenues(ctx context.Context, filter enums.VenueFilter) ([]models.Skatepark, error)
}

// Filters describe the supported search knobs. Zero values mean "not provided".
type Filters struct {
	Query    string   `json:"q,omitempty"`
	State    string   `json:"state,omitempty"`
	Features []string `json:"features,omitempty"`
}

// IsEmpty reports whether no predicate is active.
func (f Filters) IsEmpty() bool {
	return f.Query == "" && f.State == "" && len(f.Features) == 0
}

// Matches applies every active predicate to the venue (AND-combined).
func (f Filters) Matches(v models.Skatepark) bool {
	return f.matchesQuery(v) && f.matchesState(v) && f.matchesFeatures(v)
}

// matchesQuery is a case-insensitive substring test over name, description and city.
func (f Filters) matchesQuery(v models.Skatepark) bool {
	if f.Query == "" {
		return true
	}
	needle := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(v.Name), needle) ||
		strings.Contains(strings.ToLower(v.Description), needle) ||
		strings.Contains(strings.ToLower(v.City), needle)
}

func (f Filters) matchesState(v models.Skatepark) bool {
	return f.State == "" || v.State == f.State
}

// matchesFeatures is an ANY match: one shared tag is enough.
func (f Filters) matchesFeatures(v models.Skatepark) bool {
	if len(f.Features) == 0 {
		return true
	}
	for _, feature := range f.Features {
		if v.HasFeature(feature) {
			return true
		}
	}
	return false
}

// Composer layers text, region and tag predicates over the venue listing.
type Composer struct {
	venues VenueLister
}

func NewComposer(venues VenueLister) (*Composer, error) {
	if venues == nil {
		return nil, fmt.Errorf("venue lister required")
	}
	return &Composer{venues: venues}, nil
}

// Search returns the venues matching every active filter in listing order.
// No filters returns the full listing; zero matches is an empty, non-nil slice.
func (c *Composer) Search(ctx context.Context, filters Filters) ([]models.Skatepark, error) {
	all, err := c.venues.ListVenues(ctx, enums.VenueFilterAll)
	if err != nil {
		return nil, err
	}
	if filters.IsEmpty() {
		return all, nil
	}

	out := make([]models.Skatepark, 0, len(all))
	for _, v := range all {
		if filters.Matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ParseFeatures splits a comma-separated tag list, trimming blanks and dropping empties.
func ParseFeatures(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
