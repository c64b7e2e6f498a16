package enums

import (
	"fmt"
	"strings"
)

// VenueFilter narrows skatepark listings with a single equality predicate.
type VenueFilter string

const (
	VenueFilterAll      VenueFilter = "all"
	VenueFilterFree     VenueFilter = "free"
	VenueFilterPaid     VenueFilter = "paid"
	VenueFilterFeatured VenueFilter = "featured"
)

var validVenueFilters = []VenueFilter{
	VenueFilterAll,
	VenueFilterFree,
	VenueFilterPaid,
	VenueFilterFeatured,
}

func (f VenueFilter) String() string {
	return string(f)
}

func (f VenueFilter) IsValid() bool {
	for _, candidate := range validVenueFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseVenueFilter converts raw input into VenueFilter; empty input means all.
func ParseVenueFilter(value string) (VenueFilter, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return VenueFilterAll, nil
	}
	for _, candidate := range validVenueFilters {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid skatepark filter %q", value)
}
