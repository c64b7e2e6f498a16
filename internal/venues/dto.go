package venues

import (
	"time"

	"github.com/skateparkfinder/skatepark-backend/internal/proximity"
	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
)

// VenueDTO is the public shape of a skatepark.
type VenueDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	ImageURL    string    `json:"image_url"`
	IsFree      bool      `json:"is_free"`
	Price       *string   `json:"price"`
	Rating      int       `json:"rating"`
	Features    []string  `json:"features"`
	IsFeatured  bool      `json:"is_featured"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}

// NearbyVenueDTO adds the distance from the query point.
type NearbyVenueDTO struct {
	VenueDTO
	DistanceKm float64 `json:"distance_km"`
}

// CreateVenueInput carries the fields for a directly published skatepark.
type CreateVenueInput struct {
	Name        string
	Description string
	Address     string
	City        string
	State       string
	ImageURL    string
	IsFree      bool
	Price       *string
	Rating      int
	Features    []string
	IsFeatured  bool
	Latitude    *float64
	Longitude   *float64
}

// FromModel maps the persisted skatepark into a DTO.
func FromModel(m *models.Skatepark) *VenueDTO {
	if m == nil {
		return nil
	}
	c := m.Clone()
	features := []string(c.Features)
	if features == nil {
		features = []string{}
	}
	return &VenueDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		ImageURL:    c.ImageURL,
		IsFree:      c.IsFree,
		Price:       c.Price,
		Rating:      c.Rating,
		Features:    features,
		IsFeatured:  c.IsFeatured,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		CreatedAt:   c.CreatedAt,
	}
}

func fromModels(list []models.Skatepark) []VenueDTO {
	out := make([]VenueDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func fromResults(results []proximity.Result) []NearbyVenueDTO {
	out := make([]NearbyVenueDTO, 0, len(results))
	for i := range results {
		out = append(out, NearbyVenueDTO{
			VenueDTO:   *FromModel(&results[i].Venue),
			DistanceKm: results[i].DistanceKm,
		})
	}
	return out
}
