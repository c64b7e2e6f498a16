package venues

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/skateparkfinder/skatepark-backend/internal/proximity"
	"github.com/skateparkfinder/skatepark-backend/internal/search"
	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/metrics"
	"github.com/skateparkfinder/skatepark-backend/pkg/pubsub"
)

const (
	MinRating = 0
	MaxRating = 50
)

type venueStore interface {
	CreateVenue(ctx context.Context, venue models.Skatepark) (*models.Skatepark, error)
	GetVenueByID(ctx context.Context, id int64) (*models.Skatepark, error)
	ListVenues(ctx context.Context, filter enums.VenueFilter) ([]models.Skatepark, error)
}

// Service exposes the read and publish paths for skateparks.
type Service interface {
	List(ctx context.Context, filter enums.VenueFilter) ([]VenueDTO, error)
	Get(ctx context.Context, id int64) (*VenueDTO, error)
	Create(ctx context.Context, input CreateVenueInput) (*VenueDTO, error)
	Search(ctx context.Context, filters search.Filters) ([]VenueDTO, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyVenueDTO, error)
}

type service struct {
	store     venueStore
	composer  *search.Composer
	proximity *proximity.Query
	events    pubsub.EventPublisher
	metrics   *metrics.DirectoryMetrics
	logg      *logger.Logger
}

// NewService wires the skatepark service. events and m may be nil.
func NewService(store venueStore, events pubsub.EventPublisher, m *metrics.DirectoryMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("venue store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	composer, err := search.NewComposer(store)
	if err != nil {
		return nil, err
	}
	query, err := proximity.NewQuery(store)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = pubsub.NoopPublisher{}
	}
	return &service{
		store:     store,
		composer:  composer,
		proximity: query,
		events:    events,
		metrics:   m,
		logg:      logg,
	}, nil
}

func (s *service) List(ctx context.Context, filter enums.VenueFilter) ([]VenueDTO, error) {
	list, err := s.store.ListVenues(ctx, filter)
	if err != nil {
		return nil, err
	}
	return fromModels(list), nil
}

func (s *service) Get(ctx context.Context, id int64) (*VenueDTO, error) {
	venue, err := s.store.GetVenueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(venue), nil
}

func (s *service) Create(ctx context.Context, input CreateVenueInput) (*VenueDTO, error) {
	venue, err := input.toModel()
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateVenue(ctx, venue)
	if err != nil {
		return nil, err
	}

	dto := FromModel(created)
	ctx = s.logg.WithVenueID(ctx, created.ID)
	s.logg.Info(ctx, "skatepark created")
	s.metrics.IncVenueCreated("direct")
	pubsub.Emit(ctx, s.events, s.logg, enums.EventVenueCreated, created.ID, dto)
	return dto, nil
}

func (s *service) Search(ctx context.Context, filters search.Filters) ([]VenueDTO, error) {
	list, err := s.composer.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	return fromModels(list), nil
}

func (s *service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyVenueDTO, error) {
	results, err := s.proximity.Nearby(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveNearbyResults(len(results))
	return fromResults(results), nil
}

func (in CreateVenueInput) toModel() (models.Skatepark, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return models.Skatepark{}, pkgerrors.New(pkgerrors.CodeValidation, "rating out of range").
			WithDetails(map[string]any{"rating": in.Rating, "min": MinRating, "max": MaxRating})
	}

	venue := models.Skatepark{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		IsFree:      in.IsFree,
		Price:       normalizePrice(in.IsFree, in.Price),
		Rating:      in.Rating,
		Features:    normalizeFeatures(in.Features),
		IsFeatured:  in.IsFeatured,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	return venue, nil
}

// normalizePrice drops the price of free parks and blank prices.
func normalizePrice(isFree bool, price *string) *string {
	if isFree || price == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*price)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeFeatures(features []string) pq.StringArray {
	out := pq.StringArray{}
	for _, f := range features {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
