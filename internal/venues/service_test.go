package venues

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skateparkfinder/skatepark-backend/internal/search"
	"github.com/skateparkfinder/skatepark-backend/internal/store"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/metrics"
)

type recordedEvent struct {
	eventType   enums.ModerationEventType
	aggregateID int64
}

type recordingPublisher struct {
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType enums.ModerationEventType, aggregateID int64, _ any) error {
	p.events = append(p.events, recordedEvent{eventType: eventType, aggregateID: aggregateID})
	return p.err
}

func ptr[T any](v T) *T {
	return &v
}

func newTestService(t *testing.T) (Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc, err := NewService(store.NewMemory(), pub, metrics.NewDirectoryMetrics(prometheus.NewRegistry()), logger.Nop())
	require.NoError(t, err)
	return svc, pub
}

func validInput(name string) CreateVenueInput {
	return CreateVenueInput{
		Name:        name,
		Description: "Street plaza with hubbas and a flat bar",
		Address:     "1 Plaza Way",
		City:        "Los Angeles",
		State:       "CA",
		ImageURL:    "https://example.com/plaza.jpg",
		IsFree:      false,
		Price:       ptr(" $15/session "),
		Rating:      45,
		Features:    []string{"Street", " ", "Pro "},
		Latitude:    ptr(34.043409),
		Longitude:   ptr(-118.217770),
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, logger.Nop())
	require.Error(t, err)

	_, err = NewService(store.NewMemory(), nil, nil, nil)
	require.Error(t, err)

	svc, err := NewService(store.NewMemory(), nil, nil, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestCreateNormalizesAndPublishes(t *testing.T) {
	svc, pub := newTestService(t)

	dto, err := svc.Create(context.Background(), validInput("The Berrics"))
	require.NoError(t, err)

	assert.NotZero(t, dto.ID)
	require.NotNil(t, dto.Price)
	assert.Equal(t, "$15/session", *dto.Price)
	assert.Equal(t, []string{"Street", "Pro"}, dto.Features)
	require.Len(t, pub.events, 1)
	assert.Equal(t, enums.EventVenueCreated, pub.events[0].eventType)
	assert.Equal(t, dto.ID, pub.events[0].aggregateID)
}

func TestCreateClearsPriceForFreeParks(t *testing.T) {
	svc, _ := newTestService(t)
	input := validInput("Free Plaza")
	input.IsFree = true

	dto, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Nil(t, dto.Price)
}

func TestCreateRejectsRatingOutOfRange(t *testing.T) {
	svc, pub := newTestService(t)

	for _, rating := range []int{-1, 51} {
		input := validInput("Bad Rating")
		input.Rating = rating
		_, err := svc.Create(context.Background(), input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "rating %d", rating)
	}
	assert.Empty(t, pub.events)
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("pubsub down")}
	svc, err := NewService(store.NewMemory(), pub, nil, logger.Nop())
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), validInput("Resilient"))
	require.NoError(t, err)
	assert.NotZero(t, dto.ID)
}

func TestGetAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	paid, err := svc.Create(ctx, validInput("Paid"))
	require.NoError(t, err)
	free := validInput("Free")
	free.IsFree = true
	free.IsFeatured = true
	_, err = svc.Create(ctx, free)
	require.NoError(t, err)

	got, err := svc.Get(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paid", got.Name)

	_, err = svc.Get(ctx, 404)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	all, err := svc.List(ctx, enums.VenueFilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	featured, err := svc.List(ctx, enums.VenueFilterFeatured)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Free", featured[0].Name)
}

func TestSearchAndNearby(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput("The Berrics"))
	require.NoError(t, err)
	noCoords := validInput("Nowhere Park")
	noCoords.Latitude = nil
	_, err = svc.Create(ctx, noCoords)
	require.NoError(t, err)

	found, err := svc.Search(ctx, search.Filters{Features: []string{"Pro"}})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	near, err := svc.Nearby(ctx, 34.0522, -118.2437, 50)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "The Berrics", near[0].Name)
	assert.Greater(t, near[0].DistanceKm, 0.0)
	assert.Less(t, near[0].DistanceKm, 5.0)
}

func TestVenueDTOJSONShape(t *testing.T) {
	svc, _ := newTestService(t)
	input := validInput("Shape")
	input.IsFree = true
	input.Features = nil

	dto, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "image_url")
	assert.Contains(t, decoded, "is_featured")
	assert.Nil(t, decoded["price"])
	assert.Equal(t, []any{}, decoded["features"])
}
