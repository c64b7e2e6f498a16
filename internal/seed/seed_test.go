package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/skateparkfinder/skatepark-backend/internal/store"
	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

func TestParksAreComplete(t *testing.T) {
	parks, err := Parks()
	require.NoError(t, err)
	require.Len(t, parks, 7)

	for _, p := range parks {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
		assert.NotEmpty(t, p.ImageURL)
		assert.True(t, p.HasCoordinates(), p.Name)
		assert.GreaterOrEqual(t, p.Rating, 0)
		assert.LessOrEqual(t, p.Rating, 50)
		if p.IsFree {
			assert.Nil(t, p.Price, p.Name)
		} else {
			assert.NotNil(t, p.Price, p.Name)
		}
	}
	assert.Equal(t, "Venice Beach Skatepark", parks[0].Name)
	assert.Equal(t, "The Berrics", parks[6].Name)
}

func TestRunSeedsEmptyStoreOnce(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	created, err := Run(ctx, s, nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 7, created)

	again, err := Run(ctx, s, nil, logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, again)

	all, err := s.ListVenues(ctx, enums.VenueFilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	featured, err := s.ListVenues(ctx, enums.VenueFilterFeatured)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	paid, err := s.ListVenues(ctx, enums.VenueFilterPaid)
	require.NoError(t, err)
	assert.Len(t, paid, 3)
}

type flakyStore struct {
	*store.Memory
	calls int
}

func (f *flakyStore) CreateVenue(ctx context.Context, v models.Skatepark) (*models.Skatepark, error) {
	f.calls++
	if f.calls%2 == 0 {
		return nil, errors.New("insert failed")
	}
	return f.Memory.CreateVenue(ctx, v)
}

func TestRunAggregatesFailures(t *testing.T) {
	s := &flakyStore{Memory: store.NewMemory()}

	created, err := Run(context.Background(), s, nil, logger.Nop())
	require.Error(t, err)
	assert.Equal(t, 4, created)
	assert.Len(t, multierr.Errors(err), 3)
}
