package controllers

import (
	"net/http"

	"github.com/skateparkfinder/skatepark-backend/api/responses"
	"github.com/skateparkfinder/skatepark-backend/api/validators"
	"github.com/skateparkfinder/skatepark-backend/internal/search"
	"github.com/skateparkfinder/skatepark-backend/internal/venues"
	"github.com/skateparkfinder/skatepark-backend/pkg/config"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

func venueServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "skatepark service unavailable")
}

// ListVenues returns skateparks narrowed by the optional ?filter= query.
func ListVenues(svc venues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, venueServiceUnavailable())
			return
		}

		filter, err := enums.ParseVenueFilter(r.URL.Query().Get("filter"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid filter").
				WithDetails(map[string]any{"field": "filter"}))
			return
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListVenuesByFilter serves the /featured, /free and /paid shortcuts.
func ListVenuesByFilter(svc venues.Service, filter enums.VenueFilter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, venueServiceUnavailable())
			return
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetVenue(svc venues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, venueServiceUnavailable())
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		venue, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, venue)
	}
}

type createVenueRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state" validate:"required"`
	ImageURL    string   `json:"image_url" validate:"required,http_url"`
	IsFree      bool     `json:"is_free"`
	Price       *string  `json:"price"`
	Rating      int      `json:"rating" validate:"min=0,max=50"`
	Features    []string `json:"features" validate:"max=20"`
	IsFeatured  bool     `json:"is_featured"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

func (r createVenueRequest) toInput() venues.CreateVenueInput {
	return venues.CreateVenueInput{
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		ImageURL:    r.ImageURL,
		IsFree:      r.IsFree,
		Price:       r.Price,
		Rating:      r.Rating,
		Features:    r.Features,
		IsFeatured:  r.IsFeatured,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}

// CreateVenue publishes a skatepark directly, bypassing moderation.
func CreateVenue(svc venues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, venueServiceUnavailable())
			return
		}

		var req createVenueRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		venue, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, venue)
	}
}

// SearchVenues composes ?q=, ?state= and ?features=a,b into one conjunctive query.
func SearchVenues(svc venues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, venueServiceUnavailable())
			return
		}

		q := r.URL.Query()
		filters := search.Filters{
			Query:    q.Get("q"),
			State:    q.Get("state"),
			Features: search.ParseFeatures(q.Get("features")),
		}

		list, err := svc.Search(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// NearbyVenues lists skateparks within ?radius= km of (?latitude=, ?longitude=),
// nearest first.
func NearbyVenues(svc venues.Service, cfg config.NearbyConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, venueServiceUnavailable())
			return
		}

		lat, err := validators.ParseQueryFloat(r, "latitude", true, 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lng, err := validators.ParseQueryFloat(r, "longitude", true, 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		radius, err := validators.ParseQueryFloat(r, "radius", false, cfg.DefaultRadiusKm)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if radius < 0 || radius > cfg.MaxRadiusKm {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "radius out of range").
				WithDetails(map[string]any{"field": "radius", "min": 0, "max": cfg.MaxRadiusKm}))
			return
		}

		list, err := svc.Nearby(r.Context(), lat, lng, radius)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
