package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skateparkfinder/skatepark-backend/internal/search"
	"github.com/skateparkfinder/skatepark-backend/internal/submissions"
	"github.com/skateparkfinder/skatepark-backend/internal/venues"
	"github.com/skateparkfinder/skatepark-backend/pkg/config"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

type recordingVenues struct {
	venues.Service
	filter     enums.VenueFilter
	search     search.Filters
	lat, lng   float64
	radius     float64
	nearbyHits int
}

func (r *recordingVenues) List(_ context.Context, filter enums.VenueFilter) ([]venues.VenueDTO, error) {
	r.filter = filter
	return []venues.VenueDTO{}, nil
}

func (r *recordingVenues) Search(_ context.Context, filters search.Filters) ([]venues.VenueDTO, error) {
	r.search = filters
	return []venues.VenueDTO{}, nil
}

func (r *recordingVenues) Nearby(_ context.Context, lat, lng, radius float64) ([]venues.NearbyVenueDTO, error) {
	r.lat, r.lng, r.radius = lat, lng, radius
	r.nearbyHits++
	return []venues.NearbyVenueDTO{}, nil
}

type recordingSubmissions struct {
	submissions.Service
	status *enums.SubmissionStatus
	id     int64
	next   string
	notes  *string
}

func (r *recordingSubmissions) List(_ context.Context, status *enums.SubmissionStatus) ([]submissions.SubmissionDTO, error) {
	r.status = status
	return []submissions.SubmissionDTO{}, nil
}

func (r *recordingSubmissions) UpdateStatus(_ context.Context, id int64, status string, notes *string) (*submissions.StatusChangeDTO, error) {
	r.id, r.next, r.notes = id, status, notes
	return &submissions.StatusChangeDTO{}, nil
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestHandlersRejectMissingService(t *testing.T) {
	logg := logger.Nop()
	handlers := map[string]http.HandlerFunc{
		"list":         ListVenues(nil, logg),
		"shortcut":     ListVenuesByFilter(nil, enums.VenueFilterFree, logg),
		"get":          GetVenue(nil, logg),
		"create":       CreateVenue(nil, logg),
		"search":       SearchVenues(nil, logg),
		"nearby":       NearbyVenues(nil, config.NearbyConfig{DefaultRadiusKm: 50, MaxRadiusKm: 100}, logg),
		"submit":       CreateSubmission(nil, logg),
		"admin list":   AdminListSubmissions(nil, logg),
		"admin stats":  AdminSubmissionStats(nil, logg),
		"admin get":    AdminGetSubmission(nil, logg),
		"admin status": AdminUpdateSubmissionStatus(nil, logg),
	}
	for name, h := range handlers {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, name)
		assert.Equal(t, "INTERNAL_ERROR", errorCode(t, rec), name)
	}
}

func TestSearchVenuesParsesQuery(t *testing.T) {
	svc := &recordingVenues{}
	rec := httptest.NewRecorder()
	SearchVenues(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=bowl&state=Oregon&features=Bowl,+,Street,", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, search.Filters{Query: "bowl", State: "Oregon", Features: []string{"Bowl", "Street"}}, svc.search)
}

func TestNearbyVenuesDefaultsRadius(t *testing.T) {
	svc := &recordingVenues{}
	cfg := config.NearbyConfig{DefaultRadiusKm: 50, MaxRadiusKm: 100}

	rec := httptest.NewRecorder()
	NearbyVenues(svc, cfg, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/?latitude=45.5&longitude=-122.6", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 45.5, svc.lat)
	assert.Equal(t, -122.6, svc.lng)
	assert.Equal(t, 50.0, svc.radius)

	rec = httptest.NewRecorder()
	NearbyVenues(svc, cfg, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/?latitude=45.5&longitude=-122.6&radius=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, svc.radius)

	rec = httptest.NewRecorder()
	NearbyVenues(svc, cfg, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/?latitude=45.5&longitude=-122.6&radius=101", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2, svc.nearbyHits)
}

func TestListVenuesDefaultsToAll(t *testing.T) {
	svc := &recordingVenues{}
	rec := httptest.NewRecorder()
	ListVenues(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/api/skateparks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.VenueFilterAll, svc.filter)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestAdminListSubmissionsStatusFilter(t *testing.T) {
	svc := &recordingSubmissions{}

	rec := httptest.NewRecorder()
	AdminListSubmissions(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.status)

	rec = httptest.NewRecorder()
	AdminListSubmissions(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/?status=approved", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.status)
	assert.Equal(t, enums.SubmissionStatusApproved, *svc.status)

	rec = httptest.NewRecorder()
	AdminListSubmissions(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/?status=Approved", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUpdateSubmissionStatusPassesBody(t *testing.T) {
	svc := &recordingSubmissions{}
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"rejected","review_notes":"duplicate"}`))
	req = withURLParam(req, "id", "7")

	rec := httptest.NewRecorder()
	AdminUpdateSubmissionStatus(svc, logger.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.id)
	assert.Equal(t, "rejected", svc.next)
	require.NotNil(t, svc.notes)
	assert.Equal(t, "duplicate", *svc.notes)

	rec = httptest.NewRecorder()
	AdminUpdateSubmissionStatus(svc, logger.Nop())(rec, withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`)), "id", "7"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
