package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skateparkfinder/skatepark-backend/api/controllers"
	"github.com/skateparkfinder/skatepark-backend/api/middleware"
	"github.com/skateparkfinder/skatepark-backend/internal/submissions"
	"github.com/skateparkfinder/skatepark-backend/internal/venues"
	"github.com/skateparkfinder/skatepark-backend/pkg/config"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/metrics"
)

// Dependencies carries everything the router wires into handlers. Optional
// fields may be nil: a nil RateLimiter disables submission throttling and a
// nil Gatherer hides /metrics.
type Dependencies struct {
	Venues           venues.Service
	Submissions      submissions.Service
	ReadyChecks      map[string]controllers.Pinger
	RateLimiter      middleware.FixedWindowLimiter
	Gatherer         prometheus.Gatherer
	HTTPMetrics      *metrics.HTTPMetrics
	DirectoryMetrics *metrics.DirectoryMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.ReadyChecks, logg))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	submitPolicy := middleware.SubmissionRateLimitPolicy{
		Window:  cfg.Submissions.RateLimitWindow,
		PerIP:   cfg.Submissions.RateLimitPerIP,
		Metrics: deps.DirectoryMetrics,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/skateparks", func(r chi.Router) {
			r.Get("/", controllers.ListVenues(deps.Venues, logg))
			r.Post("/", controllers.CreateVenue(deps.Venues, logg))
			r.Get("/featured", controllers.ListVenuesByFilter(deps.Venues, enums.VenueFilterFeatured, logg))
			r.Get("/free", controllers.ListVenuesByFilter(deps.Venues, enums.VenueFilterFree, logg))
			r.Get("/paid", controllers.ListVenuesByFilter(deps.Venues, enums.VenueFilterPaid, logg))
			r.Get("/nearby", controllers.NearbyVenues(deps.Venues, cfg.Nearby, logg))
			r.Get("/{id}", controllers.GetVenue(deps.Venues, logg))
		})

		r.Get("/search", controllers.SearchVenues(deps.Venues, logg))

		r.With(middleware.SubmissionRateLimit(submitPolicy, deps.RateLimiter, logg)).
			Post("/submit-skatepark", controllers.CreateSubmission(deps.Submissions, logg))

		r.Route("/admin/submissions", func(r chi.Router) {
			r.Get("/", controllers.AdminListSubmissions(deps.Submissions, logg))
			r.Get("/stats", controllers.AdminSubmissionStats(deps.Submissions, logg))
			r.Get("/{id}", controllers.AdminGetSubmission(deps.Submissions, logg))
			r.Patch("/{id}/status", controllers.AdminUpdateSubmissionStatus(deps.Submissions, logg))
		})
	})

	return r
}
