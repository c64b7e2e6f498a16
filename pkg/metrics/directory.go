package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DirectoryMetrics covers the skatepark domain: submissions, moderation and lookups.
type DirectoryMetrics struct {
	submissions   prometheus.Counter
	transitions   *prometheus.CounterVec
	venues        *prometheus.CounterVec
	nearbyResults prometheus.Histogram
	rateLimited   prometheus.Counter
}

// NewDirectoryMetrics registers the domain metrics on the provided registerer.
func NewDirectoryMetrics(reg prometheus.Registerer) *DirectoryMetrics {
	if reg == nil {
		return &DirectoryMetrics{}
	}
	m := &DirectoryMetrics{
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skatepark_submissions_created_total",
			Help: "Skatepark submissions received.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skatepark_submission_transitions_total",
			Help: "Submission status changes by source and target status.",
		}, []string{"from", "to"}),
		venues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skateparks_created_total",
			Help: "Skateparks published, by origin.",
		}, []string{"origin"}),
		nearbyResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skatepark_nearby_results",
			Help:    "Number of skateparks returned per nearby query.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skatepark_submissions_rate_limited_total",
			Help: "Public submissions rejected by the per-IP rate limit.",
		}),
	}
	reg.MustRegister(m.submissions, m.transitions, m.venues, m.nearbyResults, m.rateLimited)
	return m
}

func (m *DirectoryMetrics) IncSubmissionCreated() {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.Inc()
}

// IncTransition counts a status change from one submission status to another.
func (m *DirectoryMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncVenueCreated counts a published venue; origin is "direct", "submission" or "seed".
func (m *DirectoryMetrics) IncVenueCreated(origin string) {
	if m == nil || m.venues == nil {
		return
	}
	m.venues.WithLabelValues(normalizeLabel(origin)).Inc()
}

func (m *DirectoryMetrics) ObserveNearbyResults(count int) {
	if m == nil || m.nearbyResults == nil {
		return
	}
	m.nearbyResults.Observe(float64(count))
}

func (m *DirectoryMetrics) IncRateLimited() {
	if m == nil || m.rateLimited == nil {
		return
	}
	m.rateLimited.Inc()
}
