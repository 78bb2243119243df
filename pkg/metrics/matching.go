package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MatchingMetrics records supplier-matching query behavior.
type MatchingMetrics struct {
	duration *prometheus.HistogramVec
	matches  *prometheus.HistogramVec
}

// NewMatchingMetrics registers the matching metrics on the provided registerer.
func NewMatchingMetrics(reg prometheus.Registerer) *MatchingMetrics {
	if reg == nil {
		return &MatchingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matching_duration_seconds",
		Help:    "Duration of supplier-matching queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	matches := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matching_candidates",
		Help:    "Number of suppliers returned per matching query.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	}, []string{"outcome"})
	reg.MustRegister(duration, matches)
	return &MatchingMetrics{
		duration: duration,
		matches:  matches,
	}
}

// ObserveQuery records one matching query with its duration and result count.
func (m *MatchingMetrics) ObserveQuery(duration time.Duration, candidates int, err error) {
	if m == nil || m.duration == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.matches.WithLabelValues(outcome).Observe(float64(candidates))
}
