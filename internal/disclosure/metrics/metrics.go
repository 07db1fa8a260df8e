package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the disclosure module.
type Metrics struct {
	// Resolution outcomes by actType and result
	ResolutionOutcome *prometheus.CounterVec

	// Resolution latency
	ResolveLatency prometheus.Histogram

	// Authorization outcomes by result
	AuthorizationOutcome *prometheus.CounterVec

	// Authorization latency including signing
	AuthorizeLatency prometheus.Histogram
}

// New creates a new Metrics instance with all disclosure module metrics registered.
func New() *Metrics {
	return &Metrics{
		ResolutionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "uport_disclosure_resolutions_total",
			Help: "Total disclosure request resolutions by actType and result",
		}, []string{"act_type", "result"}),

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "uport_disclosure_resolve_duration_seconds",
			Help:    "Duration of disclosure request resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		AuthorizationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "uport_disclosure_authorizations_total",
			Help: "Total disclosure authorizations by result",
		}, []string{"result"}),

		AuthorizeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "uport_disclosure_authorize_duration_seconds",
			Help:    "Duration of disclosure authorization including token signing",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveResolution records one resolution attempt.
func (m *Metrics) ObserveResolution(actType, result string, d time.Duration) {
	if m != nil {
		m.ResolutionOutcome.WithLabelValues(actType, result).Inc()
		m.ResolveLatency.Observe(d.Seconds())
	}
}

// ObserveAuthorization records one authorization attempt.
func (m *Metrics) ObserveAuthorization(result string, d time.Duration) {
	if m != nil {
		m.AuthorizationOutcome.WithLabelValues(result).Inc()
		m.AuthorizeLatency.Observe(d.Seconds())
	}
}
