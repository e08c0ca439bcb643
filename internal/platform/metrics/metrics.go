package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AssessmentsSubmitted prometheus.Counter
	HashRequests         *prometheus.CounterVec
	PinUploads           *prometheus.CounterVec
	LedgerOps            *prometheus.CounterVec
	LedgerOpSeconds      *prometheus.HistogramVec
	HTTPRequestSeconds   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AssessmentsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cisattest_assessments_submitted_total",
			Help: "Total number of assessments scored and fingerprinted",
		}),
		HashRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cisattest_hash_requests_total",
			Help: "Total number of ad-hoc content hash requests by algorithm",
		}, []string{"algorithm"}),
		PinUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cisattest_pin_uploads_total",
			Help: "Total number of content-store uploads by provider and outcome",
		}, []string{"provider", "outcome"}),
		LedgerOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cisattest_ledger_ops_total",
			Help: "Total number of ledger operations by op and outcome",
		}, []string{"op", "outcome"}),
		LedgerOpSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cisattest_ledger_op_seconds",
			Help:    "Ledger round-trip latency by op",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"op"}),
		HTTPRequestSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cisattest_http_request_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// IncAssessment increments the submitted-assessments counter.
func (m *Metrics) IncAssessment() {
	if m == nil {
		return
	}
	m.AssessmentsSubmitted.Inc()
}

// IncHashRequest counts an ad-hoc hash request for the given algorithm.
func (m *Metrics) IncHashRequest(algorithm string) {
	if m == nil {
		return
	}
	m.HashRequests.WithLabelValues(algorithm).Inc()
}

// IncPinUpload counts an upload attempt against a provider.
func (m *Metrics) IncPinUpload(provider, outcome string) {
	if m == nil {
		return
	}
	m.PinUploads.WithLabelValues(provider, outcome).Inc()
}

// ObserveLedgerOp records one ledger round trip.
func (m *Metrics) ObserveLedgerOp(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.LedgerOps.WithLabelValues(op, outcome).Inc()
	m.LedgerOpSeconds.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveHTTP records one HTTP request for the given route.
func (m *Metrics) ObserveHTTP(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestSeconds.WithLabelValues(route).Observe(d.Seconds())
}
