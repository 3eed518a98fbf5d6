package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// Domain services increment counters through the helper methods; the HTTP
// latency histogram is fed by the latency middleware.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec

	TransactionsRecorded *prometheus.CounterVec
	RequestsCreated      *prometheus.CounterVec
	RequestsAdjudicated  *prometheus.CounterVec
	PayoutsClaimed       prometheus.Counter
	WindowsIssued        prometheus.Counter
	PINFailures          prometheus.Counter
	ValuationDuration    prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fundbook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
		TransactionsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundbook_transactions_recorded_total",
			Help: "Total ledger transactions recorded, by kind",
		}, []string{"kind"}),
		RequestsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundbook_requests_created_total",
			Help: "Total beneficiary requests created, by kind",
		}, []string{"kind"}),
		RequestsAdjudicated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundbook_requests_adjudicated_total",
			Help: "Total requests adjudicated, by action",
		}, []string{"action"}),
		PayoutsClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundbook_payouts_claimed_total",
			Help: "Total quarterly payouts claimed",
		}),
		WindowsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundbook_claim_windows_issued_total",
			Help: "Total quarterly claim windows issued",
		}),
		PINFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundbook_pin_failures_total",
			Help: "Total failed PIN verification attempts",
		}),
		ValuationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundbook_valuation_duration_seconds",
			Help:    "Duration of full ledger valuations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, method, status string, start time.Time) {
	m.RequestLatency.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
}

// IncrementTransactionsRecorded records a ledger append for the given kind.
func (m *Metrics) IncrementTransactionsRecorded(kind string) {
	m.TransactionsRecorded.WithLabelValues(kind).Inc()
}

// IncrementRequestsCreated records a new beneficiary request of the given kind.
func (m *Metrics) IncrementRequestsCreated(kind string) {
	m.RequestsCreated.WithLabelValues(kind).Inc()
}

// IncrementRequestsAdjudicated records an adjudication outcome.
func (m *Metrics) IncrementRequestsAdjudicated(action string) {
	m.RequestsAdjudicated.WithLabelValues(action).Inc()
}

// ObserveValuation records the duration of a valuation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveValuation(start time.Time) {
	m.ValuationDuration.Observe(time.Since(start).Seconds())
}
