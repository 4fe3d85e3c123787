package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the scan service.
type Metrics struct {
	ScansTotal        *prometheus.CounterVec
	ScanLatencyMs     *prometheus.HistogramVec
	CandidatesTotal   *prometheus.CounterVec
	SelectedTotal     *prometheus.CounterVec
	EventsSkipped     *prometheus.CounterVec
	QuotesDropped     *prometheus.CounterVec
	ProfileFallbacks  *prometheus.CounterVec
	VendorRequestsRem prometheus.Gauge
}

// NewMetrics creates and registers all metrics on reg. Passing a fresh
// registry keeps tests isolated from the global default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanium_scans_total",
			Help: "Total number of scans by sport and outcome",
		}, []string{"sport", "status"}),

		ScanLatencyMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "titanium_scan_latency_ms",
			Help:    "End-to-end scan time in milliseconds, fetch included",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"sport"}),

		CandidatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanium_candidates_emitted_total",
			Help: "Candidates emitted by evaluators before selection",
		}, []string{"sport", "category"}),

		SelectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanium_candidates_selected_total",
			Help: "Candidates kept by the selector",
		}, []string{"sport", "category"}),

		EventsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanium_events_skipped_total",
			Help: "Events that contributed no candidates because evaluation failed",
		}, []string{"sport", "reason"}),

		QuotesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanium_quotes_dropped_total",
			Help: "Malformed quotes and events dropped during normalization",
		}, []string{"sport", "kind"}),

		ProfileFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanium_profile_fallbacks_total",
			Help: "Times the built-in profile table was served instead of live data",
		}, []string{"sport", "reason"}),

		VendorRequestsRem: factory.NewGauge(prometheus.GaugeOpts{
			Name: "titanium_vendor_requests_remaining",
			Help: "Requests remaining on the odds vendor quota",
		}),
	}
}

// RecordScan records a finished scan
func (m *Metrics) RecordScan(sport, status string, latencyMs float64) {
	m.ScansTotal.WithLabelValues(sport, status).Inc()
	m.ScanLatencyMs.WithLabelValues(sport).Observe(latencyMs)
}

// RecordCandidate counts one evaluator candidate
func (m *Metrics) RecordCandidate(sport, category string) {
	m.CandidatesTotal.WithLabelValues(sport, category).Inc()
}

// RecordSelected counts one selected candidate
func (m *Metrics) RecordSelected(sport, category string) {
	m.SelectedTotal.WithLabelValues(sport, category).Inc()
}

// RecordEventSkipped counts an event dropped at the evaluation boundary
func (m *Metrics) RecordEventSkipped(sport, reason string) {
	m.EventsSkipped.WithLabelValues(sport, reason).Inc()
}

// RecordDropped counts events or quotes dropped by the normalizer
func (m *Metrics) RecordDropped(sport, kind string, n int) {
	if n > 0 {
		m.QuotesDropped.WithLabelValues(sport, kind).Add(float64(n))
	}
}

// RecordProfileFallback implements profiles.FallbackRecorder
func (m *Metrics) RecordProfileFallback(sport, reason string) {
	m.ProfileFallbacks.WithLabelValues(sport, reason).Inc()
}

// RecordRequestsRemaining tracks the vendor quota
func (m *Metrics) RecordRequestsRemaining(n int) {
	m.VendorRequestsRem.Set(float64(n))
}
