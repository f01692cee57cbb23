// Package metrics collects per-run counters for gndfinder and exports them in
// the Prometheus text format for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for an enrichment run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Lookup requests by kind ("search", "candidates") and outcome
	Requests *prometheus.CounterVec

	// Lookup request latency by kind, retries included
	RequestDuration *prometheus.HistogramVec

	// Retried attempts by kind
	Retries *prometheus.CounterVec

	// Cache lookups by tier ("memory", "sqlite") and result ("hit", "miss")
	Cache *prometheus.CounterVec

	// Records by lookup result ("matched", "candidates", "unmatched", "failed")
	Lookups *prometheus.CounterVec

	// Records by resolution outcome
	Resolutions *prometheus.CounterVec

	// Wall-clock duration of the last run
	RunDuration prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gndfinder_lookup_requests_total",
			Help: "GND lookup requests by kind and outcome",
		}, []string{"kind", "outcome"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gndfinder_lookup_request_duration_seconds",
			Help:    "Duration of GND lookup requests including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),

		Retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gndfinder_lookup_retries_total",
			Help: "Retried GND lookup attempts by kind",
		}, []string{"kind"}),

		Cache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gndfinder_cache_lookups_total",
			Help: "Response cache lookups by tier and result",
		}, []string{"tier", "result"}),

		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gndfinder_records_looked_up_total",
			Help: "Records processed by the lookup pass by result",
		}, []string{"result"}),

		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gndfinder_records_resolved_total",
			Help: "Records processed by the resolution pass by outcome",
		}, []string{"outcome"}),

		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gndfinder_run_duration_seconds",
			Help: "Wall-clock duration of the last enrichment run",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records a completed lookup request.
func (m *Metrics) ObserveRequest(kind, outcome string, elapsed time.Duration) {
	if m != nil {
		m.Requests.WithLabelValues(kind, outcome).Inc()
		m.RequestDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// ObserveRetry records a retried attempt.
func (m *Metrics) ObserveRetry(kind string) {
	if m != nil {
		m.Retries.WithLabelValues(kind).Inc()
	}
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(tier, result string) {
	if m != nil {
		m.Cache.WithLabelValues(tier, result).Inc()
	}
}

// IncrementLookup records the lookup result for one record.
func (m *Metrics) IncrementLookup(result string) {
	if m != nil {
		m.Lookups.WithLabelValues(result).Inc()
	}
}

// AddResolutions records resolution outcomes in bulk.
func (m *Metrics) AddResolutions(outcome string, count int) {
	if m != nil && count > 0 {
		m.Resolutions.WithLabelValues(outcome).Add(float64(count))
	}
}

// SetRunDuration records the total run time.
func (m *Metrics) SetRunDuration(d time.Duration) {
	if m != nil {
		m.RunDuration.Set(d.Seconds())
	}
}

// WriteTextfile writes the registry to path in the Prometheus text format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metrics: ensure directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
