// Package metrics records import runs as Prometheus metrics and writes them
// in the textfile format read by node_exporter.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so repeated runs in one process never
// collide on registration.
type Recorder struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	transactions *prometheus.CounterVec
	duration     prometheus.Histogram
	lastSuccess  prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountant_import_runs_total",
				Help: "Statement import runs, partitioned by dialect and status.",
			},
			[]string{"dialect", "status"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountant_import_rows_total",
				Help: "Statement rows processed, partitioned by dialect and outcome.",
			},
			[]string{"dialect", "outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "accountant_import_duration_seconds",
			Help:    "Time spent importing one statement.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "accountant_import_last_success_timestamp_seconds",
			Help: "Unix time of the last statement imported without rejection.",
		}),
	}
	r.registry.MustRegister(r.runs, r.transactions, r.duration, r.lastSuccess)
	return r
}

// Run describes one finished import.
type Run struct {
	Dialect    string
	Status     string
	Imported   int
	Duplicates int
	Skipped    int
	Duration   time.Duration
	Finished   time.Time
}

// Observe records a run. Rejected runs count toward runs only.
func (r *Recorder) Observe(run Run) {
	dialect := run.Dialect
	if dialect == "" {
		dialect = "unknown"
	}
	r.runs.WithLabelValues(dialect, run.Status).Inc()
	r.duration.Observe(run.Duration.Seconds())
	if run.Status == "rejected" {
		return
	}
	r.transactions.WithLabelValues(dialect, "imported").Add(float64(run.Imported))
	r.transactions.WithLabelValues(dialect, "duplicate").Add(float64(run.Duplicates))
	r.transactions.WithLabelValues(dialect, "skipped").Add(float64(run.Skipped))
	if !run.Finished.IsZero() {
		r.lastSuccess.Set(float64(run.Finished.Unix()))
	}
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
