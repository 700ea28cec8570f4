// Package metrics exposes Prometheus collectors for dataset retrieval and
// report generation.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hygiene-analyzer/models"
)

const namespace = "hygiene"

// Metrics owns a private registry so that several instances (tests, the
// server) never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	fetchDuration   *prometheus.HistogramVec
	fetchFailures   *prometheus.CounterVec
	fetchedRecords  *prometheus.CounterVec
	analysisSeconds prometheus.Histogram
	runs            prometheus.Counter
	establishments  prometheus.Gauge
	authorities     prometheus.Gauge
	averageRating   prometheus.Gauge
	lastRun         prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent downloading one dataset source, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"source"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Dataset sources that could not be loaded.",
		}, []string{"source"}),
		fetchedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetched_establishments_total",
			Help:      "Establishment records decoded per source.",
		}, []string{"source"}),
		analysisSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent generating a report.",
			Buckets:   prometheus.DefBuckets,
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Reports generated.",
		}),
		establishments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "establishments",
			Help:      "Establishments in the latest report.",
		}),
		authorities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "authorities",
			Help:      "Local authorities in the latest report.",
		}),
		averageRating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_rating",
			Help:      "Average numeric hygiene rating in the latest report (NaN when undefined).",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the latest report.",
		}),
	}

	m.registry.MustRegister(
		m.fetchDuration, m.fetchFailures, m.fetchedRecords,
		m.analysisSeconds, m.runs,
		m.establishments, m.authorities, m.averageRating, m.lastRun,
	)
	return m
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFetch records one source download.
func (m *Metrics) ObserveFetch(source string, elapsed time.Duration, records int, err error) {
	m.fetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if err != nil {
		m.fetchFailures.WithLabelValues(source).Inc()
		return
	}
	m.fetchedRecords.WithLabelValues(source).Add(float64(records))
}

// ObserveRun records a finished analysis.
func (m *Metrics) ObserveRun(run *models.Run, elapsed time.Duration) {
	m.analysisSeconds.Observe(elapsed.Seconds())
	m.runs.Inc()
	m.lastRun.Set(float64(run.GeneratedAt.Unix()))
	if run.Report == nil {
		return
	}
	m.establishments.Set(float64(run.Report.TotalBusinesses))
	m.authorities.Set(float64(len(run.Report.AuthorityInsights)))
	m.averageRating.Set(float64(run.Report.AverageRating))
}

// WriteTextfile dumps the current values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
