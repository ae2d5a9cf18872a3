// Package metrics exposes Prometheus instruments for index rebuilds and enrichment.
//
// All recording methods are safe on a nil *Metrics, so components can take
// an optional Metrics without guarding every call.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rebuild outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Metrics holds the Prometheus collectors.
type Metrics struct {
	// Index metrics
	RebuildsTotal   *prometheus.CounterVec
	RebuildDuration prometheus.Histogram
	IndexKeys       prometheus.Gauge
	IndexEntries    prometheus.Gauge
	MissingFolders  prometheus.Gauge
	FailedFiles     prometheus.Gauge

	// Watch metrics
	WatchHandles prometheus.Gauge
	WatchEvents  *prometheus.CounterVec

	// Enrichment metrics
	EnrichTotal *prometheus.CounterVec

	// Check metrics
	ChecksTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with registry.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RebuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prhdesc_index_rebuilds_total",
				Help: "Total number of rule index rebuilds",
			},
			[]string{"status"},
		),
		RebuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prhdesc_index_rebuild_duration_seconds",
				Help:    "Rule index rebuild duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		IndexKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "prhdesc_index_keys",
				Help: "Number of distinct keys in the current rule index",
			},
		),
		IndexEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "prhdesc_index_entries",
				Help: "Number of entries in the current rule index",
			},
		),
		MissingFolders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "prhdesc_index_missing_folders",
				Help: "Number of configured rule folders that could not be read in the last build",
			},
		),
		FailedFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "prhdesc_index_failed_files",
				Help: "Number of rule files skipped in the last build",
			},
		),
		WatchHandles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "prhdesc_watch_handles",
				Help: "Number of rule folders currently watched",
			},
		),
		WatchEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prhdesc_watch_events_total",
				Help: "Total number of filesystem events received",
			},
			[]string{"op"},
		),
		EnrichTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prhdesc_enrich_total",
				Help: "Total number of enriched messages by match kind",
			},
			[]string{"match"},
		),
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prhdesc_checks_total",
				Help: "Total number of document checks by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.RebuildsTotal,
		m.RebuildDuration,
		m.IndexKeys,
		m.IndexEntries,
		m.MissingFolders,
		m.FailedFiles,
		m.WatchHandles,
		m.WatchEvents,
		m.EnrichTotal,
		m.ChecksTotal,
	)

	return m
}

// IndexStats is the subset of a build report recorded after a rebuild.
type IndexStats struct {
	Keys           int
	Entries        int
	MissingFolders int
	FailedFiles    int
}

// ObserveRebuild records one rebuild attempt.
func (m *Metrics) ObserveRebuild(duration time.Duration, err error, stats IndexStats) {
	if m == nil {
		return
	}
	m.RebuildDuration.Observe(duration.Seconds())
	if err != nil {
		m.RebuildsTotal.WithLabelValues(StatusFailed).Inc()
		return
	}
	m.RebuildsTotal.WithLabelValues(StatusOK).Inc()
	m.IndexKeys.Set(float64(stats.Keys))
	m.IndexEntries.Set(float64(stats.Entries))
	m.MissingFolders.Set(float64(stats.MissingFolders))
	m.FailedFiles.Set(float64(stats.FailedFiles))
}

// SetWatchHandles records the number of held watch handles.
func (m *Metrics) SetWatchHandles(n int) {
	if m == nil {
		return
	}
	m.WatchHandles.Set(float64(n))
}

// ObserveWatchEvent counts one filesystem event.
func (m *Metrics) ObserveWatchEvent(op string) {
	if m == nil {
		return
	}
	m.WatchEvents.WithLabelValues(op).Inc()
}

// ObserveEnrich counts one enrichment by match kind.
func (m *Metrics) ObserveEnrich(match string) {
	if m == nil {
		return
	}
	m.EnrichTotal.WithLabelValues(match).Inc()
}

// ObserveCheck counts one document check by outcome.
func (m *Metrics) ObserveCheck(outcome string) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RegisterEndpoint mounts the /metrics endpoint on mux.
func RegisterEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", Handler(registry))
}
