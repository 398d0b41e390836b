package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webpackalias_processing_seconds",
		Help:    "Time spent parsing and rewriting a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webpackalias_files_processed_total",
		Help: "Total number of source files processed, by outcome.",
	}, []string{"status"})

	DependenciesResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webpackalias_dependencies_resolved_total",
		Help: "Total number of dependency literals resolved, by resolution kind.",
	}, []string{"kind"})

	ModuleDirs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "webpackalias_module_dirs",
		Help: "Number of module directories in the active resolution config.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webpackalias_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// File processing outcomes.
const (
	StatusRewritten = "rewritten"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)
