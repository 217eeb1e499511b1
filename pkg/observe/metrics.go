package observe

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reflow-ui/reflow/pkg/reflow"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for notification fan-out.
	// Default: 1, 2, 4, 8, 16, 32, 64, 128.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the fan-out histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reflow",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for the reactive runtime.
type metrics struct {
	bindingsTotal   prometheus.Counter
	setsTotal       prometheus.Counter
	rejectedTotal   prometheus.Counter
	recomputesTotal prometheus.Counter
	debounceEmits   prometheus.Counter
	watcherPanics   prometheus.Counter
	notifyFanout    prometheus.Histogram
	activeWatchers  prometheus.Gauge
}

// globalMetrics is the singleton collector set, created on first
// EnableMetrics call. Further calls reuse it.
var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

// EnableMetrics installs Prometheus-backed instrumentation hooks into
// the reflow runtime. Metrics register on the configured registry (the
// default registerer unless WithRegistry is given).
//
// Example:
//
//	observe.EnableMetrics(
//	    observe.WithNamespace("myapp"),
//	    observe.WithSubsystem("state"),
//	)
func EnableMetrics(opts ...MetricsOption) {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	globalMetricsOnce.Do(func() {
		globalMetrics = newMetrics(cfg)
	})
	m := globalMetrics

	reflow.SetInstrumentation(&reflow.Instrumentation{
		BindingCreated: m.bindingsTotal.Inc,
		EffectiveSet:   m.setsTotal.Inc,
		RejectedWrite:  m.rejectedTotal.Inc,
		Recomputed:     m.recomputesTotal.Inc,
		DebounceEmit:   m.debounceEmits.Inc,
		WatcherPanic:   m.watcherPanics.Inc,
		WatcherAdded:   m.activeWatchers.Inc,
		WatcherRemoved: m.activeWatchers.Dec,
		Notified: func(fanout int) {
			m.notifyFanout.Observe(float64(fanout))
		},
	})
}

// newMetrics registers all collectors on the configured registry.
func newMetrics(cfg MetricsConfig) *metrics {
	factory := promauto.With(cfg.Registry)

	return &metrics{
		bindingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "bindings_created_total",
			Help:        "Total number of bindings created.",
			ConstLabels: cfg.ConstLabels,
		}),
		setsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effective_mutations_total",
			Help:        "Total number of mutations that changed a value and notified watchers.",
			ConstLabels: cfg.ConstLabels,
		}),
		rejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "rejected_writes_total",
			Help:        "Total number of writes dropped by filtered or ranged bindings.",
			ConstLabels: cfg.ConstLabels,
		}),
		recomputesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "recomputes_total",
			Help:        "Total number of computed closure executions.",
			ConstLabels: cfg.ConstLabels,
		}),
		debounceEmits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "debounce_emissions_total",
			Help:        "Total number of values forwarded by debounced signals.",
			ConstLabels: cfg.ConstLabels,
		}),
		watcherPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "watcher_panics_total",
			Help:        "Total number of watcher callbacks that panicked and were isolated.",
			ConstLabels: cfg.ConstLabels,
		}),
		notifyFanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "notification_fanout",
			Help:        "Number of listeners notified per notification pass.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		activeWatchers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_watchers",
			Help:        "Current number of registered watcher entries.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
