package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/rangedom/pkg/vdom"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "rangedom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for update duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "rangedom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a vdom.Observer that records Prometheus metrics.
type Observer struct {
	mounted        *prometheus.CounterVec
	reused         *prometheus.CounterVec
	replaced       *prometheus.CounterVec
	removed        prometheus.Counter
	retained       prometheus.Counter
	updates        *prometheus.CounterVec
	updateDuration *prometheus.HistogramVec
}

var _ vdom.Observer = (*Observer)(nil)

// NewObserver registers the renderer metrics and returns an Observer.
// Registering twice against the same registry panics, as with promauto.
func NewObserver(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		mounted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_mounted_total",
			Help:        "Total number of virtual nodes mounted into the host document",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		reused: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_reused_total",
			Help:        "Total number of nodes patched in place during reconciliation",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		replaced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_replaced_total",
			Help:        "Total number of nodes replaced during reconciliation",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		removed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "children_removed_total",
			Help:        "Total number of trailing children deleted when a child list shrinks",
			ConstLabels: config.ConstLabels,
		}),

		retained: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "children_retained_total",
			Help:        "Total number of stale children left attached when a child list shrinks",
			ConstLabels: config.ConstLabels,
		}),

		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of component updates",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		updateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_duration_seconds",
			Help:        "Component update duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),
	}
}

// NodeMounted implements vdom.Observer.
func (o *Observer) NodeMounted(kind vdom.VKind) {
	o.mounted.WithLabelValues(kind.String()).Inc()
}

// NodeReused implements vdom.Observer.
func (o *Observer) NodeReused(kind vdom.VKind) {
	o.reused.WithLabelValues(kind.String()).Inc()
}

// NodeReplaced implements vdom.Observer.
func (o *Observer) NodeReplaced(kind vdom.VKind) {
	o.replaced.WithLabelValues(kind.String()).Inc()
}

// ChildrenRemoved implements vdom.Observer.
func (o *Observer) ChildrenRemoved(count int) {
	o.removed.Add(float64(count))
}

// ShrinkRetained implements vdom.Observer.
func (o *Observer) ShrinkRetained(count int) {
	o.retained.Add(float64(count))
}

// UpdateFinished implements vdom.Observer.
func (o *Observer) UpdateFinished(component string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.updates.WithLabelValues(component, status).Inc()
	o.updateDuration.WithLabelValues(component).Observe(elapsed.Seconds())
}
