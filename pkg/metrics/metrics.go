// Package metrics exports Prometheus metrics for depstate hooks and renders.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg))
//	depstate.Observe(rootOwner, m)
//	inst := render.Mount(body, render.WithParent(rootOwner), render.WithRenderObserver(m))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "depstate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
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
		Namespace: "depstate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. It implements depstate.Observer and
// render.RenderObserver.
type Metrics struct {
	rendersTotal     prometheus.Counter
	renderDuration   prometheus.Histogram
	mountsTotal      prometheus.Counter
	resetsTotal      prometheus.Counter
	initializerCalls prometheus.Counter
	updatesTotal     *prometheus.CounterVec
}

// New creates and registers the collectors. Registering twice on the same
// registry panics, as with any promauto collector.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component renders",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mountsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_mounts_total",
			Help:        "Total number of state hooks mounted",
			ConstLabels: config.ConstLabels,
		}),

		resetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_resets_total",
			Help:        "Total number of state resets caused by changed dependencies",
			ConstLabels: config.ConstLabels,
		}),

		initializerCalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "initializer_calls_total",
			Help:        "Total number of state initializer function calls",
			ConstLabels: config.ConstLabels,
		}),

		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_updates_total",
			Help:        "Total number of setter calls, by whether they changed the state",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

// Rendered records one render.
func (m *Metrics) Rendered(d time.Duration) {
	m.rendersTotal.Inc()
	m.renderDuration.Observe(d.Seconds())
}

// StateMounted records a hook mount.
func (m *Metrics) StateMounted() {
	m.mountsTotal.Inc()
}

// StateReset records a dependency-driven reset.
func (m *Metrics) StateReset() {
	m.resetsTotal.Inc()
}

// InitializerCalled records an initializer call.
func (m *Metrics) InitializerCalled() {
	m.initializerCalls.Inc()
}

// StateUpdated records a setter call.
func (m *Metrics) StateUpdated(applied bool) {
	if applied {
		m.updatesTotal.WithLabelValues("applied").Inc()
		return
	}
	m.updatesTotal.WithLabelValues("skipped").Inc()
}
