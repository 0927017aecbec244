package render

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/depstate/pkg/reactive"
)

// Default tracer name for render spans.
const defaultTracerName = "github.com/vango-dev/depstate/pkg/render"

// RenderObserver is notified after every completed render.
type RenderObserver interface {
	Rendered(d time.Duration)
}

// Option configures an Instance.
type Option func(*config)

type config struct {
	name      string
	parent    *reactive.Owner
	scheduler *Scheduler
	logger    *slog.Logger
	tracer    trace.Tracer
	observer  RenderObserver
	ctx       context.Context
}

func defaultConfig() config {
	return config{
		name:   "component",
		logger: slog.Default(),
		ctx:    context.Background(),
	}
}

// WithName sets the component name used in logs and span attributes.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithParent makes the instance's owner a child of parent, so it inherits
// parent's context values and is disposed with it.
func WithParent(parent *reactive.Owner) Option {
	return func(c *config) {
		c.parent = parent
	}
}

// WithScheduler sets the scheduler dirty instances are queued on.
// Default: a new scheduler per instance.
func WithScheduler(s *Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets the tracer for render spans.
// Default: the global provider's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithRenderObserver sets an observer called after each render.
func WithRenderObserver(o RenderObserver) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithContext sets the parent context of render spans.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

func (c *config) resolve() {
	if c.tracer == nil {
		c.tracer = otel.Tracer(defaultTracerName)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
}
