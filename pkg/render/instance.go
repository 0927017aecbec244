package render

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/depstate/pkg/reactive"
)

// Component is a component body. It calls hooks and reads state; what it
// produces is up to the caller's closure.
type Component func()

// Instance represents a mounted component with its hook state.
type Instance struct {
	body   Component
	owner  *reactive.Owner
	config config

	// dirty indicates the instance is queued for re-render.
	dirty    atomic.Bool
	disposed atomic.Bool
}

var _ reactive.Listener = (*Instance)(nil)

// New creates an instance without rendering it.
func New(body Component, opts ...Option) *Instance {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.resolve()
	if cfg.scheduler == nil {
		cfg.scheduler = NewScheduler(WithSchedulerLogger(cfg.logger))
	}

	inst := &Instance{
		body:   body,
		owner:  reactive.NewOwner(cfg.parent),
		config: cfg,
	}
	inst.config.logger = cfg.logger.With(
		slog.String("component", cfg.name),
		slog.Uint64("instance", inst.owner.ID()),
	)
	return inst
}

// Mount creates an instance and renders it once.
func Mount(body Component, opts ...Option) *Instance {
	inst := New(body, opts...)
	inst.config.logger.Debug("mounting instance")
	inst.Render()
	return inst
}

// ID returns the unique identifier of the instance.
func (i *Instance) ID() uint64 {
	return i.owner.ID()
}

// Owner returns the reactive owner holding the instance's hook slots.
func (i *Instance) Owner() *reactive.Owner {
	return i.owner
}

// Scheduler returns the scheduler the instance is queued on when dirty.
func (i *Instance) Scheduler() *Scheduler {
	return i.config.scheduler
}

// RenderCount returns the number of finished renders, counting a render
// whose body panicked.
func (i *Instance) RenderCount() int {
	return i.owner.RenderCount()
}

// Render runs the component body once. Panics from the body (for example
// from a state initializer) propagate to the caller after the span is closed.
// Rendering a disposed instance does nothing.
func (i *Instance) Render() {
	if i.IsDisposed() {
		i.config.logger.Debug("render skipped: instance disposed")
		return
	}

	i.dirty.Store(false)

	_, span := i.config.tracer.Start(i.config.ctx, "depstate.render",
		trace.WithAttributes(
			attribute.String("depstate.component", i.config.name),
			attribute.Int64("depstate.instance", int64(i.owner.ID())),
			attribute.Int("depstate.render", i.owner.RenderCount()+1),
		),
	)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("render panic: %v", r))
			span.SetStatus(codes.Error, "render panicked")
			span.End()
			i.config.logger.Error("render panicked", slog.Any("panic", r))
			panic(r)
		}
		span.End()
	}()

	reactive.WithOwner(i.owner, func() {
		i.owner.StartRender()
		defer i.owner.EndRender()

		reactive.WithListener(i, func() {
			i.body()
		})
	})

	elapsed := time.Since(start)
	if i.config.observer != nil {
		i.config.observer.Rendered(elapsed)
	}
	i.config.logger.Debug("rendered",
		slog.Int("render", i.owner.RenderCount()),
		slog.Duration("elapsed", elapsed),
	)
}

// MarkDirty marks the instance as needing re-render and queues it on its
// scheduler. Marking an already dirty or disposed instance does nothing.
func (i *Instance) MarkDirty() {
	if i.IsDisposed() {
		return
	}
	if i.dirty.CompareAndSwap(false, true) {
		i.config.logger.Debug("marked dirty")
		i.config.scheduler.enqueue(i)
	}
}

// IsDirty returns whether the instance is waiting for a re-render.
func (i *Instance) IsDirty() bool {
	return i.dirty.Load()
}

// IsDisposed returns whether the instance has been unmounted, directly or by
// disposing an ancestor owner.
func (i *Instance) IsDisposed() bool {
	return i.disposed.Load() || i.owner.IsDisposed()
}

// Dispose unmounts the instance. Its owner is disposed, which discards hook
// state; later MarkDirty and Render calls are ignored.
func (i *Instance) Dispose() {
	if i.disposed.Swap(true) {
		return
	}
	i.owner.Dispose()
	i.dirty.Store(false)
	i.config.logger.Debug("instance disposed")
}
