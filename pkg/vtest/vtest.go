package vtest

import (
	"log/slog"

	"github.com/vango-dev/depstate/pkg/reactive"
	"github.com/vango-dev/depstate/pkg/render"
)

// HookResult is a mounted hook harness.
type HookResult[P, R any] struct {
	inst    *render.Instance
	sched   *render.Scheduler
	props   P
	current R
	history []R
}

// Option configures RenderHook.
type Option = render.Option

// RenderHook mounts a component that calls fn with initialProps and renders it once.
// Options are passed to render.Mount.
func RenderHook[P, R any](fn func(P) R, initialProps P, opts ...Option) *HookResult[P, R] {
	h := &HookResult[P, R]{
		props: initialProps,
		sched: render.NewScheduler(render.WithSchedulerLogger(slog.Default())),
	}

	opts = append([]Option{render.WithName("hook"), render.WithScheduler(h.sched)}, opts...)
	h.inst = render.Mount(func() {
		h.current = fn(h.props)
		h.history = append(h.history, h.current)
	}, opts...)

	return h
}

// Current returns the value returned by the latest render.
func (h *HookResult[P, R]) Current() R {
	return h.current
}

// All returns the values returned by every render, oldest first.
func (h *HookResult[P, R]) All() []R {
	return append([]R(nil), h.history...)
}

// RenderCount returns the number of renders so far, including the mount.
func (h *HookResult[P, R]) RenderCount() int {
	return h.inst.RenderCount()
}

// Rerender renders the component again with new props, like a parent
// re-rendering it.
func (h *HookResult[P, R]) Rerender(props P) {
	h.props = props
	h.inst.Render()
}

// RerenderSame renders the component again with unchanged props.
func (h *HookResult[P, R]) RerenderSame() {
	h.inst.Render()
}

// Act runs fn as one event-handling turn: updates are batched, then the
// instance renders if any of them marked it dirty. It returns an error when
// renders keep scheduling further renders.
func (h *HookResult[P, R]) Act(fn func()) error {
	reactive.Batch(fn)
	_, err := h.sched.Flush()
	return err
}

// Instance returns the mounted instance.
func (h *HookResult[P, R]) Instance() *render.Instance {
	return h.inst
}

// Unmount disposes the instance and its hook state.
func (h *HookResult[P, R]) Unmount() {
	h.inst.Dispose()
}
