package depstate

import (
	"slices"
	"sync/atomic"

	"github.com/vango-dev/depstate/pkg/reactive"
)

// initializer is either a plain value or a producer of the state.
type initializer[S any] struct {
	value S
	fn    func(prev S, ok bool) S
}

func (in initializer[S]) resolve(prev S, ok bool) S {
	if in.fn != nil {
		return in.fn(prev, ok)
	}
	return in.value
}

// cell is the per-instance hook record. deps is read and written only by
// renders of the owning instance; setters from any goroutine go through state.
type cell[S any] struct {
	state    *reactive.Ref[S]
	deps     []any
	disposed atomic.Bool

	setter   *Setter[S]
	observer Observer
}

func (c *cell[S]) get() S {
	return c.state.Current()
}

func (c *cell[S]) dispose() {
	c.disposed.Store(true)
}

// Setter updates the state of one UseStateWithDeps hook. It is created on
// mount and returned unchanged on every later render of the instance.
type Setter[S any] struct {
	cell        *cell[S]
	forceUpdate func()
}

// Set replaces the state with v. If v is Same as the current state nothing
// happens; otherwise the owning instance is scheduled to re-render.
func (s *Setter[S]) Set(v S) {
	s.apply(func(S) S { return v })
}

// Update replaces the state with fn(current). fn runs while the state is
// locked and must not call back into s. If fn panics the state is unchanged
// and s stays usable.
func (s *Setter[S]) Update(fn func(prev S) S) {
	s.apply(fn)
}

// Get returns the current state, including writes not rendered yet.
func (s *Setter[S]) Get() S {
	return s.cell.get()
}

func (s *Setter[S]) apply(fn func(S) S) {
	c := s.cell
	if c.disposed.Load() {
		return
	}

	prev, next := c.state.Update(fn)
	if Same(prev, next) {
		if c.observer != nil {
			c.observer.StateUpdated(false)
		}
		return
	}

	if c.observer != nil {
		c.observer.StateUpdated(true)
	}
	s.forceUpdate()
}

// UseStateWithDeps returns component-local state that starts as initial and
// is reset to initial whenever deps differ (per DepsEqual) from the deps of
// the previous render. While deps are unchanged, initial is ignored.
//
// This is a hook and MUST be called unconditionally during render.
func UseStateWithDeps[S any](initial S, deps ...any) (S, *Setter[S]) {
	return use(initializer[S]{value: initial}, deps)
}

// UseStateWithDepsFunc is UseStateWithDeps with a computed initial state.
// init is called once on mount with ok == false, and once per dependency
// change with the current state and ok == true. It is never called while
// deps are unchanged. Panics in init propagate to the render.
//
// Instances may switch between UseStateWithDeps and UseStateWithDepsFunc
// across renders as long as S stays the same.
func UseStateWithDepsFunc[S any](init func(prev S, ok bool) S, deps ...any) (S, *Setter[S]) {
	return use(initializer[S]{fn: init}, deps)
}

func use[S any](init initializer[S], deps []any) (S, *Setter[S]) {
	c, mounted := reactive.UseSlot(reactive.HookStateWithDeps, func() *cell[S] {
		return mount(init, deps)
	})

	forceUpdate := reactive.UseForceUpdate()

	if mounted {
		c.setter = &Setter[S]{cell: c, forceUpdate: forceUpdate}
		reactive.CurrentOwner().OnCleanup(c.dispose)
		if c.observer != nil {
			c.observer.StateMounted()
		}
	} else if !DepsEqual(c.deps, deps) {
		reset(c, init, deps)
	}

	return c.get(), c.setter
}

func mount[S any](init initializer[S], deps []any) *cell[S] {
	var zero S
	c := &cell[S]{
		deps:     slices.Clone(deps),
		observer: observerFrom(reactive.CurrentOwner()),
	}
	if init.fn != nil && c.observer != nil {
		c.observer.InitializerCalled()
	}
	c.state = reactive.NewRef(init.resolve(zero, false))
	return c
}

func reset[S any](c *cell[S], init initializer[S], deps []any) {
	if init.fn != nil && c.observer != nil {
		c.observer.InitializerCalled()
	}
	c.state.Set(init.resolve(c.get(), true))
	c.deps = slices.Clone(deps)

	if c.observer != nil {
		c.observer.StateReset()
	}
}
