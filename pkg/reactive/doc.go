// Package reactive provides the component runtime that depstate hooks run on.
//
// An Owner is the scope of one mounted component instance. It stores hook
// slots, which give hooks stable identity across renders: the n-th hook call
// of every render reads the n-th slot. Hooks must therefore be called
// unconditionally and in the same order on every render.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//
// Ref[T] is a mutable cell that never notifies anyone:
//
//	ref := NewRef(0)
//	ref.Update(func(n int) int { return n + 1 })
//
// UseForceUpdate returns a stable function that schedules a re-render of the
// calling instance:
//
//	forceUpdate := UseForceUpdate()
//	forceUpdate() // marks the instance dirty
//
// # Rendering
//
// Whatever renders a component (see package render) wraps the body like this:
//
//	WithOwner(owner, func() {
//	    owner.StartRender()
//	    defer owner.EndRender()
//	    WithListener(instance, body)
//	})
//
// # Batching
//
// Batch defers listener notifications until the outermost batch returns, then
// notifies each affected listener once.
//
// # Thread Safety
//
// Signals, refs and owners are safe for concurrent use. The tracking context
// (current owner, listener, render phase, batch) is per goroutine, so a render
// must start and finish on the same goroutine.
package reactive
