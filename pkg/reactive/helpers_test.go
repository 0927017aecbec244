package reactive

import "sync/atomic"

// testListener counts MarkDirty calls.
type testListener struct {
	id    uint64
	dirty atomic.Int32
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() { l.dirty.Add(1) }
func (l *testListener) ID() uint64 { return l.id }

// renderWith runs body as one render pass of owner with l as listener.
func renderWith(owner *Owner, l Listener, body func()) {
	WithOwner(owner, func() {
		owner.StartRender()
		defer owner.EndRender()
		WithListener(l, body)
	})
}

// hookTestRef marks slots created by useTestRef.
const hookTestRef HookType = 100

// useTestRef stores a Ref in the next hook slot of the rendering owner.
func useTestRef[T any](initial T) *Ref[T] {
	ref, _ := UseSlot(hookTestRef, func() *Ref[T] { return NewRef(initial) })
	return ref
}
