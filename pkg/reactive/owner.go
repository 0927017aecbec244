package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/depstate/internal/errors"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookForceUpdate HookType = iota + 1
	HookStateWithDeps
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookForceUpdate:
		return "ForceUpdate"
	case HookStateWithDeps:
		return "StateWithDeps"
	default:
		return "Unknown"
	}
}

// Owner represents the scope of one mounted component instance.
// When an Owner is disposed, its child owners and cleanups are disposed too,
// and its hook slots are dropped.
//
// Owners form a hierarchy mirroring the component tree. Context values set on
// an owner are visible to every descendant.
type Owner struct {
	id uint64

	// parent is nil for a root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// cleanups are registered via OnCleanup and run in reverse order.
	cleanups   []Cleanup
	cleanupsMu sync.Mutex

	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool

	// renders counts finished render passes, including ones that panicked.
	renders atomic.Int64

	// Dev-mode hook order tracking (only used when DebugMode is true).
	hookOrder []HookType
	hookIndex int

	// Hook slot storage. Always active, since hooks rely on it for identity.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner with the given parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// RenderCount returns the number of finished render passes. A pass that
// panicked still counts: EndRender runs for it and its hooks were recorded.
func (o *Owner) RenderCount() int {
	return int(o.renders.Load())
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// OnCleanup registers a cleanup function to run when this Owner is disposed.
func (o *Owner) OnCleanup(fn Cleanup) {
	if o.disposed.Load() {
		// Already disposed, run cleanup immediately
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// SetValue stores a context value on this owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// Value returns the context value for key from this owner or the nearest
// ancestor that has it.
func (o *Owner) Value(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		v, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Dispose disposes this Owner and all its children and cleanups.
// Children are disposed in reverse order (last created first).
// Dispose is idempotent.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.hookSlots = nil
	o.hookOrder = nil
}

// =============================================================================
// Render Phase and Hook Order Validation
// =============================================================================

// StartRender is called at the beginning of a component render.
// It resets the hook slot index, and in debug mode the order validation index.
func (o *Owner) StartRender() {
	beginRender()

	o.hookSlotIdx = 0

	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode, it validates that all expected hooks were called.
func (o *Owner) EndRender() {
	endRender()

	first := o.renders.Add(1) == 1

	if !DebugMode || first {
		return
	}
	if o.hookIndex < len(o.hookOrder) {
		panic(errors.New("E002").WithDetailf("expected %d hooks, got %d",
			len(o.hookOrder), o.hookIndex))
	}
}

// TrackHook records a hook call during render for order validation.
// In debug mode, hooks must be called in the same order on every render;
// violations panic with a coded error.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renders.Load() == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(errors.New("E002").WithDetailf("extra %s hook at index %d", ht, o.hookIndex))
		}
		if expected := o.hookOrder[o.hookIndex]; expected != ht {
			panic(errors.New("E002").WithDetailf("at index %d: expected %s, got %s",
				o.hookIndex, expected, ht))
		}
	}
	o.hookIndex++
}

// =============================================================================
// Hook Slot Storage for Stable Identity
// =============================================================================

// UseHookSlot returns the stored value for the current hook slot, or nil on
// the first render, in which case the caller creates the value and calls
// SetHookSlot.
//
//	slot := owner.UseHookSlot()
//	if slot != nil {
//	    return slot.(*T)
//	}
//	instance := &T{...}
//	owner.SetHookSlot(instance)
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the current hook slot.
// Must be called right after UseHookSlot returns nil.
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}

// UseSlot is the typed form of the slot protocol used by hooks. It returns the
// slot value for the current hook position, calling create on mount. mounted
// reports whether create ran.
//
// It panics with E011 outside a render and with E010 when the stored slot has
// a different type.
func UseSlot[T any](ht HookType, create func() T) (value T, mounted bool) {
	owner := getCurrentOwner()
	if owner == nil || !InRender() {
		panic(errors.New("E011").WithSuggestion(
			fmt.Sprintf("Call the %s hook from inside a component body", ht)))
	}
	if owner.IsDisposed() {
		panic(errors.New("E013"))
	}

	owner.TrackHook(ht)

	if slot := owner.UseHookSlot(); slot != nil {
		v, ok := slot.(T)
		if !ok {
			panic(errors.New("E010").WithDetailf("%s hook at this position holds %T, want %T",
				ht, slot, value))
		}
		return v, false
	}

	value = create()
	owner.SetHookSlot(value)
	return value, true
}
