package reactive

import (
	"reflect"
	"testing"
)

func TestUseForceUpdateMarksListenerDirty(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	var force func()
	renderWith(owner, l, func() {
		force = UseForceUpdate()
	})

	force()
	force()
	force()

	if got := l.dirty.Load(); got != 3 {
		t.Errorf("MarkDirty called %d times, want 3", got)
	}
}

func TestUseForceUpdateIsStable(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	var fns []func()
	for i := 0; i < 3; i++ {
		renderWith(owner, l, func() {
			fns = append(fns, UseForceUpdate())
		})
	}

	first := reflect.ValueOf(fns[0]).Pointer()
	for i, fn := range fns[1:] {
		if reflect.ValueOf(fn).Pointer() != first {
			t.Errorf("render %d returned a different function", i+1)
		}
	}

	fu := owner.hookSlots[0].(*forceUpdater)
	if fu.trigger == nil || fu.marker == nil {
		t.Fatal("force updater slot not populated")
	}
}

func TestUseForceUpdateMarkerAlwaysChanges(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	var force func()
	renderWith(owner, l, func() { force = UseForceUpdate() })

	fu := owner.hookSlots[0].(*forceUpdater)
	seen := map[uint64]bool{fu.marker.value: true}
	for i := 0; i < 10; i++ {
		force()
		m := fu.marker.value
		if seen[m] {
			t.Fatalf("marker %d repeated", m)
		}
		seen[m] = true
	}
}

func TestUseForceUpdateAfterDispose(t *testing.T) {
	owner := NewOwner(nil)
	l := newTestListener()

	var force func()
	renderWith(owner, l, func() { force = UseForceUpdate() })

	owner.Dispose()
	force()

	if got := l.dirty.Load(); got != 0 {
		t.Errorf("disposed instance notified %d times", got)
	}
}

func TestUseForceUpdateBatched(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	var force func()
	renderWith(owner, l, func() { force = UseForceUpdate() })

	Batch(func() {
		force()
		force()
	})

	if got := l.dirty.Load(); got != 1 {
		t.Errorf("MarkDirty called %d times in one batch, want 1", got)
	}
}
