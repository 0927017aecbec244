package reactive

import (
	"testing"

	"github.com/petermattis/goid"
)

// hasTrackingContext reports whether the calling goroutine holds a context.
func hasTrackingContext() bool {
	_, ok := trackingContexts.Load(goid.Get())
	return ok
}

func TestNotifyOutsideScopeKeepsNoContext(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	var force func()
	renderWith(owner, l, func() { force = UseForceUpdate() })

	done := make(chan [3]bool)
	go func() {
		var seen [3]bool
		force()
		seen[0] = hasTrackingContext()
		Batch(force)
		seen[1] = hasTrackingContext()
		Batch(func() { Batch(force) })
		seen[2] = hasTrackingContext()
		done <- seen
	}()

	for i, leaked := range <-done {
		if leaked {
			t.Errorf("call %d left a tracking context behind", i)
		}
	}
	if got := l.dirty.Load(); got != 3 {
		t.Errorf("listener notified %d times, want 3", got)
	}
}

func TestScopesReleaseContext(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	done := make(chan bool)
	go func() {
		renderWith(owner, l, func() { UseForceUpdate() })
		WithListener(l, func() {})
		done <- hasTrackingContext()
	}()

	if <-done {
		t.Error("tracking context kept after render finished")
	}
}

func TestBatchInsideRenderKeepsContext(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()
	l := newTestListener()

	renderWith(owner, l, func() {
		Batch(func() {})
		if !hasTrackingContext() {
			t.Error("context released while render in progress")
		}
		if getCurrentOwner() != owner {
			t.Error("current owner lost after nested batch")
		}
	})
}
