package render

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/depstate/internal/errors"
	"github.com/vango-dev/depstate/pkg/reactive"
)

func TestFlushEmpty(t *testing.T) {
	n, err := NewScheduler().Flush()
	if n != 0 || err != nil {
		t.Errorf("Flush() = %d, %v", n, err)
	}
}

func TestFlushOrderAndCoalescing(t *testing.T) {
	sched := NewScheduler()
	var order []string

	var forceA, forceB func()
	a := Mount(func() {
		order = append(order, "a")
		forceA = reactive.UseForceUpdate()
	}, WithScheduler(sched))
	b := Mount(func() {
		order = append(order, "b")
		forceB = reactive.UseForceUpdate()
	}, WithScheduler(sched))
	defer a.Dispose()
	defer b.Dispose()

	order = nil
	forceB()
	forceA()
	forceB()

	n, err := sched.Flush()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Flush rendered %d, want 2", n)
	}
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("render order = %v, want [b a]", order)
	}
}

func TestFlushSkipsDisposed(t *testing.T) {
	sched := NewScheduler()
	var force func()
	inst := Mount(func() { force = reactive.UseForceUpdate() }, WithScheduler(sched))

	force()
	inst.Dispose()

	n, err := sched.Flush()
	if n != 0 || err != nil {
		t.Errorf("Flush() = %d, %v", n, err)
	}
}

func TestFlushRenderLoop(t *testing.T) {
	sched := NewScheduler(WithMaxFlushPasses(5))
	var inst *Instance
	inst = Mount(func() {
		force := reactive.UseForceUpdate()
		if inst != nil {
			force()
		}
	}, WithScheduler(sched))
	defer inst.Dispose()

	inst.MarkDirty()
	n, err := sched.Flush()
	if !stderrors.Is(err, errors.New("E012")) {
		t.Fatalf("Flush() error = %v, want E012", err)
	}
	if n != 5 {
		t.Errorf("Flush rendered %d, want 5", n)
	}
	if inst.IsDirty() || sched.Pending() != 0 {
		t.Error("dropped instance left dirty")
	}
}

func TestFlushSelfUpdateSettles(t *testing.T) {
	sched := NewScheduler()
	var inst *Instance
	updates := 0
	inst = Mount(func() {
		force := reactive.UseForceUpdate()
		if inst != nil && updates < 3 {
			updates++
			force()
		}
	}, WithScheduler(sched))
	defer inst.Dispose()

	inst.MarkDirty()
	n, err := sched.Flush()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Flush rendered %d, want 4", n)
	}
}

func TestFlushPanicRequeuesRemaining(t *testing.T) {
	sched := NewScheduler()
	fail := false

	var forceA, forceB func()
	a := Mount(func() {
		forceA = reactive.UseForceUpdate()
		if fail {
			panic("render failed")
		}
	}, WithScheduler(sched))
	bRuns := 0
	b := Mount(func() {
		bRuns++
		forceB = reactive.UseForceUpdate()
	}, WithScheduler(sched))
	defer a.Dispose()
	defer b.Dispose()

	fail = true
	forceA()
	forceB()

	func() {
		defer func() {
			if r := recover(); r != "render failed" {
				t.Errorf("recovered %v, want render failed", r)
			}
		}()
		_, _ = sched.Flush()
	}()

	if !b.IsDirty() || sched.Pending() != 1 {
		t.Fatalf("b dirty=%v pending=%d, want b queued", b.IsDirty(), sched.Pending())
	}

	fail = false
	forceB()
	n, err := sched.Flush()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || bRuns != 2 {
		t.Errorf("Flush rendered %d (b ran %d), want 1 (2)", n, bRuns)
	}
	if b.IsDirty() || sched.Pending() != 0 {
		t.Error("b left dirty after flush")
	}

	forceA()
	if n, err := sched.Flush(); n != 1 || err != nil {
		t.Errorf("Flush() after recovery = %d, %v", n, err)
	}
}
