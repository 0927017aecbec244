package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/depstate/pkg/depstate"
	"github.com/vango-dev/depstate/pkg/reactive"
	"github.com/vango-dev/depstate/pkg/render"
)

var (
	_ depstate.Observer     = (*Metrics)(nil)
	_ render.RenderObserver = (*Metrics)(nil)
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	m.Rendered(10 * time.Millisecond)
	m.Rendered(20 * time.Millisecond)
	m.StateMounted()
	m.StateReset()
	m.InitializerCalled()
	m.InitializerCalled()
	m.StateUpdated(true)
	m.StateUpdated(false)
	m.StateUpdated(false)

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"renders", m.rendersTotal, 2},
		{"mounts", m.mountsTotal, 1},
		{"resets", m.resetsTotal, 1},
		{"initializer", m.initializerCalls, 2},
		{"applied", m.updatesTotal.WithLabelValues("applied"), 1},
		{"skipped", m.updatesTotal.WithLabelValues("skipped"), 2},
	}
	for _, tc := range checks {
		if got := testutil.ToFloat64(tc.c); got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, got, tc.want)
		}
	}

	if n := testutil.CollectAndCount(m.renderDuration); n != 1 {
		t.Errorf("render duration series = %d, want 1", n)
	}
}

func TestMetricNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithSubsystem("hooks"))
	m.StateMounted()
	m.StateUpdated(true)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"depstate_hooks_state_mounts_total",
		"depstate_hooks_state_updates_total",
	} {
		if !names[want] {
			t.Errorf("missing metric %s in %v", want, names)
		}
	}
}

func TestWiredIntoHook(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg))

	root := reactive.NewOwner(nil)
	defer root.Dispose()
	depstate.Observe(root, m)

	dep := 1
	var set *depstate.Setter[int]
	inst := render.Mount(func() {
		_, set = depstate.UseStateWithDepsFunc(func(prev int, ok bool) int {
			if !ok {
				return 1
			}
			return prev + 1
		}, dep)
	}, render.WithParent(root), render.WithRenderObserver(m))

	set.Set(5)
	set.Set(5)
	if _, err := inst.Scheduler().Flush(); err != nil {
		t.Fatal(err)
	}
	dep = 2
	inst.Render()

	if got := testutil.ToFloat64(m.mountsTotal); got != 1 {
		t.Errorf("mounts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resetsTotal); got != 1 {
		t.Errorf("resets = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.initializerCalls); got != 2 {
		t.Errorf("initializer calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.updatesTotal.WithLabelValues("applied")); got != 1 {
		t.Errorf("applied = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.updatesTotal.WithLabelValues("skipped")); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rendersTotal); got != 3 {
		t.Errorf("renders = %v, want 3", got)
	}
}
