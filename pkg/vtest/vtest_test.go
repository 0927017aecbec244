package vtest

import (
	"testing"

	"github.com/vango-dev/depstate/pkg/reactive"
)

func TestRenderHookMountsOnce(t *testing.T) {
	h := RenderHook(func(p int) int { return p * 2 }, 21)
	defer h.Unmount()

	if h.Current() != 42 {
		t.Errorf("Current() = %d, want 42", h.Current())
	}
	if h.RenderCount() != 1 {
		t.Errorf("RenderCount() = %d, want 1", h.RenderCount())
	}
}

func TestRerender(t *testing.T) {
	h := RenderHook(func(p string) string { return "hello " + p }, "a")
	defer h.Unmount()

	h.Rerender("b")
	h.RerenderSame()

	all := h.All()
	want := []string{"hello a", "hello b", "hello b"}
	if len(all) != len(want) {
		t.Fatalf("All() = %v", all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], want[i])
		}
	}
}

func TestActFlushesDirtyInstance(t *testing.T) {
	h := RenderHook(func(struct{}) func() {
		return reactive.UseForceUpdate()
	}, struct{}{})
	defer h.Unmount()

	if err := h.Act(func() {
		h.Current()()
		h.Current()()
	}); err != nil {
		t.Fatal(err)
	}
	if h.RenderCount() != 2 {
		t.Errorf("RenderCount() = %d, want 2", h.RenderCount())
	}

	if err := h.Act(func() {}); err != nil {
		t.Fatal(err)
	}
	if h.RenderCount() != 2 {
		t.Errorf("empty act rendered: RenderCount() = %d", h.RenderCount())
	}
}

func TestUnmount(t *testing.T) {
	h := RenderHook(func(int) bool {
		reactive.UseForceUpdate()
		return true
	}, 0)
	h.Unmount()

	if !h.Instance().IsDisposed() {
		t.Error("instance not disposed")
	}
	h.RerenderSame()
	if h.RenderCount() != 1 {
		t.Errorf("unmounted hook rendered again: %d", h.RenderCount())
	}
}
