package reactive

import "testing"

func TestRefUpdate(t *testing.T) {
	r := NewRef(10)
	prev, next := r.Update(func(n int) int { return n + 5 })
	if prev != 10 || next != 15 {
		t.Errorf("Update() = (%d, %d), want (10, 15)", prev, next)
	}
	if got := r.Current(); got != 15 {
		t.Errorf("Current() = %d, want 15", got)
	}
}

func TestRefUpdatePanicLeavesRefUsable(t *testing.T) {
	r := NewRef(1)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic from updater")
			}
		}()
		r.Update(func(int) int { panic("boom") })
	}()

	if got := r.Current(); got != 1 {
		t.Errorf("Current() = %d after failed update, want 1", got)
	}
	r.Set(2)
	if _, next := r.Update(func(n int) int { return n * 3 }); next != 6 {
		t.Errorf("Update() next = %d, want 6", next)
	}
}
