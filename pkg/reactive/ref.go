package reactive

import "sync"

// Ref holds a mutable value whose writes never notify anyone.
// It is the per-instance cell hooks keep their private state in.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// NewRef creates a Ref holding initial.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}

// Update replaces the value with fn(current) and returns both. fn runs with
// the ref locked, so it must not use r. If fn panics the value is unchanged
// and the ref stays usable.
func (r *Ref[T]) Update(fn func(prev T) T) (prev, next T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev = r.value
	next = fn(prev)
	r.value = next
	return prev, next
}
