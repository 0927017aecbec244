package reactive

import (
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management.
type signalBase struct {
	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}

	s.subs = append(s.subs, l)
}

// unsubscribeAll drops every subscriber.
func (s *signalBase) unsubscribeAll() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = nil
}

// notifySubscribers notifies all subscribers that this signal changed.
// Subscribers are copied first so no lock is held during notification.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	notify(subs)
}

// Signal is a reactive value container.
// Reading a Signal with Get while a listener is current (during a component
// render) subscribes that listener to later changes.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex
}

// NewSignal creates a new signal with the given initial value.
// It is not a hook; wrap it in UseSlot to keep one per instance.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	if listener := getCurrentListener(); listener != nil {
		s.base.subscribe(listener)
	}

	return value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !defaultEquals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Dispose drops all subscribers. Later writes notify nobody.
func (s *Signal[T]) Dispose() {
	s.base.unsubscribeAll()
}

// defaultEquals uses == for common comparable types and reflect.DeepEqual otherwise.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
