package reactive

// Listener is anything that can be notified when a dependency changes.
// Mounted component instances implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For components, this schedules a re-render.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function run when an owner is disposed.
type Cleanup func()
