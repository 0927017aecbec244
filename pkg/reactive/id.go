package reactive

import "sync/atomic"

// globalIDCounter is the source of unique IDs for owners, signals and markers.
var globalIDCounter atomic.Uint64

// nextID returns the next unique ID.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return globalIDCounter.Add(1)
}
