package reactive

// DebugMode enables dev-time validation such as hook order checking.
// It should be set at startup and not changed while components render.
var DebugMode bool

// Batch groups multiple signal updates into a single notification phase.
// Listeners affected by updates inside fn are collected, deduplicated, and
// notified once when the outermost batch completes.
//
// Example:
//
//	Batch(func() {
//	    setCount.Set(1)
//	    setCount.Set(2)
//	})
//	// The instance is marked dirty once
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			processPendingUpdates(ctx)
			releaseIfIdle(ctx)
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates(ctx *TrackingContext) {
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// notify marks listeners dirty now, or queues them when batching.
func notify(listeners []Listener) {
	if ctx := lookupTrackingContext(); ctx != nil && ctx.batchDepth > 0 {
		ctx.pendingUpdates = append(ctx.pendingUpdates, listeners...)
		return
	}
	for _, l := range listeners {
		l.MarkDirty()
	}
}
