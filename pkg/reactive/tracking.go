package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// TrackingContext holds the reactive state for a goroutine.
type TrackingContext struct {
	// currentOwner is the Owner whose hook slots are in use.
	currentOwner *Owner

	// currentListener is subscribed by signal reads.
	// nil means no tracking.
	currentListener Listener

	// renderDepth counts nested StartRender calls on this goroutine.
	renderDepth int

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the batch completes.
	pendingUpdates []Listener
}

// trackingContexts stores per-goroutine tracking contexts keyed by goroutine id.
// A context exists only while its goroutine is inside a scope.
var trackingContexts sync.Map

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *TrackingContext {
	gid := goid.Get()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// lookupTrackingContext returns the current goroutine's tracking context, or
// nil if it has none. Read-only paths use it so goroutines that only call
// setters never allocate one.
func lookupTrackingContext() *TrackingContext {
	if ctx, ok := trackingContexts.Load(goid.Get()); ok {
		return ctx.(*TrackingContext)
	}
	return nil
}

// releaseIfIdle drops ctx once its goroutine is outside every owner,
// listener, render and batch scope.
func releaseIfIdle(ctx *TrackingContext) {
	if ctx.currentOwner != nil || ctx.currentListener != nil ||
		ctx.renderDepth > 0 || ctx.batchDepth > 0 || len(ctx.pendingUpdates) > 0 {
		return
	}
	trackingContexts.Delete(goid.Get())
}

func getCurrentListener() Listener {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	releaseIfIdle(ctx)
	return old
}

func getCurrentOwner() *Owner {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentOwner
	}
	return nil
}

func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	releaseIfIdle(ctx)
	return old
}

func beginRender() {
	getTrackingContext().renderDepth++
}

func endRender() {
	ctx := getTrackingContext()
	if ctx.renderDepth > 0 {
		ctx.renderDepth--
	}
	releaseIfIdle(ctx)
}

// InRender reports whether the current goroutine is inside a render pass.
func InRender() bool {
	ctx := lookupTrackingContext()
	return ctx != nil && ctx.renderDepth > 0
}

// CurrentOwner returns the owner set on the current goroutine, or nil.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// WithOwner runs fn with owner as the current owner.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l subscribed by every signal read.
// Renderers use it so a component subscribes to what it reads.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}
