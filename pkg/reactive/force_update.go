package reactive

// forceUpdater backs UseForceUpdate. marker is read during every render so the
// rendering listener stays subscribed; trigger writes a fresh id into it.
type forceUpdater struct {
	marker  *Signal[uint64]
	trigger func()
}

// UseForceUpdate returns a function that schedules a re-render of the calling
// instance whenever it is called, whether or not any visible state changed.
// The same function is returned on every render of the instance.
//
// This is a hook and MUST be called unconditionally during render.
func UseForceUpdate() func() {
	fu, mounted := UseSlot(HookForceUpdate, func() *forceUpdater {
		marker := NewSignal(nextID())
		return &forceUpdater{
			marker: marker,
			// ids are never reused, so every write is a change.
			trigger: func() { marker.Set(nextID()) },
		}
	})

	if mounted {
		getCurrentOwner().OnCleanup(fu.marker.Dispose)
	}

	fu.marker.Get()
	return fu.trigger
}
