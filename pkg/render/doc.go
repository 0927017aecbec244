// Package render mounts components and re-renders them when they are marked
// dirty.
//
// An Instance is one mounted component. It owns a reactive.Owner, so hooks
// called by the component body keep their slots across renders, and it is the
// reactive.Listener of its own renders, so a force update or a signal the body
// read marks it dirty. Dirty instances are queued on a Scheduler and rendered
// again by Flush:
//
//	sched := render.NewScheduler()
//	inst := render.Mount(func() {
//	    count, setCount := depstate.UseStateWithDeps(0, userID)
//	    ...
//	}, render.WithScheduler(sched))
//
//	setCount.Set(1)  // inst is marked dirty
//	sched.Flush()    // inst renders again
//
// Every render is recorded as an OpenTelemetry span and logged at debug level.
package render
