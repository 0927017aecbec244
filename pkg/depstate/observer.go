package depstate

import "github.com/vango-dev/depstate/pkg/reactive"

// Observer receives lifecycle events of UseStateWithDeps hooks. Methods are
// called synchronously, from the render for mount/reset and from the setter's
// caller for updates.
type Observer interface {
	// StateMounted is called once per hook when its instance first renders.
	StateMounted()

	// StateReset is called when changed deps replaced the state.
	StateReset()

	// InitializerCalled is called before each call of an init function.
	InitializerCalled()

	// StateUpdated is called for every Set/Update. applied is false when the
	// new value was Same as the old one and the call was a no-op.
	StateUpdated(applied bool)
}

type observerKey struct{}

// Observe attaches o to owner. Hooks mounted under owner or any of its
// descendants report to o.
func Observe(owner *reactive.Owner, o Observer) {
	owner.SetValue(observerKey{}, o)
}

func observerFrom(owner *reactive.Owner) Observer {
	if owner == nil {
		return nil
	}
	v, ok := owner.Value(observerKey{})
	if !ok {
		return nil
	}
	o, _ := v.(Observer)
	return o
}
