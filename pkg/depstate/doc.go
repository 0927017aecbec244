// Package depstate provides UseStateWithDeps, a component-local state hook
// that resets to its initial value whenever a list of dependency values
// changes between renders.
//
//	func Editor(doc *Document) {
//	    draft, setDraft := depstate.UseStateWithDeps(doc.Body, doc.ID)
//	    // draft starts over whenever a different document is shown
//	    ...
//	    onInput(func(s string) { setDraft.Set(s) })
//	}
//
// Dependencies are compared positionally with Same, the identity comparison
// used throughout this package: NaN is the same as NaN, +0 and -0 differ,
// pointers, maps, channels and slices compare by identity, never by contents.
//
// When dependencies change, a plain initial value replaces the state. An
// initializer passed to UseStateWithDepsFunc is called with the previous state
// instead (and with ok == false on mount). Initializers are never called when
// dependencies are unchanged.
//
// The returned *Setter is the same pointer on every render of an instance.
// Setting a value that is Same as the current one does nothing and schedules
// no render.
package depstate
