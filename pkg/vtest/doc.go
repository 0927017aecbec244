// Package vtest provides a test harness for hooks.
//
// RenderHook mounts a throwaway component whose body calls the hook under
// test with the current props and records what it returns:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.RenderHook(func(p props) int {
//	        n, _ := depstate.UseStateWithDeps(p.start, p.key)
//	        return n
//	    }, props{start: 1, key: "a"})
//	    defer h.Unmount()
//
//	    h.Rerender(props{start: 2, key: "b"})
//	    if h.Current() != 2 { ... }
//	}
//
// Act runs a function the way an event handler would run: updates inside it
// are batched, and every instance they mark dirty renders once afterwards.
package vtest
