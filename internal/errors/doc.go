// Package errors provides structured, coded error values for depstate.
//
// Every error carries a code (e.g. "E011") that maps to a short message and a
// longer explanation in the registry. Runtime misuse of hooks panics with one
// of these values; the CLI returns them and prints Format() to the terminal.
//
// # Usage
//
//	err := errors.New("E011").
//	    WithSuggestion("Call UseStateWithDeps from inside a component body")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E011: Hook called outside render
//	//
//	//   Hooks read and write per-instance slots, which only exist while an
//	//   owner is rendering.
//	//
//	//   Hint: Call UseStateWithDeps from inside a component body
package errors
