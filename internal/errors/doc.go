// Package errors provides coded, structured errors for rangedom.
//
// Every failure the engine can report has a registered code (e.g. "E001")
// that maps to a category, a short message and a longer explanation:
//
//	err := errors.New("E003").
//	    WithComponent("Counter").
//	    WithSuggestion("Call SetState from an event handler after Render")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E003: Lifecycle violation
//	//
//	//   component Counter
//	//
//	//   State was updated on a component that is not mounted.
//	//
//	//   Hint: Call SetState from an event handler after Render
//
// # Categories
//
//   - builder: node construction errors (unknown node type)
//   - mount: host attachment errors (invalid handlers, host failures)
//   - lifecycle: component state machine violations
//   - reconcile: reconciliation policy violations
//   - config: configuration loading and validation
//   - live, snapshot: the outer serving and persistence surfaces
//
// Errors compare by code, so a sentinel created with New can be matched
// with the standard library:
//
//	if errors.Is(err, vdom.ErrLifecycle) { ... }
package errors
