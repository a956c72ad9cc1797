// Package errors provides structured, actionable diagnostics for Reago.
//
// The reactive engine never raises a propagating fault: rejected
// mutations, lifecycle misuse, and invalid wrap targets all degrade to
// a no-op plus a development-time warning. This package gives those
// warnings structure:
//   - a unique code (e.g. "R001") mapping to a registered template
//   - a category (runtime, usage, config, cli)
//   - a detailed explanation and an optional fix hint
//   - a documentation URL for deeper reading
//
// # Usage
//
//	err := errors.New("R001").
//	    WithDetail(`set "count" on readonly view`).
//	    WithHint("write through the mutable view instead")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARN R001: Mutation of a readonly view
//	//
//	//   set "count" on readonly view
//	//
//	//   Hint: write through the mutable view instead
//	//
//	//   Learn more: https://reago.dev/docs/diagnostics/R001
package errors
