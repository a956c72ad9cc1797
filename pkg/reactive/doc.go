// Package reactive implements a fine-grained reactive-dependency engine.
//
// The engine lets arbitrary computations (effects) automatically re-run
// when the mutable state they read changes, without declaring dependencies
// up front. State lives in plain containers (map[string]any, *[]any,
// map[any]any, reactive.Set) wrapped into Views that intercept reads and
// writes. Reads performed while an Effect is running record dependency
// edges; writes through a View look up the affected edges and re-invoke
// (or reschedule) the subscribed effects before the write call returns.
//
// All state belongs to a Runtime, an explicit registry constructed with
// NewRuntime. A Runtime is confined to a single goroutine: reads, writes,
// tracking, and triggering all complete synchronously within the calling
// stack frame, so no locking is needed or performed. Construct one Runtime
// per independent reactive root (or per test).
//
// On top of Effect the package provides Computed (lazily cached derived
// values with push-based invalidation), Ref (a single-value reactive box),
// and Scope (a lifetime container that disposes groups of effects and
// cleanup callbacks together).
//
// Basic usage:
//
//	rt := reactive.NewRuntime()
//	state := rt.Reactive(map[string]any{"count": 0}).(*reactive.ObjectView)
//
//	var seen any
//	reactive.NewEffect(rt, func() any {
//	    seen = state.Get("count")
//	    return nil
//	})
//
//	state.Set("count", 1) // effect re-runs synchronously; seen == 1
package reactive
