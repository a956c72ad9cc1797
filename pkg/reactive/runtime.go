package reactive

import (
	rerr "github.com/reago-dev/reago/internal/errors"
)

// keyDeps maps a container's keys to their Dependency Sets.
type keyDeps map[any]*dep

// Stats is a snapshot of a Runtime's internal counters.
// Exposed for instrumentation (see pkg/instrument).
type Stats struct {
	// Tracks is the number of dependency edges recorded.
	Tracks uint64

	// Triggers is the number of trigger resolutions performed.
	Triggers uint64

	// EffectRuns is the number of tracked effect executions.
	EffectRuns uint64

	// ComputedRecomputes is the number of computed value recomputations.
	ComputedRecomputes uint64

	// DepSets is the number of live Dependency Sets in the store.
	DepSets uint64

	// ActiveEffects is the number of effects created and not yet stopped.
	ActiveEffects uint64
}

// Runtime is the process-scoped registry for one reactive root: the
// dependency store, the view caches, and the ambient active-effect and
// active-scope pointers. Constructing a fresh Runtime per test gives
// full isolation; nothing in this package is a package-level singleton.
//
// A Runtime is confined to a single goroutine. Reads, writes, track, and
// trigger all complete within the calling stack frame, so the Runtime
// performs no locking.
type Runtime struct {
	// Debug enables development-time diagnostics: rejected mutations,
	// lifecycle misuse, and the OnTrack/OnTrigger effect hooks.
	Debug bool

	// WarnHandler receives debug diagnostics. When nil, diagnostics are
	// printed to stderr in their formatted form.
	WarnHandler func(*rerr.ReagoError)

	// store is the Dependency Store: object identity -> key -> dep.
	store map[uintptr]keyDeps

	// View caches, one per mode combination. Wrapping the same raw in
	// the same mode twice returns the same view.
	reactiveViews        map[uintptr]View
	shallowReactiveViews map[uintptr]View
	readonlyViews        map[uintptr]View
	shallowReadonlyViews map[uintptr]View

	// skipped holds identities opted out of wrapping via MarkSkip.
	skipped map[uintptr]struct{}

	// activeEffect is the effect currently recording dependencies.
	activeEffect *Effect

	// activeScope is the scope that owns newly created effects.
	activeScope *Scope

	// shouldTrack gates dependency recording; trackStack supports the
	// pause/enable/reset protocol used by array instrumentation.
	shouldTrack bool
	trackStack  []bool

	// trackDepth and trackBit drive the generation-bit cleanup
	// algorithm (see dep.go).
	trackDepth int
	trackBit   uint32

	stats Stats
}

// NewRuntime creates an empty reactive Runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		store:                make(map[uintptr]keyDeps),
		reactiveViews:        make(map[uintptr]View),
		shallowReactiveViews: make(map[uintptr]View),
		readonlyViews:        make(map[uintptr]View),
		shallowReadonlyViews: make(map[uintptr]View),
		skipped:              make(map[uintptr]struct{}),
		shouldTrack:          true,
		trackBit:             1,
	}
}

// Stats returns a snapshot of the runtime's counters.
func (rt *Runtime) Stats() Stats {
	return rt.stats
}

// CurrentScope returns the ambient effect scope, or nil.
func (rt *Runtime) CurrentScope() *Scope {
	return rt.activeScope
}

// PauseTracking disables dependency recording until the matching
// ResetTracking call.
func (rt *Runtime) PauseTracking() {
	rt.trackStack = append(rt.trackStack, rt.shouldTrack)
	rt.shouldTrack = false
}

// EnableTracking re-enables dependency recording until the matching
// ResetTracking call.
func (rt *Runtime) EnableTracking() {
	rt.trackStack = append(rt.trackStack, rt.shouldTrack)
	rt.shouldTrack = true
}

// ResetTracking restores the tracking state prior to the last
// PauseTracking or EnableTracking call.
func (rt *Runtime) ResetTracking() {
	n := len(rt.trackStack)
	if n == 0 {
		rt.shouldTrack = true
		return
	}
	rt.shouldTrack = rt.trackStack[n-1]
	rt.trackStack = rt.trackStack[:n-1]
}

// Untrack runs fn with dependency recording paused. Reads performed
// inside fn create no dependency edges for the active effect.
func (rt *Runtime) Untrack(fn func()) {
	rt.PauseTracking()
	defer rt.ResetTracking()
	fn()
}

// track records a dependency edge on (raw, key) against the active
// effect. No-op when tracking is paused or no effect is running.
func (rt *Runtime) track(raw any, op TrackOp, key any) {
	if !rt.shouldTrack || rt.activeEffect == nil {
		return
	}
	id, ok := identityOf(raw)
	if !ok {
		return
	}

	depsMap := rt.store[id]
	if depsMap == nil {
		depsMap = make(keyDeps)
		rt.store[id] = depsMap
	}
	d := depsMap[key]
	if d == nil {
		d = newDep()
		depsMap[key] = d
		rt.stats.DepSets++
	}

	rt.trackEffects(d, TrackEvent{Target: raw, Op: op, Key: key})
}

// trigger locates every Dependency Set affected by a write on (raw, key)
// and re-invokes (or reschedules) the subscribed effects. Effects
// subscribed through several affected sets run at most once per call.
func (rt *Runtime) trigger(raw any, op TriggerOp, key any, newValue, oldValue any) {
	id, ok := identityOf(raw)
	if !ok {
		return
	}
	depsMap := rt.store[id]
	if depsMap == nil {
		// Never read; nothing to do.
		return
	}
	rt.stats.Triggers++

	var deps []*dep
	appendDep := func(d *dep) {
		if d != nil {
			deps = append(deps, d)
		}
	}

	kind := kindOf(raw)
	switch {
	case op == TriggerClear:
		// Every key is affected.
		for _, d := range depsMap {
			appendDep(d)
		}

	case kind == kindArray && key == lengthKey:
		// Shrinking an array invalidates length readers and every index
		// at or past the new length.
		newLen, _ := newValue.(int)
		for k, d := range depsMap {
			if k == lengthKey {
				appendDep(d)
				continue
			}
			if idx, ok := arrayIndex(k); ok && idx >= newLen {
				appendDep(d)
			}
		}

	default:
		appendDep(depsMap[key])

		switch op {
		case TriggerAdd:
			if kind != kindArray {
				appendDep(depsMap[iterateKey])
				if kind == kindMap {
					appendDep(depsMap[mapKeyIterateKey])
				}
			} else if _, ok := arrayIndex(key); ok {
				// A new index extends the array's length.
				appendDep(depsMap[lengthKey])
			}
		case TriggerDelete:
			if kind != kindArray {
				appendDep(depsMap[iterateKey])
				if kind == kindMap {
					appendDep(depsMap[mapKeyIterateKey])
				}
			}
		case TriggerSet:
			if kind == kindMap {
				// Size/iteration readers of map-likes re-run on value
				// changes even though the key set is unchanged.
				appendDep(depsMap[iterateKey])
			}
		}
	}

	ev := TriggerEvent{Target: raw, Op: op, Key: key, NewValue: newValue, OldValue: oldValue}
	rt.runTriggered(deps, ev)
}

// runTriggered unions the subscribers of the affected sets and invokes
// each exactly once.
func (rt *Runtime) runTriggered(deps []*dep, ev TriggerEvent) {
	if len(deps) == 0 {
		return
	}

	seen := make(map[*Effect]struct{})
	var effects []*Effect
	for _, d := range deps {
		for e := range d.subs {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			effects = append(effects, e)
		}
	}

	for _, e := range effects {
		rt.triggerEffect(e, ev)
	}
}

// triggerEffect invokes one resolved effect: skipped while it is itself
// running (unless it opted into recursion), scheduled when it carries a
// scheduler, run directly otherwise.
func (rt *Runtime) triggerEffect(e *Effect, ev TriggerEvent) {
	if e == rt.activeEffect && !e.allowRecurse {
		return
	}
	if rt.Debug && e.onTrigger != nil {
		ev.Effect = e
		e.onTrigger(ev)
	}
	if e.scheduler != nil {
		e.scheduler()
		return
	}
	e.Run()
}
