package reactive

// maxMarkerBits bounds the tracking depth at which the generation-bit
// cleanup algorithm applies. One bit per nesting level; past the bound
// the engine falls back to a full unsubscribe-then-resubscribe per run.
const maxMarkerBits = 30

// dep is a Dependency Set: the subscribers of one (object, key) pair,
// or of a Ref/Computed value.
//
// The two bitmasks implement O(1) amortized dependency cleanup. While an
// effect re-runs at tracking depth d, bit 1<<d of w marks "this set was
// a dependency before this run" and the same bit of n marks "this set
// was tracked again during this run". Sets whose w bit is on but whose n
// bit stayed off after the run are stale and drop the effect.
type dep struct {
	subs map[*Effect]struct{}
	w    uint32 // was tracked in a previous run
	n    uint32 // newly tracked this run
}

func newDep() *dep {
	return &dep{subs: make(map[*Effect]struct{})}
}

// trackEffects subscribes the runtime's active effect to d using the
// bit-marking algorithm at bounded depth, or a direct membership check
// beyond it.
func (rt *Runtime) trackEffects(d *dep, ev TrackEvent) {
	e := rt.activeEffect

	var shouldTrack bool
	if rt.trackDepth <= maxMarkerBits {
		if d.n&rt.trackBit == 0 {
			d.n |= rt.trackBit
			shouldTrack = d.w&rt.trackBit == 0
		}
	} else {
		_, in := d.subs[e]
		shouldTrack = !in
	}

	if !shouldTrack {
		return
	}

	d.subs[e] = struct{}{}
	e.deps = append(e.deps, d)
	rt.stats.Tracks++

	if rt.Debug && e.onTrack != nil {
		ev.Effect = e
		e.onTrack(ev)
	}
}

// initDepMarkers flags every current dependency of e as "was tracked"
// for the depth bit about to be used by a run.
func initDepMarkers(e *Effect, bit uint32) {
	for _, d := range e.deps {
		d.w |= bit
	}
}

// finalizeDepMarkers prunes dependency sets that were not re-tracked
// during the run that just finished and clears the depth bit.
func finalizeDepMarkers(e *Effect, bit uint32) {
	kept := 0
	for _, d := range e.deps {
		if d.w&bit != 0 && d.n&bit == 0 {
			delete(d.subs, e)
		} else {
			e.deps[kept] = d
			kept++
		}
		d.w &^= bit
		d.n &^= bit
	}
	for i := kept; i < len(e.deps); i++ {
		e.deps[i] = nil
	}
	e.deps = e.deps[:kept]
}

// cleanupEffect is the depth-unbounded fallback: remove e from every
// dependency set it belongs to so the run re-subscribes from scratch.
func cleanupEffect(e *Effect) {
	for _, d := range e.deps {
		delete(d.subs, e)
	}
	e.deps = e.deps[:0]
}
