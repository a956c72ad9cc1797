package reactive

// refBox is the internal contract shared by Ref and Computed that the
// observation layer uses for automatic unwrapping and ref passthrough.
type refBox interface {
	// refGet returns the boxed value, recording a dependency edge.
	refGet() any

	// refSet replaces the boxed value, reporting false when the box
	// rejects writes.
	refSet(v any) bool

	// refReadonly reports whether the box rejects writes.
	refReadonly() bool
}

// trackRefValue subscribes the active effect to a box's own Dependency
// Set. Boxes have a single implicit key, so they carry their dep
// directly instead of going through the Dependency Store.
func (rt *Runtime) trackRefValue(d *dep, target any) {
	if !rt.shouldTrack || rt.activeEffect == nil {
		return
	}
	rt.trackEffects(d, TrackEvent{Target: target, Op: TrackGet, Key: "value"})
}

// triggerRefValue re-invokes every effect subscribed to a box.
func (rt *Runtime) triggerRefValue(d *dep, target any, newValue, oldValue any) {
	rt.stats.Triggers++
	rt.runTriggered([]*dep{d}, TriggerEvent{
		Target:   target,
		Op:       TriggerSet,
		Key:      "value",
		NewValue: newValue,
		OldValue: oldValue,
	})
}

// Ref is a reactive box around a single value. Reading it inside an
// effect subscribes the effect; writing a different value re-runs the
// subscribers synchronously.
//
// A Ref stored inside a deep ObjectView is unwrapped on read and
// written through on assignment (ref passthrough); arrays and shallow
// views hand back the box itself.
type Ref struct {
	rt  *Runtime
	dep *dep

	// raw is the unwrapped value used for change detection; value is
	// what readers get, deep-wrapped when eligible.
	raw     any
	value   any
	shallow bool
}

// NewRef creates a deep ref: eligible container values are wrapped
// reactively before being handed to readers.
func NewRef(rt *Runtime, v any) *Ref {
	return &Ref{
		rt:    rt,
		dep:   newDep(),
		raw:   ToRaw(v),
		value: rt.toReactive(v),
	}
}

// NewShallowRef creates a ref that stores v as given; only replacing
// the value itself is reactive.
func NewShallowRef(rt *Runtime, v any) *Ref {
	return &Ref{
		rt:      rt,
		dep:     newDep(),
		raw:     v,
		value:   v,
		shallow: true,
	}
}

// Get returns the boxed value and subscribes the active effect.
func (r *Ref) Get() any {
	r.rt.trackRefValue(r.dep, r)
	return r.value
}

// Peek returns the boxed value without subscribing.
func (r *Ref) Peek() any {
	return r.value
}

// Set replaces the boxed value, notifying subscribers only when the new
// value differs from the old by value-or-identity comparison.
func (r *Ref) Set(v any) {
	newRaw := v
	if !r.shallow {
		newRaw = ToRaw(v)
	}
	if sameValue(newRaw, r.raw) {
		return
	}

	oldRaw := r.raw
	r.raw = newRaw
	if r.shallow {
		r.value = v
	} else {
		r.value = r.rt.toReactive(v)
	}
	r.rt.triggerRefValue(r.dep, r, newRaw, oldRaw)
}

func (r *Ref) refGet() any { return r.Get() }

func (r *Ref) refSet(v any) bool {
	r.Set(v)
	return true
}

func (r *Ref) refReadonly() bool { return false }

// IsRef reports whether v is a ref-like box (a Ref or a Computed).
func IsRef(v any) bool {
	_, ok := v.(refBox)
	return ok
}

// UnRef returns the boxed value when v is a ref-like box (recording the
// dependency edge), and v itself otherwise.
func UnRef(v any) any {
	if rb, ok := v.(refBox); ok {
		return rb.refGet()
	}
	return v
}

var _ refBox = (*Ref)(nil)
