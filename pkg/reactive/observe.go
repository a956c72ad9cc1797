package reactive

// View is a wrapped, intercepted handle over a raw container. Reads
// through a View record dependency edges for the active effect; writes
// locate and re-invoke the subscribed effects.
//
// The concrete types are ObjectView, ArrayView, MapView, and SetView;
// each adds a kind-specific surface on top of this uniform interface.
type View interface {
	// Get returns the value at key, recording a GET dependency edge
	// unless the view is readonly.
	Get(key any) any

	// Set writes value at key and notifies dependents when the stored
	// value actually changed. Readonly views reject the mutation
	// (debug diagnostic) while still reporting success.
	Set(key, value any) bool

	// Has reports containment, recording a HAS dependency edge.
	Has(key any) bool

	// Delete removes key, notifying dependents only if it existed.
	Delete(key any) bool

	// Keys returns the container's keys, recording an ITERATE edge.
	Keys() []any

	// Len returns the container's size, recording a length edge for
	// arrays and an ITERATE edge otherwise.
	Len() int

	// Raw returns the raw container this view observes.
	Raw() any

	// IsReadonly reports whether the view rejects mutation.
	IsReadonly() bool

	// IsShallow reports whether the view skips nested wrapping and
	// ref unwrapping.
	IsShallow() bool

	base() *viewBase
}

// viewBase carries the capability tag shared by all view kinds.
type viewBase struct {
	rt       *Runtime
	readonly bool
	shallow  bool

	// overReactive marks a readonly view constructed over an existing
	// mutable view of the same raw; IsReactive answers true for it.
	overReactive bool
}

func (b *viewBase) IsReadonly() bool { return b.readonly }
func (b *viewBase) IsShallow() bool  { return b.shallow }
func (b *viewBase) base() *viewBase  { return b }

// Reactive returns the deep mutable view of target. Ineligible targets
// (anything but map[string]any, *[]any, map[any]any, Set — or an object
// opted out via MarkSkip) are returned unchanged.
func (rt *Runtime) Reactive(target any) any {
	return rt.wrap(target, false, false)
}

// ShallowReactive returns a mutable view of target that tracks and
// triggers only at the top level: nested values are returned raw.
func (rt *Runtime) ShallowReactive(target any) any {
	return rt.wrap(target, false, true)
}

// Readonly returns the deep readonly view of target. Reads through it
// do not record GET dependencies; writes are rejected.
func (rt *Runtime) Readonly(target any) any {
	return rt.wrap(target, true, false)
}

// ShallowReadonly returns a readonly view whose nested values are
// returned raw.
func (rt *Runtime) ShallowReadonly(target any) any {
	return rt.wrap(target, true, true)
}

func (rt *Runtime) wrap(target any, readonly, shallow bool) any {
	if target == nil {
		rt.warnf(warnInvalidTarget, "cannot observe nil")
		return nil
	}

	raw := target
	overReactive := false
	if v, ok := target.(View); ok {
		// Wrapping an existing view of the same or a stricter mode is
		// a no-op. The one exception is readonly over a mutable view,
		// which produces a distinct readonly view of the same raw.
		if !readonly || v.IsReadonly() {
			return v
		}
		raw = v.Raw()
		overReactive = true
	}

	kind := kindOf(raw)
	if kind == kindInvalid {
		rt.warnf(warnInvalidTarget, "value of type %T cannot be observed", raw)
		return target
	}

	id, _ := identityOf(raw)
	if _, skip := rt.skipped[id]; skip {
		return target
	}

	cache := rt.viewCache(readonly, shallow)
	if existing, ok := cache[id]; ok {
		// A readonly view built before any mutable view existed must
		// still learn that the raw is mutable elsewhere.
		if overReactive {
			existing.base().overReactive = true
		}
		return existing
	}

	b := viewBase{rt: rt, readonly: readonly, shallow: shallow, overReactive: overReactive}
	var view View
	switch kind {
	case kindObject:
		view = &ObjectView{viewBase: b, raw: raw.(map[string]any)}
	case kindArray:
		view = &ArrayView{viewBase: b, raw: raw.(*[]any)}
	case kindMap:
		view = &MapView{viewBase: b, raw: raw.(map[any]any)}
	case kindSet:
		view = &SetView{viewBase: b, raw: raw.(Set)}
	}
	cache[id] = view
	return view
}

func (rt *Runtime) viewCache(readonly, shallow bool) map[uintptr]View {
	switch {
	case readonly && shallow:
		return rt.shallowReadonlyViews
	case readonly:
		return rt.readonlyViews
	case shallow:
		return rt.shallowReactiveViews
	default:
		return rt.reactiveViews
	}
}

// toReactive wraps v mutably when it is an eligible container, and
// returns it unchanged otherwise. Used for lazy deep wrapping so cyclic
// structures never recurse eagerly.
func (rt *Runtime) toReactive(v any) any {
	if _, ok := v.(View); ok {
		return v
	}
	if kindOf(v) == kindInvalid {
		return v
	}
	return rt.Reactive(v)
}

// toReadonly is the readonly counterpart of toReactive.
func (rt *Runtime) toReadonly(v any) any {
	if v0, ok := v.(View); ok && v0.IsReadonly() {
		return v
	}
	if _, ok := v.(View); !ok && kindOf(v) == kindInvalid {
		return v
	}
	return rt.Readonly(v)
}

// wrapNested applies the deep-wrapping rule for a value fetched through
// a view: readonly views produce readonly children, mutable views
// produce reactive children, shallow views produce none.
func (b *viewBase) wrapNested(v any) any {
	if b.shallow {
		return v
	}
	if b.readonly {
		return b.rt.toReadonly(v)
	}
	return b.rt.toReactive(v)
}

// MarkSkip opts obj out of wrapping: every wrap constructor will return
// it unchanged from now on. Returns obj for chaining. Ineligible values
// are ignored.
func (rt *Runtime) MarkSkip(obj any) any {
	if id, ok := identityOf(obj); ok {
		rt.skipped[id] = struct{}{}
	}
	return obj
}

// IsView reports whether v is any wrapped view.
func IsView(v any) bool {
	_, ok := v.(View)
	return ok
}

// IsReactive reports whether v is a mutable (tracking) view, or a
// readonly view layered over one.
func IsReactive(v any) bool {
	view, ok := v.(View)
	if !ok {
		return false
	}
	return !view.IsReadonly() || view.base().overReactive
}

// IsReadonly reports whether v rejects mutation: a readonly view, or a
// ref-like box without a setter.
func IsReadonly(v any) bool {
	if view, ok := v.(View); ok {
		return view.IsReadonly()
	}
	if rb, ok := v.(refBox); ok {
		return rb.refReadonly()
	}
	return false
}

// IsShallow reports whether v is a shallow view.
func IsShallow(v any) bool {
	view, ok := v.(View)
	return ok && view.IsShallow()
}

// ToRaw returns the raw container behind v, unwrapping nested views.
// Non-view values are returned unchanged.
func ToRaw(v any) any {
	for {
		view, ok := v.(View)
		if !ok {
			return v
		}
		v = view.Raw()
	}
}
