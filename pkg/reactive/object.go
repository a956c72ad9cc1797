package reactive

import "sort"

// ObjectView observes a record container (map[string]any) with string
// keys. Keys passed to the uniform View methods must be strings;
// anything else is treated as absent.
type ObjectView struct {
	viewBase
	raw map[string]any
}

// Raw returns the underlying map[string]any.
func (o *ObjectView) Raw() any { return o.raw }

// Get returns the value stored at key.
//
// Unless the view is readonly, a GET dependency edge is recorded for the
// active effect. Fetched ref-like boxes are unwrapped to their inner
// value and fetched eligible containers are lazily wrapped, except on
// shallow views.
func (o *ObjectView) Get(key any) any {
	k, ok := key.(string)
	if !ok {
		return nil
	}

	if !o.readonly {
		o.rt.track(o.raw, TrackGet, k)
	}

	v, present := o.raw[k]
	if !present {
		return nil
	}
	if o.shallow {
		return v
	}
	if rb, ok := v.(refBox); ok {
		return rb.refGet()
	}
	return o.wrapNested(v)
}

// Set writes value at key.
//
// An ADD notification is emitted when the key did not previously exist,
// a SET notification when the stored value changed (NaN-aware). Writing
// through a readonly view is rejected with a debug diagnostic but still
// reports success. Writing over a setterless ref-like box with a
// non-ref value reports failure without mutating. When the prior value
// is a writable ref-like box and the incoming value is not itself a
// ref, the write is redirected into the box (ref passthrough).
func (o *ObjectView) Set(key, value any) bool {
	if o.readonly {
		o.rt.warnf(warnReadonlyWrite, "set %q on readonly view", key)
		return true
	}
	k, ok := key.(string)
	if !ok {
		return false
	}

	oldValue, hadKey := o.raw[k]

	if orb, ok := oldValue.(refBox); ok && orb.refReadonly() {
		if _, incomingRef := value.(refBox); !incomingRef {
			return false
		}
	}

	if !o.shallow {
		if !IsReadonly(value) && !IsShallow(value) {
			oldValue = ToRaw(oldValue)
			value = ToRaw(value)
		}
		if orb, ok := oldValue.(refBox); ok {
			if _, incomingRef := value.(refBox); !incomingRef {
				return orb.refSet(value)
			}
		}
	}

	o.raw[k] = value

	if !hadKey {
		o.rt.trigger(o.raw, TriggerAdd, k, value, nil)
	} else if !sameValue(value, oldValue) {
		o.rt.trigger(o.raw, TriggerSet, k, value, oldValue)
	}
	return true
}

// Has reports whether key is present, recording a HAS dependency edge.
func (o *ObjectView) Has(key any) bool {
	k, ok := key.(string)
	if !ok {
		return false
	}
	o.rt.track(o.raw, TrackHas, k)
	_, present := o.raw[k]
	return present
}

// Delete removes key, emitting a DELETE notification carrying the
// removed value only if the key existed. Readonly views reject the
// mutation silently.
func (o *ObjectView) Delete(key any) bool {
	if o.readonly {
		o.rt.warnf(warnReadonlyDelete, "delete %q on readonly view", key)
		return true
	}
	k, ok := key.(string)
	if !ok {
		return false
	}

	oldValue, hadKey := o.raw[k]
	delete(o.raw, k)
	if hadKey {
		o.rt.trigger(o.raw, TriggerDelete, k, nil, oldValue)
	}
	return hadKey
}

// Keys returns the record's keys in sorted order, recording an ITERATE
// dependency edge.
func (o *ObjectView) Keys() []any {
	o.rt.track(o.raw, TrackIterate, iterateKey)

	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

// Len returns the number of keys, recording an ITERATE dependency edge.
func (o *ObjectView) Len() int {
	o.rt.track(o.raw, TrackIterate, iterateKey)
	return len(o.raw)
}

var _ View = (*ObjectView)(nil)
