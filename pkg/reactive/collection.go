package reactive

import "reflect"

// hashableKey reports whether k can be used as a Go map key. Raw record
// containers are not hashable, so lookups by them degrade to absent
// instead of panicking.
func hashableKey(k any) bool {
	if k == nil {
		return true
	}
	return reflect.TypeOf(k).Comparable()
}

// MapView observes a map-like container (map[any]any) with arbitrary
// comparable keys. A view used as a key also matches its raw form, so
// entries stored before wrapping stay reachable through wrapped keys.
type MapView struct {
	viewBase
	raw map[any]any
}

// Raw returns the underlying map[any]any.
func (m *MapView) Raw() any { return m.raw }

// Get returns the value stored at key or its raw form, recording GET
// dependency edges on both when they differ (unless readonly).
func (m *MapView) Get(key any) any {
	rawKey := ToRaw(key)
	if !m.readonly {
		if !sameValue(key, rawKey) && hashableKey(key) {
			m.rt.track(m.raw, TrackGet, key)
		}
		if hashableKey(rawKey) {
			m.rt.track(m.raw, TrackGet, rawKey)
		}
	}

	if hashableKey(key) {
		if v, ok := m.raw[key]; ok {
			return m.wrapNested(v)
		}
	}
	if !sameValue(key, rawKey) && hashableKey(rawKey) {
		if v, ok := m.raw[rawKey]; ok {
			return m.wrapNested(v)
		}
	}
	return nil
}

// Set stores value at key, emitting ADD for a new key and SET for a
// changed value. Size and iteration readers are notified on SET as well
// as ADD (value changes are visible to entry iteration).
func (m *MapView) Set(key, value any) bool {
	if m.readonly {
		m.rt.warnf(warnReadonlyWrite, "set key %v on readonly view", key)
		return true
	}
	if !m.shallow {
		value = ToRaw(value)
	}

	key = m.resolveKey(key)
	if !hashableKey(key) {
		return false
	}

	oldValue, hadKey := m.raw[key]
	m.raw[key] = value

	if !hadKey {
		m.rt.trigger(m.raw, TriggerAdd, key, value, nil)
	} else if !sameValue(value, oldValue) {
		m.rt.trigger(m.raw, TriggerSet, key, value, oldValue)
	}
	return true
}

// Has reports containment of key or its raw form, recording HAS edges.
func (m *MapView) Has(key any) bool {
	rawKey := ToRaw(key)
	if !sameValue(key, rawKey) && hashableKey(key) {
		m.rt.track(m.raw, TrackHas, key)
	}
	if hashableKey(rawKey) {
		m.rt.track(m.raw, TrackHas, rawKey)
	}

	if hashableKey(key) {
		if _, ok := m.raw[key]; ok {
			return true
		}
	}
	if !sameValue(key, rawKey) && hashableKey(rawKey) {
		if _, ok := m.raw[rawKey]; ok {
			return true
		}
	}
	return false
}

// Delete removes key (or its raw form), emitting a DELETE notification
// carrying the removed value only if the entry existed.
func (m *MapView) Delete(key any) bool {
	if m.readonly {
		m.rt.warnf(warnReadonlyDelete, "delete key %v on readonly view", key)
		return true
	}

	key = m.resolveKey(key)
	if !hashableKey(key) {
		return false
	}

	oldValue, hadKey := m.raw[key]
	delete(m.raw, key)
	if hadKey {
		m.rt.trigger(m.raw, TriggerDelete, key, nil, oldValue)
	}
	return hadKey
}

// Clear removes every entry, notifying all dependents of the map.
func (m *MapView) Clear() bool {
	if m.readonly {
		m.rt.warnf(warnReadonlyWrite, "clear on readonly view")
		return true
	}
	hadItems := len(m.raw) > 0
	for k := range m.raw {
		delete(m.raw, k)
	}
	if hadItems {
		m.rt.trigger(m.raw, TriggerClear, nil, nil, nil)
	}
	return true
}

// Keys returns the map's keys, recording a key-iteration dependency
// edge that ADD and DELETE notify but pure value SETs do not.
func (m *MapView) Keys() []any {
	m.rt.track(m.raw, TrackIterate, mapKeyIterateKey)
	out := make([]any, 0, len(m.raw))
	for k := range m.raw {
		out = append(out, m.wrapNested(k))
	}
	return out
}

// Values returns the map's values, recording an ITERATE edge.
func (m *MapView) Values() []any {
	m.rt.track(m.raw, TrackIterate, iterateKey)
	out := make([]any, 0, len(m.raw))
	for _, v := range m.raw {
		out = append(out, m.wrapNested(v))
	}
	return out
}

// Entries returns key/value pairs, recording an ITERATE edge.
func (m *MapView) Entries() [][2]any {
	m.rt.track(m.raw, TrackIterate, iterateKey)
	out := make([][2]any, 0, len(m.raw))
	for k, v := range m.raw {
		out = append(out, [2]any{m.wrapNested(k), m.wrapNested(v)})
	}
	return out
}

// ForEach calls fn for every entry with wrapped value and key,
// recording an ITERATE edge.
func (m *MapView) ForEach(fn func(value, key any)) {
	m.rt.track(m.raw, TrackIterate, iterateKey)
	for k, v := range m.raw {
		fn(m.wrapNested(v), m.wrapNested(k))
	}
}

// Len returns the entry count, recording an ITERATE edge.
func (m *MapView) Len() int {
	m.rt.track(m.raw, TrackIterate, iterateKey)
	return len(m.raw)
}

// resolveKey maps a wrapped key to the form actually present in the raw
// map: the key as given when present, else its raw form.
func (m *MapView) resolveKey(key any) any {
	if hashableKey(key) {
		if _, ok := m.raw[key]; ok {
			return key
		}
	}
	rawKey := ToRaw(key)
	if hashableKey(rawKey) {
		if _, ok := m.raw[rawKey]; ok {
			return rawKey
		}
	}
	return rawKey
}

var _ View = (*MapView)(nil)

// SetView observes a set-like container (reactive.Set). The element
// doubles as the key for the uniform View methods.
type SetView struct {
	viewBase
	raw Set
}

// Raw returns the underlying Set.
func (s *SetView) Raw() any { return s.raw }

// Get reports membership; sets have no per-key values. Equivalent to
// Has, provided to satisfy the uniform View interface.
func (s *SetView) Get(key any) any {
	return s.Has(key)
}

// Set is Add under the uniform View interface; value is ignored.
func (s *SetView) Set(key, value any) bool {
	return s.Add(key)
}

// Add inserts elem, emitting an ADD notification when it was absent.
func (s *SetView) Add(elem any) bool {
	if s.readonly {
		s.rt.warnf(warnReadonlyWrite, "add on readonly view")
		return true
	}
	if !s.shallow {
		elem = ToRaw(elem)
	}
	if !hashableKey(elem) {
		return false
	}

	if _, ok := s.raw[elem]; !ok {
		s.raw[elem] = struct{}{}
		s.rt.trigger(s.raw, TriggerAdd, elem, elem, nil)
	}
	return true
}

// Has reports membership of elem or its raw form, recording HAS edges.
func (s *SetView) Has(elem any) bool {
	rawElem := ToRaw(elem)
	if !sameValue(elem, rawElem) && hashableKey(elem) {
		s.rt.track(s.raw, TrackHas, elem)
	}
	if hashableKey(rawElem) {
		s.rt.track(s.raw, TrackHas, rawElem)
	}

	if hashableKey(elem) {
		if _, ok := s.raw[elem]; ok {
			return true
		}
	}
	if !sameValue(elem, rawElem) && hashableKey(rawElem) {
		if _, ok := s.raw[rawElem]; ok {
			return true
		}
	}
	return false
}

// Delete removes elem (or its raw form), emitting DELETE only if it was
// a member.
func (s *SetView) Delete(elem any) bool {
	if s.readonly {
		s.rt.warnf(warnReadonlyDelete, "delete on readonly view")
		return true
	}

	if hashableKey(elem) {
		if _, ok := s.raw[elem]; ok {
			delete(s.raw, elem)
			s.rt.trigger(s.raw, TriggerDelete, elem, nil, elem)
			return true
		}
	}
	rawElem := ToRaw(elem)
	if !sameValue(elem, rawElem) && hashableKey(rawElem) {
		if _, ok := s.raw[rawElem]; ok {
			delete(s.raw, rawElem)
			s.rt.trigger(s.raw, TriggerDelete, rawElem, nil, rawElem)
			return true
		}
	}
	return false
}

// Clear removes every element, notifying all dependents of the set.
func (s *SetView) Clear() bool {
	if s.readonly {
		s.rt.warnf(warnReadonlyWrite, "clear on readonly view")
		return true
	}
	hadItems := len(s.raw) > 0
	for e := range s.raw {
		delete(s.raw, e)
	}
	if hadItems {
		s.rt.trigger(s.raw, TriggerClear, nil, nil, nil)
	}
	return true
}

// Keys returns the elements, recording an ITERATE edge.
func (s *SetView) Keys() []any {
	return s.Values()
}

// Values returns the elements, recording an ITERATE edge.
func (s *SetView) Values() []any {
	s.rt.track(s.raw, TrackIterate, iterateKey)
	out := make([]any, 0, len(s.raw))
	for e := range s.raw {
		out = append(out, s.wrapNested(e))
	}
	return out
}

// ForEach calls fn for every element, recording an ITERATE edge.
func (s *SetView) ForEach(fn func(elem any)) {
	s.rt.track(s.raw, TrackIterate, iterateKey)
	for e := range s.raw {
		fn(s.wrapNested(e))
	}
}

// Len returns the element count, recording an ITERATE edge.
func (s *SetView) Len() int {
	s.rt.track(s.raw, TrackIterate, iterateKey)
	return len(s.raw)
}

var _ View = (*SetView)(nil)
