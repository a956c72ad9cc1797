package reactive

// ArrayView observes an array container (*[]any) with integer index
// keys. The pointer form gives the raw array a stable identity and lets
// length-mutating operations grow it in place.
//
// Unlike records, array elements never auto-unwrap ref-like boxes: an
// indexed read returns the box itself.
type ArrayView struct {
	viewBase
	raw *[]any
}

// Raw returns the underlying *[]any.
func (a *ArrayView) Raw() any { return a.raw }

// Get returns the element at index key, recording a GET dependency edge
// unless the view is readonly. Out-of-range reads return nil but still
// record the edge, so a later write to that index re-runs the reader.
func (a *ArrayView) Get(key any) any {
	i, ok := arrayIndex(key)
	if !ok {
		return nil
	}
	if !a.readonly {
		a.rt.track(a.raw, TrackGet, i)
	}

	arr := *a.raw
	if i < 0 || i >= len(arr) {
		return nil
	}
	if a.shallow {
		return arr[i]
	}
	return a.wrapNested(arr[i])
}

// Set writes value at index key, growing the array when key is at or
// past the current length. An in-range write emits SET when the element
// changed; a growing write emits ADD, which also notifies length
// readers.
func (a *ArrayView) Set(key, value any) bool {
	if a.readonly {
		a.rt.warnf(warnReadonlyWrite, "set index %v on readonly view", key)
		return true
	}
	i, ok := arrayIndex(key)
	if !ok || i < 0 {
		return false
	}

	arr := *a.raw
	oldLen := len(arr)
	var oldValue any
	hadIndex := i < oldLen
	if hadIndex {
		oldValue = arr[i]
	}

	if orb, ok := oldValue.(refBox); ok && orb.refReadonly() {
		if _, incomingRef := value.(refBox); !incomingRef {
			return false
		}
	}

	if !a.shallow {
		if !IsReadonly(value) && !IsShallow(value) {
			oldValue = ToRaw(oldValue)
			value = ToRaw(value)
		}
		// No ref passthrough for arrays: the box itself is replaced.
	}

	if hadIndex {
		arr[i] = value
		if !sameValue(value, oldValue) {
			a.rt.trigger(a.raw, TriggerSet, i, value, oldValue)
		}
		return true
	}

	for len(arr) < i {
		arr = append(arr, nil)
	}
	arr = append(arr, value)
	*a.raw = arr
	a.rt.trigger(a.raw, TriggerAdd, i, value, nil)
	return true
}

// Has reports whether index key is within bounds, recording a HAS edge.
func (a *ArrayView) Has(key any) bool {
	i, ok := arrayIndex(key)
	if !ok {
		return false
	}
	a.rt.track(a.raw, TrackHas, i)
	return i >= 0 && i < len(*a.raw)
}

// Delete clears the element at index key without changing the length,
// emitting a DELETE notification when the index was in range.
func (a *ArrayView) Delete(key any) bool {
	if a.readonly {
		a.rt.warnf(warnReadonlyDelete, "delete index %v on readonly view", key)
		return true
	}
	i, ok := arrayIndex(key)
	if !ok {
		return false
	}
	arr := *a.raw
	if i < 0 || i >= len(arr) {
		return false
	}

	oldValue := arr[i]
	arr[i] = nil
	a.rt.trigger(a.raw, TriggerDelete, i, nil, oldValue)
	return true
}

// Keys returns the index list 0..len-1, recording the enumeration
// dependency on the array's length.
func (a *ArrayView) Keys() []any {
	a.rt.track(a.raw, TrackIterate, lengthKey)
	arr := *a.raw
	out := make([]any, len(arr))
	for i := range arr {
		out[i] = i
	}
	return out
}

// Len returns the array's length, recording a dependency on it unless
// the view is readonly.
func (a *ArrayView) Len() int {
	if !a.readonly {
		a.rt.track(a.raw, TrackGet, lengthKey)
	}
	return len(*a.raw)
}

// SetLength truncates or nil-extends the array. Shrinking notifies
// length readers and every index at or past the new length.
func (a *ArrayView) SetLength(n int) bool {
	if a.readonly {
		a.rt.warnf(warnReadonlyWrite, "set length on readonly view")
		return true
	}
	if n < 0 {
		return false
	}

	arr := *a.raw
	oldLen := len(arr)
	if n == oldLen {
		return true
	}
	if n < oldLen {
		tail := arr[n:]
		for i := range tail {
			tail[i] = nil
		}
		*a.raw = arr[:n]
	} else {
		for len(arr) < n {
			arr = append(arr, nil)
		}
		*a.raw = arr
	}
	a.rt.trigger(a.raw, TriggerSet, lengthKey, n, oldLen)
	return true
}

// Push appends values, returning the new length. Tracking is paused for
// the duration so a pushing effect does not subscribe itself to the
// length it touches.
func (a *ArrayView) Push(values ...any) int {
	if a.readonly {
		a.rt.warnf(warnReadonlyWrite, "push on readonly view")
		return len(*a.raw)
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	for _, v := range values {
		a.Set(len(*a.raw), v)
	}
	return len(*a.raw)
}

// Pop removes and returns the last element, or nil when empty.
func (a *ArrayView) Pop() any {
	removed := a.Splice(len(*a.raw)-1, 1)
	if len(removed) == 0 {
		return nil
	}
	if a.shallow {
		return removed[0]
	}
	return a.wrapNested(removed[0])
}

// Shift removes and returns the first element, or nil when empty.
func (a *ArrayView) Shift() any {
	removed := a.Splice(0, 1)
	if len(removed) == 0 {
		return nil
	}
	if a.shallow {
		return removed[0]
	}
	return a.wrapNested(removed[0])
}

// Unshift prepends values, returning the new length.
func (a *ArrayView) Unshift(values ...any) int {
	a.Splice(0, 0, values...)
	return len(*a.raw)
}

// Splice removes deleteCount elements starting at start, inserts items
// in their place, and returns the removed elements. Negative start
// counts from the end. Tracking is paused for the duration; dependents
// are notified per changed index, per removed tail index, and — when
// the array shrank — on the length.
func (a *ArrayView) Splice(start, deleteCount int, items ...any) []any {
	if a.readonly {
		a.rt.warnf(warnReadonlyWrite, "splice on readonly view")
		return nil
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	old := *a.raw
	oldLen := len(old)

	if start < 0 {
		start += oldLen
	}
	if start < 0 {
		start = 0
	}
	if start > oldLen {
		start = oldLen
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > oldLen-start {
		deleteCount = oldLen - start
	}

	removed := make([]any, deleteCount)
	copy(removed, old[start:start+deleteCount])

	if !a.shallow {
		for i, it := range items {
			if !IsReadonly(it) && !IsShallow(it) {
				items[i] = ToRaw(it)
			}
		}
	}

	next := make([]any, 0, oldLen-deleteCount+len(items))
	next = append(next, old[:start]...)
	next = append(next, items...)
	next = append(next, old[start+deleteCount:]...)
	*a.raw = next
	newLen := len(next)

	max := oldLen
	if newLen > max {
		max = newLen
	}
	for i := start; i < max; i++ {
		switch {
		case i < oldLen && i < newLen:
			if !sameValue(next[i], old[i]) {
				a.rt.trigger(a.raw, TriggerSet, i, next[i], old[i])
			}
		case i >= oldLen:
			// Grew: ADD also notifies length readers.
			a.rt.trigger(a.raw, TriggerAdd, i, next[i], nil)
		default:
			a.rt.trigger(a.raw, TriggerDelete, i, nil, old[i])
		}
	}
	if newLen < oldLen {
		a.rt.trigger(a.raw, TriggerSet, lengthKey, newLen, oldLen)
	}
	return removed
}

// IndexOf returns the first index holding target, or -1. The search
// subscribes the active effect to every index and the length, tries the
// value as given, and retries with its raw form — so a reactive element
// is found whether searched for by its wrapped or raw identity.
func (a *ArrayView) IndexOf(target any) int {
	arr := *a.raw
	if !a.readonly {
		for i := range arr {
			a.rt.track(a.raw, TrackGet, i)
		}
		a.rt.track(a.raw, TrackGet, lengthKey)
	}

	for i, e := range arr {
		if sameValue(e, target) {
			return i
		}
	}
	rawTarget := ToRaw(target)
	if !sameValue(rawTarget, target) {
		for i, e := range arr {
			if sameValue(e, rawTarget) {
				return i
			}
		}
	}
	return -1
}

// LastIndexOf returns the last index holding target, or -1, with the
// same tracking and raw-retry behavior as IndexOf.
func (a *ArrayView) LastIndexOf(target any) int {
	arr := *a.raw
	if !a.readonly {
		for i := range arr {
			a.rt.track(a.raw, TrackGet, i)
		}
		a.rt.track(a.raw, TrackGet, lengthKey)
	}

	for i := len(arr) - 1; i >= 0; i-- {
		if sameValue(arr[i], target) {
			return i
		}
	}
	rawTarget := ToRaw(target)
	if !sameValue(rawTarget, target) {
		for i := len(arr) - 1; i >= 0; i-- {
			if sameValue(arr[i], rawTarget) {
				return i
			}
		}
	}
	return -1
}

// Contains reports whether target (or its raw form) is an element.
func (a *ArrayView) Contains(target any) bool {
	return a.IndexOf(target) >= 0
}

var _ View = (*ArrayView)(nil)
