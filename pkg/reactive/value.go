package reactive

import (
	"math"
	"reflect"
)

// Set is the set-like container class eligible for observation.
// Elements must be comparable; views are pointers and therefore valid
// elements.
type Set map[any]struct{}

// NewSet builds a Set from the given elements.
func NewSet(elems ...any) Set {
	s := make(Set, len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// identityOf returns a stable comparable handle for an eligible raw
// container. Go map headers and pointers are stable for the lifetime of
// the value, which makes them usable as arena keys for the dependency
// store and the view caches (the Runtime bounds their lifetime).
func identityOf(raw any) (uintptr, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return reflect.ValueOf(v).Pointer(), true
	case *[]any:
		return reflect.ValueOf(v).Pointer(), true
	case map[any]any:
		return reflect.ValueOf(v).Pointer(), true
	case Set:
		return reflect.ValueOf(v).Pointer(), true
	default:
		return 0, false
	}
}

// observableKind classifies a raw value into one of the eligible type
// classes. Everything else is returned from the wrap constructors
// unchanged.
type observableKind uint8

const (
	kindInvalid observableKind = iota
	kindObject
	kindArray
	kindMap
	kindSet
)

func kindOf(raw any) observableKind {
	switch raw.(type) {
	case map[string]any:
		return kindObject
	case *[]any:
		return kindArray
	case map[any]any:
		return kindMap
	case Set:
		return kindSet
	default:
		return kindInvalid
	}
}

// sameValue reports whether two values are indistinguishable by
// value-or-identity comparison. It is NaN-aware: two NaNs compare equal,
// so overwriting NaN with NaN does not notify. Maps and functions
// compare by identity; slices by header (base pointer and length).
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	case reflect.Slice:
		// Header identity: same base array and same length. Base alone
		// is not enough; reslicing the same array changes the value.
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		// Identity, not deep equality
		return va.Pointer() == vb.Pointer()
	}

	if va.Comparable() {
		return a == b
	}
	return false
}

// arrayIndex reports whether key addresses an array element.
func arrayIndex(key any) (int, bool) {
	i, ok := key.(int)
	return i, ok
}
