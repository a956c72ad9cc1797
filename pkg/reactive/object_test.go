package reactive

import (
	"math"
	"testing"

	rerr "github.com/reago-dev/reago/internal/errors"
)

func TestObjectReadWrite(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"a": 1}).(*ObjectView)

	if got := obj.Get("a"); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := obj.Get("missing"); got != nil {
		t.Errorf("expected nil for missing key, got %v", got)
	}

	if !obj.Set("b", 2) {
		t.Error("expected Set to succeed")
	}
	if got := obj.Get("b"); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}

	if !obj.Has("a") || obj.Has("missing") {
		t.Error("unexpected Has results")
	}
	if obj.Len() != 2 {
		t.Errorf("expected len 2, got %d", obj.Len())
	}

	if !obj.Delete("a") {
		t.Error("expected Delete of existing key to report true")
	}
	if obj.Delete("a") {
		t.Error("expected Delete of absent key to report false")
	}
}

func TestObjectKeysSorted(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"c": 1, "a": 2, "b": 3}).(*ObjectView)

	keys := obj.Keys()
	want := []any{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %v, got %v", i, want[i], keys[i])
		}
	}
}

func TestObjectAddAndDeleteNotifyEnumeration(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"a": 1}).(*ObjectView)

	runs := 0
	NewEffect(rt, func() any {
		runs++
		return obj.Len()
	})
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	obj.Set("b", 2) // ADD
	if runs != 2 {
		t.Errorf("expected ADD to re-run the size reader, got %d runs", runs)
	}

	obj.Set("b", 3) // SET on a record does not touch enumeration
	if runs != 2 {
		t.Errorf("expected record SET not to re-run the size reader, got %d runs", runs)
	}

	obj.Delete("b") // DELETE
	if runs != 3 {
		t.Errorf("expected DELETE to re-run the size reader, got %d runs", runs)
	}
}

func TestObjectSameValueWriteDoesNotTrigger(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"a": 1, "nan": math.NaN()}).(*ObjectView)

	runs := 0
	NewEffect(rt, func() any {
		runs++
		obj.Get("a")
		obj.Get("nan")
		return nil
	})

	obj.Set("a", 1)
	if runs != 1 {
		t.Errorf("expected same-value write not to trigger, got %d runs", runs)
	}

	obj.Set("nan", math.NaN())
	if runs != 1 {
		t.Errorf("expected NaN-over-NaN write not to trigger, got %d runs", runs)
	}

	obj.Set("a", 2)
	if runs != 2 {
		t.Errorf("expected changed write to trigger, got %d runs", runs)
	}
}

func TestObjectRefUnwrapAndPassthrough(t *testing.T) {
	rt := NewRuntime()
	r := NewRef(rt, 1)
	obj := rt.Reactive(map[string]any{"r": r}).(*ObjectView)

	var seen any
	runs := 0
	NewEffect(rt, func() any {
		runs++
		seen = obj.Get("r")
		return nil
	})
	if seen != 1 {
		t.Errorf("expected unwrapped ref value 1, got %v", seen)
	}

	// Writing the ref directly reaches the reader.
	r.Set(2)
	if runs != 2 || seen != 2 {
		t.Errorf("expected ref write to propagate, got runs=%d seen=%v", runs, seen)
	}

	// Writing a plain value through the record redirects into the box.
	obj.Set("r", 3)
	if r.Peek() != 3 {
		t.Errorf("expected passthrough write into the ref, got %v", r.Peek())
	}
	if seen != 3 {
		t.Errorf("expected reader to observe passthrough write, got %v", seen)
	}
	if _, stillRef := ToRaw(obj).(map[string]any)["r"].(*Ref); !stillRef {
		t.Error("expected the ref box to remain stored in the raw record")
	}

	// An incoming ref replaces the box instead of writing through it.
	r2 := NewRef(rt, 10)
	obj.Set("r", r2)
	if got := ToRaw(obj).(map[string]any)["r"]; got != r2 {
		t.Error("expected incoming ref to replace the stored box")
	}
}

func TestObjectShallowSkipsRefUnwrap(t *testing.T) {
	rt := NewRuntime()
	r := NewRef(rt, 1)
	obj := rt.ShallowReactive(map[string]any{"r": r}).(*ObjectView)

	if got := obj.Get("r"); got != r {
		t.Errorf("expected shallow view to return the box itself, got %v", got)
	}
}

func TestObjectReadonlyRejectsMutation(t *testing.T) {
	rt := NewRuntime()
	rt.Debug = true
	var codes []string
	rt.WarnHandler = func(e *rerr.ReagoError) { codes = append(codes, e.Code) }

	raw := map[string]any{"a": 1}
	ro := rt.Readonly(raw).(*ObjectView)

	if !ro.Set("a", 2) {
		t.Error("readonly Set still reports success")
	}
	if raw["a"] != 1 {
		t.Error("readonly Set must not mutate")
	}
	if !ro.Delete("a") {
		t.Error("readonly Delete still reports success")
	}
	if _, ok := raw["a"]; !ok {
		t.Error("readonly Delete must not mutate")
	}

	if len(codes) != 2 || codes[0] != "R001" || codes[1] != "R002" {
		t.Errorf("expected R001 then R002 diagnostics, got %v", codes)
	}
}

func TestObjectReadonlyGetDoesNotTrack(t *testing.T) {
	rt := NewRuntime()
	raw := map[string]any{"a": 1}
	rw := rt.Reactive(raw).(*ObjectView)
	ro := rt.Readonly(raw).(*ObjectView)

	runs := 0
	NewEffect(rt, func() any {
		runs++
		return ro.Get("a")
	})

	rw.Set("a", 2)
	if runs != 1 {
		t.Errorf("expected readonly GET to record no dependency, got %d runs", runs)
	}

	// HAS through a readonly view still tracks.
	hasRuns := 0
	NewEffect(rt, func() any {
		hasRuns++
		return ro.Has("b")
	})
	rw.Set("b", 1)
	if hasRuns != 2 {
		t.Errorf("expected readonly HAS to track, got %d runs", hasRuns)
	}
}

func TestObjectSetterlessBoxRejectsOverwrite(t *testing.T) {
	rt := NewRuntime()
	src := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)
	c := NewComputed(rt, func() int { return src.Get("n").(int) * 2 })

	obj := rt.Reactive(map[string]any{"c": c}).(*ObjectView)

	if got := obj.Get("c"); got != 2 {
		t.Errorf("expected unwrapped computed value 2, got %v", got)
	}
	if obj.Set("c", 5) {
		t.Error("expected write over a setterless box to report failure")
	}
	if got := ToRaw(obj).(map[string]any)["c"]; got != c {
		t.Error("expected the stored box to be untouched")
	}

	// A writable computed accepts the passthrough write.
	w := NewWritableComputed(rt,
		func() int { return src.Get("n").(int) },
		func(v int) { src.Set("n", v) },
	)
	obj2 := rt.Reactive(map[string]any{"w": w}).(*ObjectView)
	if !obj2.Set("w", 7) {
		t.Error("expected passthrough into writable computed to succeed")
	}
	if src.Get("n") != 7 {
		t.Errorf("expected setter to write the source, got %v", src.Get("n"))
	}
}

func TestObjectNonStringKeys(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"a": 1}).(*ObjectView)

	if obj.Get(42) != nil || obj.Has(42) || obj.Set(42, 1) || obj.Delete(42) {
		t.Error("non-string keys must be treated as absent")
	}
}

func TestObjectResliceOverSameArrayTriggers(t *testing.T) {
	rt := NewRuntime()
	backing := []int{1, 2, 3}
	obj := rt.Reactive(map[string]any{"s": backing[:2]}).(*ObjectView)

	runs := 0
	NewEffect(rt, func() any {
		runs++
		return obj.Get("s")
	})

	// Same base array, longer slice: a real value change.
	obj.Set("s", backing[:3])
	if runs != 2 {
		t.Errorf("expected a longer reslice of the same array to notify, got %d runs", runs)
	}

	// Identical header: silent.
	obj.Set("s", backing[:3])
	if runs != 2 {
		t.Errorf("expected an identical reslice to stay silent, got %d runs", runs)
	}
}
