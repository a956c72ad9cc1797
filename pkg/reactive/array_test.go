package reactive

import "testing"

func newArray(rt *Runtime, elems ...any) *ArrayView {
	raw := make([]any, len(elems))
	copy(raw, elems)
	return rt.Reactive(&raw).(*ArrayView)
}

func TestArrayReadWrite(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, "a", "b")

	if got := arr.Get(0); got != "a" {
		t.Errorf("expected a, got %v", got)
	}
	if got := arr.Get(5); got != nil {
		t.Errorf("expected nil out of range, got %v", got)
	}
	if arr.Len() != 2 {
		t.Errorf("expected len 2, got %d", arr.Len())
	}
	if !arr.Has(1) || arr.Has(2) {
		t.Error("unexpected Has results")
	}

	if !arr.Set(1, "B") {
		t.Error("expected in-range Set to succeed")
	}
	if got := arr.Get(1); got != "B" {
		t.Errorf("expected B, got %v", got)
	}
	if arr.Set(-1, "x") {
		t.Error("expected negative index to be rejected")
	}
}

func TestArrayGrowingSetNotifiesLength(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, 1)

	lenRuns := 0
	NewEffect(rt, func() any {
		lenRuns++
		return arr.Len()
	})

	// Write exactly at the current length.
	arr.Set(1, 2)
	if lenRuns != 2 {
		t.Errorf("expected write at len to re-run length reader, got %d runs", lenRuns)
	}
	if arr.Len() != 2 {
		t.Errorf("expected len 2, got %d", arr.Len())
	}

	// Write past the current length nil-pads the gap.
	arr.Set(4, 5)
	if lenRuns != 3 {
		t.Errorf("expected gap write to re-run length reader, got %d runs", lenRuns)
	}
	if arr.Len() != 5 || arr.Get(3) != nil {
		t.Error("expected nil-padded growth to index 4")
	}

	// In-range writes leave the length reader alone.
	arr.Set(0, 9)
	if lenRuns != 3 {
		t.Errorf("expected in-range write not to re-run length reader, got %d runs", lenRuns)
	}
}

func TestArrayPushTriggersLengthReaders(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt)

	lenRuns := 0
	NewEffect(rt, func() any {
		lenRuns++
		return arr.Len()
	})

	if n := arr.Push("a", "b"); n != 2 {
		t.Errorf("expected new length 2, got %d", n)
	}
	if lenRuns < 2 {
		t.Errorf("expected push to re-run length reader, got %d runs", lenRuns)
	}
}

func TestArrayPushInsideEffectDoesNotSelfSubscribe(t *testing.T) {
	rt := NewRuntime()
	src := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)
	arr := newArray(rt)

	runs := 0
	NewEffect(rt, func() any {
		runs++
		arr.Push(src.Get("n"))
		return nil
	})
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	// Growing the array from outside must not re-run the pushing effect.
	arr.Push(99)
	if runs != 1 {
		t.Errorf("expected pushing effect not to subscribe to the length, got %d runs", runs)
	}

	// Its real dependency still works.
	src.Set("n", 2)
	if runs != 2 {
		t.Errorf("expected source write to re-run, got %d runs", runs)
	}
}

func TestArraySetLengthShrinkNotifiesDroppedIndexes(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, "a", "b", "c")

	tailRuns := 0
	NewEffect(rt, func() any {
		tailRuns++
		return arr.Get(2)
	})
	headRuns := 0
	NewEffect(rt, func() any {
		headRuns++
		return arr.Get(0)
	})

	arr.SetLength(1)
	if tailRuns != 2 {
		t.Errorf("expected dropped-index reader to re-run, got %d runs", tailRuns)
	}
	if headRuns != 1 {
		t.Errorf("expected surviving-index reader to stay, got %d runs", headRuns)
	}
	if arr.Len() != 1 {
		t.Errorf("expected len 1, got %d", arr.Len())
	}
}

func TestArraySpliceFamily(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, "a", "b", "c")

	removed := arr.Splice(1, 1, "x", "y")
	if len(removed) != 1 || removed[0] != "b" {
		t.Errorf("unexpected removed elements: %v", removed)
	}
	want := []any{"a", "x", "y", "c"}
	raw := *arr.Raw().(*[]any)
	for i, w := range want {
		if raw[i] != w {
			t.Errorf("index %d: expected %v, got %v", i, w, raw[i])
		}
	}

	if got := arr.Pop(); got != "c" {
		t.Errorf("expected pop c, got %v", got)
	}
	if got := arr.Shift(); got != "a" {
		t.Errorf("expected shift a, got %v", got)
	}
	if n := arr.Unshift("z"); n != 3 {
		t.Errorf("expected length 3 after unshift, got %d", n)
	}
	if got := arr.Get(0); got != "z" {
		t.Errorf("expected z at head, got %v", got)
	}

	if got := newArray(rt).Pop(); got != nil {
		t.Errorf("expected pop of empty array to return nil, got %v", got)
	}
}

func TestArrayShiftNotifiesShiftedReaders(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, "a", "b", "c")

	var seen any
	runs := 0
	NewEffect(rt, func() any {
		runs++
		seen = arr.Get(0)
		return nil
	})

	arr.Shift()
	if runs != 2 || seen != "b" {
		t.Errorf("expected index reader to observe the shift, got runs=%d seen=%v", runs, seen)
	}
}

func TestArrayDeleteKeepsLength(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, "a", "b")

	runs := 0
	NewEffect(rt, func() any {
		runs++
		return arr.Get(0)
	})

	if !arr.Delete(0) {
		t.Error("expected in-range Delete to report true")
	}
	if arr.Len() != 2 {
		t.Errorf("expected Delete to keep the length, got %d", arr.Len())
	}
	if arr.Get(0) != nil {
		t.Error("expected deleted element to read nil")
	}
	if runs != 2 {
		t.Errorf("expected index reader to re-run, got %d runs", runs)
	}
	if arr.Delete(9) {
		t.Error("expected out-of-range Delete to report false")
	}
}

func TestArrayNoRefUnwrap(t *testing.T) {
	rt := NewRuntime()
	r := NewRef(rt, 1)
	arr := newArray(rt, r)

	if got := arr.Get(0); got != r {
		t.Errorf("expected the box itself from an indexed read, got %v", got)
	}
}

func TestArrayIndexOfRawRetry(t *testing.T) {
	rt := NewRuntime()
	inner := map[string]any{"x": 1}
	arr := newArray(rt, inner)

	wrapped := rt.Reactive(inner)
	if got := arr.IndexOf(wrapped); got != 0 {
		t.Errorf("expected wrapped element to be found at 0, got %d", got)
	}
	if got := arr.LastIndexOf(wrapped); got != 0 {
		t.Errorf("expected LastIndexOf to find it too, got %d", got)
	}
	if !arr.Contains(wrapped) {
		t.Error("expected Contains to find the wrapped element")
	}
	if got := arr.IndexOf("absent"); got != -1 {
		t.Errorf("expected -1 for absent element, got %d", got)
	}
}

func TestArrayIndexOfTracksElements(t *testing.T) {
	rt := NewRuntime()
	arr := newArray(rt, "a", "b")

	var idx int
	runs := 0
	NewEffect(rt, func() any {
		runs++
		idx = arr.IndexOf("b")
		return nil
	})
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}

	arr.Set(1, "c")
	if runs != 2 || idx != -1 {
		t.Errorf("expected element write to re-run the search, got runs=%d idx=%d", runs, idx)
	}

	arr.Push("b")
	if runs != 3 || idx != 2 {
		t.Errorf("expected growth to re-run the search, got runs=%d idx=%d", runs, idx)
	}
}
