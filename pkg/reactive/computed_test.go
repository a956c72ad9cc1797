package reactive

import (
	"testing"

	rerr "github.com/reago-dev/reago/internal/errors"
)

func TestComputedLazyAndCached(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 2}).(*ObjectView)

	computes := 0
	c := NewComputed(rt, func() int {
		computes++
		return obj.Get("n").(int) * 2
	})
	if computes != 0 {
		t.Errorf("expected no computation before the first read, got %d", computes)
	}

	if got := c.Get(); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	c.Get()
	c.Get()
	if computes != 1 {
		t.Errorf("expected repeated reads to hit the cache, got %d computes", computes)
	}
}

func TestComputedCoalescesInvalidations(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"a": 1, "b": 1}).(*ObjectView)

	computes := 0
	c := NewComputed(rt, func() int {
		computes++
		return obj.Get("a").(int) + obj.Get("b").(int)
	})
	c.Get()
	if computes != 1 {
		t.Fatalf("expected 1 compute, got %d", computes)
	}

	// Several upstream writes between two reads cost one recompute.
	obj.Set("a", 10)
	obj.Set("b", 20)
	obj.Set("a", 30)
	if computes != 1 {
		t.Errorf("expected invalidation without recomputation, got %d computes", computes)
	}

	if got := c.Get(); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	if computes != 2 {
		t.Errorf("expected exactly one recompute, got %d", computes)
	}
}

func TestComputedNotifiesSubscribers(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)
	c := NewComputed(rt, func() int { return obj.Get("n").(int) * 10 })

	var seen int
	runs := 0
	NewEffect(rt, func() any {
		runs++
		seen = c.Get()
		return nil
	})
	if seen != 10 {
		t.Fatalf("expected 10, got %d", seen)
	}

	obj.Set("n", 2)
	if runs != 2 || seen != 20 {
		t.Errorf("expected effect to observe the new value, got runs=%d seen=%d", runs, seen)
	}

	// Redundant invalidations do not restack: a second write before any
	// read still produces one effect run per write resolution.
	obj.Set("n", 3)
	if seen != 30 {
		t.Errorf("expected 30, got %d", seen)
	}
}

func TestComputedChain(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)

	double := NewComputed(rt, func() int { return obj.Get("n").(int) * 2 })
	quad := NewComputed(rt, func() int { return double.Get() * 2 })

	if got := quad.Get(); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}

	obj.Set("n", 3)
	if got := quad.Get(); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
}

func TestWritableComputed(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"celsius": 0}).(*ObjectView)

	fahrenheit := NewWritableComputed(rt,
		func() int { return obj.Get("celsius").(int)*9/5 + 32 },
		func(v int) { obj.Set("celsius", (v-32)*5/9) },
	)

	if got := fahrenheit.Get(); got != 32 {
		t.Errorf("expected 32, got %d", got)
	}

	fahrenheit.Set(212)
	if got := obj.Get("celsius"); got != 100 {
		t.Errorf("expected setter to write the source, got %v", got)
	}
	if got := fahrenheit.Get(); got != 212 {
		t.Errorf("expected 212 after the setter round trip, got %d", got)
	}
}

func TestComputedWithoutSetterWarns(t *testing.T) {
	rt := NewRuntime()
	rt.Debug = true
	var codes []string
	rt.WarnHandler = func(e *rerr.ReagoError) { codes = append(codes, e.Code) }

	c := NewComputed(rt, func() int { return 1 })
	c.Set(5)

	if len(codes) != 1 || codes[0] != "R003" {
		t.Errorf("expected R003 diagnostic, got %v", codes)
	}
	if got := c.Get(); got != 1 {
		t.Errorf("expected value to be untouched, got %d", got)
	}
}

func TestComputedPeekDoesNotSubscribe(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)
	c := NewComputed(rt, func() int { return obj.Get("n").(int) })

	runs := 0
	NewEffect(rt, func() any {
		runs++
		return c.Peek()
	})

	obj.Set("n", 2)
	if runs != 1 {
		t.Errorf("expected Peek to record no dependency, got %d runs", runs)
	}
	if got := c.Peek(); got != 2 {
		t.Errorf("expected Peek to still recompute when stale, got %d", got)
	}
}

func TestComputedUncached(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)

	computes := 0
	c := NewComputed(rt, func() int {
		computes++
		return obj.Get("n").(int)
	}).Uncached()

	c.Get()
	c.Get()
	if computes != 2 {
		t.Errorf("expected every read to recompute, got %d computes", computes)
	}
	obj.Set("n", 5)
	if got := c.Get(); got != 5 {
		t.Errorf("expected fresh value without any invalidation plumbing, got %d", got)
	}

	// The deactivated internal effect records no dependency edges of
	// its own.
	before := rt.Stats().Tracks
	c.Get()
	if rt.Stats().Tracks != before {
		t.Error("expected uncached recomputation to record no dependency edges")
	}
}

func TestComputedStopDetaches(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)
	c := NewComputed(rt, func() int { return obj.Get("n").(int) })

	if got := c.Get(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}

	c.Stop()
	obj.Set("n", 2)
	if got := c.Get(); got != 1 {
		t.Errorf("expected stale cached value after Stop, got %d", got)
	}
}

func TestComputedTypeSafety(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"name": "go"}).(*ObjectView)

	c := NewComputed(rt, func() string { return obj.Get("name").(string) + "!" })
	if got := c.Get(); got != "go!" {
		t.Errorf("expected go!, got %q", got)
	}

	// refSet with a mismatched type is rejected.
	w := NewWritableComputed(rt,
		func() string { return obj.Get("name").(string) },
		func(v string) { obj.Set("name", v) },
	)
	var box refBox = w
	if box.refSet(42) {
		t.Error("expected type-mismatched passthrough write to be rejected")
	}
	if !box.refSet("rust") {
		t.Error("expected matching passthrough write to succeed")
	}
	if obj.Get("name") != "rust" {
		t.Errorf("expected setter to run, got %v", obj.Get("name"))
	}
}

func TestComputedUncachedReleasesSubscriptions(t *testing.T) {
	rt := NewRuntime()
	obj := rt.Reactive(map[string]any{"n": 1}).(*ObjectView)
	c := NewComputed(rt, func() int { return obj.Get("n").(int) })

	// A cached read first, so the internal effect subscribes upstream.
	if c.Get() != 1 {
		t.Fatal("expected initial value 1")
	}
	active := rt.Stats().ActiveEffects

	c.Uncached()
	if got := rt.Stats().ActiveEffects; got != active-1 {
		t.Errorf("expected the internal effect to be released, active effects %d then %d", active, got)
	}

	// The earlier subscription is gone: the write runs nothing.
	runs := rt.Stats().EffectRuns
	obj.Set("n", 2)
	if rt.Stats().EffectRuns != runs {
		t.Error("expected no effect runs after uncaching")
	}

	if got := c.Get(); got != 2 {
		t.Errorf("expected a fresh recompute, got %d", got)
	}

	// Stop after Uncached stays idempotent.
	c.Stop()
}
