package reactive

// Computed is a lazily cached derived value. The getter runs inside an
// internal effect whose scheduler, instead of recomputing eagerly, only
// flips a dirty flag and notifies the computed's own subscribers:
// invalidation is pushed, recomputation is pulled on the next Get. Any
// number of upstream writes between two reads coalesce into a single
// recompute.
type Computed[T any] struct {
	rt     *Runtime
	dep    *dep
	effect *Effect

	getter func() T
	setter func(T)

	value T
	dirty bool

	// cacheable=false disables the cache entirely: every Get recomputes
	// with no tracking side effects. Used in non-interactive evaluation
	// contexts where no write will ever invalidate the value.
	cacheable bool
}

// NewComputed creates a read-only computed value within rt. The getter
// does not run until the first Get.
func NewComputed[T any](rt *Runtime, getter func() T) *Computed[T] {
	return newComputed(rt, getter, nil)
}

// NewWritableComputed creates a computed value whose Set forwards the
// incoming value to setter; the setter typically writes the sources the
// getter reads.
func NewWritableComputed[T any](rt *Runtime, getter func() T, setter func(T)) *Computed[T] {
	return newComputed(rt, getter, setter)
}

func newComputed[T any](rt *Runtime, getter func() T, setter func(T)) *Computed[T] {
	c := &Computed[T]{
		rt:        rt,
		dep:       newDep(),
		getter:    getter,
		setter:    setter,
		dirty:     true,
		cacheable: true,
	}
	c.effect = NewEffect(rt, func() any {
		return c.getter()
	}, Lazy(), WithScheduler(func() {
		if !c.dirty {
			c.dirty = true
			rt.triggerRefValue(c.dep, c, nil, nil)
		}
	}))
	return c
}

// Uncached disables caching: every read recomputes. The internal effect
// is stopped so recomputation has no tracking side effects and any
// subscriptions from earlier cached reads are released. Returns the
// computed for chaining.
func (c *Computed[T]) Uncached() *Computed[T] {
	c.cacheable = false
	c.effect.Stop()
	return c
}

// Get returns the computed value, subscribing the active effect to it
// and recomputing first if a dependency changed since the last read.
func (c *Computed[T]) Get() T {
	c.rt.trackRefValue(c.dep, c)
	if c.dirty || !c.cacheable {
		c.dirty = false
		c.recompute()
	}
	return c.value
}

// Peek returns the computed value without subscribing, still
// recomputing if stale.
func (c *Computed[T]) Peek() T {
	if c.dirty || !c.cacheable {
		c.dirty = false
		c.recompute()
	}
	return c.value
}

func (c *Computed[T]) recompute() {
	c.rt.stats.ComputedRecomputes++
	v := c.effect.Run()
	if tv, ok := v.(T); ok {
		c.value = tv
	} else {
		var zero T
		c.value = zero
	}
}

// Set forwards v to the setter. A computed constructed without a setter
// rejects the write with a debug diagnostic and no state change.
func (c *Computed[T]) Set(v T) {
	if c.setter == nil {
		c.rt.warnf(warnComputedNoSetter, "write to computed without setter")
		return
	}
	c.setter(v)
}

// Stop releases the internal effect; subsequent reads recompute without
// tracking and writes to former dependencies no longer invalidate.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
}

func (c *Computed[T]) refGet() any { return c.Get() }

func (c *Computed[T]) refSet(v any) bool {
	if c.setter == nil {
		return false
	}
	tv, ok := v.(T)
	if !ok {
		return false
	}
	c.setter(tv)
	return true
}

func (c *Computed[T]) refReadonly() bool { return c.setter == nil }

// Ensure Computed participates in ref unwrapping and passthrough.
var _ refBox = (*Computed[int])(nil)
