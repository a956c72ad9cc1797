package reactive

// Effect is the unit of reactive computation. Its function is executed
// with dependency tracking enabled; every reactive read performed during
// the run subscribes the effect, and later writes to those dependencies
// re-invoke it (or its scheduler).
type Effect struct {
	rt *Runtime

	// fn is the tracked computation. Its result is returned by Run,
	// which lets Computed reuse Effect as its recompute engine.
	fn func() any

	// scheduler, when set, is invoked by a trigger instead of Run.
	// It decides any deferral policy; the engine itself never queues
	// work across turns.
	scheduler func()

	// deps are the Dependency Sets this effect currently belongs to.
	// Back-references enable O(deps) self-unsubscribe.
	deps []*dep

	// parent is the previously active effect during a run; it forms the
	// ancestor chain used for cycle detection. Nil outside of runs.
	parent *Effect

	// scope is the owning Scope, recorded at construction.
	scope *Scope

	active       bool
	allowRecurse bool

	// deferStop marks a Stop issued while the effect was running; the
	// actual stop happens when the run finishes.
	deferStop bool

	onStop    func()
	onTrack   func(TrackEvent)
	onTrigger func(TriggerEvent)
}

// EffectOption configures an Effect at construction time.
type EffectOption interface {
	isEffectOption()
	applyEffect(e *Effect, cfg *effectConfig)
}

type effectConfig struct {
	lazy  bool
	scope *Scope
}

type effectOptionFunc func(e *Effect, cfg *effectConfig)

func (f effectOptionFunc) isEffectOption()                         {}
func (f effectOptionFunc) applyEffect(e *Effect, cfg *effectConfig) { f(e, cfg) }

// Lazy skips the immediate first run. The caller invokes Run when the
// first result is needed; Computed uses this to stay pull-based.
func Lazy() EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		cfg.lazy = true
	})
}

// WithScheduler overrides trigger-time invocation with a custom
// callback. The scheduler is called instead of Run; it may run the
// effect immediately, queue it, or drop the notification.
func WithScheduler(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		e.scheduler = fn
	})
}

// WithScope registers the effect into an explicit scope instead of the
// ambient one.
func WithScope(s *Scope) EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		cfg.scope = s
	})
}

// AllowRecurse permits the effect to re-trigger itself: a write it
// performs to one of its own dependencies re-invokes it instead of
// being skipped by the self-trigger guard.
func AllowRecurse() EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		e.allowRecurse = true
	})
}

// OnStop registers a disposal callback invoked once when the effect is
// stopped.
func OnStop(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		e.onStop = fn
	})
}

// OnTrack registers a diagnostic hook observing every dependency edge
// the effect records. Only called in debug mode.
func OnTrack(fn func(TrackEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		e.onTrack = fn
	})
}

// OnTrigger registers a diagnostic hook observing every write that
// re-invokes the effect. Only called in debug mode.
func OnTrigger(fn func(TriggerEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect, cfg *effectConfig) {
		e.onTrigger = fn
	})
}

// NewEffect creates an effect within rt and, unless Lazy is given, runs
// it once immediately. Effects created while a scope is ambient are
// registered into that scope and stopped with it.
func NewEffect(rt *Runtime, fn func() any, opts ...EffectOption) *Effect {
	e := &Effect{
		rt:     rt,
		fn:     fn,
		active: true,
	}

	var cfg effectConfig
	for _, opt := range opts {
		opt.applyEffect(e, &cfg)
	}

	scope := cfg.scope
	if scope == nil {
		scope = rt.activeScope
	}
	if scope != nil && scope.active {
		scope.effects = append(scope.effects, e)
		e.scope = scope
	}

	rt.stats.ActiveEffects++

	if !cfg.lazy {
		e.Run()
	}
	return e
}

// Run executes the effect's function with dependency tracking and
// returns its result.
//
// An inactive (stopped) effect executes the function once with no
// tracking side effects. A re-entrant call — the effect already on the
// ancestor chain of running effects — is silently aborted and returns
// nil; this is the cycle guard, not an error path.
func (e *Effect) Run() any {
	if !e.active {
		return e.fn()
	}

	rt := e.rt
	for p := rt.activeEffect; p != nil; p = p.parent {
		if p == e {
			return nil
		}
	}

	e.parent = rt.activeEffect
	lastShouldTrack := rt.shouldTrack

	rt.activeEffect = e
	rt.shouldTrack = true
	rt.trackDepth++
	rt.trackBit = 1 << uint(rt.trackDepth)

	if rt.trackDepth <= maxMarkerBits {
		initDepMarkers(e, rt.trackBit)
	} else {
		cleanupEffect(e)
	}
	rt.stats.EffectRuns++

	defer func() {
		if rt.trackDepth <= maxMarkerBits {
			finalizeDepMarkers(e, rt.trackBit)
		}
		rt.trackDepth--
		rt.trackBit = 1 << uint(rt.trackDepth)

		rt.activeEffect = e.parent
		rt.shouldTrack = lastShouldTrack
		e.parent = nil

		if e.deferStop {
			e.Stop()
		}
	}()

	return e.fn()
}

// Active reports whether the effect can still be triggered.
func (e *Effect) Active() bool {
	return e.active
}

// Stop permanently deactivates the effect: it is removed from every
// Dependency Set it belongs to and will never be triggered again.
// Stopping an effect from inside its own run is deferred until the run
// completes. Stop is idempotent.
func (e *Effect) Stop() {
	if e.rt.activeEffect == e {
		e.deferStop = true
		return
	}
	if !e.active {
		return
	}

	cleanupEffect(e)
	if e.onStop != nil {
		e.onStop()
	}
	e.active = false
	e.rt.stats.ActiveEffects--
}
