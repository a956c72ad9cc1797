package reactive

// Scope is a lifetime container: effects and cleanup callbacks created
// while a scope is ambient are registered into it, and Stop disposes
// them all together, cascading through child scopes. Scopes typically
// mirror whatever lifetime hierarchy the host builds on top of the
// engine (components, sessions, requests).
type Scope struct {
	rt     *Runtime
	active bool

	effects  []*Effect
	cleanups []func()

	parent *Scope
	scopes []*Scope

	// index is this scope's position in parent.scopes, enabling O(1)
	// detachment by swap-with-last.
	index int

	detached bool
}

// NewScope creates a scope within rt. Unless detached is true, the new
// scope becomes a child of the ambient scope and is stopped with it.
func NewScope(rt *Runtime, detached ...bool) *Scope {
	s := &Scope{rt: rt, active: true}
	if len(detached) > 0 && detached[0] {
		s.detached = true
		return s
	}
	if parent := rt.activeScope; parent != nil {
		s.parent = parent
		s.index = len(parent.scopes)
		parent.scopes = append(parent.scopes, s)
	}
	return s
}

// Active reports whether the scope can still register work.
func (s *Scope) Active() bool {
	return s.active
}

// Run invokes fn with this scope ambient, restoring the previous
// ambient scope on every exit path. Running an inactive scope is a
// debug diagnostic and returns nil.
func (s *Scope) Run(fn func() any) any {
	if !s.active {
		s.rt.warnf(warnInactiveScope, "cannot run an inactive scope")
		return nil
	}
	prev := s.rt.activeScope
	s.rt.activeScope = s
	defer func() {
		s.rt.activeScope = prev
	}()
	return fn()
}

// On makes this scope ambient outside of a Run call. Pair with Off.
func (s *Scope) On() {
	if s.active {
		s.rt.activeScope = s
	}
}

// Off restores the parent scope as ambient after On.
func (s *Scope) Off() {
	if s.active {
		s.rt.activeScope = s.parent
	}
}

// Stop disposes the scope: every owned effect is stopped, every cleanup
// callback runs in registration order, and child scopes are stopped
// transitively. The scope detaches from its parent and becomes
// permanently inactive. Stop is idempotent.
func (s *Scope) Stop() {
	s.stop(false)
}

func (s *Scope) stop(fromParent bool) {
	if !s.active {
		return
	}
	s.active = false

	for _, e := range s.effects {
		e.Stop()
	}
	s.effects = nil

	for _, fn := range s.cleanups {
		fn()
	}
	s.cleanups = nil

	for _, child := range s.scopes {
		child.stop(true)
	}
	s.scopes = nil

	// A parent cascade is already dismantling the child list; only a
	// direct Stop needs to unlink.
	if !s.detached && s.parent != nil && !fromParent {
		last := len(s.parent.scopes) - 1
		moved := s.parent.scopes[last]
		s.parent.scopes[s.index] = moved
		moved.index = s.index
		s.parent.scopes[last] = nil
		s.parent.scopes = s.parent.scopes[:last]
	}
	s.parent = nil
}

// OnScopeDispose registers fn to run when the ambient scope is stopped.
// With no ambient active scope the callback is dropped with a debug
// diagnostic.
func (rt *Runtime) OnScopeDispose(fn func()) {
	s := rt.activeScope
	if s == nil || !s.active {
		rt.warnf(warnNoActiveScope, "OnScopeDispose called with no active scope")
		return
	}
	s.cleanups = append(s.cleanups, fn)
}
