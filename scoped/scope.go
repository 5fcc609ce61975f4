package scoped

import (
	"github.com/delaneyj/scopedsignals/arena"
)

// Scope is a node of the runtime's scope tree. Signals can only be released
// by discarding the scope they were created in.
type Scope struct {
	rt *Runtime
	id arena.NodeID
}

func (sc Scope) Runtime() *Runtime { return sc.rt }
func (sc Scope) ID() arena.NodeID  { return sc.id }

func (sc Scope) IsRoot() bool {
	return sc.id == arena.RootID
}

func (sc Scope) NewChild() Scope {
	return Scope{rt: sc.rt, id: sc.rt.scopes.AddChild(sc.id, sc.rt.newScope())}
}

// Discard destroys the scope, its signals and all nested scopes. Discarding
// the root scope discards the whole runtime. Any signal elsewhere in the tree
// that still lists a signal of the discarded scopes as a listener forgets it,
// because the scope ids are about to be handed out again.
func (sc Scope) Discard() {
	rt := sc.rt
	if sc.IsRoot() {
		rt.Discard()
		return
	}

	discarded := rt.scopes.Discard(sc.id, nil)
	rt.scopes.ForEach(rt.scopes.Root(), func(_ arena.NodeID, s *scopeInner) {
		for i := range s.signals {
			s.signals[i].listeners = s.signals[i].listeners.without(discarded)
		}
	})
}
