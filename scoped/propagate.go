package scoped

import (
	"github.com/delaneyj/scopedsignals/walk"
)

func (rt *Runtime) listenersOf(id SignalID) []SignalID {
	if !rt.live(id) {
		return nil
	}
	return rt.signal(id).listeners
}

// propagate recomputes the listeners of id depth first. A func whose value
// did not change keeps its own listeners out of the walk.
func (rt *Runtime) propagate(id SignalID) {
	w := walk.NewPrunable[SignalID](rt.listenersOf, id)
	for next, ok := w.Next(); ok; next, ok = w.Next() {
		if !rt.recompute(next) {
			w.SkipChildren()
		}
	}
}

func (rt *Runtime) recompute(id SignalID) (changed bool) {
	if !rt.live(id) {
		return false
	}
	recompute := rt.signal(id).recompute
	if recompute == nil {
		return false
	}

	prev := rt.setRunning(id)
	defer rt.setRunning(prev)
	return recompute()
}
