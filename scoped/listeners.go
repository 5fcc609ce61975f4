package scoped

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/scopedsignals/arena"
)

// listenerSet is kept sorted by SignalID and is copy on write: a slice handed
// to a propagation walk never changes underneath it.
type listenerSet []SignalID

func (l listenerSet) insert(id SignalID) listenerSet {
	i, found := slices.BinarySearchFunc(l, id, SignalID.Compare)
	if found {
		return l
	}
	next := make(listenerSet, 0, len(l)+1)
	next = append(next, l[:i]...)
	next = append(next, id)
	return append(next, l[i:]...)
}

// without drops every listener owned by one of the discarded scopes.
func (l listenerSet) without(discarded mapset.Set[arena.NodeID]) listenerSet {
	keep := 0
	for _, id := range l {
		if !discarded.Contains(id.scope) {
			keep++
		}
	}
	if keep == len(l) {
		return l
	}
	if keep == 0 {
		return nil
	}

	next := make(listenerSet, 0, keep)
	for _, id := range l {
		if !discarded.Contains(id.scope) {
			next = append(next, id)
		}
	}
	return next
}
