package scoped

import (
	"cmp"
	"fmt"

	"github.com/delaneyj/scopedsignals/arena"
)

// MaxSignalsPerScope is the largest in-scope index a SignalID can carry.
const MaxSignalsPerScope = 1<<15 - 1

// SignalID addresses a signal as the scope that owns it plus its position in
// that scope. Ids order by scope, then by position, which is creation order
// inside a scope. gen stamps the scope instance, so an id kept past a discard
// never matches a signal of a later scope in the same slot.
type SignalID struct {
	scope arena.NodeID
	index uint16
	gen   uint32
}

func (id SignalID) Scope() arena.NodeID { return id.scope }
func (id SignalID) Index() int          { return int(id.index & MaxSignalsPerScope) }
func (id SignalID) IsValid() bool       { return id.scope != arena.NoNode }

func (id SignalID) Compare(other SignalID) int {
	if c := cmp.Compare(id.scope, other.scope); c != 0 {
		return c
	}
	if c := cmp.Compare(id.index&MaxSignalsPerScope, other.index&MaxSignalsPerScope); c != 0 {
		return c
	}
	return cmp.Compare(id.gen, other.gen)
}

func (id SignalID) String() string {
	return fmt.Sprintf("%d:%d", id.scope, id.Index())
}
