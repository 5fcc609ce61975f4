package walk

// Resolver maps an id to the ids that depend on it, in visiting order. The
// returned slice is treated as a snapshot and must not be mutated in place by
// the owner while the walk holds it.
type Resolver[ID any] func(id ID) []ID

type idIter[ID any] struct {
	ids []ID
	pos int
}

func (it *idIter[ID]) hasMore() bool {
	return it.pos < len(it.ids)
}

// Prunable walks the dependents of a start id depth first, yielding a node
// before its own dependents. Calling SkipChildren right after receiving a node
// drops that node's dependents from the walk. The start id itself is not
// yielded.
type Prunable[ID any] struct {
	resolve Resolver[ID]
	parents []idIter[ID]
	iter    idIter[ID]

	// dependents of the last yielded node, not descended into yet
	queued    idIter[ID]
	hasQueued bool
}

func NewPrunable[ID any](resolve Resolver[ID], start ID) *Prunable[ID] {
	return &Prunable[ID]{
		resolve: resolve,
		iter:    idIter[ID]{ids: resolve(start)},
	}
}

func (w *Prunable[ID]) SkipChildren() {
	w.hasQueued = false
	w.queued = idIter[ID]{}
}

func (w *Prunable[ID]) Next() (ID, bool) {
	if w.hasQueued {
		current := w.iter
		w.iter = w.queued
		w.hasQueued = false
		w.queued = idIter[ID]{}
		if current.hasMore() {
			w.parents = append(w.parents, current)
		}
	}

	if next, ok := w.nextAndQueue(); ok {
		return next, true
	}

	last := len(w.parents) - 1
	if last < 0 {
		var zero ID
		return zero, false
	}
	w.iter = w.parents[last]
	w.parents = w.parents[:last]

	next, ok := w.nextAndQueue()
	if !ok {
		panic("walk: an exhausted parent iterator was stacked")
	}
	return next, true
}

func (w *Prunable[ID]) nextAndQueue() (ID, bool) {
	if !w.iter.hasMore() {
		var zero ID
		return zero, false
	}
	next := w.iter.ids[w.iter.pos]
	w.iter.pos++

	if children := w.resolve(next); len(children) > 0 {
		w.queued = idIter[ID]{ids: children}
		w.hasQueued = true
	}
	return next, true
}
