// Package walk holds the two iterative traversals used by the arena tree and
// the propagation engine. Neither walk recurses.
package walk

// Links is the id to id relation of a first-child/next-sibling style tree
// where children hang off the parent's last child and chain backwards through
// their previous sibling.
type Links[ID comparable] interface {
	LastChild(id ID) (ID, bool)
	PrevSibling(id ID) (ID, bool)
	Parent(id ID) (ID, bool)
}

// PostOrder yields every node below start before the node itself and yields
// start last. The caller may reset the node it was just handed; the walk has
// already read everything it needs from it.
type PostOrder[ID comparable] struct {
	links Links[ID]
	start ID
	next  ID
	done  bool
}

func NewPostOrder[ID comparable](links Links[ID], start ID) *PostOrder[ID] {
	return &PostOrder[ID]{
		links: links,
		start: start,
		next:  drillDown(links, start),
	}
}

func drillDown[ID comparable](links Links[ID], id ID) ID {
	for {
		child, ok := links.LastChild(id)
		if !ok {
			return id
		}
		id = child
	}
}

func (w *PostOrder[ID]) Next() (ID, bool) {
	var zero ID
	if w.done {
		return zero, false
	}

	current := w.next
	if current == w.start {
		w.done = true
		return current, true
	}

	if prev, ok := w.links.PrevSibling(current); ok {
		w.next = drillDown(w.links, prev)
	} else if parent, ok := w.links.Parent(current); ok {
		// all of the parent's children have been handed out
		w.next = parent
	} else {
		panic("walk: post-order walk reached a detached node before its start")
	}
	return current, true
}

// ForEach drains the walk.
func (w *PostOrder[ID]) ForEach(fn func(id ID)) {
	for id, ok := w.Next(); ok; id, ok = w.Next() {
		fn(id)
	}
}
