// Package arena is a hierarchical node store backed by one flat slice. Nodes
// are addressed by small integer ids instead of pointers; the parent, last
// child and previous sibling edges are ids into the same slice. Freed slots
// are handed out again before the slice grows, so an id held across a discard
// may come back attached to an unrelated node.
package arena

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/scopedsignals/walk"
)

// NodeID is a 1-based slot index. The zero value means "no node".
type NodeID uint32

const (
	NoNode NodeID = 0
	RootID NodeID = 1

	MaxNodeID = math.MaxUint32
)

func (id NodeID) IsValid() bool { return id != NoNode }

type node[T any] struct {
	data        T
	parent      NodeID
	lastChild   NodeID
	prevSibling NodeID
}

func (n *node[T]) reset() {
	var zero T
	n.data = zero
	n.parent = NoNode
	n.lastChild = NoNode
	n.prevSibling = NoNode
}

// Tree owns every node. Slot 0 is a sentinel that is never handed out and the
// root always lives in slot 1. A slot other than the root is free iff it has
// no parent.
type Tree[T any] struct {
	nodes        []node[T]
	availability slotAllocator
	initialized  bool
}

func New[T any]() *Tree[T] {
	return &Tree[T]{}
}

func (t *Tree[T]) IsInitialized() bool {
	return t.initialized
}

// Init installs the root. The tree must not be initialized already: discard it
// with DiscardAll before reusing it.
func (t *Tree[T]) Init(data T) NodeID {
	if t.initialized {
		panic("arena: tree already initialized, did you forget to discard it before reusing it?")
	}
	t.nodes = append(t.nodes[:0], node[T]{}, node[T]{data: data})
	t.initialized = true
	return RootID
}

func (t *Tree[T]) Root() NodeID {
	t.mustBeInitialized()
	return RootID
}

func (t *Tree[T]) mustBeInitialized() {
	if !t.initialized {
		panic("arena: tree is not initialized")
	}
}

// IsUsed reports whether id addresses a live node.
func (t *Tree[T]) IsUsed(id NodeID) bool {
	idx := int(id)
	if !t.initialized || idx == 0 || idx >= len(t.nodes) {
		return false
	}
	return id == RootID || t.nodes[idx].parent != NoNode
}

func (t *Tree[T]) mustBeUsed(id NodeID) *node[T] {
	if !t.IsUsed(id) {
		panic("arena: node is not in use")
	}
	return &t.nodes[id]
}

// Get returns the payload of a live node. The pointer is only valid until the
// next AddChild, which may grow the backing slice.
func (t *Tree[T]) Get(id NodeID) *T {
	return &t.mustBeUsed(id).data
}

// Len is the size of the backing slice, used and free slots alike.
func (t *Tree[T]) Len() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return len(t.nodes) - 1
}

func (t *Tree[T]) Parent(id NodeID) (NodeID, bool) {
	p := t.nodes[id].parent
	return p, p != NoNode
}

func (t *Tree[T]) LastChild(id NodeID) (NodeID, bool) {
	c := t.nodes[id].lastChild
	return c, c != NoNode
}

func (t *Tree[T]) PrevSibling(id NodeID) (NodeID, bool) {
	s := t.nodes[id].prevSibling
	return s, s != NoNode
}

// Children lists the children of id in insertion order.
func (t *Tree[T]) Children(id NodeID) []NodeID {
	var children []NodeID
	for c := t.mustBeUsed(id).lastChild; c != NoNode; c = t.nodes[c].prevSibling {
		children = append(children, c)
	}
	for i, j := 0, len(children)-1; i < j; i, j = i+1, j-1 {
		children[i], children[j] = children[j], children[i]
	}
	return children
}

func (t *Tree[T]) allocate() NodeID {
	isUsed := func(idx int) bool {
		return idx == 0 || idx >= len(t.nodes) || t.IsUsed(NodeID(idx))
	}
	if idx, ok := t.availability.takeFree(isUsed); ok {
		return NodeID(idx)
	}

	idx := len(t.nodes)
	if uint64(idx) > MaxNodeID {
		panic("arena: too many nodes")
	}
	t.nodes = append(t.nodes, node[T]{})
	return NodeID(idx)
}

// AddChild links a new node as the last child of parent.
func (t *Tree[T]) AddChild(parent NodeID, data T) NodeID {
	t.mustBeInitialized()
	prevSibling := t.mustBeUsed(parent).lastChild

	id := t.allocate()
	n := &t.nodes[id]
	n.data = data
	n.parent = parent
	n.prevSibling = prevSibling
	n.lastChild = NoNode

	t.nodes[parent].lastChild = id
	return id
}

// Detach unlinks id from its parent's child chain. It is a no-op for the root
// and for free slots.
func (t *Tree[T]) Detach(id NodeID) {
	parent := t.nodes[id].parent
	if parent == NoNode {
		return
	}

	prev := NoNode
	for curr := t.nodes[parent].lastChild; curr != NoNode; curr = t.nodes[curr].prevSibling {
		if curr == id {
			next := t.nodes[curr].prevSibling
			if prev == NoNode {
				t.nodes[parent].lastChild = next
			} else {
				t.nodes[prev].prevSibling = next
			}
			return
		}
		prev = curr
	}
	panic("arena: node is missing from its parent's children")
}

// Discard detaches id and frees it together with all of its descendants,
// children strictly before their parents. onEach sees every payload before it
// is wiped. The returned set holds every freed id.
func (t *Tree[T]) Discard(id NodeID, onEach func(id NodeID, data *T)) mapset.Set[NodeID] {
	t.mustBeUsed(id)
	if id == RootID {
		panic("arena: discard the root with DiscardAll")
	}
	t.Detach(id)

	discarded := mapset.NewThreadUnsafeSet[NodeID]()
	walk.NewPostOrder[NodeID](t, id).ForEach(func(current NodeID) {
		if onEach != nil {
			onEach(current, &t.nodes[current].data)
		}
		t.nodes[current].reset()
		t.availability.markFree(int(current))
		discarded.Add(current)
	})
	return discarded
}

// DiscardAll drops every node and returns the tree to its uninitialized
// state.
func (t *Tree[T]) DiscardAll() {
	t.mustBeInitialized()
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.availability.reset()
	t.initialized = false
}

// ForEach visits every live node under start, start included, children before
// parents.
func (t *Tree[T]) ForEach(start NodeID, fn func(id NodeID, data *T)) {
	t.mustBeUsed(start)
	walk.NewPostOrder[NodeID](t, start).ForEach(func(id NodeID) {
		fn(id, &t.nodes[id].data)
	})
}

// UsedIDs lists the live ids in ascending order.
func (t *Tree[T]) UsedIDs() []NodeID {
	var ids []NodeID
	for i := 1; i < len(t.nodes); i++ {
		if t.IsUsed(NodeID(i)) {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}
