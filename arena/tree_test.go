package arena_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/delaneyj/scopedsignals/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(v int) string { return strconv.Itoa(v) }

// checkLinks verifies that every node reachable through the child chains
// points back at the parent owning the chain and that every other slot is
// free.
func checkLinks[T any](t *testing.T, tree *arena.Tree[T]) {
	t.Helper()
	_, hasParent := tree.Parent(tree.Root())
	require.False(t, hasParent, "root must not have a parent")

	reachable := map[arena.NodeID]bool{tree.Root(): true}
	stack := []arena.NodeID{tree.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range tree.Children(id) {
			parent, ok := tree.Parent(child)
			require.True(t, ok)
			require.Equal(t, id, parent, "child %d has the wrong parent", child)
			require.False(t, reachable[child], "child %d linked twice", child)
			reachable[child] = true
			stack = append(stack, child)
		}
	}

	for i := 1; i <= tree.Len(); i++ {
		id := arena.NodeID(i)
		assert.Equal(t, reachable[id], tree.IsUsed(id), "slot %d", i)
	}
}

type reuseFixture struct {
	tree       *arena.Tree[int]
	c1, c2, c3 arena.NodeID
}

func newReuseFixture() reuseFixture {
	tree := arena.New[int]()
	root := tree.Init(0)
	f := reuseFixture{tree: tree}
	f.c1 = tree.AddChild(root, 1)
	f.c2 = tree.AddChild(root, 2)
	f.c3 = tree.AddChild(root, 3)
	tree.AddChild(f.c2, 20)
	tree.AddChild(f.c2, 21)
	tree.AddChild(f.c2, 22)
	return f
}

func TestReuseIDs(t *testing.T) {
	f := newReuseFixture()
	tree := f.tree
	assert.Equal(t, "[1] 0, [2] 1, [3] 2, [4] 3, [5] 20, [6] 21, [7] 22", tree.DumpUsed(itoa))
	checkLinks(t, tree)

	discarded := tree.Discard(f.c2, nil)
	assert.ElementsMatch(t, []arena.NodeID{3, 5, 6, 7}, discarded.ToSlice())
	assert.Equal(t, "[1] 0, [2] 1, [4] 3", tree.DumpUsed(itoa))
	checkLinks(t, tree)

	c11 := tree.AddChild(f.c1, 11)
	c31 := tree.AddChild(f.c3, 31)
	assert.Equal(t, arena.NodeID(3), c11, "lowest freed id is reused first")
	assert.Equal(t, arena.NodeID(5), c31)
	assert.Equal(t, "[1] 0, [2] 1, [3] 11, [4] 3, [5] 31", tree.DumpUsed(itoa))
	assert.Equal(t, 7, tree.Len(), "no growth while freed slots remain")
	checkLinks(t, tree)

	tree.AddChild(f.c1, 12)
	tree.AddChild(f.c1, 13)
	tree.AddChild(f.c1, 14)
	assert.Equal(t, 8, tree.Len())
	checkLinks(t, tree)
}

func TestDiscardEachChild(t *testing.T) {
	cases := []struct {
		name    string
		discard func(f reuseFixture) []arena.NodeID
		want    string
	}{
		{"first", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{f.c1} }, "[1] 0, [3] 2, [4] 3, [5] 20, [6] 21, [7] 22"},
		{"middle", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{f.c2} }, "[1] 0, [2] 1, [4] 3"},
		{"last", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{f.c3} }, "[1] 0, [2] 1, [3] 2, [5] 20, [6] 21, [7] 22"},
		{"grandchildren", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{5, 6, 7} }, "[1] 0, [2] 1, [3] 2, [4] 3"},
		{"middle grandchild", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{6} }, "[1] 0, [2] 1, [3] 2, [4] 3, [5] 20, [7] 22"},
		{"all reversed", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{f.c3, f.c2, f.c1} }, "[1] 0"},
		{"all in order", func(f reuseFixture) []arena.NodeID { return []arena.NodeID{f.c1, f.c2, f.c3} }, "[1] 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newReuseFixture()
			for _, id := range tc.discard(f) {
				f.tree.Discard(id, nil)
			}
			assert.Equal(t, tc.want, f.tree.DumpUsed(itoa))
			checkLinks(t, f.tree)
		})
	}
}

func TestChildrenInsertionOrder(t *testing.T) {
	f := newReuseFixture()
	assert.Equal(t, []arena.NodeID{f.c1, f.c2, f.c3}, f.tree.Children(f.tree.Root()))
	assert.Equal(t, []arena.NodeID{5, 6, 7}, f.tree.Children(f.c2))
	assert.Empty(t, f.tree.Children(f.c3))
}

func TestDiscardPostOrder(t *testing.T) {
	tree := arena.New[string]()
	root := tree.Init("root")

	// a wide and deep subtree under one child of the root
	top := tree.AddChild(root, "top")
	parents := map[arena.NodeID]arena.NodeID{}
	level := []arena.NodeID{top}
	for depth := 0; depth < 4; depth++ {
		var next []arena.NodeID
		for _, p := range level {
			for i := 0; i < 3; i++ {
				c := tree.AddChild(p, fmt.Sprintf("%d.%d", depth, i))
				parents[c] = p
				next = append(next, c)
			}
		}
		level = next
	}
	sibling := tree.AddChild(root, "sibling")

	var order []arena.NodeID
	seen := map[arena.NodeID]bool{}
	payloads := 0
	discarded := tree.Discard(top, func(id arena.NodeID, data *string) {
		require.False(t, seen[id], "node %d visited twice", id)
		require.NotEmpty(t, *data, "payload is wiped after the callback")
		payloads++
		seen[id] = true
		order = append(order, id)
	})

	assert.Equal(t, len(parents)+1, payloads)
	assert.Equal(t, len(parents)+1, discarded.Cardinality())
	assert.Equal(t, top, order[len(order)-1], "the discarded node comes last")

	position := map[arena.NodeID]int{}
	for i, id := range order {
		position[id] = i
	}
	for child, parent := range parents {
		assert.Less(t, position[child], position[parent], "child %d before parent %d", child, parent)
	}

	assert.Equal(t, []arena.NodeID{root, sibling}, tree.UsedIDs())
	checkLinks(t, tree)
}

func TestDeepTree(t *testing.T) {
	tree := arena.New[int]()
	id := tree.Init(0)
	first := arena.NoNode
	for i := 1; i <= 5000; i++ {
		id = tree.AddChild(id, i)
		if first == arena.NoNode {
			first = id
		}
	}
	checkLinks(t, tree)

	discarded := tree.Discard(first, nil)
	assert.Equal(t, 5000, discarded.Cardinality())
	assert.Equal(t, []arena.NodeID{tree.Root()}, tree.UsedIDs())

	// refill entirely from freed slots
	id = tree.Root()
	for i := 1; i <= 5000; i++ {
		id = tree.AddChild(id, i)
	}
	assert.Equal(t, 5001, tree.Len())
	checkLinks(t, tree)
}

func TestReuseTree(t *testing.T) {
	tree := arena.New[int]()
	root := tree.Init(0)
	tree.AddChild(root, 1)
	assert.True(t, tree.IsInitialized())

	tree.DiscardAll()
	assert.False(t, tree.IsInitialized())
	assert.Zero(t, tree.Len())
	assert.Empty(t, tree.UsedIDs())

	root = tree.Init(10)
	assert.Equal(t, arena.RootID, root)
	c := tree.AddChild(root, 11)
	assert.Equal(t, arena.NodeID(2), c)
	assert.Equal(t, "[1] 10, [2] 11", tree.DumpUsed(itoa))
}

func TestGetAndMutate(t *testing.T) {
	tree := arena.New[[]string]()
	root := tree.Init(nil)
	c := tree.AddChild(root, nil)
	*tree.Get(c) = append(*tree.Get(c), "a")
	assert.Equal(t, []string{"a"}, *tree.Get(c))

	tree.Discard(c, nil)
	assert.Panics(t, func() { tree.Get(c) })

	// the slot comes back with an empty payload
	reused := tree.AddChild(root, nil)
	require.Equal(t, c, reused)
	assert.Nil(t, *tree.Get(reused))
}

func TestContractViolations(t *testing.T) {
	tree := arena.New[int]()
	assert.Panics(t, func() { tree.Root() })
	assert.Panics(t, func() { tree.AddChild(arena.RootID, 1) })

	root := tree.Init(0)
	assert.Panics(t, func() { tree.Init(0) }, "double init")
	assert.Panics(t, func() { tree.Discard(root, nil) }, "root goes through DiscardAll")

	c := tree.AddChild(root, 1)
	tree.Discard(c, nil)
	assert.Panics(t, func() { tree.Discard(c, nil) }, "double discard")
	assert.Panics(t, func() { tree.AddChild(c, 2) }, "add to a free slot")

	tree.DiscardAll()
	assert.Panics(t, func() { tree.DiscardAll() })
}

func TestDetachIsNoopForRoot(t *testing.T) {
	f := newReuseFixture()
	f.tree.Detach(f.tree.Root())
	assert.Equal(t, []arena.NodeID{f.c1, f.c2, f.c3}, f.tree.Children(f.tree.Root()))
}

func TestForEachVisitsLiveNodes(t *testing.T) {
	f := newReuseFixture()
	sum := 0
	f.tree.ForEach(f.tree.Root(), func(id arena.NodeID, data *int) {
		sum += *data
	})
	assert.Equal(t, 0+1+2+3+20+21+22, sum)
}

func TestASCII(t *testing.T) {
	tree := arena.New[string]()
	root := tree.Init("root")
	tree.AddChild(root, "c1")
	c2 := tree.AddChild(root, "c2")
	tree.AddChild(root, "c3")
	tree.AddChild(c2, "c2.0")

	out := tree.ASCII(func(s string) string { return s })
	for _, label := range []string{"root", "c1", "c2", "c2.0", "c3"} {
		assert.Contains(t, out, label)
	}
	assert.Less(t, strings.Index(out, "c1"), strings.Index(out, "c3"), "children render in insertion order")

	tree.Discard(c2, nil)
	out = tree.ASCII(func(s string) string { return s })
	assert.NotContains(t, out, "c2")
}
