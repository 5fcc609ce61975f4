package arena

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
)

// DumpUsed renders every live slot as "[id] payload", ascending by id.
func (t *Tree[T]) DumpUsed(format func(data T) string) string {
	ids := t.UsedIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("[%d] %s", id, format(t.nodes[id].data))
	}
	return strings.Join(parts, ", ")
}

// ASCII draws the tree below the root, children in insertion order.
func (t *Tree[T]) ASCII(format func(data T) string) string {
	if !t.initialized {
		return ""
	}
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedLight)
	t.appendItems(l, RootID, format)
	return l.Render()
}

func (t *Tree[T]) appendItems(l list.Writer, id NodeID, format func(data T) string) {
	l.AppendItem(format(t.nodes[id].data))
	children := t.Children(id)
	if len(children) == 0 {
		return
	}
	l.Indent()
	for _, child := range children {
		t.appendItems(l, child, format)
	}
	l.UnIndent()
}
