package derivation

import (
	"fmt"
	"strings"
)

// Tree is a reconstructed derivation. Terminal trees carry a Token and no
// children; every other tree is labelled with a grammar symbol and has either
// one terminal child or two subtrees.
type Tree struct {
	Label    string
	Token    string
	Children []*Tree
}

// IsTerminal reports whether t is a token leaf.
func (t *Tree) IsTerminal() bool {
	return len(t.Children) == 0
}

// Leaves returns the tokens at the frontier of t, left to right.
func (t *Tree) Leaves() []string {
	var out []string
	var walk func(*Tree)
	walk = func(n *Tree) {
		if n.IsTerminal() {
			out = append(out, n.Token)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t)
	return out
}

// Depth returns the number of symbol levels above the deepest token.
func (t *Tree) Depth() int {
	if t.IsTerminal() {
		return 0
	}
	d := 0
	for _, c := range t.Children {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// String renders t in bracketed form, e.g. (S (NP she) (VP eats)).
func (t *Tree) String() string {
	var sb strings.Builder
	t.writeBracketed(&sb)
	return sb.String()
}

func (t *Tree) writeBracketed(sb *strings.Builder) {
	if t.IsTerminal() {
		sb.WriteString(t.Token)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Label)
	for _, c := range t.Children {
		sb.WriteByte(' ')
		c.writeBracketed(sb)
	}
	sb.WriteByte(')')
}

// Equal reports whether t and o have the same shape, labels and tokens.
func (t *Tree) Equal(o *Tree) bool {
	if t.Label != o.Label || t.Token != o.Token || len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Tree reconstructs the derivation rooted at Cell(left, right)[index].
func (t *Table) Tree(left, right, index int) (*Tree, error) {
	cell := t.Cell(left, right)
	if index < 0 || index >= len(cell) {
		return nil, fmt.Errorf("no node %d in span [%d,%d)", index, left, right)
	}
	return t.build(left, right, index), nil
}

// build walks backpointers. Spans strictly shrink so recursion terminates
// after at most Len() levels.
func (t *Table) build(left, right, index int) *Tree {
	n := t.cells[left][right][index]
	if n.IsLeaf() {
		return &Tree{
			Label:    n.Rule,
			Children: []*Tree{{Token: n.Token}},
		}
	}
	return &Tree{
		Label: n.Rule,
		Children: []*Tree{
			t.build(left, n.Middle, n.Left),
			t.build(n.Middle, right, n.Right),
		},
	}
}

// Trees reconstructs one tree per root node labelled start. An empty start
// returns the trees of every root node.
func (t *Table) Trees(start string) []*Tree {
	var out []*Tree
	for i, n := range t.Roots() {
		if start != "" && n.Rule != start {
			continue
		}
		out = append(out, t.build(0, len(t.tokens), i))
	}
	return out
}
