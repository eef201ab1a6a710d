// Package derivation enumerates every parse tree of a sentence under a CNF
// grammar.
//
// Build fills a square table whose cell (left, right) lists the partial
// parses of tokens[left:right]. Each entry records the rule symbol it was
// reduced to and, for spans longer than one token, the split point and the
// indices of its two children in the neighbouring cells. Ambiguous parses are
// kept side by side in the same cell.
package derivation

import (
	"fmt"

	"github.com/dhamidi/cyk/grammar"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cyk.derivation")

// Node is a partial parse of one span. A leaf node reduces a single token by
// a terminal rule and has Middle == -1. An internal node combines
// Cell(left, Middle)[Left] and Cell(Middle, right)[Right].
type Node struct {
	Rule   string
	Token  string
	Middle int
	Left   int
	Right  int
}

// IsLeaf reports whether n reduces a single token.
func (n Node) IsLeaf() bool {
	return n.Middle < 0
}

func (n Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%s -> %s", n.Rule, n.Token)
	}
	return fmt.Sprintf("%s @%d [%d %d]", n.Rule, n.Middle, n.Left, n.Right)
}

// Table holds the partial parses of every span of a sentence.
type Table struct {
	tokens []string
	cells  [][][]Node
}

// Build fills a derivation table for tokens bottom-up by span length.
//
// Within a cell, nodes appear in this order: terminal matches first, then by
// increasing split point, then by left child, right child and rule order.
// Equivalent derivations are not merged.
func Build(g *grammar.Grammar, tokens []string) *Table {
	n := len(tokens)
	t := &Table{
		tokens: append([]string(nil), tokens...),
		cells:  make([][][]Node, n+1),
	}
	for i := range t.cells {
		t.cells[i] = make([][]Node, n+1)
	}

	for i, tok := range t.tokens {
		for _, lhs := range g.LeftHandSidesForTerminal(tok) {
			t.cells[i][i+1] = append(t.cells[i][i+1], Node{Rule: lhs, Token: tok, Middle: -1})
		}
	}

	for length := 2; length <= n; length++ {
		for left := 0; left+length <= n; left++ {
			right := left + length
			for mid := left + 1; mid < right; mid++ {
				t.combine(g, left, mid, right)
			}
		}
	}

	if n > 0 {
		log.Debug("derivation table built", "tokens", n, "roots", len(t.cells[0][n]))
	}
	return t
}

func (t *Table) combine(g *grammar.Grammar, left, mid, right int) {
	for li, ln := range t.cells[left][mid] {
		for ri, rn := range t.cells[mid][right] {
			for _, lhs := range g.LeftHandSidesForPair(ln.Rule, rn.Rule) {
				t.cells[left][right] = append(t.cells[left][right], Node{
					Rule:   lhs,
					Middle: mid,
					Left:   li,
					Right:  ri,
				})
			}
		}
	}
}

// Len returns the number of tokens.
func (t *Table) Len() int {
	return len(t.tokens)
}

// Tokens returns the parsed token sequence.
func (t *Table) Tokens() []string {
	return t.tokens
}

// Cell returns the partial parses of tokens[left:right]. The result must not
// be modified.
func (t *Table) Cell(left, right int) []Node {
	if left < 0 || right >= len(t.cells) || left >= right {
		return nil
	}
	return t.cells[left][right]
}

// Roots returns the partial parses covering the whole sentence.
func (t *Table) Roots() []Node {
	return t.Cell(0, len(t.tokens))
}

// Count returns the number of nodes in the table.
func (t *Table) Count() int {
	total := 0
	for _, row := range t.cells {
		for _, cell := range row {
			total += len(cell)
		}
	}
	return total
}
