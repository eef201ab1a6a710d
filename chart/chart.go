// Package chart decides membership of a token sequence in the language of a
// CNF grammar using the CYK algorithm.
//
// The chart is triangular: row r holds the spans of length r+1, and column c
// is the position of the span's first token. For a sentence of N tokens row 0
// has N cells and row N-1 has exactly one, the cell for the whole sentence.
package chart

import (
	"fmt"
	"strings"

	"github.com/dhamidi/cyk/grammar"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cyk.chart")

// Symbols is an insertion-ordered set of grammar symbols.
type Symbols []string

// Contains reports whether sym is in the set.
func (s Symbols) Contains(sym string) bool {
	for _, x := range s {
		if x == sym {
			return true
		}
	}
	return false
}

// Add appends every symbol not already present and reports whether the set grew.
func (s *Symbols) Add(syms ...string) bool {
	grew := false
	for _, sym := range syms {
		if !s.Contains(sym) {
			*s = append(*s, sym)
			grew = true
		}
	}
	return grew
}

func (s Symbols) Clone() Symbols {
	if s == nil {
		return nil
	}
	return append(Symbols{}, s...)
}

func (s Symbols) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}

// Chart is a filled CYK membership chart. A cell that was never written is nil.
type Chart struct {
	tokens   []string
	cells    [][]Symbols
	start    string
	accepted bool
}

func allocate(n int) [][]Symbols {
	cells := make([][]Symbols, n)
	for row := range cells {
		cells[row] = make([]Symbols, n-row)
	}
	return cells
}

// Len returns the number of tokens the chart was built for.
func (c *Chart) Len() int {
	return len(c.tokens)
}

// Tokens returns the parsed token sequence.
func (c *Chart) Tokens() []string {
	return c.tokens
}

// Start returns the start symbol the chart was checked against.
func (c *Chart) Start() string {
	return c.start
}

// Accepted reports whether the start symbol derives the whole sentence.
func (c *Chart) Accepted() bool {
	return c.accepted
}

// Cell returns the symbols of the cell at (row, col), or nil if the cell is
// out of range or was never written.
func (c *Chart) Cell(row, col int) Symbols {
	if row < 0 || row >= len(c.cells) || col < 0 || col >= len(c.cells[row]) {
		return nil
	}
	return c.cells[row][col]
}

// Span returns the symbols deriving tokens[start:end].
func (c *Chart) Span(start, end int) Symbols {
	return c.Cell(end-start-1, start)
}

func (c *Chart) String() string {
	var sb strings.Builder
	for row := len(c.cells) - 1; row >= 0; row-- {
		for col, cell := range c.cells[row] {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cell.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Build fills a chart for tokens bottom-up by span length and reports every
// step to l, which may be nil. The grammar is not modified.
func Build(g *grammar.Grammar, tokens []string, l Listener) *Chart {
	if l == nil {
		l = NopListener{}
	}

	n := len(tokens)
	c := &Chart{
		tokens: append([]string(nil), tokens...),
		cells:  allocate(n),
	}
	c.start, _ = g.Start()

	l.Start(c.tokens)

	for y, tok := range c.tokens {
		l.ActiveCellChanged(0, y)
		c.cells[0][y] = Symbols{}
		c.cells[0][y].Add(g.LeftHandSidesForTerminal(tok)...)
		l.CellUpdated(0, y, c.cells[0][y])
	}

	for length := 2; length <= n; length++ {
		row := length - 1
		for start := 0; start+length <= n; start++ {
			l.ActiveCellChanged(row, start)
			c.fill(g, l, row, start)
		}
	}

	c.accepted = c.accepts()
	log.Debug("chart built", "tokens", n, "accepted", c.accepted)
	l.End(c.accepted)
	return c
}

// fill computes the cell for the span of length row+1 starting at start.
func (c *Chart) fill(g *grammar.Grammar, l Listener, row, start int) {
	length := row + 1
	for k := 1; k < length; k++ {
		lrow, lcol := k-1, start
		rrow, rcol := length-k-1, start+k

		l.AttemptMatch(lrow, lcol, rrow, rcol)
		left, right := c.cells[lrow][lcol], c.cells[rrow][rcol]
		for _, a := range left {
			for _, b := range right {
				lhs := g.LeftHandSidesForPair(a, b)
				if len(lhs) == 0 {
					continue
				}
				if c.cells[row][start] == nil {
					c.cells[row][start] = Symbols{}
				}
				c.cells[row][start].Add(lhs...)
				l.FoundMatch(lrow, lcol, rrow, rcol)
				l.CellUpdated(row, start, c.cells[row][start])
			}
		}
	}
}

func (c *Chart) accepts() bool {
	n := len(c.tokens)
	if n == 0 || c.start == "" {
		return false
	}
	return c.cells[n-1][0].Contains(c.start)
}

// Accept reports whether g derives tokens from its start symbol.
func Accept(g *grammar.Grammar, tokens []string, l Listener) bool {
	return Build(g, tokens, l).Accepted()
}

// CellLabel renders a cell address as used in traces, e.g. "(2,0)".
func CellLabel(row, col int) string {
	return fmt.Sprintf("(%d,%d)", row, col)
}
