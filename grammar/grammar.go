// Package grammar compiles context-free grammars in Chomsky Normal Form.
//
// A grammar is written one rule per line:
//
//	# comment
//	S  -> NP VP
//	NP -> Det N | she
//
// Every alternative is either a single terminal or exactly two non-terminals.
package grammar

import (
	"fmt"
	"strings"
)

// Pair is the lookup key for binary productions. Order matters.
type Pair struct {
	Left  string
	Right string
}

func (p Pair) String() string {
	return p.Left + " " + p.Right
}

// TerminalRule is a production of the form LHS -> terminal.
type TerminalRule struct {
	LHS      string
	Terminal string
	Line     int // 1-based line in the source text
}

func (r TerminalRule) String() string {
	return fmt.Sprintf("%s -> %s", r.LHS, r.Terminal)
}

// BinaryRule is a production of the form LHS -> Left Right.
type BinaryRule struct {
	LHS   string
	Left  string
	Right string
	Line  int
}

func (r BinaryRule) String() string {
	return fmt.Sprintf("%s -> %s %s", r.LHS, r.Left, r.Right)
}

// Grammar is a compiled CNF grammar. It is never modified after Compile returns.
type Grammar struct {
	terminalRules []TerminalRule
	binaryRules   []BinaryRule
	start         string
	hasStart      bool

	byTerminal map[string][]string
	byPair     map[Pair][]string
}

func newGrammar() *Grammar {
	return &Grammar{
		byTerminal: make(map[string][]string),
		byPair:     make(map[Pair][]string),
	}
}

func (g *Grammar) addTerminal(r TerminalRule) {
	if contains(g.byTerminal[r.Terminal], r.LHS) {
		return
	}
	g.terminalRules = append(g.terminalRules, r)
	g.byTerminal[r.Terminal] = append(g.byTerminal[r.Terminal], r.LHS)
}

func (g *Grammar) addBinary(r BinaryRule) {
	if !g.hasStart {
		g.start = r.LHS
		g.hasStart = true
	}
	key := Pair{Left: r.Left, Right: r.Right}
	if contains(g.byPair[key], r.LHS) {
		return
	}
	g.binaryRules = append(g.binaryRules, r)
	g.byPair[key] = append(g.byPair[key], r.LHS)
}

// Start returns the start symbol: the left-hand side of the first binary rule.
// The second result is false when the grammar has no binary rules.
func (g *Grammar) Start() (string, bool) {
	return g.start, g.hasStart
}

// LeftHandSidesForTerminal returns every symbol that derives token directly.
// The result is in rule order and must not be modified.
func (g *Grammar) LeftHandSidesForTerminal(token string) []string {
	return g.byTerminal[token]
}

// LeftHandSidesForPair returns every symbol X with a rule X -> left right.
// The result is in rule order and must not be modified.
func (g *Grammar) LeftHandSidesForPair(left, right string) []string {
	return g.byPair[Pair{Left: left, Right: right}]
}

// TerminalRules returns the terminal productions in source order.
func (g *Grammar) TerminalRules() []TerminalRule {
	return append([]TerminalRule(nil), g.terminalRules...)
}

// BinaryRules returns the binary productions in source order.
func (g *Grammar) BinaryRules() []BinaryRule {
	return append([]BinaryRule(nil), g.binaryRules...)
}

// Nonterminals returns all left-hand side symbols in first-seen order.
func (g *Grammar) Nonterminals() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	// binary rules first so the start symbol leads
	for _, r := range g.binaryRules {
		add(r.LHS)
	}
	for _, r := range g.terminalRules {
		add(r.LHS)
	}
	return out
}

// Undefined returns the symbols referenced on the right-hand side of a binary
// rule that never appear on a left-hand side. Such rules can never match.
func (g *Grammar) Undefined() []string {
	defined := make(map[string]bool)
	for _, nt := range g.Nonterminals() {
		defined[nt] = true
	}
	var out []string
	reported := make(map[string]bool)
	for _, r := range g.binaryRules {
		for _, sym := range []string{r.Left, r.Right} {
			if !defined[sym] && !reported[sym] {
				reported[sym] = true
				out = append(out, sym)
			}
		}
	}
	return out
}

// RulesFor returns the rules whose left-hand side is lhs, rendered as text.
func (g *Grammar) RulesFor(lhs string) []string {
	var out []string
	for _, r := range g.binaryRules {
		if r.LHS == lhs {
			out = append(out, r.String())
		}
	}
	for _, r := range g.terminalRules {
		if r.LHS == lhs {
			out = append(out, r.String())
		}
	}
	return out
}

// String renders the grammar with one production per line, binary rules first.
// The output compiles back to an equivalent grammar with the same start symbol.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, r := range g.binaryRules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	for _, r := range g.terminalRules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
