package grammar

import (
	"fmt"
	"strings"
)

// Arrow separates a rule's left-hand side from its alternatives.
const Arrow = "->"

// SyntaxError describes a rule line that is not valid CNF.
type SyntaxError struct {
	Line int    // 1-based line number in the source text
	Text string // the offending line, trimmed
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// ErrorList collects every syntax error found in a grammar.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// Unwrap lets errors.As reach the individual syntax errors.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

type line struct {
	number int
	text   string
}

// ruleLines returns the non-blank, non-comment lines of text with duplicates
// removed, keeping the first occurrence of each.
func ruleLines(text string) []line {
	var out []line
	seen := make(map[string]bool)
	for i, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, line{number: i + 1, text: s})
	}
	return out
}

// Compile parses CNF rule text into a Grammar.
//
// Compilation is strict: if any rule line is malformed the whole grammar is
// rejected and the returned error is an ErrorList naming every bad line.
func Compile(text string) (*Grammar, error) {
	g := newGrammar()
	var errs ErrorList

	for _, ln := range ruleLines(text) {
		if err := g.compileLine(ln); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return g, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Grammar {
	g, err := Compile(text)
	if err != nil {
		panic("grammar: " + err.Error())
	}
	return g
}

func (g *Grammar) compileLine(ln line) *SyntaxError {
	fail := func(format string, args ...any) *SyntaxError {
		return &SyntaxError{Line: ln.number, Text: ln.text, Msg: fmt.Sprintf(format, args...)}
	}

	lhs, rhs, ok := strings.Cut(ln.text, Arrow)
	if !ok {
		return fail("missing %q", Arrow)
	}
	lhs = strings.TrimSpace(lhs)
	switch len(strings.Fields(lhs)) {
	case 0:
		return fail("missing left-hand side")
	case 1:
	default:
		return fail("left-hand side must be a single symbol")
	}

	alternatives := strings.Split(rhs, "|")
	parsed := make([][]string, len(alternatives))
	for i, alt := range alternatives {
		symbols := strings.Fields(alt)
		switch len(symbols) {
		case 1, 2:
			parsed[i] = symbols
		case 0:
			return fail("alternative %d is empty", i+1)
		default:
			return fail("alternative %d has %d symbols, want 1 or 2", i+1, len(symbols))
		}
	}

	// Only register once the whole line is known to be valid.
	for _, symbols := range parsed {
		if len(symbols) == 1 {
			g.addTerminal(TerminalRule{LHS: lhs, Terminal: symbols[0], Line: ln.number})
			continue
		}
		g.addBinary(BinaryRule{LHS: lhs, Left: symbols[0], Right: symbols[1], Line: ln.number})
	}
	return nil
}
