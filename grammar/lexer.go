package grammar

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Token kinds. Each kind except TokenError and TokenEOF is a production of
// the token notation.
const (
	TokenComment = "Comment"
	TokenArrow   = "Arrow"
	TokenBar     = "Bar"
	TokenSymbol  = "Symbol"
	TokenSpace   = "Space"
	TokenError   = "Error"
	TokenEOF     = "EOF"
)

const tokensStart = "Tokens"

//go:embed tokens.ebnf
var tokensText string

// tokenKinds is the order in which equally long matches win.
var tokenKinds = []string{TokenComment, TokenArrow, TokenBar, TokenSymbol, TokenSpace}

var tokenGrammar = sync.OnceValues(func() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("tokens.ebnf", strings.NewReader(tokensText))
	if err != nil {
		return nil, fmt.Errorf("parse tokens: %w", err)
	}
	if err := ebnf.Verify(g, tokensStart); err != nil {
		return nil, fmt.Errorf("verify tokens: %w", err)
	}
	return g, nil
})

// Position is a location in a rule file. Line and Column are 1-based;
// Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind string
	Text string
	Pos  Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Text)
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Text)
}

type memoKey struct {
	name   string
	offset int
}

// match is a memoized production result. A matched result may be empty.
type match struct {
	length  int
	matched bool
}

// Lexer splits rule files into tokens by matching the productions of the
// token notation at each offset and keeping the longest match.
type Lexer struct {
	grammar   ebnf.Grammar
	input     string
	pos       int
	line      int
	column    int
	lineStart bool
	memo      map[memoKey]match
	visiting  map[memoKey]bool
}

func NewLexer(input string) (*Lexer, error) {
	g, err := tokenGrammar()
	if err != nil {
		return nil, err
	}
	return &Lexer{
		grammar:   g,
		input:     input,
		line:      1,
		column:    1,
		lineStart: true,
	}, nil
}

func (l *Lexer) Position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) advance(n int) {
	for _, ch := range []byte(l.input[l.pos : l.pos+n]) {
		if ch == '\n' {
			l.line++
			l.column = 1
			l.lineStart = true
		} else {
			l.column++
			if ch != ' ' && ch != '\t' && ch != '\r' {
				l.lineStart = false
			}
		}
	}
	l.pos += n
}

// NextToken returns the next token, or a TokenEOF token and io.EOF at the
// end of the input. A comment is only recognized as the first token of a
// line, and a symbol never runs into an arrow.
func (l *Lexer) NextToken() (Token, error) {
	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: start}, io.EOF
	}

	l.memo = make(map[memoKey]match)

	var bestKind string
	var bestLen int
	for _, kind := range tokenKinds {
		if kind == TokenComment && !l.lineStart {
			continue
		}
		l.visiting = make(map[memoKey]bool)
		n, ok := l.tryMatch(l.grammar[kind].Expr, l.pos)
		if !ok {
			continue
		}
		if kind == TokenSymbol {
			if i := strings.Index(l.input[l.pos:l.pos+n], Arrow); i >= 0 {
				n = i
			}
		}
		if n > bestLen {
			bestLen = n
			bestKind = kind
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		text := l.input[l.pos : l.pos+size]
		l.advance(size)
		return Token{Kind: TokenError, Text: text, Pos: start}, nil
	}

	text := l.input[l.pos : l.pos+bestLen]
	l.advance(bestLen)
	return Token{Kind: bestKind, Text: text, Pos: start}, nil
}

// tryMatch reports the length of the longest match of expr at offset and
// whether expr matched at all. Repetitions and options match with length 0.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case *ebnf.Token:
		if strings.HasPrefix(l.input[offset:], e.String) {
			return len(e.String), true
		}
		return 0, false

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := l.tryMatch(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.tryMatch(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched

	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := l.tryMatch(e.Body, offset+total)
			if !ok || n == 0 {
				return total, true
			}
			total += n
		}

	case *ebnf.Option:
		n, _ := l.tryMatch(e.Body, offset)
		return n, true

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)
	}
	return 0, false
}

func (l *Lexer) tryMatchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}
	if m, ok := l.memo[key]; ok {
		return m.length, m.matched
	}
	// Left recursion at the same offset does not match.
	if l.visiting[key] {
		return 0, false
	}
	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = match{}
		return 0, false
	}

	l.visiting[key] = true
	n, matched := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = match{length: n, matched: matched}
	return n, matched
}

func (l *Lexer) tryMatchRange(begin, end string, offset int) (int, bool) {
	if offset >= len(l.input) {
		return 0, false
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRuneInString(l.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return 0, false
	}
	if r >= lo && r <= hi {
		return size, true
	}
	return 0, false
}

// Tokenize returns every token of the input, ending with a TokenEOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens
		}
	}
}

// Lex tokenizes a rule file.
func Lex(text string) ([]Token, error) {
	l, err := NewLexer(text)
	if err != nil {
		return nil, err
	}
	return l.Tokenize(), nil
}

// TokenAt returns the token covering byte offset, if any.
func TokenAt(tokens []Token, offset int) (Token, bool) {
	for _, tok := range tokens {
		if tok.Kind == TokenEOF {
			break
		}
		if offset >= tok.Pos.Offset && offset < tok.End() {
			return tok, true
		}
	}
	return Token{}, false
}
