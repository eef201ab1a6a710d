// Package cyk is the entry point for CYK parsing of CNF grammars.
//
// CheckAcceptance answers whether a sentence belongs to the language of a
// grammar and reports the chart construction to a listener. EnumerateTrees
// returns every derivation of the sentence from the grammar's start symbol.
package cyk

import (
	"errors"
	"strings"

	"github.com/dhamidi/cyk/chart"
	"github.com/dhamidi/cyk/derivation"
	"github.com/dhamidi/cyk/grammar"
)

// ErrEmptyInput is reported by Validate for sentences without tokens.
var ErrEmptyInput = errors.New("empty input")

// Tokenize splits sentence on whitespace.
func Tokenize(sentence string) []string {
	return strings.Fields(sentence)
}

// CheckAcceptance compiles grammarText and reports whether it derives
// sentence. Every chart construction step is reported to l, which may be nil.
// An error is returned only if the grammar does not compile.
func CheckAcceptance(grammarText, sentence string, l chart.Listener) (bool, error) {
	g, err := grammar.Compile(grammarText)
	if err != nil {
		return false, err
	}
	return chart.Accept(g, Tokenize(sentence), l), nil
}

// EnumerateTrees compiles grammarText and returns one tree per derivation of
// sentence from the start symbol, in table order.
func EnumerateTrees(grammarText, sentence string) ([]*derivation.Tree, error) {
	g, err := grammar.Compile(grammarText)
	if err != nil {
		return nil, err
	}
	start, ok := g.Start()
	if !ok {
		return nil, nil
	}
	return derivation.Build(g, Tokenize(sentence)).Trees(start), nil
}

// Option configures a Parser.
type Option func(*Parser)

// WithListener reports chart construction of every Check to l.
func WithListener(l chart.Listener) Option {
	return func(p *Parser) {
		p.listener = l
	}
}

// WithNormalizer rewrites every sentence with n before tokenizing it.
func WithNormalizer(n *Normalizer) Option {
	return func(p *Parser) {
		p.normalizer = n
	}
}

// Parser parses sentences against one compiled grammar.
type Parser struct {
	grammar    *grammar.Grammar
	listener   chart.Listener
	normalizer *Normalizer
}

// NewParser compiles grammarText.
func NewParser(grammarText string, opts ...Option) (*Parser, error) {
	g, err := grammar.Compile(grammarText)
	if err != nil {
		return nil, err
	}
	return NewParserFromGrammar(g, opts...), nil
}

// NewParserFromGrammar wraps an already compiled grammar.
func NewParserFromGrammar(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{grammar: g}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grammar returns the compiled grammar.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Tokens normalizes and tokenizes sentence.
func (p *Parser) Tokens(sentence string) []string {
	if p.normalizer != nil {
		sentence = p.normalizer.Normalize(sentence)
	}
	return Tokenize(sentence)
}

// Validate returns ErrEmptyInput if sentence has no tokens.
func (p *Parser) Validate(sentence string) error {
	if len(p.Tokens(sentence)) == 0 {
		return ErrEmptyInput
	}
	return nil
}

// Chart builds the membership chart for sentence.
func (p *Parser) Chart(sentence string) *chart.Chart {
	return chart.Build(p.grammar, p.Tokens(sentence), p.listener)
}

// Check reports whether sentence is in the language.
func (p *Parser) Check(sentence string) bool {
	return p.Chart(sentence).Accepted()
}

// Table builds the derivation table for sentence.
func (p *Parser) Table(sentence string) *derivation.Table {
	return derivation.Build(p.grammar, p.Tokens(sentence))
}

// Trees returns the derivations of sentence from the start symbol.
func (p *Parser) Trees(sentence string) []*derivation.Tree {
	start, ok := p.grammar.Start()
	if !ok {
		return nil
	}
	return p.Table(sentence).Trees(start)
}
