package grammar

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// SyntaxStart is the top-level production of the rule file notation.
const SyntaxStart = "RuleFile"

//go:embed syntax.ebnf
var syntaxText string

// SyntaxText returns the notation of grammar files in EBNF.
func SyntaxText() string {
	return syntaxText
}

// Syntax parses and verifies the rule file notation.
func Syntax() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("syntax.ebnf", strings.NewReader(syntaxText))
	if err != nil {
		return nil, fmt.Errorf("parse syntax: %w", err)
	}
	if err := ebnf.Verify(g, SyntaxStart); err != nil {
		return nil, fmt.Errorf("verify syntax: %w", err)
	}
	return g, nil
}
