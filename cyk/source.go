package cyk

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// replaceDirective marks a comment line declaring an input replacement:
//
//	# replace: "ko = không"
const replaceDirective = "replace:"

// Replacement rewrites every whole-word occurrence of From in a sentence to
// To. Both sides may span several words.
type Replacement struct {
	From string
	To   string
}

// Source is grammar text together with the input replacements declared in
// its comments.
type Source struct {
	Name         string
	Text         string
	Replacements []Replacement
}

// LoadSource reads a grammar file.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return ParseSource(path, string(data)), nil
}

// ParseSource scans text for replace directives. The rules themselves are
// left to grammar.Compile.
func ParseSource(name, text string) *Source {
	src := &Source{Name: name, Text: text}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		_, directive, ok := strings.Cut(line, replaceDirective)
		if !ok {
			continue
		}
		directive = strings.ReplaceAll(strings.TrimSpace(directive), `"`, "")
		from, to, ok := strings.Cut(directive, " = ")
		if !ok || from == "" {
			continue
		}
		src.Replacements = append(src.Replacements, Replacement{From: from, To: to})
	}
	return src
}

// Normalizer returns the input normalizer for sentences parsed against src.
func (src *Source) Normalizer() *Normalizer {
	return &Normalizer{Replacements: src.Replacements}
}

// Normalizer prepares raw sentences for tokenizing: the text is lowercased
// and the replacements are applied in declaration order. Replacements match
// whole words only, so "an = a" leaves "man" and "and" alone.
type Normalizer struct {
	Replacements []Replacement
}

// Normalize returns the rewritten sentence with its words separated by
// single spaces.
func (n *Normalizer) Normalize(sentence string) string {
	words := strings.Fields(strings.ToLower(sentence))
	for _, r := range n.Replacements {
		words = replaceWords(words, strings.Fields(strings.ToLower(r.From)), strings.Fields(r.To))
	}
	return strings.Join(words, " ")
}

// replaceWords rewrites each non-overlapping run of from in words to to,
// scanning left to right.
func replaceWords(words, from, to []string) []string {
	if len(from) == 0 {
		return words
	}
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+len(from) <= len(words) && slices.Equal(words[i:i+len(from)], from) {
			out = append(out, to...)
			i += len(from)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}
