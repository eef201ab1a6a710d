package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/cyk/derivation"
)

// TreeStyle selects the text layout of a TreeEncoder.
type TreeStyle int

const (
	// TreeBracketed writes one tree per line, e.g. (S (NP she) (VP eats)).
	TreeBracketed TreeStyle = iota
	// TreeIndented writes one symbol per line, children indented by two spaces.
	TreeIndented
)

type TreeEncoder struct {
	w     io.Writer
	style TreeStyle
}

func NewTreeEncoder(w io.Writer, style TreeStyle) *TreeEncoder {
	return &TreeEncoder{w: w, style: style}
}

func (e *TreeEncoder) Encode(trees []*derivation.Tree) error {
	text, err := e.MarshalText(trees)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(trees []*derivation.Tree) ([]byte, error) {
	var sb strings.Builder
	for i, t := range trees {
		switch e.style {
		case TreeIndented:
			if i > 0 {
				sb.WriteByte('\n')
			}
			writeIndented(&sb, t, 0)
		default:
			sb.WriteString(t.String())
			sb.WriteByte('\n')
		}
	}
	return []byte(sb.String()), nil
}

func writeIndented(sb *strings.Builder, t *derivation.Tree, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.IsTerminal() {
		sb.WriteString(t.Token)
		sb.WriteByte('\n')
		return
	}
	sb.WriteString(t.Label)
	sb.WriteByte('\n')
	for _, c := range t.Children {
		writeIndented(sb, c, depth+1)
	}
}

type TreeJSONEncoder struct {
	w io.Writer
}

func NewTreeJSONEncoder(w io.Writer) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w}
}

func (e *TreeJSONEncoder) Encode(trees []*derivation.Tree) error {
	text, err := e.MarshalText(trees)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeJSONEncoder) MarshalText(trees []*derivation.Tree) ([]byte, error) {
	return json.MarshalIndent(TreesToJSON(trees), "", "  ")
}

// JSONTree is the wire form of a derivation tree.
type JSONTree struct {
	Label    string      `json:"label,omitempty"`
	Token    string      `json:"token,omitempty"`
	Children []*JSONTree `json:"children,omitempty"`
}

// TreesToJSON converts trees to their wire form. It never returns nil.
func TreesToJSON(trees []*derivation.Tree) []*JSONTree {
	out := make([]*JSONTree, len(trees))
	for i, t := range trees {
		out[i] = treeToJSON(t)
	}
	return out
}

func treeToJSON(t *derivation.Tree) *JSONTree {
	jt := &JSONTree{
		Label: t.Label,
		Token: t.Token,
	}
	if len(t.Children) > 0 {
		jt.Children = make([]*JSONTree, len(t.Children))
		for i, c := range t.Children {
			jt.Children[i] = treeToJSON(c)
		}
	}
	return jt
}
