package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDiagnostics(t *testing.T) {
	type want struct {
		line     protocol.UInteger
		severity protocol.DiagnosticSeverity
		contains string
	}

	tests := []struct {
		name string
		text string
		want []want
	}{
		{
			name: "clean",
			text: "S -> A B\nA -> a\nB -> b\n",
		},
		{
			name: "malformed lines",
			text: "S -> A B\nA -> a b c\n# comment\nB b\n",
			want: []want{
				{1, protocol.DiagnosticSeverityError, "want 1 or 2"},
				{3, protocol.DiagnosticSeverityError, "missing"},
			},
		},
		{
			name: "undefined symbol",
			text: "A -> a\nS -> A C\n",
			want: []want{
				{1, protocol.DiagnosticSeverityWarning, "no rule rewrites C"},
			},
		},
		{
			name: "no start symbol",
			text: "A -> a\n",
			want: []want{
				{0, protocol.DiagnosticSeverityWarning, "no start symbol"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnostics(tt.text)
			if got == nil {
				t.Fatal("diagnostics must not be nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d diagnostics, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				d := got[i]
				if d.Range.Start.Line != w.line {
					t.Errorf("diagnostic %d: line %d, want %d", i, d.Range.Start.Line, w.line)
				}
				if d.Severity == nil || *d.Severity != w.severity {
					t.Errorf("diagnostic %d: severity %v, want %v", i, d.Severity, w.severity)
				}
				if !strings.Contains(d.Message, w.contains) {
					t.Errorf("diagnostic %d: message %q does not contain %q", i, d.Message, w.contains)
				}
			}
		})
	}
}

func TestDiagnosticRangeCoversLine(t *testing.T) {
	got := Diagnostics("S -> A B C\r\n")
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	if end := got[0].Range.End.Character; end != 10 {
		t.Errorf("end: got %d, want 10", end)
	}
}

func TestHover(t *testing.T) {
	text := "S -> NP VP\nNP -> she\nVP -> eats\n"

	tests := []struct {
		name string
		pos  protocol.Position
		want string
	}{
		{"start symbol", protocol.Position{Line: 0, Character: 0}, "S -> NP VP"},
		{"right-hand side", protocol.Position{Line: 0, Character: 9}, "VP -> eats"},
		{"terminal", protocol.Position{Line: 1, Character: 7}, "`she` is a terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hover(text, tt.pos)
			if h == nil {
				t.Fatal("no hover")
			}
			content, ok := h.Contents.(protocol.MarkupContent)
			if !ok {
				t.Fatalf("contents: got %T", h.Contents)
			}
			if !strings.Contains(content.Value, tt.want) {
				t.Errorf("got %q, want it to contain %q", content.Value, tt.want)
			}
		})
	}

	if h := Hover(text, protocol.Position{Line: 0, Character: 3}); h != nil {
		t.Error("arrow should have no hover")
	}
	if h := Hover(text, protocol.Position{Line: 9, Character: 0}); h != nil {
		t.Error("position past the end should have no hover")
	}
	if h := Hover("S -> A B C", protocol.Position{Line: 0, Character: 0}); h != nil {
		t.Error("malformed grammar should have no hover")
	}
}

func TestSymbolAt(t *testing.T) {
	tests := []struct {
		line string
		char int
		want string
	}{
		{"S -> A B", 0, "S"},
		{"S -> A B", 1, "S"},
		{"S -> A B", 5, "A"},
		{"S -> A B", 8, "B"},
		{"", 0, ""},
		{"N -> cá | fish", 6, "cá"},
		{"N -> cá | fish", 11, "fish"},
		{"S -> A B", 20, ""},
	}
	for _, tt := range tests {
		if got := symbolAt(tt.line, tt.char); got != tt.want {
			t.Errorf("symbolAt(%q, %d): got %q, want %q", tt.line, tt.char, got, tt.want)
		}
	}
}
