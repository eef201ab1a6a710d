// Package lsp serves CNF grammar files over the Language Server Protocol.
// Documents are compiled on every change and the results are published as
// diagnostics. Hovering a symbol lists the rules that rewrite it.
package lsp

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dhamidi/cyk/grammar"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "cky"

var log = commonlog.GetLogger("cyk.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.Mutex
	documents map[protocol.DocumentUri]string
}

func NewServer(version string) *Server {
	ls := &Server{
		version:   version,
		documents: make(map[protocol.DocumentUri]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized", "version", ls.version)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, textChange.Text)
	}
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := ls.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return Hover(text, params.Position), nil
}

func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()

	diagnostics := Diagnostics(text)
	log.Debug("publish diagnostics", "uri", uri, "count", len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *Server) document(uri protocol.DocumentUri) (string, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	text, ok := ls.documents[uri]
	return text, ok
}

// Diagnostics compiles text and reports every malformed line as an error.
// A grammar that compiles is checked for symbols used on a right-hand side
// without rules of their own and for a missing start symbol; both are
// reported as warnings. The result is never nil.
func Diagnostics(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	lines := strings.Split(text, "\n")

	g, err := grammar.Compile(text)
	if err != nil {
		var list grammar.ErrorList
		if !errors.As(err, &list) {
			return append(diagnostics, diagnostic(0, lines, protocol.DiagnosticSeverityError, err.Error()))
		}
		for _, e := range list {
			diagnostics = append(diagnostics, diagnostic(e.Line-1, lines, protocol.DiagnosticSeverityError, e.Msg))
		}
		return diagnostics
	}

	if _, ok := g.Start(); !ok {
		diagnostics = append(diagnostics, diagnostic(0, lines, protocol.DiagnosticSeverityWarning,
			"no binary rule, the grammar has no start symbol"))
	}
	for _, sym := range g.Undefined() {
		line := 0
		for _, r := range g.BinaryRules() {
			if r.Left == sym || r.Right == sym {
				line = r.Line - 1
				break
			}
		}
		diagnostics = append(diagnostics, diagnostic(line, lines, protocol.DiagnosticSeverityWarning,
			fmt.Sprintf("no rule rewrites %s", sym)))
	}
	return diagnostics
}

func diagnostic(line int, lines []string, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	end := 0
	if line >= 0 && line < len(lines) {
		end = len(utf16Units(strings.TrimRight(lines[line], "\r")))
	}
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line), Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
		},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

// Hover describes the symbol under pos, or returns nil if there is none or
// the grammar does not compile.
func Hover(text string, pos protocol.Position) *protocol.Hover {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return nil
	}
	sym := symbolAt(lines[pos.Line], int(pos.Character))
	if sym == "" {
		return nil
	}
	g, err := grammar.Compile(text)
	if err != nil {
		return nil
	}

	var sb strings.Builder
	rules := g.RulesFor(sym)
	if len(rules) == 0 {
		fmt.Fprintf(&sb, "`%s` is a terminal", sym)
	} else {
		sb.WriteString("```\n")
		for _, r := range rules {
			sb.WriteString(r)
			sb.WriteByte('\n')
		}
		sb.WriteString("```")
	}
	if start, ok := g.Start(); ok && start == sym {
		sb.WriteString("\n\nstart symbol")
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: sb.String(),
		},
	}
}

// symbolAt returns the grammar symbol at or just before the UTF-16 offset
// char of line.
func symbolAt(line string, char int) string {
	units := utf16Units(line)
	if char < 0 || char > len(units) {
		return ""
	}
	offset := len(line)
	if char < len(units) {
		offset = units[char]
	}

	tokens, err := grammar.Lex(line)
	if err != nil {
		return ""
	}
	tok, ok := grammar.TokenAt(tokens, offset)
	if (!ok || tok.Kind != grammar.TokenSymbol) && offset > 0 {
		tok, ok = grammar.TokenAt(tokens, offset-1)
	}
	if !ok || tok.Kind != grammar.TokenSymbol {
		return ""
	}
	return tok.Text
}

// utf16Units maps each UTF-16 code unit of s to the byte offset of the rune
// it belongs to.
func utf16Units(s string) []int {
	var units []int
	for i, r := range s {
		units = append(units, i)
		if r >= 0x10000 {
			units = append(units, i)
		}
	}
	return units
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
