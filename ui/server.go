package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/dhamidi/cyk/chart"
	"github.com/dhamidi/cyk/cyk"
	"github.com/dhamidi/cyk/format"
	"github.com/dhamidi/cyk/grammar"
	"github.com/tliron/commonlog"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("cyk.ui")

// DefaultGrammar is shown in the editor until another grammar is submitted.
const DefaultGrammar = `# replace: "an = a"
S -> NP VP
VP -> VP PP
VP -> V NP
VP -> eats
PP -> P NP
NP -> Det N
NP -> she
V -> eats
P -> with
N -> fish
N -> fork
Det -> a
`

const defaultSentence = "she eats a fish with a fork"

type Option func(*Server)

// WithGrammar replaces the grammar preloaded into the editor.
func WithGrammar(text string) Option {
	return func(s *Server) {
		s.grammar = text
	}
}

// WithExamples lists sentences in a selector next to the sentence input.
// The first one replaces the default sentence.
func WithExamples(sentences []string) Option {
	return func(s *Server) {
		s.examples = sentences
	}
}

type Server struct {
	grammar    string
	examples   []string
	templates  *template.Template
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

// NewServer returns a server for the chart viewer. If CYK_GRAMMAR names a
// grammar file it is loaded into the editor, and if CYK_EXAMPLES names a
// file of sentences they are offered as examples. Options take precedence.
func NewServer(opts ...Option) (*Server, error) {
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"join": strings.Join,
		"add": func(a, b int) int {
			return a + b
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		grammar:    DefaultGrammar,
		templates:  tmpl,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	if path := os.Getenv("CYK_GRAMMAR"); path != "" {
		src, err := cyk.LoadSource(path)
		if err != nil {
			return nil, err
		}
		s.grammar = src.Text
		log.Info("preloaded grammar", "path", path)
	}
	if path := os.Getenv("CYK_EXAMPLES"); path != "" {
		examples, err := cyk.LoadExamples(path)
		if err != nil {
			return nil, err
		}
		s.examples = examples
		log.Info("preloaded examples", "path", path, "count", len(examples))
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("POST /api/check", s.handleCheck)
	s.mux.HandleFunc("POST /api/trees", s.handleTrees)
	s.mux.HandleFunc("GET /", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		tmpl = s.templates
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error("render", "template", name, "error", err)
	}
}

// PageData feeds index.html. Result is nil until a sentence was parsed.
type PageData struct {
	Grammar   string
	Sentence  string
	Normalize bool
	Examples  []string
	Errors    []string
	Result    *ResultView
}

// ResultView is a parsed sentence laid out for display. Rows holds the
// chart from the whole-sentence cell down to single tokens. Nodes counts the
// partial parses in the derivation table.
type ResultView struct {
	Tokens   []string
	Accepted bool
	Rows     [][]string
	Nodes    int
	Trees    []TreeView
}

type TreeView struct {
	Text  string
	Depth int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sentence := defaultSentence
	if len(s.examples) > 0 {
		sentence = s.examples[0]
	}
	s.render(w, "index.html", PageData{
		Grammar:  s.grammar,
		Sentence: sentence,
		Examples: s.examples,
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	req := ParseRequest{
		Grammar:   r.FormValue("grammar"),
		Sentence:  r.FormValue("sentence"),
		Normalize: r.FormValue("normalize") != "",
	}
	data := PageData{
		Grammar:   req.Grammar,
		Sentence:  req.Sentence,
		Normalize: req.Normalize,
		Examples:  s.examples,
	}

	p, err := req.parser()
	if err != nil {
		data.Errors = errorStrings(err)
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, "index.html", data)
		return
	}

	c := p.Chart(req.Sentence)
	table := p.Table(req.Sentence)
	data.Result = &ResultView{
		Tokens:   c.Tokens(),
		Accepted: c.Accepted(),
		Rows:     chartRows(c),
		Nodes:    table.Count(),
	}
	if start, ok := p.Grammar().Start(); ok {
		for _, t := range table.Trees(start) {
			data.Result.Trees = append(data.Result.Trees, TreeView{Text: t.String(), Depth: t.Depth()})
		}
	}
	log.Debug("parsed", "tokens", len(c.Tokens()), "accepted", c.Accepted())
	s.render(w, "index.html", data)
}

func chartRows(c *chart.Chart) [][]string {
	n := c.Len()
	rows := make([][]string, 0, n)
	for row := n - 1; row >= 0; row-- {
		cells := make([]string, n-row)
		for col := range cells {
			cells[col] = strings.Join(c.Cell(row, col), ", ")
		}
		rows = append(rows, cells)
	}
	return rows
}

// ParseRequest is the body of the JSON API.
type ParseRequest struct {
	Grammar   string `json:"grammar"`
	Sentence  string `json:"sentence"`
	Normalize bool   `json:"normalize"`
}

func (req ParseRequest) parser(opts ...cyk.Option) (*cyk.Parser, error) {
	if req.Normalize {
		src := cyk.ParseSource("request", req.Grammar)
		opts = append(opts, cyk.WithNormalizer(src.Normalizer()))
	}
	return cyk.NewParser(req.Grammar, opts...)
}

type CheckResponse struct {
	Tokens   []string           `json:"tokens"`
	Accepted bool               `json:"accepted"`
	Events   []format.JSONEvent `json:"events"`
}

type TreesResponse struct {
	Tokens   []string           `json:"tokens"`
	Accepted bool               `json:"accepted"`
	Trees    []*format.JSONTree `json:"trees"`
}

type ErrorResponse struct {
	Errors []string `json:"errors"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	var rec chart.Recorder
	p, err := req.parser(cyk.WithListener(&rec))
	if err != nil {
		writeErrors(w, err)
		return
	}
	c := p.Chart(req.Sentence)
	writeJSON(w, http.StatusOK, CheckResponse{
		Tokens:   c.Tokens(),
		Accepted: c.Accepted(),
		Events:   format.EventsToJSON(rec.Events),
	})
}

func (s *Server) handleTrees(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	p, err := req.parser()
	if err != nil {
		writeErrors(w, err)
		return
	}
	trees := p.Trees(req.Sentence)
	writeJSON(w, http.StatusOK, TreesResponse{
		Tokens:   p.Tokens(req.Sentence),
		Accepted: len(trees) > 0,
		Trees:    format.TreesToJSON(trees),
	})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (ParseRequest, bool) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeErrors(w http.ResponseWriter, err error) {
	log.Error("grammar rejected", "error", err)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Errors: errorStrings(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorStrings lists one message per bad grammar line.
func errorStrings(err error) []string {
	var list grammar.ErrorList
	if errors.As(err, &list) {
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFSType serves files from a directory on disk when present, so
// templates can be edited without rebuilding, and from the embedded copy
// otherwise.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)
	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		if list, err := fs.ReadDir(fsys, name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
