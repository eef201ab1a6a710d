package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := NewServer(opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "S -&gt; NP VP") {
		t.Error("default grammar missing from page")
	}
	if !strings.Contains(body, defaultSentence) {
		t.Error("default sentence missing from page")
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestWithGrammar(t *testing.T) {
	s := newTestServer(t, WithGrammar("Z -> Y Y\nY -> y"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "Z -&gt; Y Y") {
		t.Error("grammar option not applied")
	}
}

func TestGrammarFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.cnf")
	if err := os.WriteFile(path, []byte("Q -> R R\nR -> r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CYK_GRAMMAR", path)

	s := newTestServer(t)
	if s.grammar != "Q -> R R\nR -> r\n" {
		t.Errorf("grammar: got %q", s.grammar)
	}

	t.Setenv("CYK_GRAMMAR", filepath.Join(t.TempDir(), "missing.cnf"))
	if _, err := NewServer(); err == nil {
		t.Error("expected error for missing grammar file")
	}
}

func TestWithExamples(t *testing.T) {
	examples := []string{"she eats a fork", "she eats a fish with a fork"}
	s := newTestServer(t, WithExamples(examples))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `value="she eats a fork"`) {
		t.Error("first example should replace the default sentence")
	}
	for _, e := range examples {
		if !strings.Contains(body, ">"+e+"</option>") {
			t.Errorf("example %q missing from selector", e)
		}
	}

	form := url.Values{"grammar": {DefaultGrammar}, "sentence": {"she eats"}}
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), ">she eats a fish with a fork</option>") {
		t.Error("examples missing after parse")
	}
}

func TestNoExamples(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Contains(rec.Body.String(), `id="examples"`) {
		t.Error("selector shown without examples")
	}
}

func TestExamplesFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examples.txt")
	if err := os.WriteFile(path, []byte(`she eats

she eats a fish
`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CYK_EXAMPLES", path)

	s := newTestServer(t)
	if len(s.examples) != 2 || s.examples[0] != "she eats" {
		t.Errorf("examples: got %q", s.examples)
	}

	t.Setenv("CYK_EXAMPLES", filepath.Join(t.TempDir(), "missing.txt"))
	if _, err := NewServer(); err == nil {
		t.Error("expected error for missing examples file")
	}
}

func TestParsePage(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		grammar  string
		sentence string
		status   int
		want     string
	}{
		{"accepted", DefaultGrammar, "she eats a fish", http.StatusOK, "accepted: she eats a fish"},
		{"rejected", DefaultGrammar, "eats she", http.StatusOK, "rejected: eats she"},
		{"bad grammar", "S -> A B C", "a", http.StatusBadRequest, "want 1 or 2"},
		{"partial parses", DefaultGrammar, "she eats", http.StatusOK, "4 partial parses"},
		{"tree depth", DefaultGrammar, "she eats", http.StatusOK, "depth 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"grammar": {tt.grammar}, "sentence": {tt.sentence}}
			req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body does not contain %q:\n%s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestAPICheck(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/check", ParseRequest{
		Grammar:  "S -> A B\nA -> a\nB -> b",
		Sentence: "a b",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Accepted {
		t.Error("expected acceptance")
	}
	if len(resp.Events) != 10 {
		t.Fatalf("events: got %d, want 10", len(resp.Events))
	}
	if first, last := resp.Events[0].Kind, resp.Events[len(resp.Events)-1].Kind; first != "start" || last != "end" {
		t.Errorf("events run from %s to %s", first, last)
	}
}

func TestAPICheckNormalize(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/check", ParseRequest{
		Grammar:   DefaultGrammar,
		Sentence:  "She eats AN fish",
		Normalize: true,
	})

	var resp CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Accepted {
		t.Errorf("expected acceptance, tokens %v", resp.Tokens)
	}
}

func TestAPITrees(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/trees", ParseRequest{
		Grammar:  "S -> A B | A C\nA -> a\nB -> b\nC -> b",
		Sentence: "a b",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TreesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Accepted || len(resp.Trees) != 2 {
		t.Errorf("got accepted=%v with %d trees, want 2", resp.Accepted, len(resp.Trees))
	}
}

func TestAPIGrammarErrors(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/check", "/api/trees"} {
		rec := postJSON(t, s, path, ParseRequest{
			Grammar:  "S -> A B\nS ->\nA B -> c",
			Sentence: "a b",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status got %d, want %d", path, rec.Code, http.StatusBadRequest)
		}
		var resp ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Errors) != 2 {
			t.Errorf("%s: got %d errors, want 2: %v", path, len(resp.Errors), resp.Errors)
		}
	}
}

func TestAPIInvalidJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
