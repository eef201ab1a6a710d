package chart

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/cyk/grammar"
)

const textbook = `
S -> NP VP
VP -> VP PP
VP -> V NP
VP -> eats
PP -> P NP
NP -> Det N | she
V -> eats
P -> with
N -> fish | fork
Det -> a
`

func TestBuildEventSequence(t *testing.T) {
	g := grammar.MustCompile("S -> A B\nA -> a\nB -> b")
	var rec Recorder

	accepted := Accept(g, []string{"a", "b"}, &rec)
	if !accepted {
		t.Fatal("expected a b to be accepted")
	}

	var got []string
	for _, e := range rec.Events {
		got = append(got, e.String())
	}
	want := []string{
		"start(a b)",
		"active_cell_changed(0, 0)",
		"cell_updated(0, 0, {A})",
		"active_cell_changed(0, 1)",
		"cell_updated(0, 1, {B})",
		"active_cell_changed(1, 0)",
		"attempt_match(0, 0, 0, 1)",
		"found_match(0, 0, 0, 1)",
		"cell_updated(1, 0, {S})",
		"end(true)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events:\n got %s\nwant %s", strings.Join(got, "\n     "), strings.Join(want, "\n     "))
	}
}

func TestBuildTextbook(t *testing.T) {
	g := grammar.MustCompile(textbook)
	c := Build(g, strings.Fields("she eats a fish with a fork"), nil)

	if !c.Accepted() {
		t.Fatal("expected sentence to be accepted")
	}
	if c.Len() != 7 {
		t.Errorf("len: got %d, want 7", c.Len())
	}

	tests := []struct {
		start, end int
		want       []string
	}{
		{0, 1, []string{"NP"}},
		{1, 2, []string{"VP", "V"}},
		{0, 2, []string{"S"}},
		{2, 4, []string{"NP"}},
		{1, 4, []string{"VP"}},
		{4, 7, []string{"PP"}},
		{1, 7, []string{"VP"}},
		{0, 7, []string{"S"}},
		{3, 5, nil},
	}
	for _, tt := range tests {
		t.Run(strings.Join(c.Tokens()[tt.start:tt.end], "_"), func(t *testing.T) {
			got := c.Span(tt.start, tt.end)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual([]string(got), tt.want) {
				t.Errorf("span [%d,%d): got %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestBuildRejects(t *testing.T) {
	g := grammar.MustCompile(textbook)
	tests := []string{
		"eats she",
		"she fish",
		"a fish",
		"she eats a",
		"she eats a spoon",
	}
	for _, sentence := range tests {
		t.Run(sentence, func(t *testing.T) {
			if Accept(g, strings.Fields(sentence), nil) {
				t.Errorf("%q should be rejected", sentence)
			}
		})
	}
}

func TestBuildEmptyInput(t *testing.T) {
	g := grammar.MustCompile(textbook)
	var rec Recorder

	c := Build(g, nil, &rec)
	if c.Accepted() {
		t.Error("empty input must not be accepted")
	}
	if len(rec.Events) != 2 || rec.Events[0].Kind != EventStart || rec.Events[1].Kind != EventEnd {
		t.Errorf("expected start and end only, got %v", rec.Events)
	}
	if c.Cell(0, 0) != nil {
		t.Error("empty chart has no cells")
	}
}

func TestBuildWithoutStartSymbol(t *testing.T) {
	g := grammar.MustCompile("A -> a")
	if Accept(g, []string{"a"}, nil) {
		t.Error("grammar without start symbol accepts nothing")
	}
}

func TestUnwrittenCellsAreNil(t *testing.T) {
	g := grammar.MustCompile("S -> A B\nA -> a\nB -> b")
	c := Build(g, []string{"a", "a"}, nil)

	if c.Cell(1, 0) != nil {
		t.Errorf("cell (1,0): got %v, want nil", c.Cell(1, 0))
	}
	if got := c.Cell(0, 1); got == nil || len(got) != 1 {
		t.Errorf("cell (0,1): got %v, want {A}", got)
	}
	if c.Cell(5, 5) != nil || c.Cell(-1, 0) != nil {
		t.Error("out of range cells must be nil")
	}
}

func TestTraceIsDeterministic(t *testing.T) {
	g := grammar.MustCompile(textbook)
	tokens := strings.Fields("she eats a fish with a fork")

	var first, second Recorder
	Build(g, tokens, &first)
	Build(g, tokens, &second)

	if !reflect.DeepEqual(first.Events, second.Events) {
		t.Error("two builds produced different traces")
	}
}

func TestTraceOrdering(t *testing.T) {
	g := grammar.MustCompile(textbook)
	var rec Recorder
	Build(g, strings.Fields("she eats a fish with a fork"), &rec)

	events := rec.Events
	if events[0].Kind != EventStart {
		t.Fatalf("first event is %s", events[0].Kind)
	}
	if last := events[len(events)-1]; last.Kind != EventEnd || !last.Accepted {
		t.Fatalf("last event is %s", last)
	}

	var attempt *Event
	var active *Event
	for i := 1; i < len(events)-1; i++ {
		e := events[i]
		switch e.Kind {
		case EventStart, EventEnd:
			t.Fatalf("event %d: unexpected %s", i, e)
		case EventActiveCellChanged:
			active, attempt = &events[i], nil
		case EventAttemptMatch:
			attempt = &events[i]
		case EventFoundMatch:
			if attempt == nil || attempt.Row != e.Row || attempt.Col != e.Col || attempt.Row2 != e.Row2 || attempt.Col2 != e.Col2 {
				t.Fatalf("event %d: %s without matching attempt", i, e)
			}
			if next := events[i+1]; next.Kind != EventCellUpdated {
				t.Fatalf("event %d: found_match followed by %s", i, next)
			}
		case EventCellUpdated:
			if active == nil || active.Row != e.Row || active.Col != e.Col {
				t.Fatalf("event %d: %s outside active cell", i, e)
			}
		}
	}
}

func TestRecorderReplay(t *testing.T) {
	g := grammar.MustCompile(textbook)
	var rec, replayed Recorder
	Build(g, strings.Fields("she eats"), &rec)

	rec.Replay(&replayed)
	if !reflect.DeepEqual(rec.Events, replayed.Events) {
		t.Error("replay changed the trace")
	}
}

func TestTee(t *testing.T) {
	g := grammar.MustCompile(textbook)
	var a, b Recorder
	Build(g, strings.Fields("she eats fish"), Tee(&a, &b, NopListener{}))

	if len(a.Events) == 0 || !reflect.DeepEqual(a.Events, b.Events) {
		t.Error("tee did not forward every event to every listener")
	}
}

func TestParseEventKind(t *testing.T) {
	for k := EventStart; k <= EventEnd; k++ {
		got, ok := ParseEventKind(k.String())
		if !ok || got != k {
			t.Errorf("%s: got %v, %v", k, got, ok)
		}
	}
	if _, ok := ParseEventKind("bogus"); ok {
		t.Error("bogus kind parsed")
	}
}

func TestSymbolsAdd(t *testing.T) {
	var s Symbols
	if !s.Add("A", "B", "A") {
		t.Error("adding to empty set should grow it")
	}
	if s.Add("B") {
		t.Error("adding an existing symbol should not grow the set")
	}
	if got := s.String(); got != "{A, B}" {
		t.Errorf("got %s", got)
	}
}
