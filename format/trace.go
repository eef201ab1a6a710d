package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cyk/chart"
)

// TraceEncoder writes one event per line using the wire names of the trace
// protocol, e.g. "attempt_match 0 0 0 1".
type TraceEncoder struct {
	w io.Writer
}

func NewTraceEncoder(w io.Writer) *TraceEncoder {
	return &TraceEncoder{w: w}
}

func (e *TraceEncoder) Encode(events []chart.Event) error {
	text, err := e.MarshalText(events)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TraceEncoder) MarshalText(events []chart.Event) ([]byte, error) {
	var sb strings.Builder
	for _, ev := range events {
		sb.WriteString(ev.Kind.String())
		switch ev.Kind {
		case chart.EventStart:
			for _, tok := range ev.Tokens {
				sb.WriteByte(' ')
				sb.WriteString(tok)
			}
		case chart.EventActiveCellChanged:
			fmt.Fprintf(&sb, " %d %d", ev.Row, ev.Col)
		case chart.EventAttemptMatch, chart.EventFoundMatch:
			fmt.Fprintf(&sb, " %d %d %d %d", ev.Row, ev.Col, ev.Row2, ev.Col2)
		case chart.EventCellUpdated:
			fmt.Fprintf(&sb, " %d %d %s", ev.Row, ev.Col, strings.Join(ev.Symbols, ","))
		case chart.EventEnd:
			fmt.Fprintf(&sb, " %v", ev.Accepted)
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

type TraceJSONEncoder struct {
	w io.Writer
}

func NewTraceJSONEncoder(w io.Writer) *TraceJSONEncoder {
	return &TraceJSONEncoder{w: w}
}

func (e *TraceJSONEncoder) Encode(events []chart.Event) error {
	text, err := e.MarshalText(events)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TraceJSONEncoder) MarshalText(events []chart.Event) ([]byte, error) {
	return json.MarshalIndent(EventsToJSON(events), "", "  ")
}

// JSONEvent is the wire form of a trace event. Cells are [row, col] pairs.
type JSONEvent struct {
	Kind     string   `json:"kind"`
	Tokens   []string `json:"tokens,omitempty"`
	Cell     []int    `json:"cell,omitempty"`
	Other    []int    `json:"other,omitempty"`
	Symbols  []string `json:"symbols,omitempty"`
	Accepted *bool    `json:"accepted,omitempty"`
}

// EventsToJSON converts recorded events to their wire form.
func EventsToJSON(events []chart.Event) []JSONEvent {
	out := make([]JSONEvent, len(events))
	for i, ev := range events {
		je := JSONEvent{Kind: ev.Kind.String()}
		switch ev.Kind {
		case chart.EventStart:
			je.Tokens = append([]string{}, ev.Tokens...)
		case chart.EventActiveCellChanged:
			je.Cell = []int{ev.Row, ev.Col}
		case chart.EventAttemptMatch, chart.EventFoundMatch:
			je.Cell = []int{ev.Row, ev.Col}
			je.Other = []int{ev.Row2, ev.Col2}
		case chart.EventCellUpdated:
			je.Cell = []int{ev.Row, ev.Col}
			je.Symbols = append([]string{}, ev.Symbols...)
		case chart.EventEnd:
			accepted := ev.Accepted
			je.Accepted = &accepted
		}
		out[i] = je
	}
	return out
}

// EventsFromJSON converts wire events back into trace events.
func EventsFromJSON(events []JSONEvent) ([]chart.Event, error) {
	out := make([]chart.Event, 0, len(events))
	for i, je := range events {
		kind, ok := chart.ParseEventKind(je.Kind)
		if !ok {
			return nil, fmt.Errorf("event %d: unknown kind %q", i, je.Kind)
		}
		ev := chart.Event{Kind: kind, Tokens: je.Tokens}
		if len(je.Cell) == 2 {
			ev.Row, ev.Col = je.Cell[0], je.Cell[1]
		}
		if len(je.Other) == 2 {
			ev.Row2, ev.Col2 = je.Other[0], je.Other[1]
		}
		if je.Symbols != nil {
			ev.Symbols = chart.Symbols(je.Symbols)
		}
		if je.Accepted != nil {
			ev.Accepted = *je.Accepted
		}
		out = append(out, ev)
	}
	return out, nil
}
