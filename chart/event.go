package chart

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

// Listener observes the construction of a chart. Build calls the methods in
// this order: Start once, then ActiveCellChanged before each cell is filled,
// AttemptMatch before each split point is examined, FoundMatch followed by
// CellUpdated for every successful lookup, and End once.
//
// Cells are addressed as (row, col) with row = span length - 1 and
// col = span start. The symbols passed to CellUpdated belong to the chart and
// must be cloned if retained.
type Listener interface {
	Start(tokens []string)
	ActiveCellChanged(row, col int)
	AttemptMatch(row1, col1, row2, col2 int)
	FoundMatch(row1, col1, row2, col2 int)
	CellUpdated(row, col int, symbols Symbols)
	End(accepted bool)
}

// NopListener ignores all events.
type NopListener struct{}

func (NopListener) Start([]string) {}
func (NopListener) ActiveCellChanged(int, int) {}
func (NopListener) AttemptMatch(int, int, int, int) {}
func (NopListener) FoundMatch(int, int, int, int) {}
func (NopListener) CellUpdated(int, int, Symbols) {}
func (NopListener) End(bool) {}

type EventKind int

const (
	EventStart EventKind = iota
	EventActiveCellChanged
	EventAttemptMatch
	EventFoundMatch
	EventCellUpdated
	EventEnd
)

var eventKindNames = [...]string{
	EventStart:             "start",
	EventActiveCellChanged: "active_cell_changed",
	EventAttemptMatch:      "attempt_match",
	EventFoundMatch:        "found_match",
	EventCellUpdated:       "cell_updated",
	EventEnd:               "end",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind maps a wire name such as "cell_updated" back to its kind.
func ParseEventKind(name string) (EventKind, bool) {
	for i, n := range eventKindNames {
		if n == name {
			return EventKind(i), true
		}
	}
	return 0, false
}

// Event is one recorded trace entry. Only the fields relevant to Kind are set:
// Tokens for start, Row/Col for active_cell_changed and cell_updated,
// Row/Col/Row2/Col2 for attempt_match and found_match, Symbols for
// cell_updated and Accepted for end.
type Event struct {
	Kind     EventKind
	Tokens   []string
	Row      int
	Col      int
	Row2     int
	Col2     int
	Symbols  Symbols
	Accepted bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return fmt.Sprintf("%s(%s)", e.Kind, strings.Join(e.Tokens, " "))
	case EventActiveCellChanged:
		return fmt.Sprintf("%s(%d, %d)", e.Kind, e.Row, e.Col)
	case EventAttemptMatch, EventFoundMatch:
		return fmt.Sprintf("%s(%d, %d, %d, %d)", e.Kind, e.Row, e.Col, e.Row2, e.Col2)
	case EventCellUpdated:
		return fmt.Sprintf("%s(%d, %d, %s)", e.Kind, e.Row, e.Col, e.Symbols)
	case EventEnd:
		return fmt.Sprintf("%s(%v)", e.Kind, e.Accepted)
	}
	return e.Kind.String()
}

// Recorder is a Listener that keeps every event in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Start(tokens []string) {
	r.Events = append(r.Events, Event{Kind: EventStart, Tokens: append([]string{}, tokens...)})
}

func (r *Recorder) ActiveCellChanged(row, col int) {
	r.Events = append(r.Events, Event{Kind: EventActiveCellChanged, Row: row, Col: col})
}

func (r *Recorder) AttemptMatch(row1, col1, row2, col2 int) {
	r.Events = append(r.Events, Event{Kind: EventAttemptMatch, Row: row1, Col: col1, Row2: row2, Col2: col2})
}

func (r *Recorder) FoundMatch(row1, col1, row2, col2 int) {
	r.Events = append(r.Events, Event{Kind: EventFoundMatch, Row: row1, Col: col1, Row2: row2, Col2: col2})
}

func (r *Recorder) CellUpdated(row, col int, symbols Symbols) {
	r.Events = append(r.Events, Event{Kind: EventCellUpdated, Row: row, Col: col, Symbols: symbols.Clone()})
}

func (r *Recorder) End(accepted bool) {
	r.Events = append(r.Events, Event{Kind: EventEnd, Accepted: accepted})
}

// Replay feeds recorded events to l in their original order.
func (r *Recorder) Replay(l Listener) {
	for _, e := range r.Events {
		switch e.Kind {
		case EventStart:
			l.Start(e.Tokens)
		case EventActiveCellChanged:
			l.ActiveCellChanged(e.Row, e.Col)
		case EventAttemptMatch:
			l.AttemptMatch(e.Row, e.Col, e.Row2, e.Col2)
		case EventFoundMatch:
			l.FoundMatch(e.Row, e.Col, e.Row2, e.Col2)
		case EventCellUpdated:
			l.CellUpdated(e.Row, e.Col, e.Symbols)
		case EventEnd:
			l.End(e.Accepted)
		}
	}
}

type tee []Listener

// Tee returns a Listener that forwards every event to each of listeners.
func Tee(listeners ...Listener) Listener {
	return tee(listeners)
}

func (t tee) Start(tokens []string) {
	for _, l := range t {
		l.Start(tokens)
	}
}

func (t tee) ActiveCellChanged(row, col int) {
	for _, l := range t {
		l.ActiveCellChanged(row, col)
	}
}

func (t tee) AttemptMatch(row1, col1, row2, col2 int) {
	for _, l := range t {
		l.AttemptMatch(row1, col1, row2, col2)
	}
}

func (t tee) FoundMatch(row1, col1, row2, col2 int) {
	for _, l := range t {
		l.FoundMatch(row1, col1, row2, col2)
	}
}

func (t tee) CellUpdated(row, col int, symbols Symbols) {
	for _, l := range t {
		l.CellUpdated(row, col, symbols)
	}
}

func (t tee) End(accepted bool) {
	for _, l := range t {
		l.End(accepted)
	}
}

type logListener struct {
	log commonlog.Logger
}

// NewLogListener returns a Listener that writes every event to log at debug
// level. The coordinates are emitted as key/value pairs.
func NewLogListener(log commonlog.Logger) Listener {
	return &logListener{log: log}
}

func (l *logListener) Start(tokens []string) {
	l.log.Debug("start", "tokens", strings.Join(tokens, " "), "length", len(tokens))
}

func (l *logListener) ActiveCellChanged(row, col int) {
	l.log.Debug("active cell", "row", row, "col", col)
}

func (l *logListener) AttemptMatch(row1, col1, row2, col2 int) {
	l.log.Debug("attempt match", "left", CellLabel(row1, col1), "right", CellLabel(row2, col2))
}

func (l *logListener) FoundMatch(row1, col1, row2, col2 int) {
	l.log.Debug("found match", "left", CellLabel(row1, col1), "right", CellLabel(row2, col2))
}

func (l *logListener) CellUpdated(row, col int, symbols Symbols) {
	l.log.Debug("cell updated", "cell", CellLabel(row, col), "symbols", symbols.String())
}

func (l *logListener) End(accepted bool) {
	l.log.Debug("end", "accepted", accepted)
}
