package format

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dhamidi/cyk/chart"
)

// ChartEncoder draws a membership chart as an aligned triangle: the cell for
// the whole sentence on top, the single tokens at the bottom.
type ChartEncoder struct {
	w io.Writer
}

func NewChartEncoder(w io.Writer) *ChartEncoder {
	return &ChartEncoder{w: w}
}

func (e *ChartEncoder) Encode(c *chart.Chart) error {
	text, err := e.MarshalText(c)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ChartEncoder) MarshalText(c *chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	n := c.Len()
	for row := n - 1; row >= 0; row-- {
		cells := make([]string, n-row)
		for col := range cells {
			cells[col] = cellText(c.Cell(row, col))
		}
		io.WriteString(tw, strings.Join(cells, "\t")+"\t\n")
	}
	if n > 0 {
		io.WriteString(tw, strings.Join(c.Tokens(), "\t")+"\t\n")
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellText(s chart.Symbols) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}

// JSONChart is the wire form of a membership chart. Cells[row][col] lists
// the symbols deriving the span of length row+1 starting at col.
type JSONChart struct {
	Tokens   []string     `json:"tokens"`
	Start    string       `json:"start,omitempty"`
	Accepted bool         `json:"accepted"`
	Cells    [][][]string `json:"cells"`
}

// ChartToJSON converts c to its wire form.
func ChartToJSON(c *chart.Chart) *JSONChart {
	n := c.Len()
	jc := &JSONChart{
		Tokens:   append([]string{}, c.Tokens()...),
		Start:    c.Start(),
		Accepted: c.Accepted(),
		Cells:    make([][][]string, n),
	}
	for row := range jc.Cells {
		jc.Cells[row] = make([][]string, n-row)
		for col := range jc.Cells[row] {
			jc.Cells[row][col] = append([]string{}, c.Cell(row, col)...)
		}
	}
	return jc
}

type ChartJSONEncoder struct {
	w io.Writer
}

func NewChartJSONEncoder(w io.Writer) *ChartJSONEncoder {
	return &ChartJSONEncoder{w: w}
}

func (e *ChartJSONEncoder) Encode(c *chart.Chart) error {
	text, err := e.MarshalText(c)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ChartJSONEncoder) MarshalText(c *chart.Chart) ([]byte, error) {
	return json.MarshalIndent(ChartToJSON(c), "", "  ")
}
