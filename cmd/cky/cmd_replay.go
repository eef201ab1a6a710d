package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dhamidi/cyk/chart"
	"github.com/dhamidi/cyk/format"
	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "replay [trace.json]",
		Short: "Step through a JSON trace written by trace --format json",
		Long: `Replay reads a trace recorded with "cky trace --format json" from the
given file or standard input and prints its events one per line, pausing
between steps when --delay is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open trace: %w", err)
				}
				defer f.Close()
				in = f
			}

			var wire []format.JSONEvent
			if err := json.NewDecoder(in).Decode(&wire); err != nil {
				return fmt.Errorf("decode trace: %w", err)
			}
			events, err := format.EventsFromJSON(wire)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return errors.New("empty trace")
			}

			rec := chart.Recorder{Events: events}
			printer := &stepPrinter{enc: format.NewTraceEncoder(cmd.OutOrStdout()), delay: delay}
			rec.Replay(chart.Tee(chart.NewLogListener(log), printer))
			return printer.err
		},
	}

	cmd.Flags().DurationVarP(&delay, "delay", "d", 0, "pause between events, e.g. 200ms")

	return cmd
}

// stepPrinter writes each event as soon as it arrives.
type stepPrinter struct {
	chart.Recorder
	enc   *format.TraceEncoder
	delay time.Duration
	err   error
}

func (p *stepPrinter) step() {
	if p.err != nil {
		return
	}
	p.err = p.enc.Encode(p.Events[len(p.Events)-1:])
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}

func (p *stepPrinter) Start(tokens []string) {
	p.Recorder.Start(tokens)
	p.step()
}

func (p *stepPrinter) ActiveCellChanged(row, col int) {
	p.Recorder.ActiveCellChanged(row, col)
	p.step()
}

func (p *stepPrinter) AttemptMatch(row1, col1, row2, col2 int) {
	p.Recorder.AttemptMatch(row1, col1, row2, col2)
	p.step()
}

func (p *stepPrinter) FoundMatch(row1, col1, row2, col2 int) {
	p.Recorder.FoundMatch(row1, col1, row2, col2)
	p.step()
}

func (p *stepPrinter) CellUpdated(row, col int, symbols chart.Symbols) {
	p.Recorder.CellUpdated(row, col, symbols)
	p.step()
}

func (p *stepPrinter) End(accepted bool) {
	p.Recorder.End(accepted)
	p.step()
}
