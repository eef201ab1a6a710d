package main

import (
	"fmt"

	"github.com/dhamidi/cyk/chart"
	"github.com/dhamidi/cyk/cyk"
	"github.com/dhamidi/cyk/format"
	"github.com/spf13/cobra"
)

func newTraceCmd() *cobra.Command {
	var outputFormat string
	var normalize bool

	cmd := &cobra.Command{
		Use:   "trace <grammar> [sentence...]",
		Short: "Print the events of the chart construction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec chart.Recorder
			p, err := loadParser(cmd, args[0], normalize, cyk.WithListener(&rec))
			if err != nil {
				return err
			}
			sentence, err := readSentence(cmd, args[1:])
			if err != nil {
				return err
			}
			p.Check(sentence)

			out := cmd.OutOrStdout()
			var encoder format.Encoder[[]chart.Event]
			switch outputFormat {
			case "text":
				encoder = format.NewTraceEncoder(out)
			case "json":
				encoder = format.NewTraceJSONEncoder(out)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(rec.Events); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "lowercase the sentence and apply the grammar's replace directives")

	return cmd
}
