package main

import (
	"fmt"

	"github.com/dhamidi/cyk/chart"
	"github.com/dhamidi/cyk/format"
	"github.com/spf13/cobra"
)

func newChartCmd() *cobra.Command {
	var outputFormat string
	var normalize bool

	cmd := &cobra.Command{
		Use:   "chart <grammar> [sentence...]",
		Short: "Print the membership chart of a sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParser(cmd, args[0], normalize)
			if err != nil {
				return err
			}
			sentence, err := readSentence(cmd, args[1:])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var encoder format.Encoder[*chart.Chart]
			switch outputFormat {
			case "text":
				encoder = format.NewChartEncoder(out)
			case "json":
				encoder = format.NewChartJSONEncoder(out)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(p.Chart(sentence)); err != nil {
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
