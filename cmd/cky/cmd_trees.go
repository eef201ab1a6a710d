package main

import (
	"fmt"

	"github.com/dhamidi/cyk/derivation"
	"github.com/dhamidi/cyk/format"
	"github.com/spf13/cobra"
)

func newTreesCmd() *cobra.Command {
	var outputFormat string
	var normalize bool
	var all bool

	cmd := &cobra.Command{
		Use:   "trees <grammar> [sentence...]",
		Short: "Print every derivation tree of a sentence",
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

			var trees []*derivation.Tree
			if all {
				trees = p.Table(sentence).Trees("")
			} else {
				trees = p.Trees(sentence)
			}

			out := cmd.OutOrStdout()
			var encoder format.Encoder[[]*derivation.Tree]
			switch outputFormat {
			case "text":
				encoder = format.NewTreeEncoder(out, format.TreeBracketed)
			case "indent":
				encoder = format.NewTreeEncoder(out, format.TreeIndented)
			case "json":
				encoder = format.NewTreeJSONEncoder(out)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(trees); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, indent, json)")
	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "lowercase the sentence and apply the grammar's replace directives")
	cmd.Flags().BoolVar(&all, "all", false, "include derivations rooted at any symbol, not only the start symbol")

	return cmd
}
