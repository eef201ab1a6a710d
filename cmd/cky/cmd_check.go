package main

import (
	"errors"
	"fmt"

	"github.com/dhamidi/cyk/chart"
	"github.com/dhamidi/cyk/cyk"
	"github.com/spf13/cobra"
)

var errRejected = errors.New("sentence rejected")

func newCheckCmd() *cobra.Command {
	var normalize bool
	var strictExit bool

	cmd := &cobra.Command{
		Use:   "check <grammar> [sentence...]",
		Short: "Report whether a sentence is in the language of a grammar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParser(cmd, args[0], normalize, cyk.WithListener(chart.NewLogListener(log)))
			if err != nil {
				return err
			}
			sentence, err := readSentence(cmd, args[1:])
			if err != nil {
				return err
			}

			accepted := p.Check(sentence)
			if accepted {
				fmt.Fprintln(cmd.OutOrStdout(), "accepted")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rejected")
			if strictExit {
				return errRejected
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "lowercase the sentence and apply the grammar's replace directives")
	cmd.Flags().BoolVar(&strictExit, "strict-exit", false, "exit with an error status when the sentence is rejected")

	return cmd
}
