package main

import (
	"fmt"
	"sort"

	"github.com/dhamidi/cyk/grammar"
	"github.com/spf13/cobra"
)

func newSyntaxCmd() *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:   "syntax",
		Short: "Print the EBNF notation of grammar files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Syntax()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !names {
				fmt.Fprint(out, grammar.SyntaxText())
				return nil
			}

			productions := make([]string, 0, len(g))
			for name := range g {
				productions = append(productions, name)
			}
			sort.Strings(productions)
			for _, name := range productions {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&names, "names", false, "list the production names only")

	return cmd
}
