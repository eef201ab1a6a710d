package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/cyk/grammar"
	"github.com/spf13/cobra"
)

func newLexCmd() *cobra.Command {
	var spaces bool

	cmd := &cobra.Command{
		Use:   "lex <grammar>",
		Short: "Print the tokens of a grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}
			tokens, err := grammar.Lex(string(data))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				if tok.Kind == grammar.TokenSpace && !spaces {
					continue
				}
				fmt.Fprintf(out, "%s:%s\n", args[0], tok)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&spaces, "spaces", false, "include whitespace tokens")

	return cmd
}
