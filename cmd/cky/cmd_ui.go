package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dhamidi/cyk/cyk"
	"github.com/dhamidi/cyk/ui"
	"github.com/spf13/cobra"
)

func newUICmd() *cobra.Command {
	var addr string
	var grammarFile string
	var examplesFile string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the chart viewer web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := uiOptions(grammarFile, examplesFile)
			if err != nil {
				return err
			}

			server, err := ui.NewServer(opts...)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)
			log.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().StringVarP(&grammarFile, "grammar", "g", "", "grammar file to preload (overrides CYK_GRAMMAR)")
	cmd.Flags().StringVarP(&examplesFile, "examples", "e", "", "file of example sentences, one per line (overrides CYK_EXAMPLES)")

	return cmd
}

func uiOptions(grammarFile, examplesFile string) ([]ui.Option, error) {
	var opts []ui.Option
	if grammarFile != "" {
		src, err := cyk.LoadSource(grammarFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ui.WithGrammar(src.Text))
	}
	if examplesFile != "" {
		examples, err := cyk.LoadExamples(examplesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ui.WithExamples(examples))
	}
	return opts, nil
}
