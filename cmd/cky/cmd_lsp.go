package main

import (
	"github.com/dhamidi/cyk/lsp"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the grammar language server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version)
			return server.RunStdio()
		},
	}
}
