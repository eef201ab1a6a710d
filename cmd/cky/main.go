package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("cyk.cli")

func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:          "cky",
		Short:        "CYK chart parsing for grammars in Chomsky normal form",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity (repeat for more)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTreesCmd())
	rootCmd.AddCommand(newTraceCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newSyntaxCmd())
	rootCmd.AddCommand(newLexCmd())
	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
