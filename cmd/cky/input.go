package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cyk/cyk"
	"github.com/dhamidi/cyk/grammar"
	"github.com/spf13/cobra"
)

// loadParser compiles the grammar file at path. Compile errors are printed
// to the command's error stream, one per line.
func loadParser(cmd *cobra.Command, path string, normalize bool, opts ...cyk.Option) (*cyk.Parser, error) {
	src, err := cyk.LoadSource(path)
	if err != nil {
		return nil, err
	}
	if normalize {
		opts = append(opts, cyk.WithNormalizer(src.Normalizer()))
	}
	p, err := cyk.NewParser(src.Text, opts...)
	if err != nil {
		printErrors(cmd.ErrOrStderr(), path, err)
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	log.Debug("loaded grammar", "path", path, "binary", len(p.Grammar().BinaryRules()), "terminal", len(p.Grammar().TerminalRules()))
	return p, nil
}

// readSentence joins args, or reads standard input when there are none.
func readSentence(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read sentence: %w", err)
	}
	return string(data), nil
}

func printErrors(w io.Writer, path string, err error) {
	var list grammar.ErrorList
	if !errors.As(err, &list) {
		fmt.Fprintln(w, err)
		return
	}
	for _, e := range list {
		fmt.Fprintf(w, "%s:%d: %s: %q\n", path, e.Line, e.Msg, e.Text)
	}
}
