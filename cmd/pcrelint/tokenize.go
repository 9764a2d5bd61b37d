package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcrelint/internal/diagfmt"
	"pcrelint/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.php|-",
		Short: "Print the token stream of a PHP file (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// lexer diagnostics go to stderr
	if result.Bag.Len() > 0 && !quiet(cmd) {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:    color,
			Context:  1,
			PathMode: diagfmt.PathModeRelative,
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(out, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
