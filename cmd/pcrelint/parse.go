package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcrelint/internal/diagfmt"
	"pcrelint/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.php|-",
		Short: "Print the syntax tree of a PHP file (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if result.Bag.Len() > 0 && !quiet(cmd) {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		result.Bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:    color,
			Context:  1,
			PathMode: diagfmt.PathModeRelative,
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(out, result.Tree, result.File)
	case "json":
		return diagfmt.FormatASTJSON(out, result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
