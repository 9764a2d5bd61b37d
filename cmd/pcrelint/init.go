package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pcrelint/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default pcrelint.toml",
		Long: `Init writes pcrelint.toml with the default settings into dir (default: the
current directory). The directory is created when missing; an existing
pcrelint.toml is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := config.WriteDefault(target)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("already initialized: %s exists", filepath.Join(target, config.FileNames[0]))
	}
	if err != nil {
		return err
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
