package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcrelint/internal/prof"
)

// setupProfiling inspects persistent profiling flags and enables the
// corresponding profilers. It returns a cleanup function that is safe to call
// multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()

	var opts prof.Options
	var err error
	if opts.CPUProfile, err = pf.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.MemProfile, err = pf.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.RuntimeTrace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
		}
	}, nil
}
