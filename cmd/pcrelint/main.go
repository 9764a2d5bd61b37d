package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pcrelint/internal/version"
)

// errFindings signals that diagnostics with error severity were reported.
// The diagnostics are already printed, so the error itself is not.
var errFindings = errors.New("error diagnostics reported")

// newRootCmd assembles the command tree and its persistent flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pcrelint",
		Short: "Static analysis of PHP regular expressions and risky constructs",
		Long: `pcrelint inspects preg_* pattern literals for redundant or risky constructs,
reports includes built from untrusted input and array access on values that
cannot support it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			traceCleanup, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			profCleanup, err := setupProfiling(cmd)
			if err != nil {
				traceCleanup()
				return err
			}
			cleanups = append(cleanups, profCleanup, traceCleanup)
			return nil
		},
	}

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = config value)")
	pf.String("config", "", "path to pcrelint.toml or .pcrelint.yaml (default: discovered)")

	pf.String("trace", "", "write trace events to this file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
	return rootCmd
}

// cleanups run in order after the command finishes, whatever its outcome.
var cleanups []func()

func runCleanups() {
	for _, fn := range cleanups {
		fn()
	}
	cleanups = nil
}

// main executes the root command. Error findings exit with status 1,
// failures to run exit with status 2.
func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}

func execute(rootCmd *cobra.Command, args []string) int {
	defer dumpTraceOnPanic()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	runCleanups()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return 1
	default:
		fmt.Fprintf(rootCmd.ErrOrStderr(), "pcrelint: %v\n", err)
		return 2
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return f != nil && isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}
