package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pcrelint/internal/config"
	"pcrelint/internal/diag"
	"pcrelint/internal/diagfmt"
	"pcrelint/internal/driver"
	"pcrelint/internal/metrics"
	"pcrelint/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.php|directory]",
		Short: "Inspect PHP sources for regex, inclusion and offset problems",
		Long: `Check runs the enabled inspections over a PHP file or over every PHP file
below a directory (default: the current directory). The exit status is 1 when
a diagnostic with error severity is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.Int("jobs", 0, "max parallel workers (0 = config value, then GOMAXPROCS)")
	f.Bool("no-warnings", false, "report only error diagnostics")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("disk-cache", false, "reuse findings of unchanged projects from the disk cache")
	f.Bool("strict-syntax", false, "report lexer and parser recovery diagnostics")
	f.String("ui", "auto", "progress view on stderr (auto|on|off)")
	f.String("metrics-file", "", "write Prometheus metrics of the run to this file")
	f.StringSlice("only", nil, "run only these inspections (regex,inclusion,offset)")
	return cmd
}

type checkFlags struct {
	format           string
	jobs             int
	noWarnings       bool
	warningsAsErrors bool
	fullPath         bool
	withNotes        bool
	diskCache        bool
	strictSyntax     bool
	ui               uiMode
	metricsFile      string
	only             []string
	timings          bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var cf checkFlags
	var err error
	f := cmd.Flags()
	if cf.format, err = f.GetString("format"); err != nil {
		return cf, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch cf.format {
	case "pretty", "short", "json", "sarif":
	default:
		return cf, fmt.Errorf("unknown format: %s", cf.format)
	}
	if cf.jobs, err = f.GetInt("jobs"); err != nil {
		return cf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cf.noWarnings, err = f.GetBool("no-warnings"); err != nil {
		return cf, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if cf.warningsAsErrors, err = f.GetBool("warnings-as-errors"); err != nil {
		return cf, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if cf.noWarnings && cf.warningsAsErrors {
		return cf, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if cf.fullPath, err = f.GetBool("fullpath"); err != nil {
		return cf, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if cf.withNotes, err = f.GetBool("with-notes"); err != nil {
		return cf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if cf.diskCache, err = f.GetBool("disk-cache"); err != nil {
		return cf, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if cf.strictSyntax, err = f.GetBool("strict-syntax"); err != nil {
		return cf, fmt.Errorf("failed to get strict-syntax flag: %w", err)
	}
	uiStr, err := f.GetString("ui")
	if err != nil {
		return cf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cf.ui, err = readUIMode(uiStr); err != nil {
		return cf, err
	}
	if cf.metricsFile, err = f.GetString("metrics-file"); err != nil {
		return cf, fmt.Errorf("failed to get metrics-file flag: %w", err)
	}
	if cf.only, err = f.GetStringSlice("only"); err != nil {
		return cf, fmt.Errorf("failed to get only flag: %w", err)
	}
	if cf.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return cf, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return cf, nil
}

// runCheck executes the "check" command: it resolves configuration, runs the
// driver over the target, prints the findings in the chosen format and
// returns errFindings when any diagnostic has error severity.
func runCheck(cmd *cobra.Command, args []string) error {
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	_, settings, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	if len(cf.only) > 0 {
		if settings.Inspections, err = config.Select(cf.only); err != nil {
			return err
		}
	}

	opts := driver.Options{
		Settings:     settings,
		Jobs:         cf.jobs,
		StrictSyntax: cf.strictSyntax,
		Timings:      cf.timings,
	}
	if cf.diskCache || settings.CacheEnabled {
		cache, err := driver.OpenDiskCache("pcrelint", settings.CacheDir)
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}
	var collector *metrics.Collector
	if cf.metricsFile != "" {
		collector = metrics.New()
		opts.Progress = collector
	}

	var result *driver.Result
	if !quiet(cmd) && shouldUseTUI(cf.ui) {
		result, err = runCheckWithUI(cmd.Context(), "pcrelint check", target, opts)
	} else {
		result, err = driver.Check(cmd.Context(), target, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if collector != nil {
		collector.ObserveResult(result)
		if err := collector.WriteTextfile(cf.metricsFile); err != nil {
			return err
		}
	}

	applySeverityFlags(result.Bag, cf)
	if err := writeFindings(cmd, cmd.OutOrStdout(), result, cf, append([]string{"check"}, args...)); err != nil {
		return err
	}
	if cf.format == "pretty" && !quiet(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), summaryLine(result))
	}
	if result.Bag.HasErrors() {
		return errFindings
	}
	return nil
}

// applySeverityFlags implements --no-warnings and --warnings-as-errors.
// Run-level diagnostics are kept as they are.
func applySeverityFlags(bag *diag.Bag, cf checkFlags) {
	switch {
	case cf.noWarnings:
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity == diag.SevError || d.Code == diag.ObsTimings
		})
	case cf.warningsAsErrors:
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
}

func writeFindings(cmd *cobra.Command, out io.Writer, result *driver.Result, cf checkFlags, invocation []string) error {
	pathMode := diagfmt.PathModeRelative
	if cf.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch cf.format {
	case "pretty":
		color, err := useColor(cmd, stdoutFile(out))
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			Context:   0,
			PathMode:  pathMode,
			ShowNotes: cf.withNotes,
		})
		if result.Bag.Len() > 0 {
			fmt.Fprintln(out)
		}
		return nil
	case "short":
		return diagfmt.Short(out, result.Bag, result.FileSet, cf.withNotes)
	case "json":
		return diagfmt.JSON(out, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     cf.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(out, result.Bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "pcrelint",
			ToolVersion:    version.Version,
			InvocationArgs: invocation,
		})
	}
	return fmt.Errorf("unknown format: %s", cf.format)
}

// stdoutFile returns os.Stdout when out is the process stdout.
func stdoutFile(out io.Writer) *os.File {
	if f, ok := out.(*os.File); ok && f == os.Stdout {
		return f
	}
	return nil
}

func summaryLine(result *driver.Result) string {
	var errs, warns, weak int
	for _, d := range result.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			weak++
		}
	}
	st := result.Stats
	var parts []string
	parts = append(parts, fmt.Sprintf("%d analyzed", st.Analyzed))
	if st.Cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", st.Cached))
	}
	if st.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", st.Skipped))
	}
	if st.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", st.Failed))
	}
	return fmt.Sprintf("checked %d files (%s): %d errors, %d warnings, %d weak",
		st.Files, strings.Join(parts, ", "), errs, warns, weak)
}
