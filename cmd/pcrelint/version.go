package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pcrelint/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show pcrelint build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			full, err := cmd.Flags().GetBool("full")
			if err != nil {
				return fmt.Errorf("failed to get full flag: %w", err)
			}
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), full)
				return nil
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), full)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("full", false, "include git commit and build date")
	return cmd
}

func renderVersionPretty(out io.Writer, full bool) {
	if !full {
		fmt.Fprintf(out, "pcrelint %s\n", version.Colored())
		return
	}
	fmt.Fprintln(out, version.Summary())
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
}

func renderVersionJSON(out io.Writer, full bool) error {
	payload := versionPayload{Tool: "pcrelint", Version: strings.TrimSpace(version.Version)}
	if full {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
