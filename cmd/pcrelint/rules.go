package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"pcrelint/internal/diag"
)

type ruleInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Override string `json:"override,omitempty"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List diagnostic codes and the configured overrides",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	_, settings, err := loadSettings(cmd, ".")
	if err != nil {
		return err
	}

	codes := diag.KnownCodes()
	rules := make([]ruleInfo, 0, len(codes))
	for _, c := range codes {
		r := ruleInfo{ID: c.ID(), Title: c.Title()}
		if settings.Disabled[c] {
			r.Override = "off"
		} else if sev, ok := settings.Severity[c]; ok {
			r.Override = diag.SeverityLabel(sev)
		}
		rules = append(rules, r)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		_, err := fmt.Fprintln(out, rulesTable(rules).Render())
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// rulesTable lays the rules out in aligned columns without borders.
func rulesTable(rules []ruleInfo) *table.Table {
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, _ int) lipgloss.Style { return cell }).
		Headers("CODE", "TITLE", "OVERRIDE")
	for _, r := range rules {
		t.Row(r.ID, r.Title, r.Override)
	}
	return t
}
