package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pcrelint/internal/config"
)

// loadSettings resolves the config for target and applies the persistent
// flags that override it.
func loadSettings(cmd *cobra.Command, target string) (config.Config, config.Settings, error) {
	pf := cmd.Root().PersistentFlags()
	explicit, err := pf.GetString("config")
	if err != nil {
		return config.Config{}, config.Settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	startDir := target
	if startDir == "" {
		startDir = "."
	}
	if info, statErr := os.Stat(startDir); statErr == nil && !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}

	cfg, err := config.Resolve(explicit, startDir)
	if err != nil {
		return config.Config{}, config.Settings{}, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return config.Config{}, config.Settings{}, err
	}

	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return config.Config{}, config.Settings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics > 0 {
		settings.MaxDiagnostics = maxDiagnostics
	}
	return cfg, settings, nil
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
