package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress display of check.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI reports whether progress is drawn on stderr. In auto mode a
// dumb terminal or a CI environment turns it off.
func shouldUseTUI(mode uiMode) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	if os.Getenv("TERM") == "dumb" || os.Getenv("CI") != "" {
		return false
	}
	return isTerminal(os.Stderr)
}
