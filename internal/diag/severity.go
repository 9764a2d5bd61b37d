package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWeak is for stylistic or optimisation hints.
	SevWeak Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWeak:
		return "WEAK"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the lower- or upper-case names produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weak", "info", "hint":
		return SevWeak, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevWeak, fmt.Errorf("invalid severity %q (expected weak|warning|error)", s)
}
