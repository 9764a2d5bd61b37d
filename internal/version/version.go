// Package version holds build metadata for the pcrelint CLI.
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted.
// Pre-release and build suffixes stay plain.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}

// Summary returns a one-line description of the build.
func Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pcrelint %s", Colored())
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&b, " (%s)", commit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, " built %s", BuildDate)
	}
	return b.String()
}
