package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestSummary(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"plain", "1.2.3", "", "", "pcrelint 1.2.3"},
		{"prerelease", "0.1.0-dev", "", "", "pcrelint 0.1.0-dev"},
		{"build metadata", "1.2.3-rc.1+build.123", "", "", "pcrelint 1.2.3-rc.1+build.123"},
		{"commit is shortened", "1.0.0", "1234567890abcdef1234", "", "pcrelint 1.0.0 (1234567890ab)"},
		{"date", "1.0.0", "abc123", "2024-01-15T10:30:00Z", "pcrelint 1.0.0 (abc123) built 2024-01-15T10:30:00Z"},
		{"not semver", "nightly", "", "", "pcrelint nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, tt.commit, tt.date)
			if got := Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkColored(b *testing.B) {
	for b.Loop() {
		_ = Colored()
	}
}
