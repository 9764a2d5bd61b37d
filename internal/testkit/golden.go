package testkit

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// UpdateEnv names the environment variable that makes Golden rewrite files.
const UpdateEnv = "PCRELINT_UPDATE_GOLDEN"

// Golden compares got with the contents of path. With UpdateEnv set to 1 it
// writes got to path instead.
func Golden(t testing.TB, path, got string) {
	t.Helper()
	if os.Getenv(UpdateEnv) == "1" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("golden: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o600); err != nil {
			t.Fatalf("golden: %v", err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("golden file %s is missing; rerun with %s=1", path, UpdateEnv)
	}
	if err != nil {
		t.Fatalf("golden: %v", err)
	}
	if diff := LineDiff(string(want), got); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", path, diff)
	}
}

// LineDiff returns a line-oriented diff of want and got, or "" when they
// are equal. Removed lines start with "-", added lines with "+".
func LineDiff(want, got string) string {
	if want == got {
		return ""
	}
	differ := dmp.New()
	a, b, lines := differ.DiffLinesToChars(want, got)
	diffs := differ.DiffCharsToLines(differ.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case dmp.DiffDelete:
			prefix = "- "
		case dmp.DiffInsert:
			prefix = "+ "
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out.WriteString(prefix + line + "\n")
		}
	}
	return out.String()
}
