package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"pcrelint/internal/diag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultTOMLMatchesDefault(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pcrelint.toml", DefaultTOML)
	got, err := Load(path)
	require.NoError(t, err)
	want := Default()
	want.Path = path
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("DefaultTOML mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	tomlPath := writeFile(t, dir, "a.toml", `
[analysis]
extensions = ["php"]
jobs = 3

[inspections]
offset = false

[severity]
RGX7009 = "warning"
SEM3001 = "off"
`)
	yamlPath := writeFile(t, dir, "b.yaml", `
analysis:
  extensions: [php]
  jobs: 3
inspections:
  offset: false
severity:
  RGX7009: warning
  SEM3001: "off"
`)
	for _, path := range []string{tomlPath, yamlPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cfg, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, 3, cfg.Analysis.Jobs)
			require.Equal(t, []string{InspectionRegex, InspectionInclusion}, cfg.Inspections.Names())

			s, err := cfg.Settings()
			require.NoError(t, err)
			require.Equal(t, map[string]bool{".php": true}, s.Extensions)
			require.Equal(t, diag.SevWarning, s.Severity[diag.RgxShortClass])
			require.True(t, s.Disabled[diag.SemaOffsetUnsupported])
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		is      error
	}{
		{"unknown inspection", "a.toml", "[inspections]\nspelling = true\n", ErrUnknownInspection},
		{"unknown key", "b.toml", "[analysis]\nthreads = 2\n", nil},
		{"yaml unknown field", "c.yaml", "analysis:\n  threads: 2\n", nil},
		{"unsupported", "d.json", "{}", ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.file, tt.content))
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestSettingsErrors(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Exclude = []string{"("}
	_, err := cfg.Settings()
	require.Error(t, err)

	cfg = Default()
	cfg.Severity = map[string]string{"RGX9999": "weak"}
	_, err = cfg.Settings()
	require.Error(t, err)

	cfg = Default()
	cfg.Severity = map[string]string{"RGX7009": "loud"}
	_, err = cfg.Settings()
	require.Error(t, err)
}

func TestIncluded(t *testing.T) {
	s, err := Default().Settings()
	require.NoError(t, err)
	tests := []struct {
		path string
		want bool
	}{
		{"src/a.php", true},
		{"src/A.PHP", true},
		{"tpl/page.phtml", true},
		{"README.md", false},
		{"vendor/lib/a.php", false},
		{"src/vendor/a.php", false},
		{"src/vendors/a.php", true},
		{"node_modules/pkg/a.php", false},
		{"web/node_modules/a.php", false},
		{".git/hooks/a.php", false},
		{"a.git/b.php", true},
	}
	for _, tt := range tests {
		if got := s.Included(tt.path); got != tt.want {
			t.Errorf("Included(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	in, err := Select([]string{"regex", " Offset "})
	require.NoError(t, err)
	require.Equal(t, Inspections{Regex: true, Offset: true}, in)

	_, err = Select([]string{"regex", "spelling"})
	require.True(t, errors.Is(err, ErrUnknownInspection))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeFile(t, root, ".pcrelint.yaml", "inspections:\n  regex: false\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := Discover(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfgPath, got)

	cfg, err := Resolve("", nested)
	require.NoError(t, err)
	require.False(t, cfg.Inspections.Regex)

	// pcrelint.toml wins over the yaml file in the same directory
	tomlPath := writeFile(t, root, "pcrelint.toml", "")
	got, _, err = Discover(nested)
	require.NoError(t, err)
	require.Equal(t, tomlPath, got)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "pcrelint.toml"), path)

	_, err = WriteDefault(dir)
	require.ErrorIs(t, err, os.ErrExist)
}
