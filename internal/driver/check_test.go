package driver_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pcrelint/internal/config"
	"pcrelint/internal/diag"
	"pcrelint/internal/driver"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func defaultSettings(t *testing.T) config.Settings {
	t.Helper()
	s, err := config.Default().Settings()
	require.NoError(t, err)
	return s
}

// summary renders findings as "file CODE" in result order.
func summary(res *driver.Result) []string {
	var out []string
	for _, d := range res.Bag.Items() {
		name := "?"
		if f := res.FileSet.Get(d.Primary.File); f != nil {
			name = filepath.Base(f.Path)
		}
		out = append(out, name+" "+d.Code.ID())
	}
	return out
}

var project = map[string]string{
	"lib.php": `<?php
namespace Lib;
const DIGITS = '/[0-9]+/';
`,
	"main.php": `<?php
include 'config.php';
preg_match('/[0-9]+/', $s, $m);
`,
	"plain.php":       `<?php echo "hi";`,
	"vendor/dep.php":  `<?php include 'x.php';`,
	"README.md":       `preg_match`,
	"src/offsets.php": `<?php function f(int $i) { return $i[0]; }`,
}

func TestCheckFindings(t *testing.T) {
	root := writeTree(t, project)
	res, err := driver.Check(context.Background(), root, driver.Options{Settings: defaultSettings(t)})
	require.NoError(t, err)

	require.Equal(t, []string{
		"main.php SEC8001",
		"main.php RGX7009",
		"offsets.php SEM3001",
	}, summary(res))
	require.Equal(t, driver.Stats{Files: 4, Analyzed: 3, Skipped: 1}, res.Stats)

	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	require.Equal(t, []string{"lib.php", "main.php", "plain.php", "src/offsets.php"}, paths)
}

func TestCheckSingleFile(t *testing.T) {
	root := writeTree(t, project)
	res, err := driver.Check(context.Background(), filepath.Join(root, "main.php"), driver.Options{Settings: defaultSettings(t)})
	require.NoError(t, err)
	require.Equal(t, []string{"main.php SEC8001", "main.php RGX7009"}, summary(res))
}

func TestCheckNoFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": "nothing"})
	_, err := driver.Check(context.Background(), root, driver.Options{Settings: defaultSettings(t)})
	require.True(t, errors.Is(err, driver.ErrNoFiles), "got %v", err)
}

func TestCheckInspectionSelection(t *testing.T) {
	root := writeTree(t, project)
	s := defaultSettings(t)
	s.Inspections = config.Inspections{Regex: true}
	res, err := driver.Check(context.Background(), root, driver.Options{Settings: s})
	require.NoError(t, err)
	require.Equal(t, []string{"main.php RGX7009"}, summary(res))
}

func TestCheckOverrides(t *testing.T) {
	root := writeTree(t, project)
	s := defaultSettings(t)
	s.Severity[diag.RgxShortClass] = diag.SevError
	s.Disabled[diag.SecUntrustedInclusion] = true
	res, err := driver.Check(context.Background(), root, driver.Options{Settings: s})
	require.NoError(t, err)
	require.Equal(t, []string{"main.php RGX7009", "offsets.php SEM3001"}, summary(res))
	require.Equal(t, diag.SevError, res.Bag.Items()[0].Severity)
}

func TestCheckStrictSyntax(t *testing.T) {
	root := writeTree(t, map[string]string{"broken.php": "<?php $a = 'open"})
	s := defaultSettings(t)

	res, err := driver.Check(context.Background(), root, driver.Options{Settings: s})
	require.NoError(t, err)
	require.Empty(t, summary(res))

	res, err = driver.Check(context.Background(), root, driver.Options{Settings: s, StrictSyntax: true})
	require.NoError(t, err)
	require.Contains(t, summary(res), "broken.php LEX1002")
}

func TestCheckDeterministicAcrossJobs(t *testing.T) {
	files := make(map[string]string)
	for i := range 24 {
		files[fmt.Sprintf("pkg%d/f%02d.php", i%3, i)] = fmt.Sprintf(`<?php
const RE%d = '/[a-zA-Z0-9_]+x/';
preg_match(RE%d, $s);
preg_replace('/^abc/', 'x', $s);
include 'f%d.php';
function g%d(float $k, array $a) { return $a[$k]; }
`, i, i, i, i)
	}
	root := writeTree(t, files)
	s := defaultSettings(t)

	var outputs []string
	for _, jobs := range []int{1, 4, 16} {
		res, err := driver.Check(context.Background(), root, driver.Options{Settings: s, Jobs: jobs})
		require.NoError(t, err)
		outputs = append(outputs, diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, true))
	}
	require.NotEmpty(t, outputs[0])
	require.Equal(t, outputs[0], outputs[1])
	require.Equal(t, outputs[0], outputs[2])
}

func TestCheckDiskCache(t *testing.T) {
	root := writeTree(t, project)
	cache, err := driver.OpenDiskCache("pcrelint", t.TempDir())
	require.NoError(t, err)
	opts := driver.Options{Settings: defaultSettings(t), Cache: cache}

	first, err := driver.Check(context.Background(), root, opts)
	require.NoError(t, err)
	require.Zero(t, first.Stats.Cached)

	second, err := driver.Check(context.Background(), root, opts)
	require.NoError(t, err)
	require.Equal(t, driver.Stats{Files: 4, Cached: 4}, second.Stats)
	require.Equal(t,
		diag.FormatShortDiagnostics(first.Bag.Items(), first.FileSet, true),
		diag.FormatShortDiagnostics(second.Bag.Items(), second.FileSet, true))

	// any content change invalidates every entry
	require.NoError(t, os.WriteFile(filepath.Join(root, "plain.php"), []byte(`<?php echo "bye";`), 0o644))
	third, err := driver.Check(context.Background(), root, opts)
	require.NoError(t, err)
	require.Zero(t, third.Stats.Cached)
	require.Equal(t, summary(first), summary(third))
}

func TestCheckProgress(t *testing.T) {
	root := writeTree(t, project)
	var (
		mu    sync.Mutex
		final = map[string]driver.Status{}
	)
	sink := driver.SinkFunc(func(evt driver.Event) {
		if evt.File == "" || evt.Stage != driver.StageAnalyze || !evt.Status.Final() {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		final[evt.File] = evt.Status
	})
	_, err := driver.Check(context.Background(), root, driver.Options{Settings: defaultSettings(t), Progress: sink})
	require.NoError(t, err)
	require.Equal(t, map[string]driver.Status{
		"lib.php":         driver.StatusDone,
		"main.php":        driver.StatusDone,
		"plain.php":       driver.StatusSkipped,
		"src/offsets.php": driver.StatusDone,
	}, final)
}

func TestCheckCancelled(t *testing.T) {
	root := writeTree(t, project)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Check(ctx, root, driver.Options{Settings: defaultSettings(t)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckTimings(t *testing.T) {
	root := writeTree(t, project)
	res, err := driver.Check(context.Background(), root, driver.Options{Settings: defaultSettings(t), Timings: true})
	require.NoError(t, err)
	items := res.Bag.Items()
	last := items[len(items)-1]
	require.Equal(t, diag.ObsTimings, last.Code)
	require.True(t, strings.HasPrefix(last.Message, "timings (check)"))
	require.Len(t, last.Notes, 1)
}

func TestCheckSharedPatternReportedOnce(t *testing.T) {
	root := writeTree(t, map[string]string{"main.php": `<?php
const RE = '/[0-9]+/';
preg_match(RE, $a);
preg_match(RE, $b);
`})
	res, err := driver.Check(context.Background(), root, driver.Options{Settings: defaultSettings(t)})
	require.NoError(t, err)
	require.Equal(t, []string{"main.php RGX7009"}, summary(res))
}

func TestCheckRepeatsWithinCallSiteKept(t *testing.T) {
	root := writeTree(t, map[string]string{"main.php": `<?php
preg_match('/x/zz', $s, $m);
preg_match('/[0-9]a[0-9]/', $s, $m);
`})
	res, err := driver.Check(context.Background(), root, driver.Options{Settings: defaultSettings(t)})
	require.NoError(t, err)
	require.Equal(t, []string{
		"main.php RGX7002",
		"main.php RGX7002",
		"main.php RGX7009",
		"main.php RGX7009",
	}, summary(res))
}
