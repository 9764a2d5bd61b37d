package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"pcrelint/internal/diag"
	"pcrelint/internal/driver"
	"pcrelint/internal/observ"
)

func TestCollectorEvents(t *testing.T) {
	c := New()
	events := []driver.Event{
		{Stage: driver.StageAnalyze, Status: driver.StatusWorking},
		{File: "a.php", Stage: driver.StageIndex, Status: driver.StatusDone, Elapsed: time.Millisecond},
		{File: "a.php", Stage: driver.StageAnalyze, Status: driver.StatusWorking},
		{File: "a.php", Stage: driver.StageAnalyze, Status: driver.StatusDone, Elapsed: 2 * time.Millisecond},
		{File: "b.php", Stage: driver.StageAnalyze, Status: driver.StatusSkipped},
		{File: "c.php", Stage: driver.StageAnalyze, Status: driver.StatusCached},
		{File: "d.php", Stage: driver.StageLoad, Status: driver.StatusError},
	}
	for _, evt := range events {
		c.OnEvent(evt)
	}

	require.Equal(t, 1.0, testutil.ToFloat64(c.files.WithLabelValues("done")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.files.WithLabelValues("skipped")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.files.WithLabelValues("cached")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.files.WithLabelValues("error")))
	require.Equal(t, 2, testutil.CollectAndCount(c.durations))
}

func TestObserveResultAndTextfile(t *testing.T) {
	c := New()
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevWeak, Code: diag.RgxShortClass})
	bag.Add(diag.Diagnostic{Severity: diag.SevWeak, Code: diag.RgxShortClass})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SecUntrustedInclusion})
	bag.Add(diag.Diagnostic{Severity: diag.SevWeak, Code: diag.ObsTimings})
	c.ObserveResult(&driver.Result{Bag: bag, Timing: observ.Report{TotalMS: 1500}})

	require.Equal(t, 2.0, testutil.ToFloat64(c.findings.WithLabelValues("RGX7009", "weak")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.findings.WithLabelValues("SEC8001", "error")))
	require.Equal(t, 1.5, testutil.ToFloat64(c.runSecs))

	path := filepath.Join(t.TempDir(), "pcrelint.prom")
	require.NoError(t, c.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.True(t, strings.Contains(text, `pcrelint_findings_total{code="RGX7009",severity="weak"} 2`), text)
	require.False(t, strings.Contains(text, "OBS6001"))
}
