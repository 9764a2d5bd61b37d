package observ

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer(0)
	if got := timer.Report(); got.TotalMS != 0 || len(got.Phases) != 0 || len(got.Slowest) != 0 {
		t.Fatalf("empty timer report = %+v", got)
	}

	stopLoad := timer.Phase("load")
	time.Sleep(time.Millisecond)
	stopLoad("3 files")
	timer.Phase("analyze")("")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "load" || report.Phases[0].Note != "3 files" {
		t.Fatalf("first phase = %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Fatalf("load duration not recorded: %+v", report.Phases[0])
	}
	sum := report.Phases[0].DurationMS + report.Phases[1].DurationMS
	if math.Abs(report.TotalMS-sum) > 1e-6 {
		t.Fatalf("total %.3f != sum %.3f", report.TotalMS, sum)
	}

	summary := timer.Summary()
	for _, want := range []string{"timings:", "load", "// 3 files", "analyze", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "slowest files") {
		t.Errorf("summary lists slowest files without any:\n%s", summary)
	}
}

func TestTimerSlowest(t *testing.T) {
	timer := NewTimer(3)
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.File(fmt.Sprintf("f%d.php", i), time.Duration(i)*time.Millisecond)
		}()
	}
	wg.Wait()
	timer.File("tie.php", 9*time.Millisecond)

	var got []string
	for _, f := range timer.Report().Slowest {
		got = append(got, f.Path)
	}
	want := []string{"f9.php", "tie.php", "f8.php"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("slowest = %v, want %v", got, want)
	}
	if !strings.Contains(timer.Summary(), "slowest files:\n     9.00 ms  f9.php") {
		t.Fatalf("summary:\n%s", timer.Summary())
	}
}
