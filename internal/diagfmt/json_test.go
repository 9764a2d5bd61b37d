package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t, "src/test.php")

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	want := DiagnosticsOutput{
		Count:   1,
		Summary: SummaryJSON{Warnings: 1},
		Diagnostics: []DiagnosticJSON{{
			Severity: "WARNING",
			Code:     "RGX7009",
			Rule:     diag.RgxShortClass.Title(),
			Message:  "[0-9] can be written as \\d",
			Location: LocationJSON{
				File: "src/test.php", StartByte: 19, EndByte: 24,
				StartLine: 2, StartCol: 14, EndLine: 2, EndCol: 19,
			},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.php", []byte(phpSample))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.RgxShortClass, source.Span{File: id, Start: 19, End: 24}, "short class")
	bag.Add(d.WithNote(source.Span{File: id, Start: 6, End: 16}, "in this call"))

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes should be omitted without IncludeNotes")
	}

	out, err = BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []NoteJSON{{
		Message:  "in this call",
		Location: LocationJSON{File: "test.php", StartByte: 6, EndByte: 16},
	}}
	if diff := cmp.Diff(want, out.Diagnostics[0].Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.php", []byte(phpSample))
	bag := diag.NewBag(0)
	for i := range 5 {
		bag.Add(diag.New(diag.SevWeak, diag.RgxShortClass, source.Span{File: id, Start: uint32(i), End: uint32(i + 1)}, "x"))
	}

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 || !out.Truncated {
		t.Errorf("expected 2 diagnostics, got count=%d len=%d truncated=%v", out.Count, len(out.Diagnostics), out.Truncated)
	}
	if out.Summary.Weak != 5 {
		t.Errorf("summary counts the whole bag, got %+v", out.Summary)
	}
	if bag.Len() != 5 {
		t.Errorf("Max must not truncate the bag, len=%d", bag.Len())
	}
}

func TestJSONTimingsHaveNoFile(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("test.php", []byte(phpSample))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWeak, diag.ObsTimings, source.Span{}, "timings (check)").
		WithNote(source.Span{}, "analyze=1ms"))

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true})
	if err != nil {
		t.Fatal(err)
	}
	got := out.Diagnostics[0]
	if got.Location.File != "" {
		t.Errorf("timings must not point into a file, got %q", got.Location.File)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "analyze=1ms" {
		t.Errorf("timings notes are always included, got %+v", got.Notes)
	}
	if out.Summary != (SummaryJSON{}) {
		t.Errorf("timings are not counted as findings, got %+v", out.Summary)
	}
}
