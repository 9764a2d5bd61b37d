package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// line 2 starts at byte 6; "[0-9]" covers bytes 19..24
const phpSample = "<?php\npreg_match('/[0-9]/', $s);\n"

func sampleBag(t *testing.T, path string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(phpSample))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.RgxShortClass,
		source.Span{File: id, Start: 19, End: 24}, "[0-9] can be written as \\d"))
	return bag, fs
}

// TestPathModes checks how file paths are rendered in the header.
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	dir := t.TempDir()
	id := fs.Add(dir+"/src/test.php", []byte(phpSample), 0)
	fs.SetBaseDir(dir)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: id, Start: 17, End: 26}, "unterminated string literal"))

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"Absolute path", PathModeAbsolute, dir + "/src/test.php:2:12:"},
		{"Relative path", PathModeRelative, "src/test.php:2:12:"},
		{"Basename only", PathModeBasename, "test.php:2:12:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.HasPrefix(output, tt.want) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.want, output)
			}
			if !strings.Contains(output, "ERROR LEX1002: unterminated string literal") {
				t.Errorf("missing header, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := sampleBag(t, "src/test.php")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative})

	want := "src/test.php:2:14: WARNING RGX7009: [0-9] can be written as \\d\n" +
		" 2 | preg_match('/[0-9]/', $s);\n" +
		"   | " + strings.Repeat(" ", 13) + "^~~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sampleBag(t, "test.php")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeRelative})
	output := buf.String()

	for _, want := range []string{" 1 | <?php\n", " 2 | preg_match", " 3 | \n"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, " 4 |") {
		t.Errorf("context ran past the end of the file:\n%s", output)
	}
}

func TestPrettyTabsAndWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("tabs.php", []byte("\tpreg_match('/[0-9]/', $s);"))
	bag := diag.NewBag(10)
	// "[0-9]" starts after the tab and 13 more bytes
	bag.Add(diag.New(diag.SevWeak, diag.RgxShortClass, source.Span{File: id, Start: 14, End: 19}, "short"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header, line and caret, got %q", buf.String())
	}
	if want := "   | " + strings.Repeat(" ", 17) + "^~~~~"; lines[2] != want {
		t.Errorf("caret line:\n got: %q\nwant: %q", lines[2], want)
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, Width: 12})
	if !strings.Contains(buf.String(), "…") {
		t.Errorf("expected truncated line, got:\n%s", buf.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.php", []byte(phpSample))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.RgxShortClass, source.Span{File: id, Start: 19, End: 24}, "short class")
	d = d.WithNote(source.Span{File: id, Start: 6, End: 16}, "in this call")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative})
	if strings.Contains(buf.String(), "note:") {
		t.Errorf("notes should be hidden by default:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true})
	if !strings.Contains(buf.String(), "  note: test.php:2:1: in this call\n") {
		t.Errorf("expected note line, got:\n%s", buf.String())
	}
}

func TestPrettyTimingsUnanchored(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("test.php", []byte(phpSample))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWeak, diag.ObsTimings, source.Span{}, "timings (check): total=1.00ms")
	d = d.WithNote(source.Span{}, "analyze=0.50ms")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative})
	want := "WEAK OBS6001: timings (check): total=1.00ms\n  note: analyze=0.50ms\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", got, want)
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t, "src/test.php")
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "RGX7009 src/test.php:2:14") {
		t.Errorf("unexpected short output: %q", buf.String())
	}

	buf.Reset()
	if err := Short(&buf, diag.NewBag(0), fs, false); err != nil || buf.Len() != 0 {
		t.Errorf("empty bag should write nothing, got %q (%v)", buf.String(), err)
	}
}
