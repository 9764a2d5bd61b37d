package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("index.php", []byte("<?php echo 1;"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("index.php", []byte("<?php echo 2;"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("index.php")
	if !exists {
		t.Fatal("Expected file to exist after Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "<?php echo 1;" {
		t.Errorf("unexpected first content %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.php", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.php", []byte("<?php\n$a = 1;\n\n$b = 2;"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{5, LineCol{1, 6}}, // сам '\n'
		{6, LineCol{2, 1}},
		{9, LineCol{2, 4}},
		{14, LineCol{3, 1}},
		{15, LineCol{4, 1}},
		{18, LineCol{4, 4}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestLoadKeepsBytesAndFlagsBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.php")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<?php\r\necho 1;\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != string(content) {
		t.Errorf("content changed on load: %q", f.Content)
	}
	if f.Flags&FileHasBOM == 0 || f.Flags&FileHasCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if got := f.GetLine(1); got != "<?php" {
		t.Errorf("GetLine(1) = %q, want <?php", got)
	}
	if got := f.GetLine(2); got != "echo 1;" {
		t.Errorf("GetLine(2) = %q, want echo 1;", got)
	}
	// "echo" starts after the BOM, the open tag and CRLF
	if start, _ := fs.Resolve(Span{File: id, Start: 10, End: 14}); start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("Resolve = %+v, want 2:1", start)
	}
	if got := f.FormatPath("relative", dir); got != "win.php" {
		t.Errorf("relative path = %q, want win.php", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.php")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.php", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for line, want := range cases {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestFileSetText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.php", []byte("<?php preg_match('/x/', $s);"))
	if got := fs.Text(Span{File: id, Start: 6, End: 16}); got != "preg_match" {
		t.Errorf("Text = %q", got)
	}
	if got := fs.Text(Span{File: id, Start: 20, End: 400}); got != "/', $s);" {
		t.Errorf("clamped Text = %q", got)
	}
	if got := fs.Text(Span{File: 9}); got != "" {
		t.Errorf("unknown file Text = %q", got)
	}
}
