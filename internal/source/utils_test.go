package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "file.php")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	baseDir := t.TempDir()
	target := filepath.Join(baseDir, "nested", "file.php")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := "nested/file.php"; got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}

func TestDetectFlags(t *testing.T) {
	tests := []struct {
		in   string
		want FileFlags
	}{
		{"<?php\n", 0},
		{"\xEF\xBB\xBF<?php", FileHasBOM},
		{"a\r\nb", FileHasCRLF},
		{"a\rb", 0},
		{"\xEF\xBB\xBFa\r\n", FileHasBOM | FileHasCRLF},
	}
	for _, tt := range tests {
		if got := detectFlags([]byte(tt.in)); got != tt.want {
			t.Errorf("detectFlags(%q) = %b, want %b", tt.in, got, tt.want)
		}
	}
}
