package prefilter

import (
	"testing"

	"pcrelint/internal/config"
)

func TestFilterMatch(t *testing.T) {
	all := config.Inspections{Regex: true, Inclusion: true, Offset: true}
	regexOnly := config.Inspections{Regex: true}
	inclusionOnly := config.Inspections{Inclusion: true}

	tests := []struct {
		name    string
		in      config.Inspections
		content string
		want    bool
	}{
		{"regex call", regexOnly, `<?php preg_match('/a/', $s);`, true},
		{"upper case call", regexOnly, `<?php PREG_MATCH('/a/', $s);`, true},
		{"no call", regexOnly, `<?php echo strlen($s);`, false},
		{"array access ignored", regexOnly, `<?php $a[0];`, false},
		{"require", inclusionOnly, `<?php REQUIRE_ONCE 'a.php';`, true},
		{"include missing", inclusionOnly, `<?php echo 1;`, false},
		{"offset", all, `<?php $a[0];`, true},
		{"plain html", all, `<p>hello</p>`, false},
		{"nothing enabled", config.Inspections{}, `<?php preg_match('/a/', $s);`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.in)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := f.Match([]byte(tt.content)); got != tt.want {
				t.Fatalf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNilFilterAcceptsEverything(t *testing.T) {
	var f *Filter
	if !f.Match(nil) {
		t.Fatal("nil filter rejected input")
	}
}

func TestDeclarations(t *testing.T) {
	f, err := NewDeclarations()
	if err != nil {
		t.Fatalf("NewDeclarations: %v", err)
	}
	tests := []struct {
		content string
		want    bool
	}{
		{`<?php const A = 1;`, true},
		{`<?php DEFINE('A', 1);`, true},
		{`<?php final class X {}`, true},
		{`<?php echo $a;`, false},
	}
	for _, tt := range tests {
		if got := f.Match([]byte(tt.content)); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}
