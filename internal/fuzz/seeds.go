package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

// phpSeeds cover each inspection plus the recovery paths of the parser.
var phpSeeds = []string{
	"",
	"<?php",
	"<?php preg_match('/[0-9]+/', $s, $m);",
	"<?php preg_replace('~^abc~i', '', $s); preg_split(\"#\\\\s+#\", $s);",
	"<?php const RE = '/[a-zA-Z0-9_]{2}x/'; preg_match(RE, $s);",
	"<?php class A { const P = '{.*?}s'; function f() { return preg_match_all(self::P, $x); } }",
	"<?php include $_GET['page']; require_once __DIR__ . '/x.php';",
	"<?php function f(int $i, array $a) { return $i[0] + $a[1.5]; }",
	"<?php final class C implements ArrayAccess { function offsetGet($k): mixed {} }",
	"<p><?= $x ?></p><?php if ($a) { echo 1; } else { echo <<<EOT\n$a {$b}\nEOT;\n}",
	"<?php function ( { $a = ; }",
	"<?php $f = fn($x) => $x[ ;",
	"<?php 'unterminated",
	"<?php /* open comment",
	"<?php __halt_compiler(); junk",
}

// patternSeeds are raw literal texts as they appear between the quotes.
var patternSeeds = []string{
	"/[0-9]+/",
	"/^abc$/D",
	"~[a-zA-Z0-9_][a-zA-Z0-9_][a-zA-Z0-9_]~u",
	"#.*?x.*#s",
	"(foo|bar)i",
	"{a}e",
	"[\\d]x",
	"/(?i)[A-Z]/i",
	"/\\Q.*\\E/",
	"/[^\\d\\s]/",
	"/a{2,}+?/",
	"/\\1(a)/",
	"/[/",
	"/",
	"",
}

func addPHPSeeds(f *testing.F) {
	for _, s := range phpSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "php")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".php" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
