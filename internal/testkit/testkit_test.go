package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pcrelint/internal/ast"
	"pcrelint/internal/parser"
	"pcrelint/internal/source"
)

func TestLineDiff(t *testing.T) {
	require.Empty(t, LineDiff("a\nb\n", "a\nb\n"))
	require.Equal(t, "  a\n- b\n+ c\n", LineDiff("a\nb\n", "a\nc\n"))
}

func TestGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.golden")
	t.Setenv(UpdateEnv, "1")
	Golden(t, path, "hello\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(data))

	t.Setenv(UpdateEnv, "")
	Golden(t, path, "hello\n")
}

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.php", []byte(`<?php
namespace App;
class A { const RE = '/x+/'; public function m(array $a) { return $a[0] ?? preg_match(self::RE, 'y'); } }
include __DIR__ . '/b.php';
`))
	sf := fs.Get(id)
	tree := parser.ParseFile(sf, parser.Options{})
	require.NoError(t, CheckSpanInvariants(tree, sf))

	broken := &ast.File{ID: id, Span: source.Span{File: id, Start: 0, End: 3}}
	require.Error(t, CheckSpanInvariants(broken, sf))
}
