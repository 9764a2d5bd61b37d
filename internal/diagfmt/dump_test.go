package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pcrelint/internal/lexer"
	"pcrelint/internal/parser"
	"pcrelint/internal/source"
)

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.php", []byte("<?php $a = 1;"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()

	var buf bytes.Buffer
	require.NoError(t, FormatTokensPretty(&buf, toks, fs))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(toks))
	require.True(t, strings.HasPrefix(lines[0], "  1: OpenTag"), lines[0])
	require.Contains(t, lines[len(lines)-1], "EOF")

	buf.Reset()
	require.NoError(t, FormatTokensJSON(&buf, toks))
	var out []TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	var kinds []string
	for _, tok := range out {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []string{"OpenTag", "Variable", "=", "IntLit", ";", "EOF"}, kinds)
}

func TestFormatAST(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.php", []byte("<?php preg_match('/a/', $s);"))
	tree := parser.ParseFile(fs.Get(id), parser.Options{})

	var buf bytes.Buffer
	require.NoError(t, FormatASTPretty(&buf, tree, fs.Get(id)))
	require.True(t, strings.HasPrefix(buf.String(), "# t.php\nFile"), buf.String())
	require.Contains(t, buf.String(), "Call preg_match args=2")

	root := BuildASTOutput(tree)
	require.Equal(t, "File", root.Type)
	var found bool
	var walk func(n *ASTNodeOutput)
	walk = func(n *ASTNodeOutput) {
		if n.Type == "Call preg_match args=2" {
			found = true
			require.Len(t, n.Children, 2)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	require.True(t, found)
}
