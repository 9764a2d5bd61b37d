package driver

import (
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/lexer"
	"pcrelint/internal/parser"
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

// StdinPath makes Tokenize and Parse read standard input.
const StdinPath = "-"

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// TokenizeResult is the token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// ParseResult is the syntax tree of one file.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.File
	Bag     *diag.Bag
}

// loadSingle reads path, or stdin for StdinPath, into a fresh FileSet.
func loadSingle(path string) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	if path == StdinPath {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		return fs, fs.Get(fs.AddVirtual("<stdin>", content)), nil
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return fs, fs.Get(id), nil
}

// Tokenize lexes one file up to and including EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs, file, err := loadSingle(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return &TokenizeResult{FileSet: fs, File: file, Tokens: lx.All(), Bag: bag}, nil
}

// Parse parses one file. Syntax problems go to Bag; the tree is always
// returned.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	fs, file, err := loadSingle(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	tree := parser.ParseFile(file, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})
	return &ParseResult{FileSet: fs, File: file, Tree: tree, Bag: bag}, nil
}
