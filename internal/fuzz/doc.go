// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (source -> lexer -> parser -> index -> inspections) and for the regex
// tokenizer and rules. They guard against panics and hangs on arbitrary
// input.
//
// The harnesses load bytes into a FileSet; they never touch the disk beyond
// reading seed files from testdata.
package fuzztests
