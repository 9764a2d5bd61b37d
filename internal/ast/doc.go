// Package ast defines the PHP syntax tree used by the analyzers.
//
// The tree is a closed set of node kinds: every expression implements Expr,
// every statement implements Stmt, and consumers dispatch with a type switch.
// Nodes are immutable once the parser returns them.
//
// Class and function names that the parser could resolve are stored fully
// qualified with a leading backslash ("\App\Model"); scalar type names are
// stored lowercase without one ("int", "string").
package ast
