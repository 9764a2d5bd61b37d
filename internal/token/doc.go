// Package token defines lexical token kinds and trivia for PHP sources.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Whitespace and comments never appear in the main token stream; they are
//     attached to the following token as leading Trivia.
//   - Keywords are matched case-insensitively; true/false/null, self and
//     parent are identifiers and are recognized by the parser.
//   - Qualified names (Foo\Bar, \strlen, namespace\x) are a single Ident token.
//   - String literals are not decoded here: lexer.DecodeString does that.
package token
