package lexer

import (
	"pcrelint/internal/diag"
	"pcrelint/internal/token"
)

type opSpelling struct {
	text string
	kind token.Kind
}

// operators is ordered longest first so matching is greedy.
var operators = []opSpelling{
	{"<=>", token.Spaceship}, {"**=", token.PowAssign}, {"...", token.Ellipsis},
	{"<<=", token.ShlAssign}, {">>=", token.ShrAssign}, {"===", token.Identical},
	{"!==", token.NotIdentical}, {"??=", token.CoalesceAssign}, {"?->", token.NullsafeArrow},

	{"::", token.DoubleColon}, {"->", token.Arrow}, {"=>", token.DoubleArrow},
	{"??", token.Coalesce}, {"==", token.Eq}, {"!=", token.NotEq}, {"<>", token.NotEq},
	{"<=", token.LtEq}, {">=", token.GtEq}, {"**", token.Pow}, {"&&", token.AndAnd},
	{"||", token.OrOr}, {"<<", token.Shl}, {">>", token.Shr}, {"++", token.Inc},
	{"--", token.Dec}, {"#[", token.AttrOpen}, {"+=", token.PlusAssign},
	{"-=", token.MinusAssign}, {"*=", token.StarAssign}, {"/=", token.SlashAssign},
	{".=", token.DotAssign}, {"%=", token.PercentAssign}, {"&=", token.AmpAssign},
	{"|=", token.PipeAssign}, {"^=", token.CaretAssign},

	{"(", token.LParen}, {")", token.RParen}, {"[", token.LBracket}, {"]", token.RBracket},
	{"{", token.LBrace}, {"}", token.RBrace}, {",", token.Comma}, {";", token.Semicolon},
	{":", token.Colon}, {"?", token.Question}, {"=", token.Assign}, {"<", token.Lt},
	{">", token.Gt}, {"+", token.Plus}, {"-", token.Minus}, {"*", token.Star},
	{"/", token.Slash}, {"%", token.Percent}, {".", token.Dot}, {"&", token.Amp},
	{"|", token.Pipe}, {"^", token.Caret}, {"~", token.Tilde}, {"!", token.Bang},
	{"@", token.At},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range operators {
		if lx.cursor.HasPrefix(op.text) {
			lx.cursor.BumpN(len(op.text))
			return token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(start), Text: op.text}
		}
	}
	lx.cursor.Bump()
	return lx.invalid(start, diag.LexUnknownChar, "unknown character")
}
