package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	InlineHTML  // text outside <?php ... ?>
	OpenTag     // <?php or <?
	OpenTagEcho // <?=
	CloseTag    // ?>

	Ident    // foo, Foo\Bar, \strlen
	Variable // $name
	Dollar   // bare '$' of $$name or ${expr}

	IntLit
	FloatLit
	StringLit   // 'single quoted' or nowdoc
	TemplateLit // "double quoted" or heredoc, may interpolate
	ShellLit    // `backticks`
	Cast        // (int), (string), ...

	kwBegin
	KwAbstract
	KwAnd
	KwArray
	KwAs
	KwBreak
	KwCallable
	KwCase
	KwCatch
	KwClass
	KwClone
	KwConst
	KwContinue
	KwDeclare
	KwDefault
	KwDo
	KwEcho
	KwElse
	KwElseIf
	KwEmpty
	KwEndDeclare
	KwEndFor
	KwEndForeach
	KwEndIf
	KwEndSwitch
	KwEndWhile
	KwEnum
	KwExit
	KwExtends
	KwFinal
	KwFinally
	KwFn
	KwFor
	KwForeach
	KwFunction
	KwGlobal
	KwGoto
	KwIf
	KwImplements
	KwInclude
	KwIncludeOnce
	KwInstanceof
	KwInsteadof
	KwInterface
	KwIsset
	KwList
	KwMatch
	KwNamespace
	KwNew
	KwOr
	KwPrint
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRequire
	KwRequireOnce
	KwReturn
	KwStatic
	KwSwitch
	KwThrow
	KwTrait
	KwTry
	KwUnset
	KwUse
	KwVar
	KwWhile
	KwXor
	KwYield
	kwEnd

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Semicolon
	Colon
	DoubleColon   // ::
	Arrow         // ->
	NullsafeArrow // ?->
	DoubleArrow   // =>
	Question
	Coalesce       // ??
	CoalesceAssign // ??=
	Assign         // =
	Eq             // ==
	Identical      // ===
	NotEq          // != <>
	NotIdentical   // !==
	Lt
	Gt
	LtEq
	GtEq
	Spaceship // <=>
	Plus
	Minus
	Star
	Slash
	Percent
	Pow // **
	Dot
	Amp
	Pipe
	Caret
	Tilde
	Bang
	AndAnd
	OrOr
	Shl
	Shr
	Inc
	Dec
	At
	Ellipsis // ...
	AttrOpen // #[
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	DotAssign
	PercentAssign
	PowAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign
)

var kindNames = map[Kind]string{
	Invalid: "Invalid", EOF: "EOF",
	InlineHTML: "InlineHTML", OpenTag: "OpenTag", OpenTagEcho: "OpenTagEcho", CloseTag: "CloseTag",
	Ident: "Ident", Variable: "Variable", Dollar: "Dollar",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit", TemplateLit: "TemplateLit",
	ShellLit: "ShellLit", Cast: "Cast",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Semicolon: ";", Colon: ":", DoubleColon: "::", Arrow: "->", NullsafeArrow: "?->",
	DoubleArrow: "=>", Question: "?", Coalesce: "??", CoalesceAssign: "??=", Assign: "=",
	Eq: "==", Identical: "===", NotEq: "!=", NotIdentical: "!==", Lt: "<", Gt: ">",
	LtEq: "<=", GtEq: ">=", Spaceship: "<=>", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Percent: "%", Pow: "**", Dot: ".", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Bang: "!",
	AndAnd: "&&", OrOr: "||", Shl: "<<", Shr: ">>", Inc: "++", Dec: "--", At: "@",
	Ellipsis: "...", AttrOpen: "#[", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", DotAssign: ".=", PercentAssign: "%=", PowAssign: "**=", AmpAssign: "&=",
	PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k.IsKeyword() {
		for word, kw := range keywords {
			if kw == k {
				return "Kw(" + word + ")"
			}
		}
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool { return k > kwBegin && k < kwEnd }

// IsAssignOp reports whether k is '=' or a compound assignment.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, DotAssign, PercentAssign,
		PowAssign, AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign, CoalesceAssign:
		return true
	}
	return false
}
