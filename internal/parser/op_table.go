package parser

import "pcrelint/internal/token"

// Binding powers, lowest first.
const (
	precLowest = iota
	precOrKw   // or
	precXorKw  // xor
	precAndKw  // and
	precAssign // = += ... (right side only)
	precTernary
	precCoalesce // ?? (right)
	precOrOr
	precAndAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precCompare
	precConcat
	precShift
	precAdditive
	precMultiplicative
	precInstanceof
	precNot
	precPow // ** (right)
	precUnary
)

type binaryInfo struct {
	prec       int
	rightAssoc bool
}

var binaryOps = map[token.Kind]binaryInfo{
	token.KwOr:         {precOrKw, false},
	token.KwXor:        {precXorKw, false},
	token.KwAnd:        {precAndKw, false},
	token.Coalesce:     {precCoalesce, true},
	token.OrOr:         {precOrOr, false},
	token.AndAnd:       {precAndAnd, false},
	token.Pipe:         {precBitOr, false},
	token.Caret:        {precBitXor, false},
	token.Amp:          {precBitAnd, false},
	token.Eq:           {precEquality, false},
	token.NotEq:        {precEquality, false},
	token.Identical:    {precEquality, false},
	token.NotIdentical: {precEquality, false},
	token.Spaceship:    {precEquality, false},
	token.Lt:           {precCompare, false},
	token.Gt:           {precCompare, false},
	token.LtEq:         {precCompare, false},
	token.GtEq:         {precCompare, false},
	token.Dot:          {precConcat, false},
	token.Shl:          {precShift, false},
	token.Shr:          {precShift, false},
	token.Plus:         {precAdditive, false},
	token.Minus:        {precAdditive, false},
	token.Star:         {precMultiplicative, false},
	token.Slash:        {precMultiplicative, false},
	token.Percent:      {precMultiplicative, false},
	token.KwInstanceof: {precInstanceof, false},
	token.Pow:          {precPow, true},
}

func binaryPrec(k token.Kind) (binaryInfo, bool) {
	info, ok := binaryOps[k]
	return info, ok
}
