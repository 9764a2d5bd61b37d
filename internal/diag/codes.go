package diag

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexer
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexUnterminatedHeredoc      Code = 1004

	// Parser
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2002
	SynUnclosedBrace    Code = 2003
	SynUnclosedBracket  Code = 2004
	SynExpectSemicolon  Code = 2005
	SynExpectIdentifier Code = 2006

	// Offset operations
	SemaInfo                Code = 3000
	SemaOffsetUnsupported   Code = 3001
	SemaOffsetIndexMismatch Code = 3002

	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Regular expressions
	RgxInfo                   Code = 7000
	RgxDeprecatedModifier     Code = 7001
	RgxUnknownModifier        Code = 7002
	RgxUselessDollarEndOnly   Code = 7003
	RgxUselessDotAll          Code = 7004
	RgxUselessIgnoreCase      Code = 7005
	RgxPlainAPI               Code = 7006
	RgxQuoteMissingDelimiter  Code = 7007
	RgxMatchAllWithoutMatches Code = 7008
	RgxShortClass             Code = 7009
	RgxSequentialClasses      Code = 7010
	RgxGreedyTrim             Code = 7011
	RgxAmbiguousAnything      Code = 7012
	RgxMissingDotAll          Code = 7013

	// Security
	SecInfo               Code = 8000
	SecUntrustedInclusion Code = 8001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexUnterminatedHeredoc:      "Unterminated heredoc",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SemaInfo:                    "Semantic information",
		SemaOffsetUnsupported:       "Container may not support offset operations",
		SemaOffsetIndexMismatch:     "Index type incompatible with container",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "Failed to load file",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		RgxInfo:                     "Regular expression information",
		RgxDeprecatedModifier:       "Deprecated regex modifier",
		RgxUnknownModifier:          "Unknown regex modifier",
		RgxUselessDollarEndOnly:     "Useless 'D' modifier",
		RgxUselessDotAll:            "Useless 's' modifier",
		RgxUselessIgnoreCase:        "Useless 'i' modifier",
		RgxPlainAPI:                 "Plain string API can be used",
		RgxQuoteMissingDelimiter:    "preg_quote without delimiter",
		RgxMatchAllWithoutMatches:   "preg_match_all without matches",
		RgxShortClass:               "Character class has a shorthand",
		RgxSequentialClasses:        "Repeated atoms can be collapsed",
		RgxGreedyTrim:               "Lazy wildcard can be a negated class",
		RgxAmbiguousAnything:        "Leading or trailing '.*' is redundant",
		RgxMissingDotAll:            "Probably missing 's' modifier",
		SecInfo:                     "Security information",
		SecUntrustedInclusion:       "Inclusion relies on include_path",
	}

	codePrefixes = []struct {
		prefix string
		base   int
	}{
		{"LEX", 1000}, {"SYN", 2000}, {"SEM", 3000}, {"IO", 4000},
		{"OBS", 6000}, {"RGX", 7000}, {"SEC", 8000},
	}
)

func (c Code) ID() string {
	ic := int(c)
	for _, p := range codePrefixes {
		if ic >= p.base && ic < p.base+1000 {
			return fmt.Sprintf("%s%04d", p.prefix, ic)
		}
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode converts an ID such as "RGX7009" back into a Code.
func ParseCode(id string) (Code, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for _, p := range codePrefixes {
		if !strings.HasPrefix(id, p.prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(p.prefix):])
		if err != nil || n < p.base || n >= p.base+1000 {
			break
		}
		c := Code(n)
		if _, known := codeDescription[c]; !known {
			break
		}
		return c, nil
	}
	return UnknownCode, fmt.Errorf("unknown diagnostic code %q", id)
}

// KnownCodes returns every registered code in ascending order.
func KnownCodes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
