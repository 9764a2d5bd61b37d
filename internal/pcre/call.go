package pcre

import (
	"strings"

	"pcrelint/internal/source"
)

// Functions lists the pattern consuming functions, keyed by lowercase name.
var Functions = map[string]bool{
	"preg_filter":           true,
	"preg_grep":             true,
	"preg_match_all":        true,
	"preg_match":            true,
	"preg_replace_callback": true,
	"preg_replace":          true,
	"preg_split":            true,
	"preg_quote":            true,
}

// IsPatternFunction reports whether name (as written, any case, optionally
// with a leading backslash) is one of Functions.
func IsPatternFunction(name string) bool {
	return Functions[strings.ToLower(strings.TrimPrefix(name, `\`))]
}

// Call is the call site a pattern was found in.
type Call struct {
	Function string   // lowercase, without namespace
	Args     []string // source text of every argument
	Span     source.Span
}

// NewCall normalizes the function name.
func NewCall(name string, args []string, span source.Span) Call {
	return Call{Function: strings.ToLower(strings.TrimPrefix(name, `\`)), Args: args, Span: span}
}

func (c Call) arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}
