package pcre

import (
	"fmt"
	"strings"

	"pcrelint/internal/diag"
)

// CheckFunctionCall reports call shapes that defeat the function's purpose:
// preg_quote without the delimiter argument and preg_match_all without the
// matches argument.
func CheckFunctionCall(call Call, r diag.Reporter) {
	switch call.Function {
	case "preg_quote":
		if len(call.Args) < 2 {
			diag.ReportWarning(r, diag.RgxQuoteMissingDelimiter, call.Span,
				"Second parameter should be provided (for proper symbols escaping).").Emit()
		}
	case "preg_match_all":
		if len(call.Args) < 3 {
			diag.ReportWeak(r, diag.RgxMatchAllWithoutMatches, call.Span,
				"'preg_match(...)' can be used instead (matches are not captured).").Emit()
		}
	}
}

// CheckPlainAPI suggests string functions for patterns that match a fixed
// text, optionally anchored at the start.
func CheckPlainAPI(call Call, mods Modifiers, body string, r diag.Reporter) {
	if !plainModifiers(mods) {
		return
	}
	text, anchored, ok := plainText(body, mods)
	if !ok {
		return
	}
	anchored = anchored || mods.Has('A')
	ignoreCase := mods.Has('i')
	needle := phpString(text)

	var replacement string
	switch call.Function {
	case "preg_match":
		if len(call.Args) != 2 {
			return
		}
		fn := "strpos"
		if ignoreCase {
			fn = "stripos"
		}
		if anchored {
			replacement = fmt.Sprintf("0 === %s(%s, %s)", fn, call.arg(1), needle)
		} else {
			replacement = fmt.Sprintf("false !== %s(%s, %s)", fn, call.arg(1), needle)
		}
	case "preg_replace":
		if len(call.Args) != 3 || anchored {
			return
		}
		fn := "str_replace"
		if ignoreCase {
			fn = "str_ireplace"
		}
		replacement = fmt.Sprintf("%s(%s, %s, %s)", fn, needle, call.arg(1), call.arg(2))
	case "preg_split":
		if len(call.Args) != 2 || anchored || ignoreCase {
			return
		}
		replacement = fmt.Sprintf("explode(%s, %s)", needle, call.arg(1))
	default:
		return
	}
	diag.ReportWeak(r, diag.RgxPlainAPI, call.Span, fmt.Sprintf("'%s' can be used instead.", replacement)).Emit()
}

// plainModifiers reports whether a string function can honour every flag.
// 'x' changes what the body means and 'e' evaluates the replacement.
func plainModifiers(mods Modifiers) bool {
	for i := 0; i < len(mods); i++ {
		c := mods[i]
		if c == 'x' || c == 'e' || strings.IndexByte(AllowedModifiers, c) < 0 {
			return false
		}
	}
	return true
}

// plainText returns the text a body matches when it is a run of literal
// characters with an optional leading '^'.
func plainText(body string, mods Modifiers) (string, bool, bool) {
	atoms := Tokenize(body, mods)
	anchored := false
	if len(atoms) > 0 && atoms[0].Kind == KindStart {
		if mods.Has('m') {
			return "", false, false
		}
		anchored = true
		atoms = atoms[1:]
	}
	if len(atoms) == 0 {
		return "", false, false
	}
	var b strings.Builder
	for _, a := range atoms {
		if a.Kind != KindLiteral || a.Quant != "" {
			return "", false, false
		}
		b.WriteRune(a.Char)
	}
	return b.String(), anchored, true
}

// phpString renders s as a PHP string literal: single-quoted unless it
// holds characters only a double-quoted literal can spell.
func phpString(s string) string {
	if !strings.ContainsAny(s, "\n\t\r\f\x1b\x07") {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`,
		"\n", `\n`, "\t", `\t`, "\r", `\r`, "\f", `\f`, "\x1b", `\e`, "\x07", `\x07`)
	return `"` + r.Replace(s) + `"`
}
