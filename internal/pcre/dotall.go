package pcre

import (
	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// CheckMissingDotAll reports patterns that walk between tags with '.'
// (">.*<", ">.+?<") but cannot cross line breaks because 's' is missing.
func CheckMissingDotAll(mods Modifiers, body string, at source.Span, r diag.Reporter) {
	if mods.Has('s') {
		return
	}
	atoms := significant(Tokenize(body, mods))
	if MentionsFlag(atoms, 's') {
		return
	}
	for i := 0; i+2 < len(atoms); i++ {
		open, wild, closing := atoms[i], atoms[i+1], atoms[i+2]
		if open.Kind != KindLiteral || open.Char != '>' || open.Quant != "" {
			continue
		}
		if wild.Kind != KindDot {
			continue
		}
		switch wild.Quant {
		case "*", "+", "*?", "+?":
		default:
			continue
		}
		if closing.Kind == KindLiteral && closing.Char == '<' {
			diag.ReportWeak(r, diag.RgxMissingDotAll, at,
				"'s' modifier is probably missing (nested tags are recognized).").Emit()
			return
		}
	}
}
