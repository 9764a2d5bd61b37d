package pcre

import (
	"fmt"
	"strings"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// CheckAmbiguousAnything looks at wildcards on the pattern boundaries:
//
//   - a trailing ".*?L" or ".+?L", L a single character, is better written
//     as "[^L]*L" or "[^L]+L";
//   - a leading ".*" or trailing ".*" matches vacuously when the call only
//     tests for a match.
//
// Both stay quiet when the body refers back to a group.
func CheckAmbiguousAnything(call Call, mods Modifiers, body string, at source.Span, r diag.Reporter) {
	atoms := significant(Tokenize(body, mods))
	if len(atoms) < 2 || HasBackreference(atoms) {
		return
	}
	checkLazyTail(atoms, at, r)
	if !matchOnly(call) || hasTopLevelAlternation(atoms) {
		return
	}
	if first := atoms[0]; first.Kind == KindDot && first.Quant == "*" {
		diag.ReportWeak(r, diag.RgxAmbiguousAnything, at,
			"'.*' at the beginning of the pattern is not needed (the match is not anchored).").Emit()
	}
	if last := atoms[len(atoms)-1]; last.Kind == KindDot && last.Quant == "*" {
		diag.ReportWeak(r, diag.RgxAmbiguousAnything, at,
			"'.*' at the end of the pattern is not needed (the match is not anchored).").Emit()
	}
}

func checkLazyTail(atoms []Atom, at source.Span, r diag.Reporter) {
	n := len(atoms)
	wild, last := atoms[n-2], atoms[n-1]
	if wild.Kind != KindDot || (wild.Quant != "*?" && wild.Quant != "+?") {
		return
	}
	if last.Kind != KindLiteral || last.Quant != "" || last.Quoted {
		return
	}
	quant := wild.Quant[:1]
	msg := fmt.Sprintf("'%s' can be replaced with '[^%s]%s%s'", wild.Source()+last.Text, classEscape(last), quant, last.Text)
	diag.ReportWeak(r, diag.RgxGreedyTrim, at, msg).Emit()
}

// classEscape renders a literal for use inside a negated class.
func classEscape(a Atom) string {
	if strings.HasPrefix(a.Text, `\`) {
		return a.Text
	}
	switch a.Char {
	case ']', '\\', '^', '-':
		return `\` + a.Text
	}
	return a.Text
}

// matchOnly reports calls that only test whether the pattern matches.
func matchOnly(call Call) bool {
	switch call.Function {
	case "preg_match", "preg_match_all":
		return len(call.Args) < 3
	case "preg_grep":
		return true
	}
	return false
}

func hasTopLevelAlternation(atoms []Atom) bool {
	depth := 0
	for _, a := range atoms {
		switch a.Kind {
		case KindGroupOpen:
			depth++
		case KindGroupClose:
			depth--
		case KindAlternation:
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
