package pcre

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// CheckUselessDollarEndOnly reports a 'D' modifier that cannot change what
// '$' matches: either 'm' overrides it or the body has no closing '$'.
func CheckUselessDollarEndOnly(mods Modifiers, body string, at source.Span, r diag.Reporter) {
	if !mods.Has('D') {
		return
	}
	atoms := significant(Tokenize(body, mods))
	if MentionsFlag(atoms, 'm') {
		return
	}
	if mods.Has('m') {
		diag.ReportWeak(r, diag.RgxUselessDollarEndOnly, at, "'D' modifier will be ignored because of 'm'.").Emit()
		return
	}
	if hasEndAnchor(atoms) {
		return
	}
	diag.ReportWeak(r, diag.RgxUselessDollarEndOnly, at, "'D' modifier is ambiguous here (no $ in given pattern).").Emit()
}

// hasEndAnchor looks for a '$' closing the pattern or one of its
// alternatives, possibly followed by group closers.
func hasEndAnchor(atoms []Atom) bool {
	for i, a := range atoms {
		if a.Kind != KindEnd {
			continue
		}
		j := i + 1
		for j < len(atoms) && atoms[j].Kind == KindGroupClose && atoms[j].Quant == "" {
			j++
		}
		if j == len(atoms) || atoms[j].Kind == KindAlternation {
			return true
		}
	}
	return false
}

// CheckUselessDotAll reports an 's' modifier on a body without a '.'
// metacharacter.
func CheckUselessDotAll(mods Modifiers, body string, at source.Span, r diag.Reporter) {
	if !mods.Has('s') {
		return
	}
	atoms := significant(Tokenize(body, mods))
	if MentionsFlag(atoms, 's') {
		return
	}
	for _, a := range atoms {
		if a.Kind == KindDot {
			return
		}
	}
	diag.ReportWeak(r, diag.RgxUselessDotAll, at, "'s' modifier is ambiguous here (no . in given pattern).").Emit()
}

// CheckUselessIgnoreCase reports an 'i' modifier on a body without cased
// letters. Letters inside escape sequences and POSIX class names do not
// count; letters inside classes do.
func CheckUselessIgnoreCase(mods Modifiers, body string, at source.Span, r diag.Reporter) {
	if !mods.Has('i') {
		return
	}
	atoms := significant(Tokenize(body, mods))
	if MentionsFlag(atoms, 'i') {
		return
	}
	cased := newCaseDetector()
	for _, a := range atoms {
		switch a.Kind {
		case KindLiteral:
			if !isEscapeText(a.Text) && cased.is(a.Char) {
				return
			}
		case KindClass:
			for _, m := range classMembers(a.Text) {
				switch m.kind {
				case memberChar:
					if cased.is(m.lo) {
						return
					}
				case memberRange:
					if cased.rangeHas(m.lo, m.hi) {
						return
					}
				case memberPOSIX:
					if m.text == "[:lower:]" || m.text == "[:upper:]" {
						return
					}
				}
			}
		}
	}
	diag.ReportWeak(r, diag.RgxUselessIgnoreCase, at, "'i' modifier is ambiguous here (no a-z in given pattern).").Emit()
}

func isEscapeText(s string) bool { return strings.HasPrefix(s, `\`) }

// caseDetector decides whether a rune has distinct case forms. Casers keep
// state, so each check owns its own.
type caseDetector struct {
	upper cases.Caser
	lower cases.Caser
}

func newCaseDetector() *caseDetector {
	return &caseDetector{upper: cases.Upper(language.Und), lower: cases.Lower(language.Und)}
}

func (d *caseDetector) is(r rune) bool {
	if r == 0 {
		return false
	}
	s := string(r)
	return d.upper.String(s) != d.lower.String(s)
}

// rangeHas reports whether any rune of lo..hi is cased. Large ranges are
// sampled at their ASCII letter intersection and their ends.
func (d *caseDetector) rangeHas(lo, hi rune) bool {
	if hi < lo {
		return false
	}
	if lo <= 'z' && hi >= 'A' {
		if max(lo, 'A') <= min(hi, 'Z') || max(lo, 'a') <= min(hi, 'z') {
			return true
		}
	}
	if hi-lo > 4096 {
		return d.is(lo) || d.is(hi)
	}
	for c := lo; c <= hi; c++ {
		if d.is(c) {
			return true
		}
	}
	return false
}
