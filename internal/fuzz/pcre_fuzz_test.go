package fuzztests

import (
	"testing"

	"pcrelint/internal/diag"
	"pcrelint/internal/pcre"
	"pcrelint/internal/source"
)

// FuzzPatternRules runs extraction and every pattern rule over raw literal
// text.
func FuzzPatternRules(f *testing.F) {
	for _, s := range patternSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, text string) {
		if len(text) > maxFuzzInput {
			text = text[:maxFuzzInput]
		}
		p, ok := pcre.Extract(text)
		if !ok {
			return
		}

		bag := diag.NewBag(0)
		r := diag.BagReporter{Bag: bag}
		at := source.Span{End: uint32(len(text))}
		call := pcre.NewCall("preg_match", []string{text, "$s"}, at)

		prev := 0
		for _, a := range pcre.Tokenize(p.Body, p.Modifiers) {
			if a.Start < prev || a.End < a.Start || a.End > len(p.Body) {
				t.Fatalf("atom %q at %d..%d out of order in %q", a.Text, a.Start, a.End, p.Body)
			}
			prev = a.End
		}

		pcre.CheckDeprecatedModifiers(p.Modifiers, at, r)
		pcre.CheckAllowedModifiers(p.Modifiers, at, r)
		pcre.CheckUselessDollarEndOnly(p.Modifiers, p.Body, at, r)
		pcre.CheckUselessDotAll(p.Modifiers, p.Body, at, r)
		pcre.CheckUselessIgnoreCase(p.Modifiers, p.Body, at, r)
		pcre.CheckFunctionCall(call, r)
		pcre.CheckPlainAPI(call, p.Modifiers, p.Body, r)
		pcre.CheckShortClasses(p.Modifiers, p.Body, at, r)
		pcre.CheckSequentialClasses(p.Modifiers, p.Body, at, r)
		pcre.CheckAmbiguousAnything(call, p.Modifiers, p.Body, at, r)
		pcre.CheckMissingDotAll(p.Modifiers, p.Body, at, r)
	})
}
