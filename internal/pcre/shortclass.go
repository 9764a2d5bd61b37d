package pcre

import (
	"fmt"
	"slices"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// shorthand maps an exact member set to the escape replacing the class.
type shorthand struct {
	members []string // sorted member keys
	negated bool
	replace string
	digits  bool // 0-9 based; differs from \d under 'u'
}

var allDigits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

var shorthands = []shorthand{
	{members: []string{"0-9"}, replace: `\d`, digits: true},
	{members: allDigits, replace: `\d`, digits: true},
	{members: []string{"0-9"}, negated: true, replace: `\D`, digits: true},
	{members: allDigits, negated: true, replace: `\D`, digits: true},
	{members: []string{"[:digit:]"}, replace: `\d`},
	{members: []string{"[:digit:]"}, negated: true, replace: `\D`},
	{members: []string{"[:word:]"}, replace: `\w`},
	{members: []string{`\d`}, replace: `\d`},
	{members: []string{`\w`}, replace: `\w`},
	{members: []string{`\s`}, replace: `\s`},
	{members: []string{`\d`}, negated: true, replace: `\D`},
	{members: []string{`\w`}, negated: true, replace: `\W`},
	{members: []string{`\s`}, negated: true, replace: `\S`},
}

// CheckShortClasses reports character classes that have a shorthand
// escape, once per class occurrence.
func CheckShortClasses(mods Modifiers, body string, at source.Span, r diag.Reporter) {
	unicode := mods.Has('u')
	for _, a := range Tokenize(body, mods) {
		if a.Kind != KindClass {
			continue
		}
		set := memberSet(a.Text)
		for _, sh := range shorthands {
			if sh.negated != a.Negated || (sh.digits && unicode) || !slices.Equal(sh.members, set) {
				continue
			}
			msg := fmt.Sprintf("'%s' can be replaced with '%s'", a.Source(), sh.replace+a.Quant)
			diag.ReportWeak(r, diag.RgxShortClass, at, msg).Emit()
			break
		}
	}
}
