package pcre

import (
	"fmt"
	"strconv"
	"strings"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// minRun is the shortest run of identical atoms worth collapsing.
const minRun = 2

// CheckSequentialClasses reports runs of identical unquantified atoms that
// can be written with a counted quantifier. A run followed by the same atom
// carrying a greedy quantifier folds that quantifier into the suggestion.
func CheckSequentialClasses(mods Modifiers, body string, at source.Span, r diag.Reporter) {
	atoms := significant(Tokenize(body, mods))
	for i := 0; i < len(atoms); {
		a := atoms[i]
		if !collapsible(a) || a.Quant != "" {
			i++
			continue
		}
		j := i + 1
		for j < len(atoms) && atoms[j].Text == a.Text && collapsible(atoms[j]) && atoms[j].Quant == "" {
			j++
		}
		count := j - i

		run := strings.Repeat(a.Text, count)
		suggestion := ""
		if j < len(atoms) && atoms[j].Text == a.Text && collapsible(atoms[j]) {
			if q, ok := combineQuantifier(count, atoms[j].Quant); ok {
				run += atoms[j].Source()
				suggestion = a.Text + q
				j++
			}
		}
		if suggestion == "" && count >= minRun {
			suggestion = a.Text + "{" + strconv.Itoa(count) + "}"
		}
		if suggestion != "" {
			msg := fmt.Sprintf("'%s' can be replaced with '%s'", run, suggestion)
			diag.ReportWeak(r, diag.RgxSequentialClasses, at, msg).Emit()
		}
		i = j
	}
}

func collapsible(a Atom) bool {
	switch a.Kind {
	case KindLiteral:
		return !a.Quoted
	case KindEscape, KindClass:
		return true
	}
	return false
}

// combineQuantifier merges n plain repetitions with a following quantified
// copy of the same atom. Lazy and possessive quantifiers are left alone.
func combineQuantifier(n int, quant string) (string, bool) {
	lo, hi, ok := parseQuantifier(quant)
	if !ok {
		return "", false
	}
	lo += n
	if hi >= 0 {
		hi += n
	}
	switch {
	case hi < 0 && lo == 1:
		return "+", true
	case hi < 0:
		return "{" + strconv.Itoa(lo) + ",}", true
	case lo == hi:
		return "{" + strconv.Itoa(lo) + "}", true
	}
	return "{" + strconv.Itoa(lo) + "," + strconv.Itoa(hi) + "}", true
}

// parseQuantifier returns the bounds of a greedy quantifier; hi is -1 when
// unbounded.
func parseQuantifier(q string) (lo, hi int, ok bool) {
	switch q {
	case "*":
		return 0, -1, true
	case "+":
		return 1, -1, true
	case "?":
		return 0, 1, true
	}
	if len(q) < 3 || q[0] != '{' || q[len(q)-1] != '}' {
		return 0, 0, false
	}
	inner := q[1 : len(q)-1]
	loText, hiText, ranged := strings.Cut(inner, ",")
	lo, err := strconv.Atoi(loText)
	if err != nil {
		return 0, 0, false
	}
	if !ranged {
		return lo, lo, true
	}
	if hiText == "" {
		return lo, -1, true
	}
	hi, err = strconv.Atoi(hiText)
	if err != nil || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}
