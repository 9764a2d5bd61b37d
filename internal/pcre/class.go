package pcre

import (
	"slices"
	"strings"
	"unicode/utf8"
)

type memberKind uint8

const (
	memberChar  memberKind = iota // a, \., \x41
	memberRange                   // a-z
	memberType                    // \d, \w, \s, \p{L}
	memberPOSIX                   // [:digit:]
)

// classMember is one element of a bracket expression.
type classMember struct {
	kind memberKind
	text string
	lo   rune
	hi   rune
}

// classMembers splits the inside of a [...] atom into members. A leading
// '^' is not a member.
func classMembers(class string) []classMember {
	inner := strings.TrimPrefix(class, "[")
	inner = strings.TrimSuffix(inner, "]")
	inner = strings.TrimPrefix(inner, "^")

	var out []classMember
	first := true
	for len(inner) > 0 {
		m, n := nextMember(inner, first)
		first = false
		inner = inner[n:]
		// a-z: a char, '-', then a char
		if m.kind == memberChar && len(inner) > 1 && inner[0] == '-' {
			hi, hn := nextMember(inner[1:], false)
			if hi.kind == memberChar {
				out = append(out, classMember{kind: memberRange, text: m.text + "-" + hi.text, lo: m.lo, hi: hi.lo})
				inner = inner[1+hn:]
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

func nextMember(s string, first bool) (classMember, int) {
	switch {
	case strings.HasPrefix(s, "[:"):
		if j := strings.Index(s, ":]"); j > 0 {
			return classMember{kind: memberPOSIX, text: s[:j+2]}, j + 2
		}
	case s[0] == '\\' && len(s) > 1:
		n := 1 + escapeLen(s[1:])
		text := s[:n]
		if r, ok := escapedLiteral(text); ok {
			return classMember{kind: memberChar, text: text, lo: r, hi: r}, n
		}
		if text == `\b` {
			return classMember{kind: memberChar, text: text, lo: '\b', hi: '\b'}, n
		}
		return classMember{kind: memberType, text: text}, n
	case s[0] == ']' && first:
		return classMember{kind: memberChar, text: "]", lo: ']', hi: ']'}, 1
	}
	r, size := utf8.DecodeRuneInString(s)
	return classMember{kind: memberChar, text: s[:size], lo: r, hi: r}, size
}

// memberKey renders a member for order independent comparison.
func memberKey(m classMember) string {
	switch m.kind {
	case memberChar:
		return string(m.lo)
	case memberRange:
		return string(m.lo) + "-" + string(m.hi)
	}
	return m.text
}

// memberSet returns the sorted, deduplicated member keys of a class.
func memberSet(class string) []string {
	var keys []string
	for _, m := range classMembers(class) {
		keys = append(keys, memberKey(m))
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
