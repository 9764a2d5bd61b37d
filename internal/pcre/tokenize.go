package pcre

import (
	"strings"
	"unicode/utf8"
)

// Kind classifies an atom of a pattern body.
type Kind uint8

const (
	KindLiteral    Kind = iota // a single character, possibly escaped or quoted
	KindEscape                 // character type or code point escape: \d, \x41, \p{L}
	KindAssertion              // \b, \B, \A, \z, \Z, \G, \K
	KindBackref                // \1, \g{1}, \k<name>, (?1), (?&name)
	KindClass                  // [...]
	KindDot                    // .
	KindStart                  // ^
	KindEnd                    // $
	KindAlternation            // |
	KindGroupOpen              // (, (?:, (?<name>, (?i:, (?=
	KindGroupClose             // )
	KindOption                 // (?i) and friends: option setting without a group
	KindVerb                   // (*UTF8), (*SKIP)
	KindComment                // (?#...) and x-mode comments or whitespace
)

var kindNames = [...]string{
	KindLiteral: "literal", KindEscape: "escape", KindAssertion: "assertion", KindBackref: "backref",
	KindClass: "class", KindDot: "dot", KindStart: "start", KindEnd: "end",
	KindAlternation: "alternation", KindGroupOpen: "group", KindGroupClose: "group-close",
	KindOption: "option", KindVerb: "verb", KindComment: "comment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Atom is one element of a tokenized pattern body. Offsets are byte
// offsets into the body.
type Atom struct {
	Kind  Kind
	Text  string // the atom as written, quantifier excluded
	Quant string // trailing quantifier as written, including a lazy or possessive suffix
	Start int
	End   int // end of Text; the quantifier follows
	// Char is the matched character of a literal atom.
	Char rune
	// Flags holds the option letters of an inline option group such as
	// "i-s" for (?i-s) or (?i-s:...).
	Flags string
	// Negated marks [^...] classes.
	Negated bool
	// Quoted marks characters taken from a \Q...\E run.
	Quoted bool
}

// Source returns the atom together with its quantifier.
func (a Atom) Source() string { return a.Text + a.Quant }

// Quantifiable reports whether the atom matches a single character.
func (a Atom) Quantifiable() bool {
	switch a.Kind {
	case KindLiteral, KindEscape, KindClass, KindDot:
		return true
	}
	return false
}

// Tokenize splits a pattern body into atoms. With the x modifier unescaped
// whitespace and #-comments outside classes become comment atoms.
func Tokenize(body string, mods Modifiers) []Atom {
	t := &tokenizer{src: body, extended: mods.Has('x')}
	t.run()
	return t.atoms
}

type tokenizer struct {
	src      string
	pos      int
	extended bool
	atoms    []Atom
}

func (t *tokenizer) emit(a Atom) {
	if a.Kind == KindGroupClose || a.Quantifiable() || a.Kind == KindBackref {
		a.Quant = t.quantifier()
	}
	t.atoms = append(t.atoms, a)
}

func (t *tokenizer) run() {
	for t.pos < len(t.src) {
		start := t.pos
		c := t.src[t.pos]
		switch {
		case t.extended && isPatternSpace(c):
			for t.pos < len(t.src) && isPatternSpace(t.src[t.pos]) {
				t.pos++
			}
			t.atoms = append(t.atoms, Atom{Kind: KindComment, Text: t.src[start:t.pos], Start: start, End: t.pos})
		case t.extended && c == '#':
			for t.pos < len(t.src) && t.src[t.pos] != '\n' {
				t.pos++
			}
			t.atoms = append(t.atoms, Atom{Kind: KindComment, Text: t.src[start:t.pos], Start: start, End: t.pos})
		case c == '\\':
			t.escape()
		case c == '[':
			t.class()
		case c == '(':
			t.group()
		case c == ')':
			t.pos++
			t.emit(Atom{Kind: KindGroupClose, Text: ")", Start: start, End: t.pos})
		case c == '.':
			t.pos++
			t.emit(Atom{Kind: KindDot, Text: ".", Start: start, End: t.pos})
		case c == '^':
			t.pos++
			t.atoms = append(t.atoms, Atom{Kind: KindStart, Text: "^", Start: start, End: t.pos})
		case c == '$':
			t.pos++
			t.atoms = append(t.atoms, Atom{Kind: KindEnd, Text: "$", Start: start, End: t.pos})
		case c == '|':
			t.pos++
			t.atoms = append(t.atoms, Atom{Kind: KindAlternation, Text: "|", Start: start, End: t.pos})
		default:
			r, size := utf8.DecodeRuneInString(t.src[t.pos:])
			t.pos += size
			t.emit(Atom{Kind: KindLiteral, Text: t.src[start:t.pos], Char: r, Start: start, End: t.pos})
		}
	}
}

func isPatternSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// quantifier consumes a quantifier at the current position, if any.
func (t *tokenizer) quantifier() string {
	start := t.pos
	if t.pos >= len(t.src) {
		return ""
	}
	switch t.src[t.pos] {
	case '*', '+', '?':
		t.pos++
	case '{':
		n := countedLen(t.src[t.pos:])
		if n == 0 {
			return ""
		}
		t.pos += n
	default:
		return ""
	}
	if t.pos < len(t.src) && (t.src[t.pos] == '?' || t.src[t.pos] == '+') {
		t.pos++
	}
	return t.src[start:t.pos]
}

// countedLen returns the length of a {n}, {n,} or {n,m} prefix of s, or 0
// when s does not start with one (the brace is then a literal).
func countedLen(s string) int {
	i := 1
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && s[i] == '}' {
		return i + 1
	}
	if i >= len(s) || s[i] != ',' {
		return 0
	}
	i++
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '}' {
		return i + 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// escape handles a backslash sequence outside a class.
func (t *tokenizer) escape() {
	start := t.pos
	t.pos++
	if t.pos >= len(t.src) {
		t.emit(Atom{Kind: KindLiteral, Text: `\`, Char: '\\', Start: start, End: t.pos})
		return
	}
	c := t.src[t.pos]
	switch {
	case c == 'Q':
		t.pos++
		t.quoted()
		return
	case c == 'E':
		// stray \E is ignored
		t.pos++
		return
	case c >= '1' && c <= '9':
		for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
			t.pos++
		}
		t.emit(Atom{Kind: KindBackref, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	case c == 'g' || c == 'k':
		t.pos++
		t.pos += refLen(t.src[t.pos:])
		t.emit(Atom{Kind: KindBackref, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	case strings.IndexByte("bBAzZGK", c) >= 0:
		t.pos++
		t.atoms = append(t.atoms, Atom{Kind: KindAssertion, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	}
	t.pos += escapeLen(t.src[t.pos:])
	text := t.src[start:t.pos]
	if r, ok := escapedLiteral(text); ok {
		t.emit(Atom{Kind: KindLiteral, Text: text, Char: r, Start: start, End: t.pos})
		return
	}
	t.emit(Atom{Kind: KindEscape, Text: text, Start: start, End: t.pos})
}

// quoted emits the characters of \Q...\E as literals.
func (t *tokenizer) quoted() {
	end := strings.Index(t.src[t.pos:], `\E`)
	stop := len(t.src)
	if end >= 0 {
		stop = t.pos + end
	}
	for t.pos < stop {
		start := t.pos
		r, size := utf8.DecodeRuneInString(t.src[t.pos:])
		t.pos += size
		t.atoms = append(t.atoms, Atom{Kind: KindLiteral, Text: t.src[start:t.pos], Char: r, Start: start, End: t.pos, Quoted: true})
	}
	if end >= 0 {
		t.pos += 2
	}
	if n := len(t.atoms); n > 0 && t.atoms[n-1].Kind == KindLiteral {
		t.atoms[n-1].Quant = t.quantifier()
	}
}

// refLen measures the reference after \g or \k: 1, -1, {1}, {name}, <name>
// or 'name'.
func refLen(s string) int {
	if s == "" {
		return 0
	}
	var closer byte
	switch s[0] {
	case '{':
		closer = '}'
	case '<':
		closer = '>'
	case '\'':
		closer = '\''
	default:
		i := 0
		if s[0] == '-' || s[0] == '+' {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return i
	}
	if j := strings.IndexByte(s[1:], closer); j >= 0 {
		return j + 2
	}
	return len(s)
}

// escapeLen measures an escape sequence after the backslash.
func escapeLen(s string) int {
	switch s[0] {
	case 'x':
		if len(s) > 1 && s[1] == '{' {
			if j := strings.IndexByte(s, '}'); j > 0 {
				return j + 1
			}
		}
		n := 1
		for n < 3 && n < len(s) && isHex(s[n]) {
			n++
		}
		return n
	case 'o', 'p', 'P', 'N':
		if len(s) > 1 && s[1] == '{' {
			if j := strings.IndexByte(s, '}'); j > 0 {
				return j + 1
			}
		}
		if (s[0] == 'p' || s[0] == 'P') && len(s) > 1 {
			if len(s) > 2 && s[1] == '^' {
				return 3
			}
			return 2
		}
		return 1
	case 'c':
		if len(s) > 1 {
			return 2
		}
		return 1
	case '0':
		n := 1
		for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		return n
	}
	_, size := utf8.DecodeRuneInString(s)
	return size
}

// escapedLiteral reports escapes that stand for their own character, such
// as \. or \/, and the control escapes \n, \t, \r, \f, \e, \a.
func escapedLiteral(text string) (rune, bool) {
	rest := text[1:]
	r, size := utf8.DecodeRuneInString(rest)
	if size != len(rest) {
		return 0, false
	}
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'e':
		return 0x1b, true
	case 'a':
		return 0x07, true
	}
	if r < 0x80 && (isDigit(byte(r)) || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
		return 0, false
	}
	return r, true
}

// class consumes a bracket expression, honoring a leading ']' and POSIX
// names such as [:alpha:].
func (t *tokenizer) class() {
	start := t.pos
	t.pos++
	negated := false
	if t.pos < len(t.src) && t.src[t.pos] == '^' {
		negated = true
		t.pos++
	}
	if t.pos < len(t.src) && t.src[t.pos] == ']' {
		t.pos++
	}
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		switch {
		case c == '\\':
			t.pos += 2
			continue
		case c == '[' && t.pos+1 < len(t.src) && t.src[t.pos+1] == ':':
			if j := strings.Index(t.src[t.pos+2:], ":]"); j >= 0 {
				t.pos += j + 4
				continue
			}
		case c == ']':
			t.pos++
			t.emit(Atom{Kind: KindClass, Text: t.src[start:t.pos], Start: start, End: t.pos, Negated: negated})
			return
		}
		t.pos++
	}
	// unterminated class: the rest of the body is treated as literal text
	t.pos = min(t.pos, len(t.src))
	t.emit(Atom{Kind: KindClass, Text: t.src[start:t.pos], Start: start, End: t.pos, Negated: negated})
}

// group consumes the opening of a parenthesized construct.
func (t *tokenizer) group() {
	start := t.pos
	rest := t.src[t.pos:]
	switch {
	case strings.HasPrefix(rest, "(*"):
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			end = len(rest) - 1
		}
		t.pos += end + 1
		t.atoms = append(t.atoms, Atom{Kind: KindVerb, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	case strings.HasPrefix(rest, "(?#"):
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			end = len(rest) - 1
		}
		t.pos += end + 1
		t.atoms = append(t.atoms, Atom{Kind: KindComment, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	case !strings.HasPrefix(rest, "(?"):
		t.pos++
		t.atoms = append(t.atoms, Atom{Kind: KindGroupOpen, Text: "(", Start: start, End: t.pos})
		return
	}

	body := rest[2:]
	switch {
	case body == "":
		t.pos = len(t.src)
		t.atoms = append(t.atoms, Atom{Kind: KindGroupOpen, Text: rest, Start: start, End: t.pos})
		return
	case body[0] == 'R' || isDigit(body[0]) || body[0] == '&' || strings.HasPrefix(body, "P>") ||
		(body[0] == '+' || body[0] == '-') && len(body) > 1 && isDigit(body[1]):
		// recursion and subroutine calls
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			end = len(rest) - 1
		}
		t.pos += end + 1
		t.emit(Atom{Kind: KindBackref, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	case strings.HasPrefix(body, "P="):
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			end = len(rest) - 1
		}
		t.pos += end + 1
		t.emit(Atom{Kind: KindBackref, Text: t.src[start:t.pos], Start: start, End: t.pos})
		return
	}

	if flags, n, ok := optionFlags(body); ok {
		t.pos += 2 + n
		if t.pos < len(t.src) && t.src[t.pos] == ')' {
			t.pos++
			t.atoms = append(t.atoms, Atom{Kind: KindOption, Text: t.src[start:t.pos], Flags: flags, Start: start, End: t.pos})
			return
		}
		t.pos++ // ':'
		t.atoms = append(t.atoms, Atom{Kind: KindGroupOpen, Text: t.src[start:t.pos], Flags: flags, Start: start, End: t.pos})
		return
	}

	// (?:, (?=, (?!, (?<=, (?<!, (?>, (?|, (?<name>, (?P<name>, (?'name', (?(cond)
	t.pos += 2
	switch {
	case strings.HasPrefix(body, "<=") || strings.HasPrefix(body, "<!"):
		t.pos += 2
	case strings.HasPrefix(body, "P<") || body[0] == '<' || body[0] == '\'':
		closer := byte('>')
		if body[0] == '\'' {
			closer = '\''
		}
		skip := 1
		if body[0] == 'P' {
			skip = 2
		}
		if j := strings.IndexByte(body[skip:], closer); j >= 0 {
			t.pos += skip + j + 1
		} else {
			t.pos += skip
		}
	case body[0] == '(':
		// condition: (?(1)...), (?(<name>)...), (?(R)...)
		if j := strings.IndexByte(body, ')'); j >= 0 {
			t.pos += j + 1
		}
	default:
		t.pos++
	}
	t.atoms = append(t.atoms, Atom{Kind: KindGroupOpen, Text: t.src[start:t.pos], Start: start, End: t.pos})
}

// optionFlags parses the letters of (?imsx-imsx) or (?imsx-imsx:. It
// returns the flags, the bytes consumed before ')' or ':' and whether the
// group is an option group.
func optionFlags(body string) (string, int, bool) {
	i := 0
	for i < len(body) {
		c := body[i]
		if c == ')' || c == ':' {
			if i == 0 {
				return "", 0, false
			}
			return body[:i], i, true
		}
		if c != '-' && c != '^' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

// MentionsFlag reports whether an inline option group sets or clears c.
func MentionsFlag(atoms []Atom, c byte) bool {
	for _, a := range atoms {
		if (a.Kind == KindOption || a.Kind == KindGroupOpen) && strings.IndexByte(a.Flags, c) >= 0 {
			return true
		}
	}
	return false
}

// HasBackreference reports whether the body refers back to a group by number
// or name, or recurses into one.
func HasBackreference(atoms []Atom) bool {
	for _, a := range atoms {
		if a.Kind == KindBackref {
			return true
		}
	}
	return false
}

// significant drops comment and verb atoms.
func significant(atoms []Atom) []Atom {
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		if a.Kind != KindComment && a.Kind != KindVerb {
			out = append(out, a)
		}
	}
	return out
}
