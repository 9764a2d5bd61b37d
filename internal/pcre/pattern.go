package pcre

import (
	"strings"
	"unicode/utf8"
)

// Grammar names the delimiter syntax a pattern was written in.
type Grammar uint8

const (
	// GrammarSymmetric is /body/flags with the same character on both ends.
	GrammarSymmetric Grammar = iota + 1
	// GrammarBrace is {body}flags.
	GrammarBrace
)

func (g Grammar) String() string {
	switch g {
	case GrammarSymmetric:
		return "symmetric"
	case GrammarBrace:
		return "brace"
	}
	return "none"
}

// Modifiers is the trailing flag run of a pattern, kept exactly as written.
type Modifiers string

// Has reports whether flag c is present.
func (m Modifiers) Has(c byte) bool { return strings.IndexByte(string(m), c) >= 0 }

// Pattern is a delimited regular expression split into its parts.
type Pattern struct {
	Body      string
	Modifiers Modifiers
	Grammar   Grammar
	Open      rune
	Close     rune
}

// String reassembles the pattern text.
func (p Pattern) String() string {
	var b strings.Builder
	b.WriteRune(p.Open)
	b.WriteString(p.Body)
	b.WriteRune(p.Close)
	b.WriteString(string(p.Modifiers))
	return b.String()
}

// Extract splits a pattern literal into body and modifiers. The symmetric
// grammar is tried first and wins; the brace grammar is only consulted when
// the symmetric one does not match.
func Extract(text string) (Pattern, bool) {
	if text == "" {
		return Pattern{}, false
	}
	if p, ok := extractSymmetric(text); ok {
		return p, true
	}
	return extractBrace(text)
}

// extractSymmetric matches ^([^{])(.*)\1([a-zA-Z]+)?$: the closing delimiter
// is the last occurrence of the opening character that leaves a single-line
// body and is followed by letters only. The opening character itself may be
// any character but '{'.
func extractSymmetric(text string) (Pattern, bool) {
	open, size := utf8.DecodeRuneInString(text)
	if open == '{' || len(text) <= size {
		return Pattern{}, false
	}
	body, mods, ok := splitAtClose(text[size:], text[:size])
	if !ok {
		return Pattern{}, false
	}
	return Pattern{Body: body, Modifiers: mods, Grammar: GrammarSymmetric, Open: open, Close: open}, true
}

// extractBrace matches ^\{(.*)\}([a-zA-Z]+)?$.
func extractBrace(text string) (Pattern, bool) {
	if !strings.HasPrefix(text, "{") {
		return Pattern{}, false
	}
	body, mods, ok := splitAtClose(text[1:], "}")
	if !ok {
		return Pattern{}, false
	}
	return Pattern{Body: body, Modifiers: mods, Grammar: GrammarBrace, Open: '{', Close: '}'}, true
}

// splitAtClose finds the longest body before delim such that the body has no
// line break and only letters follow delim. Like '$' in the delimiter
// grammars, the letters may be followed by one final line break.
func splitAtClose(rest, delim string) (string, Modifiers, bool) {
	for end := len(rest); end >= 0; {
		i := strings.LastIndex(rest[:end], delim)
		if i < 0 {
			break
		}
		body, mods := rest[:i], trimFinalNewline(rest[i+len(delim):])
		if isLetters(mods) && !hasLineTerminator(body) {
			return body, Modifiers(mods), true
		}
		end = i
	}
	return "", "", false
}

// trimFinalNewline drops one line break at the very end.
func trimFinalNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	r, size := utf8.DecodeLastRuneInString(s)
	if size > 0 && hasLineTerminator(string(r)) {
		return s[:len(s)-size]
	}
	return s
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// hasLineTerminator reports characters '.' refuses to cross in the delimiter
// grammars.
func hasLineTerminator(s string) bool {
	return strings.ContainsAny(s, "\n\r\u0085\u2028\u2029")
}
