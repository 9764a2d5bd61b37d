package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

// Interpolation is a variable or expression embedded in a double-quoted or
// heredoc string.
type Interpolation struct {
	// Name is "$name", "$name[...]", "$name->prop" or the inner text of {...}.
	Name string
	Span source.Span
}

// DecodeString returns the runtime value of a string token and the
// interpolations it contains. Escapes PHP does not know are kept verbatim
// (so "\d" stays backslash-d), and interpolation text is copied into the
// value unchanged.
func DecodeString(tok token.Token) (string, []Interpolation) {
	text := tok.Text
	switch {
	case strings.HasPrefix(text, "<<<"):
		return decodeHeredoc(tok)
	case tok.Kind == token.StringLit && len(text) >= 2 && text[0] == '\'':
		return decodeSingle(text[1 : len(text)-1]), nil
	case (tok.Kind == token.TemplateLit || tok.Kind == token.ShellLit) && len(text) >= 2:
		d := decoder{quote: text[0], file: tok.Span.File, base: tok.Span.Start + 1}
		d.run(text[1:len(text)-1], 0)
		return d.out.String(), d.interps
	}
	return text, nil
}

func decodeSingle(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) && (body[i+1] == '\\' || body[i+1] == '\'') {
			i++
			c = body[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}

func decodeHeredoc(tok token.Token) (string, []Interpolation) {
	text := tok.Text
	i := 3
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	nowdoc := i < len(text) && text[i] == '\''
	header := strings.IndexByte(text, '\n')
	last := strings.LastIndexByte(text, '\n')
	if header < 0 || last <= header {
		return "", nil
	}
	closing := text[last+1:]
	indent := len(closing) - len(strings.TrimLeft(closing, " \t"))
	body := strings.TrimSuffix(text[header+1:last], "\r")

	if nowdoc {
		lines := strings.Split(body, "\n")
		for k, line := range lines {
			lines[k] = trimIndent(line, indent)
		}
		return strings.Join(lines, "\n"), nil
	}
	d := decoder{file: tok.Span.File, base: tok.Span.Start + uint32(header+1)}
	d.run(body, indent)
	return d.out.String(), d.interps
}

func trimIndent(line string, n int) string {
	k := 0
	for k < n && k < len(line) && (line[k] == ' ' || line[k] == '\t') {
		k++
	}
	return line[k:]
}

type decoder struct {
	quote   byte // 0 for heredoc
	file    source.FileID
	base    uint32
	out     strings.Builder
	interps []Interpolation
}

func (d *decoder) run(body string, indent int) {
	d.out.Grow(len(body))
	for i := 0; i < len(body); {
		if indent > 0 && (i == 0 || body[i-1] == '\n') {
			i += len(body[i:]) - len(trimIndent(body[i:], indent))
			if i >= len(body) {
				break
			}
		}
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i = d.escape(body, i)
		case c == '$' && i+1 < len(body) && isIdentStartByte(body[i+1]):
			i = d.simpleVar(body, i)
		case c == '$' && i+1 < len(body) && body[i+1] == '{':
			i = d.braced(body, i, i+2)
		case c == '{' && i+1 < len(body) && body[i+1] == '$':
			i = d.braced(body, i, i+1)
		default:
			d.out.WriteByte(c)
			i++
		}
	}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'v': '\v', 'e': 0x1b, 'f': '\f', '\\': '\\', '$': '$',
}

func (d *decoder) escape(body string, i int) int {
	n := body[i+1]
	if r, ok := simpleEscapes[n]; ok {
		d.out.WriteByte(r)
		return i + 2
	}
	if d.quote != 0 && n == d.quote {
		d.out.WriteByte(n)
		return i + 2
	}
	if isOct(n) {
		j := i + 1
		for j < len(body) && j < i+4 && isOct(body[j]) {
			j++
		}
		v, _ := strconv.ParseUint(body[i+1:j], 8, 16)
		d.out.WriteByte(byte(v & 0xff))
		return j
	}
	if n == 'x' && i+2 < len(body) && isHex(body[i+2]) {
		j := i + 2
		for j < len(body) && j < i+4 && isHex(body[j]) {
			j++
		}
		v, _ := strconv.ParseUint(body[i+2:j], 16, 8)
		d.out.WriteByte(byte(v))
		return j
	}
	if n == 'u' && i+2 < len(body) && body[i+2] == '{' {
		if end := strings.IndexByte(body[i+3:], '}'); end > 0 {
			if v, err := strconv.ParseUint(body[i+3:i+3+end], 16, 32); err == nil && v <= utf8.MaxRune {
				d.out.WriteRune(rune(v))
				return i + 4 + end
			}
		}
	}
	d.out.WriteByte('\\')
	return i + 1
}

// simpleVar handles "$name", "$name[key]" and "$name->prop".
func (d *decoder) simpleVar(body string, i int) int {
	j := i + 1
	for j < len(body) && isIdentContinueByte(body[j]) {
		j++
	}
	switch {
	case j < len(body) && body[j] == '[':
		if end := strings.IndexByte(body[j:], ']'); end > 0 {
			j += end + 1
		}
	case strings.HasPrefix(body[j:], "->") && j+2 < len(body) && isIdentStartByte(body[j+2]):
		j += 2
		for j < len(body) && isIdentContinueByte(body[j]) {
			j++
		}
	}
	d.record(body, body[i:j], i, j)
	return j
}

// braced handles "{$expr}" and "${expr}"; inner is where the expression starts.
func (d *decoder) braced(body string, i, inner int) int {
	depth := 0
	for j := i; j < len(body); j++ {
		switch body[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				d.record(body, body[inner:j], i, j+1)
				return j + 1
			}
		}
	}
	d.out.WriteString(body[i:])
	return len(body)
}

func (d *decoder) record(body, name string, from, to int) {
	d.out.WriteString(body[from:to])
	d.interps = append(d.interps, Interpolation{
		Name: name,
		Span: source.Span{File: d.file, Start: d.base + uint32(from), End: d.base + uint32(to)},
	})
}
