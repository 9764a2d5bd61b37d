package sema

import (
	"strings"
)

// docTag is one @var, @param or @return entry of a docblock.
type docTag struct {
	Name  string // "var", "param" or "return"
	Types []string
	Var   string // without '$'; empty when the tag names no variable
}

// parseDocTags extracts type tags from a docblock. Tool-prefixed variants
// such as @psalm-var and @phpstan-param are folded into the plain tags.
func parseDocTags(text string) []docTag {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")
	var out []docTag
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if !strings.HasPrefix(line, "@") {
			continue
		}
		name, rest, _ := strings.Cut(line[1:], " ")
		name = strings.TrimPrefix(strings.TrimPrefix(name, "psalm-"), "phpstan-")
		switch name {
		case "var", "param", "return":
		default:
			continue
		}
		rest = strings.TrimSpace(rest)
		tag := docTag{Name: name}
		if name != "return" && strings.HasPrefix(rest, "$") {
			// "@var $name Type" order
			v, tail, _ := strings.Cut(rest, " ")
			tag.Var = strings.TrimPrefix(v, "$")
			typ, _ := splitTypeExpr(strings.TrimSpace(tail))
			tag.Types = splitUnion(typ)
		} else {
			typ, tail := splitTypeExpr(rest)
			tag.Types = splitUnion(typ)
			tail = strings.TrimSpace(tail)
			tail = strings.TrimPrefix(tail, "...")
			if strings.HasPrefix(tail, "&") {
				tail = tail[1:]
			}
			if strings.HasPrefix(tail, "$") {
				v, _, _ := strings.Cut(tail[1:], " ")
				tag.Var = v
			}
		}
		if len(tag.Types) > 0 {
			out = append(out, tag)
		}
	}
	return out
}

// splitTypeExpr cuts the leading type expression off s. Spaces inside
// <...>, (...) and {...} belong to the type.
func splitTypeExpr(s string) (typ, rest string) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth == 0 {
				return s[:i], s[i:]
			}
		}
	}
	return s, ""
}

// splitUnion splits a union at top level; intersections are kept as their
// members too.
func splitUnion(typ string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(typ); i++ {
		switch typ[i] {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case '|', '&':
			if depth == 0 {
				out = append(out, typ[start:i])
				start = i + 1
			}
		}
	}
	if start < len(typ) {
		out = append(out, typ[start:])
	}
	return out
}

var docTypeAliases = map[string][]string{
	"scalar":            {"int", "float", "string", "bool"},
	"numeric":           {"int", "float"},
	"number":            {"int", "float"},
	"array-key":         {"int", "string"},
	"list":              {"array"},
	"non-empty-array":   {"array"},
	"non-empty-list":    {"array"},
	"non-empty-string":  {"string"},
	"numeric-string":    {"string"},
	"class-string":      {"string"},
	"literal-string":    {"string"},
	"callable-string":   {"string"},
	"lowercase-string":  {"string"},
	"positive-int":      {"int"},
	"negative-int":      {"int"},
	"non-negative-int":  {"int"},
	"non-positive-int":  {"int"},
	"non-zero-int":      {"int"},
	"callable-array":    {"array"},
	"non-empty-mixed":   {"mixed"},
	"callable-object":   {"object"},
	"resource":          {"resource"},
	"closed-resource":   {"resource"},
	"interface-string":  {"string"},
	"enum-string":       {"string"},
	"trait-string":      {"string"},
	"truthy-string":     {"string"},
	"non-falsy-string":  {"string"},
	"key-of":            {"mixed"},
	"value-of":          {"mixed"},
	"no-return":         {"never"},
	"never-return":      {"never"},
	"never-returns":     {"never"},
	"static":            nil, // class dependent
	"self":              nil,
	"$this":             nil,
	"iterable":          {"iterable"},
	"empty":             {"mixed"},
	"array-shape":       {"array"},
	"object-shape":      {"object"},
	"callable-function": {"callable"},
}

// docTypeNames turns one docblock type atom into normalized type names.
// class is the enclosing class for self, static and $this.
func docTypeNames(atom string, names *nameCtx, class string) []string {
	atom = strings.TrimSpace(atom)
	nullable := strings.HasPrefix(atom, "?")
	atom = strings.TrimPrefix(atom, "?")
	var out []string
	if nullable {
		out = append(out, "null")
	}
	switch {
	case atom == "":
		return out
	case strings.HasSuffix(atom, "[]"):
		return append(out, "array")
	case strings.HasPrefix(atom, "'") || strings.HasPrefix(atom, `"`):
		return append(out, "string")
	case atom[0] >= '0' && atom[0] <= '9' || atom[0] == '-':
		if strings.Contains(atom, ".") {
			return append(out, "float")
		}
		return append(out, "int")
	case strings.HasPrefix(atom, "(") && strings.HasSuffix(atom, ")"):
		for _, inner := range splitUnion(atom[1 : len(atom)-1]) {
			out = append(out, docTypeNames(inner, names, class)...)
		}
		return out
	}
	base := atom
	if i := strings.IndexAny(atom, "<({"); i > 0 {
		base = atom[:i]
	}
	lower := strings.ToLower(base)
	if mapped, ok := docTypeAliases[lower]; ok {
		if mapped == nil {
			if class != "" {
				return append(out, class)
			}
			return append(out, "object")
		}
		return append(out, mapped...)
	}
	switch lower {
	case "callable":
		return append(out, "callable")
	case "closure", "\\closure":
		return append(out, `\Closure`)
	}
	if n := NormalizeType(base); !IsClassType(n) {
		return append(out, n)
	}
	if names == nil {
		return append(out, NormalizeType(base))
	}
	return append(out, names.resolveClass(base))
}
