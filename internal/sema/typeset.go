package sema

import (
	"slices"
	"strings"
)

// TypeSet is a set of type names. Scalars are lowercase ("int", "string"),
// classes are fully qualified with a leading backslash ("\App\Repo").
type TypeSet map[string]struct{}

func NewTypeSet(names ...string) TypeSet {
	s := make(TypeSet, len(names))
	s.Add(names...)
	return s
}

// Add inserts names after normalizing them.
func (s TypeSet) Add(names ...string) {
	for _, n := range names {
		if n = NormalizeType(n); n != "" {
			s[n] = struct{}{}
		}
	}
}

func (s TypeSet) Has(name string) bool {
	_, ok := s[NormalizeType(name)]
	return ok
}

func (s TypeSet) Remove(name string) { delete(s, NormalizeType(name)) }

func (s TypeSet) Len() int { return len(s) }

func (s TypeSet) Empty() bool { return len(s) == 0 }

// Union adds every member of other.
func (s TypeSet) Union(other TypeSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

func (s TypeSet) Clone() TypeSet {
	out := make(TypeSet, len(s))
	out.Union(s)
	return out
}

// Names returns the members in sorted order.
func (s TypeSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Classes returns the class members in sorted order.
func (s TypeSet) Classes() []string {
	var out []string
	for _, n := range s.Names() {
		if IsClassType(n) {
			out = append(out, n)
		}
	}
	return out
}

// String formats the set as "[a, b]".
func (s TypeSet) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}

// IsClassType reports whether a normalized name denotes a class.
func IsClassType(name string) bool { return strings.HasPrefix(name, "\\") }

var typeAliases = map[string]string{
	"integer": "int", "boolean": "bool", "double": "float", "real": "float",
	"false": "bool", "true": "bool", "binary": "string",
}

var scalarNames = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true, "array": true, "callable": true,
	"iterable": true, "object": true, "mixed": true, "void": true, "null": true, "never": true,
	"resource": true,
}

// NormalizeType maps aliases onto canonical names: "integer" becomes "int",
// "false" becomes "bool", scalar names are lowercased and class names get a
// leading backslash.
func NormalizeType(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimPrefix(name, "\\"))
	if alias, ok := typeAliases[lower]; ok {
		return alias
	}
	if scalarNames[lower] {
		return lower
	}
	return "\\" + strings.TrimLeft(name, "\\")
}
