package parser

import (
	"strings"
)

// nameScope tracks the namespace, imports and enclosing class used to turn
// names into fully qualified ones.
type nameScope struct {
	namespace string // without leading backslash
	classes   map[string]string
	functions map[string]string
	consts    map[string]string
	class     string // FQN of the enclosing class-like
	parent    string // FQN of its parent
}

func newNameScope() nameScope {
	return nameScope{
		classes:   make(map[string]string),
		functions: make(map[string]string),
		consts:    make(map[string]string),
	}
}

// enterNamespace resets imports, which are per namespace block.
func (s *nameScope) enterNamespace(name string) {
	*s = newNameScope()
	s.namespace = strings.Trim(name, "\\")
}

func (s *nameScope) qualify(name string) string {
	if s.namespace == "" {
		return "\\" + name
	}
	return "\\" + s.namespace + "\\" + name
}

// lastSegment returns the part after the last backslash.
func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

var scalarTypes = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true, "array": true,
	"callable": true, "iterable": true, "object": true, "mixed": true, "void": true,
	"null": true, "false": true, "true": true, "never": true,
	"integer": true, "boolean": true, "double": true, "resource": true,
}

// resolveClass returns the fully qualified class name for a name as written.
func (s *nameScope) resolveClass(raw string) string {
	lower := strings.ToLower(raw)
	switch lower {
	case "self", "static":
		if s.class != "" {
			return s.class
		}
		return lower
	case "parent":
		if s.parent != "" {
			return s.parent
		}
		return lower
	}
	if strings.HasPrefix(raw, "\\") {
		return raw
	}
	if strings.HasPrefix(lower, "namespace\\") {
		return s.qualify(raw[len("namespace\\"):])
	}
	first, rest, qualified := strings.Cut(raw, "\\")
	if target, ok := s.classes[strings.ToLower(first)]; ok {
		if qualified {
			return target + "\\" + rest
		}
		return target
	}
	return s.qualify(raw)
}

// resolveType normalizes a type hint atom: scalars are lowercased, class
// names are qualified.
func (s *nameScope) resolveType(raw string) string {
	lower := strings.ToLower(strings.TrimPrefix(raw, "\\"))
	if scalarTypes[lower] && !strings.Contains(lower, "\\") {
		switch lower {
		case "integer":
			return "int"
		case "boolean":
			return "bool"
		case "double":
			return "float"
		}
		return lower
	}
	return s.resolveClass(raw)
}

// resolveFunction returns the call name without a leading backslash and
// whether it is fully resolved (no global fallback applies).
func (s *nameScope) resolveFunction(raw string) (string, bool) {
	if strings.HasPrefix(raw, "\\") {
		return raw[1:], true
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "namespace\\") {
		return strings.TrimPrefix(s.qualify(raw[len("namespace\\"):]), "\\"), true
	}
	if !strings.Contains(raw, "\\") {
		if target, ok := s.functions[lower]; ok {
			return strings.TrimPrefix(target, "\\"), true
		}
		return raw, false
	}
	return strings.TrimPrefix(s.resolveClass(raw), "\\"), true
}

// resolveConst mirrors resolveFunction for constant names.
func (s *nameScope) resolveConst(raw string) (string, bool) {
	if strings.HasPrefix(raw, "\\") {
		return raw[1:], true
	}
	if strings.HasPrefix(strings.ToLower(raw), "namespace\\") {
		return strings.TrimPrefix(s.qualify(raw[len("namespace\\"):]), "\\"), true
	}
	if !strings.Contains(raw, "\\") {
		if target, ok := s.consts[raw]; ok {
			return strings.TrimPrefix(target, "\\"), true
		}
		return raw, false
	}
	return strings.TrimPrefix(s.resolveClass(raw), "\\"), true
}
