package sema

import "strings"

// nameCtx is the namespace and class imports in effect for a region of a
// file. Docblock types are raw text and get resolved against it.
type nameCtx struct {
	namespace string
	imports   map[string]string // lowercase alias -> FQN with leading backslash
}

func newNameCtx(namespace string) *nameCtx {
	return &nameCtx{namespace: strings.Trim(namespace, "\\"), imports: make(map[string]string)}
}

// resolveClass qualifies a class name the way PHP does for code.
func (n *nameCtx) resolveClass(raw string) string {
	if strings.HasPrefix(raw, "\\") {
		return raw
	}
	first, rest, qualified := strings.Cut(raw, "\\")
	if target, ok := n.imports[strings.ToLower(first)]; ok {
		if qualified {
			return target + "\\" + rest
		}
		return target
	}
	if n.namespace == "" {
		return "\\" + raw
	}
	return "\\" + n.namespace + "\\" + raw
}
