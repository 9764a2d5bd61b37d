package inspect

import (
	"context"
	"fmt"
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/sema"
)

// builtinOffsetClasses implement ArrayAccess in the runtime and accept any
// index, keyed by lowercase FQN.
var builtinOffsetClasses = map[string]bool{
	`\arrayaccess`:         true,
	`\arrayobject`:         true,
	`\arrayiterator`:       true,
	`\splfixedarray`:       true,
	`\splobjectstorage`:    true,
	`\spldoublylinkedlist`: true,
	`\splqueue`:            true,
	`\splstack`:            true,
	`\weakmap`:             true,
}

// OffsetInspector checks that array accesses target containers supporting
// offsets and use index types the container accepts.
type OffsetInspector struct {
	Base
	res *sema.Resolver
	r   diag.Reporter
}

func NewOffsetInspector(res *sema.Resolver, r diag.Reporter) *OffsetInspector {
	return &OffsetInspector{res: res, r: r}
}

func (oi *OffsetInspector) VisitArrayAccess(_ context.Context, access *ast.ArrayAccess) error {
	if access.Container == nil {
		return nil
	}
	allowed := sema.NewTypeSet()
	if !oi.supportsOffsets(access.Container, allowed) && !allowed.Empty() {
		msg := fmt.Sprintf("'%s' may not support offset operations (or its type not annotated properly: %s).",
			oi.res.Text(ast.SpanOf(access.Container)), allowed)
		diag.ReportWarning(oi.r, diag.SemaOffsetUnsupported, access.Span, msg).Emit()
		return nil
	}
	if allowed.Empty() || access.Index == nil {
		return nil
	}

	indexTypes, _ := oi.res.ResolveType(access.Index)
	if indexTypes.Empty() {
		return nil
	}
	rejected := disallowedIndexTypes(indexTypes, allowed)
	if rejected.Empty() {
		return nil
	}
	msg := fmt.Sprintf("Resolved index type (%s) is incompatible with possible %s. Probably just proper type hinting needed.",
		rejected, allowed)
	diag.ReportWarning(oi.r, diag.SemaOffsetIndexMismatch, ast.SpanOf(access.Index), msg).Emit()
	return nil
}

// supportsOffsets fills allowed with the index types the container accepts.
// When it returns false, allowed holds the container types instead. An empty
// allowed set means the container could not be analysed.
func (oi *OffsetInspector) supportsOffsets(container ast.Expr, allowed sema.TypeSet) bool {
	types, ok := oi.res.ResolveType(container)
	if !ok {
		return true
	}

	if types.Has("mixed") {
		return true
	}
	// foreach keys and string-or-false core results
	if types.Len() == 2 && types.Has("string") && (types.Has("int") || types.Has("bool")) {
		return true
	}
	if types.Has("callable") {
		types.Remove("callable")
		types.Add("array", "string")
	}
	types.Remove("null")
	types.Remove("object")
	if types.Empty() {
		return true
	}

	supported := false
	for _, name := range types.Names() {
		if name == "array" || name == "string" {
			supported = true
			allowed.Add("string", "int")
			continue
		}
		if !sema.IsClassType(name) {
			supported = false
			break
		}
		classOK, known := oi.classOffsets(name, allowed)
		if !known {
			clear(allowed)
			return true
		}
		if classOK {
			supported = true
		}
	}

	if !supported {
		clear(allowed)
		allowed.Union(types)
	}
	return supported
}

// classOffsets adds the index types class accepts through offsetGet,
// offsetSet, __get or __set. known is false for classes the index does not
// hold.
func (oi *OffsetInspector) classOffsets(class string, allowed sema.TypeSet) (supported, known bool) {
	if builtinOffsetClasses[strings.ToLower(class)] {
		allowed.Add("mixed")
		return true, true
	}
	idx := oi.res.Index()
	if idx == nil {
		return false, false
	}
	if _, ok := idx.Class(class); !ok {
		return false, false
	}

	for _, method := range []string{"offsetGet", "offsetSet", "__get", "__set"} {
		decl, _, ok := idx.FindMethod(class, method)
		if !ok {
			continue
		}
		supported = true
		if strings.HasPrefix(method, "__") {
			allowed.Add("string", "int")
			continue
		}
		if len(decl.Params) == 0 {
			continue
		}
		if names := decl.Params[0].Type.Names(); len(names) > 0 {
			allowed.Add(names...)
		} else {
			allowed.Add("mixed")
		}
	}
	if supported {
		return true, true
	}
	for _, super := range idx.Supertypes(class) {
		if builtinOffsetClasses[strings.ToLower(super)] {
			allowed.Add("mixed")
			return true, true
		}
	}
	return false, true
}

// disallowedIndexTypes returns the index types allowed does not admit. Mixed
// and null indexes always pass.
func disallowedIndexTypes(index, allowed sema.TypeSet) sema.TypeSet {
	anyObject := allowed.Has("object")
	anyScalar := allowed.Has("mixed")
	out := sema.NewTypeSet()
	for _, name := range index.Names() {
		if name == "mixed" || name == "null" || allowed.Has(name) {
			continue
		}
		if anyObject && sema.IsClassType(name) {
			continue
		}
		if !anyScalar {
			out.Add(name)
		}
	}
	return out
}
