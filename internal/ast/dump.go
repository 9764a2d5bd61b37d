package ast

import (
	"fmt"
	"io"
	"strings"

	"pcrelint/internal/token"
)

// Fprint writes an indented outline of the tree rooted at n.
func Fprint(w io.Writer, n Node) error {
	var stack []Node
	var err error
	Inspect(n, func(cur Node) bool {
		if err != nil {
			return false
		}
		for len(stack) > 0 && !SpanOf(stack[len(stack)-1]).Contains(SpanOf(cur)) {
			stack = stack[:len(stack)-1]
		}
		sp := SpanOf(cur)
		_, err = fmt.Fprintf(w, "%s%s [%d:%d]\n", strings.Repeat("  ", len(stack)), Describe(cur), sp.Start, sp.End)
		stack = append(stack, cur)
		return true
	})
	return err
}

// Describe returns a one-line label for a node.
func Describe(n Node) string {
	switch n := n.(type) {
	case *File:
		return "File"
	case *StringLit:
		return fmt.Sprintf("StringLit %q", n.Value)
	case *NumberLit:
		return "NumberLit " + n.Raw
	case *Variable:
		if n.Name == "" {
			return "Variable (dynamic)"
		}
		return "Variable $" + n.Name
	case *ConstFetch:
		return "ConstFetch " + n.Name
	case *ClassConstFetch:
		return "ClassConstFetch " + n.ClassName + "::" + n.Const
	case *StaticPropertyFetch:
		return "StaticPropertyFetch " + n.ClassName + "::$" + n.Name
	case *Call:
		if n.Name == "" {
			return fmt.Sprintf("Call (dynamic) args=%d", len(n.Args))
		}
		return fmt.Sprintf("Call %s args=%d", n.Name, len(n.Args))
	case *MethodCall:
		return fmt.Sprintf("MethodCall ->%s args=%d", n.Method, len(n.Args))
	case *StaticCall:
		return fmt.Sprintf("StaticCall %s::%s args=%d", n.ClassName, n.Method, len(n.Args))
	case *New:
		if n.Anon != nil {
			return "New (anonymous class)"
		}
		return "New " + n.ClassName
	case *ArrayLit:
		return fmt.Sprintf("ArrayLit items=%d", len(n.Items))
	case *ArrayAccess:
		if n.Index == nil {
			return "ArrayAccess (push)"
		}
		return "ArrayAccess"
	case *PropertyFetch:
		return "PropertyFetch ->" + n.Name
	case *Include:
		return "Include " + keywordText(n.Kind)
	case *Assign:
		return "Assign " + n.Op.String()
	case *Binary:
		if n.Op.IsKeyword() {
			return "Binary " + keywordText(n.Op)
		}
		return "Binary " + n.Op.String()
	case *Unary:
		return "Unary " + n.Op.String()
	case *Cast:
		return "Cast " + n.Type
	case *Ternary:
		return "Ternary"
	case *Paren:
		return "Paren"
	case *Closure:
		if n.Arrow != nil {
			return "ArrowFunction"
		}
		return "Closure"
	case *Other:
		return "Other " + n.Kind
	case *Bad:
		return "Bad"
	case *FuncDecl:
		if n.FQN != "" {
			return "Function " + n.FQN
		}
		return "Method " + n.Name
	case *ClassDecl:
		return "Class " + n.FQN
	case *ConstDecl:
		names := make([]string, len(n.Items))
		for i, it := range n.Items {
			names[i] = it.Name
		}
		return "Const " + strings.Join(names, ", ")
	case *Namespace:
		return "Namespace " + n.Name
	case *Jump:
		return "Jump " + keywordText(n.Kind)
	}
	name := fmt.Sprintf("%T", n)
	return strings.TrimPrefix(name, "*ast.")
}

func keywordText(k token.Kind) string {
	s := k.String()
	s = strings.TrimPrefix(s, "Kw(")
	return strings.TrimSuffix(s, ")")
}
