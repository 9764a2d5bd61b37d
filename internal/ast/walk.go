package ast

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. When f returns false the node's children are skipped. Function,
// method and closure bodies are entered like any other child.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || isNilNode(n) || !f(n) {
		return
	}
	switch n := n.(type) {
	case *File:
		stmts(n.Stmts, f)

	// expressions
	case *StringLit, *NumberLit, *ConstFetch, *Bad:
	case *Variable:
		expr(n.Dynamic, f)
	case *ClassConstFetch:
		expr(n.Class, f)
	case *StaticPropertyFetch:
		expr(n.Class, f)
	case *Call:
		expr(n.Callee, f)
		args(n.Args, f)
	case *MethodCall:
		expr(n.Object, f)
		args(n.Args, f)
	case *StaticCall:
		expr(n.Class, f)
		args(n.Args, f)
	case *New:
		expr(n.Class, f)
		args(n.Args, f)
		if n.Anon != nil {
			Inspect(n.Anon, f)
		}
	case *ArrayLit:
		for _, it := range n.Items {
			expr(it.Key, f)
			expr(it.Value, f)
		}
	case *ArrayAccess:
		expr(n.Container, f)
		expr(n.Index, f)
	case *PropertyFetch:
		expr(n.Object, f)
	case *Include:
		expr(n.Arg, f)
	case *Assign:
		expr(n.Target, f)
		expr(n.Value, f)
	case *Binary:
		expr(n.Left, f)
		expr(n.Right, f)
	case *Unary:
		expr(n.X, f)
	case *Cast:
		expr(n.X, f)
	case *Ternary:
		expr(n.Cond, f)
		expr(n.Then, f)
		expr(n.Else, f)
	case *Paren:
		expr(n.X, f)
	case *Closure:
		params(n.Params, f)
		stmts(n.Body, f)
		expr(n.Arrow, f)
	case *Other:
		for _, c := range n.Children {
			expr(c, f)
		}

	// statements
	case *ExprStmt:
		expr(n.X, f)
	case *Echo:
		for _, a := range n.Args {
			expr(a, f)
		}
	case *InlineHTML, *Jump, *Global, *Use, *Nop, *BadStmt:
	case *Return:
		expr(n.X, f)
	case *Block:
		stmts(n.Stmts, f)
	case *If:
		expr(n.Cond, f)
		stmts(n.Then, f)
		for _, ei := range n.ElseIfs {
			expr(ei.Cond, f)
			stmts(ei.Body, f)
		}
		stmts(n.Else, f)
	case *While:
		expr(n.Cond, f)
		stmts(n.Body, f)
	case *DoWhile:
		stmts(n.Body, f)
		expr(n.Cond, f)
	case *For:
		for _, group := range [][]Expr{n.Init, n.Cond, n.Step} {
			for _, e := range group {
				expr(e, f)
			}
		}
		stmts(n.Body, f)
	case *Foreach:
		expr(n.X, f)
		expr(n.Key, f)
		expr(n.Value, f)
		stmts(n.Body, f)
	case *Switch:
		expr(n.Subject, f)
		for _, c := range n.Cases {
			expr(c.Cond, f)
			stmts(c.Body, f)
		}
	case *Try:
		stmts(n.Body, f)
		for _, c := range n.Catches {
			stmts(c.Body, f)
		}
		stmts(n.Finally, f)
	case *Throw:
		expr(n.X, f)
	case *Static:
		for _, v := range n.Vars {
			expr(v.Init, f)
		}
	case *Unset:
		for _, a := range n.Args {
			expr(a, f)
		}
	case *Namespace:
		stmts(n.Body, f)
	case *FuncDecl:
		params(n.Params, f)
		stmts(n.Body, f)
	case *ConstDecl:
		for _, c := range n.Items {
			expr(c.Value, f)
		}
	case *ClassDecl:
		for _, c := range n.Consts {
			expr(c.Value, f)
		}
		for _, p := range n.Props {
			expr(p.Default, f)
		}
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	}
}

func expr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func stmts(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

func args(list []Arg, f func(Node) bool) {
	for _, a := range list {
		expr(a.Value, f)
	}
}

func params(list []Param, f func(Node) bool) {
	for _, p := range list {
		expr(p.Default, f)
	}
}

// isNilNode catches typed nil pointers stored in an interface.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *File:
		return n == nil
	case *FuncDecl:
		return n == nil
	case *ClassDecl:
		return n == nil
	}
	return false
}
