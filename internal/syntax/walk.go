package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, fn := range n.Funcs {
			Walk(fn, v)
		}

	case *Function:
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *Block:
		for _, s := range n.Stmts {
			Walk(s, v)
		}
		if n.End != nil {
			Walk(n.End, v)
		}

	case *Declare:
		walkValue(n.Value, v)

	case *Assign:
		walkValue(n.Value, v)

	case *Return:
		walkValue(n.Value, v)

	case *IfElse:
		if n.Cond != nil {
			Walk(n.Cond, v)
		}
		if n.Subject != nil {
			Walk(n.Subject, v)
		}
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *ElseStart:
		Walk(n.Body, v)

	case *While:
		if n.Cond != nil {
			Walk(n.Cond, v)
		}
		if n.Subject != nil {
			Walk(n.Subject, v)
		}
		Walk(n.Body, v)

	case *TruthExpression:
		Walk(n.Left, v)
		Walk(n.Right, v)

	case *Expression:
		for _, x := range n.Postfix {
			Walk(x, v)
		}

	case *FunctionCall:
		for _, a := range n.Args {
			Walk(a, v)
		}

	// Leaf nodes: Value, Variable, Operand, BlockEnd
	// No children to visit
	}
}

// walkValue walks an optional right-hand side.
func walkValue(x Expr, v Visitor) {
	if x != nil {
		Walk(x, v)
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
