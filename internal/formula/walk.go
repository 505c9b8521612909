package formula

import "fmt"

// Inspect traverses n depth first, calling f for every node. Children are
// skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch e := n.(type) {
	case *Literal, *NumberLiteral, *StringLiteral, *BooleanLiteral, *CellRef, *RangeRef, *Identifier:
	case *Union:
		for _, r := range e.Ranges {
			Inspect(r, f)
		}
	case *UnaryOp:
		Inspect(e.Operand, f)
	case *BinaryOp:
		Inspect(e.Left, f)
		Inspect(e.Right, f)
	case *FunctionCall:
		for _, arg := range e.Args {
			Inspect(arg, f)
		}
	case *Group:
		Inspect(e.Inner, f)
	default:
		panic(fmt.Sprintf("formula: unknown node type %T", n))
	}
}

// Rewrite returns a deep copy of n in which every node has been passed
// through f, children first. n itself is left untouched.
func Rewrite(n Node, f func(Node) Node) Node {
	var out Node

	switch e := n.(type) {
	case *Literal:
		c := *e
		out = &c
	case *NumberLiteral:
		c := *e
		out = &c
	case *StringLiteral:
		c := *e
		out = &c
	case *BooleanLiteral:
		c := *e
		out = &c
	case *CellRef:
		c := *e
		out = &c
	case *RangeRef:
		c := *e
		out = &c
	case *Identifier:
		c := *e
		out = &c
	case *Union:
		c := &Union{Span: e.Span, Ranges: make([]*RangeRef, 0, len(e.Ranges))}
		for _, r := range e.Ranges {
			rewritten, ok := Rewrite(r, f).(*RangeRef)
			if !ok {
				panic("formula: union member rewritten to a non range node")
			}
			c.Ranges = append(c.Ranges, rewritten)
		}
		out = c
	case *UnaryOp:
		out = &UnaryOp{Span: e.Span, Op: e.Op, Operand: Rewrite(e.Operand, f)}
	case *BinaryOp:
		out = &BinaryOp{Span: e.Span, Op: e.Op, Left: Rewrite(e.Left, f), Right: Rewrite(e.Right, f)}
	case *FunctionCall:
		c := &FunctionCall{Span: e.Span, Name: e.Name, Args: make([]Node, 0, len(e.Args))}
		for _, arg := range e.Args {
			c.Args = append(c.Args, Rewrite(arg, f))
		}
		out = c
	case *Group:
		out = &Group{Span: e.Span, Inner: Rewrite(e.Inner, f)}
	default:
		panic(fmt.Sprintf("formula: unknown node type %T", n))
	}

	return f(out)
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	return Rewrite(n, func(n Node) Node { return n })
}

// References returns every cell, range and name n refers to, in source order.
func References(n Node) []Node {
	refs := []Node{}
	Inspect(n, func(n Node) bool {
		switch n.(type) {
		case *CellRef, *RangeRef, *Identifier:
			refs = append(refs, n)
		}
		return true
	})
	return refs
}
