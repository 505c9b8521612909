package formula

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// Evaluate computes the value of n in the given context. Spreadsheet errors
// are returned as *Fault; the result is recomputed on every call.
func (e *Engine) Evaluate(ctx *Context, n Node) (Value, error) {
	switch node := n.(type) {
	case *Literal:
		return node.Value, nil
	case *NumberLiteral:
		return Number(node.Value), nil
	case *StringLiteral:
		return String(node.Value), nil
	case *BooleanLiteral:
		return Bool(node.Value), nil
	case *CellRef:
		return e.visitCellRef(ctx, node)
	case *RangeRef:
		r, err := e.resolveRange(ctx, node)
		if err != nil {
			return Nil(), err
		}
		return Range(r), nil
	case *Union:
		return Nil(), newFault(StatusInvalidValue, "range union '%s' can only be used as a function argument", node)
	case *Identifier:
		return e.visitIdentifier(ctx, node)
	case *UnaryOp:
		return e.visitUnaryOp(ctx, node)
	case *BinaryOp:
		return e.visitBinaryOp(ctx, node)
	case *FunctionCall:
		return e.visitFunctionCall(ctx, node)
	case *Group:
		return e.Evaluate(ctx, node.Inner)
	default:
		panic(fmt.Sprintf("formula: unknown node type %T", n))
	}
}

func (e *Engine) visitCellRef(ctx *Context, n *CellRef) (Value, error) {
	p, err := e.resolveCell(ctx, n)
	if err != nil {
		return Nil(), err
	}
	return e.cellValue(ctx, p)
}

func (e *Engine) resolveCell(ctx *Context, n *CellRef) (CellPosition, error) {
	sheet, err := ctx.sheet(n.Sheet)
	if err != nil {
		return CellPosition{}, err
	}

	p := n.Anchor.Cell(sheet)
	if !ctx.inBounds(p) {
		return CellPosition{}, newFault(StatusInvalidReference, "cell %s is outside the sheet", p)
	}

	return p, nil
}

func (e *Engine) resolveRange(ctx *Context, n *RangeRef) (RangePosition, error) {
	sheet, err := ctx.sheet(n.Sheet)
	if err != nil {
		return RangePosition{}, err
	}

	r := n.Range(sheet)
	if !ctx.inBounds(r.TopLeft()) || !ctx.inBounds(r.Cell(r.Rows()-1, r.Cols()-1)) {
		return RangePosition{}, newFault(StatusInvalidReference, "range %s is outside the sheet", r)
	}

	return r, nil
}

// cellValue reads a referenced cell, propagating the error of a cell whose
// own formula failed.
func (e *Engine) cellValue(ctx *Context, p CellPosition) (Value, error) {
	if !ctx.inBounds(p) {
		return Nil(), newFault(StatusInvalidReference, "cell %s is outside the sheet", p)
	}

	if status := ctx.Grid.CellStatus(p); status != StatusNormal {
		return Nil(), statusFault(p, status)
	}

	v, ok := ctx.Grid.CellValue(p)
	if !ok {
		return Nil(), nil
	}
	return v, nil
}

func (e *Engine) visitIdentifier(ctx *Context, n *Identifier) (Value, error) {
	sheet, err := ctx.sheet(n.Sheet)
	if err != nil {
		return Nil(), err
	}

	if r, ok := ctx.Grid.NamedRange(sheet, n.Name); ok {
		if r.Size() == 1 {
			return e.cellValue(ctx, r.TopLeft())
		}
		return Range(r), nil
	}

	if resolver, ok := ctx.Grid.(NameResolver); ok && n.Sheet == "" {
		if v, ok := resolver.ResolveName(ctx, n.Name); ok {
			return v, nil
		}
	}

	return Nil(), e.nameNotFound(ctx, sheet, n.Name)
}

// nameNotFound builds the fault for an unknown name, suggesting the closest
// known name when there is one.
func (e *Engine) nameNotFound(ctx *Context, sheet, name string) error {
	candidates := e.library.names()
	if lister, ok := ctx.Grid.(NameLister); ok {
		candidates = append(candidates, lister.Names(sheet)...)
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return newFault(StatusNameNotFound, "name '%s' not found", name)
	}

	sort.Sort(ranks)
	return newFault(StatusNameNotFound, "name '%s' not found, did you mean '%s'?", name, ranks[0].Target)
}

func (e *Engine) visitUnaryOp(ctx *Context, n *UnaryOp) (Value, error) {
	v, err := e.Evaluate(ctx, n.Operand)
	if err != nil {
		return Nil(), err
	}

	x, err := e.operand(ctx, n.Operand, v)
	if err != nil {
		return Nil(), err
	}

	switch n.Op {
	case Negate:
		return Number(-x), nil
	case Percent:
		return Number(x / 100), nil
	default:
		panic(fmt.Sprintf("formula: unknown unary operator %d", n.Op))
	}
}

func (e *Engine) visitBinaryOp(ctx *Context, n *BinaryOp) (Value, error) {
	left, err := e.Evaluate(ctx, n.Left)
	if err != nil {
		return Nil(), err
	}

	right, err := e.Evaluate(ctx, n.Right)
	if err != nil {
		return Nil(), err
	}

	switch n.Op {
	case Add, Sub, Mul, Div, Pow:
		return e.arithmetic(ctx, n, left, right)
	case Concat:
		return String(left.String() + right.String()), nil
	case Eq, Ne, Gt, Ge, Lt, Le:
		return Bool(compare(n.Op, left, right)), nil
	default:
		panic(fmt.Sprintf("formula: unknown binary operator %d", n.Op))
	}
}

func (e *Engine) arithmetic(ctx *Context, n *BinaryOp, left, right Value) (Value, error) {
	x, err := e.operand(ctx, n.Left, left)
	if err != nil {
		return Nil(), err
	}

	y, err := e.operand(ctx, n.Right, right)
	if err != nil {
		return Nil(), err
	}

	switch n.Op {
	case Add:
		return Number(x + y), nil
	case Sub:
		return Number(x - y), nil
	case Mul:
		return Number(x * y), nil
	case Div:
		return Number(x / y), nil
	default:
		return Number(math.Pow(x, y)), nil
	}
}

// operand returns the number an arithmetic operand evaluated to. Empty
// operands take the grid's default value when the grid provides one.
func (e *Engine) operand(ctx *Context, n Node, v Value) (float64, error) {
	if x, ok := v.Number(); ok {
		return x, nil
	}

	if v.IsNil() {
		if defaulter, ok := ctx.Grid.(EmptyCellDefaulter); ok {
			if x, ok := defaulter.EmptyCellDefault(e.operandPosition(ctx, n)).Number(); ok {
				return x, nil
			}
		}
	}

	return 0, newFault(StatusInvalidValue, "'%s' is a %s, expected a number", n, v.Kind())
}

// operandPosition returns the cell an operand refers to, or the owning cell
// when the operand is not a plain reference.
func (e *Engine) operandPosition(ctx *Context, n Node) CellPosition {
	for {
		g, ok := n.(*Group)
		if !ok {
			break
		}
		n = g.Inner
	}

	if ref, ok := n.(*CellRef); ok {
		if p, err := e.resolveCell(ctx, ref); err == nil {
			return p
		}
	}
	return ctx.Cell
}

// compare applies a comparison operator. Numbers compare numerically, a
// string on either side compares both sides as text, booleans compare as 0
// and 1. Any other mix of kinds is never equal and always less.
func compare(op BinaryKind, left, right Value) bool {
	switch {
	case left.kind == KindNumber && right.kind == KindNumber:
		return compareFloat(op, left.n, right.n)
	case left.kind == KindString || right.kind == KindString:
		return compareFloat(op, float64(strings.Compare(left.String(), right.String())), 0)
	case left.kind == KindBoolean && right.kind == KindBoolean:
		return compareFloat(op, boolToFloat(left.b), boolToFloat(right.b))
	case left.kind == KindDateTime && right.kind == KindDateTime:
		return compareFloat(op, float64(left.t.Sub(right.t)), 0)
	case left.kind == KindNil && right.kind == KindNil:
		return compareFloat(op, 0, 0)
	}

	switch op {
	case Ne, Lt, Le:
		return true
	default:
		return false
	}
}

func compareFloat(op BinaryKind, x, y float64) bool {
	switch op {
	case Eq:
		return x == y
	case Ne:
		return x != y
	case Gt:
		return x > y
	case Ge:
		return x >= y
	case Lt:
		return x < y
	case Le:
		return x <= y
	default:
		panic(fmt.Sprintf("formula: %s is not a comparison", op))
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (e *Engine) visitFunctionCall(ctx *Context, n *FunctionCall) (Value, error) {
	if fn, ok := e.library.lookup(n.Name); ok {
		return fn.call(e, ctx, n)
	}

	if custom, ok := e.library.custom[n.Name]; ok {
		return e.callCustom(ctx, n, custom)
	}

	zap.S().Debugw("unknown function", "name", n.Name, "cell", ctx.Cell.String())
	return Nil(), nil
}

func (e *Engine) callCustom(ctx *Context, n *FunctionCall, fn CustomFunc) (Value, error) {
	args := make([]interface{}, 0, len(n.Args))
	for _, arg := range n.Args {
		v, err := e.Evaluate(ctx, arg)
		if err != nil {
			return Nil(), err
		}
		args = append(args, v.Primitive())
	}

	zap.S().Debugw("call custom function", "name", n.Name, "cell", ctx.Cell.String(), "args", len(args))
	return FromPrimitive(fn(ctx.Cell, args)), nil
}

// functionNames lists the names an unknown identifier may have been meant as.
func functionNames(functions map[string]*function) []string {
	return maps.Keys(functions)
}
