package formula

func logicalFunctions() []*function {
	return []*function{
		{name: "IF", min: 2, max: 3, raw: fnIf},
		{name: "AND", min: 1, max: -1, raw: fnAnd},
		{name: "OR", min: 1, max: -1, raw: fnOr},
		{name: "NOT", min: 1, max: 1, eval: fnNot},
		{name: "TRUE", min: 0, max: 0, eval: constant(Bool(true))},
		{name: "FALSE", min: 0, max: 0, eval: constant(Bool(false))},
		{name: "ISERROR", min: 1, max: 1, raw: fnIsError},
		{name: "ISBLANK", min: 1, max: 1, eval: isKind(KindNil)},
		{name: "ISNUMBER", min: 1, max: 1, eval: isKind(KindNumber)},
		{name: "ISTEXT", min: 1, max: 1, eval: isKind(KindString)},
	}
}

func constant(v Value) valueFunc {
	return func(e *Engine, ctx *Context, args []Value) (Value, error) {
		return v, nil
	}
}

func isKind(k Kind) valueFunc {
	return func(e *Engine, ctx *Context, args []Value) (Value, error) {
		return Bool(args[0].Kind() == k), nil
	}
}

// fnIf evaluates only the branch selected by the condition. A missing else
// branch yields FALSE.
func fnIf(e *Engine, ctx *Context, args []Node) (Value, error) {
	cond, err := e.Evaluate(ctx, args[0])
	if err != nil {
		return Nil(), err
	}

	ok, err := toBool(cond)
	if err != nil {
		return Nil(), err
	}

	if ok {
		return e.Evaluate(ctx, args[1])
	}
	if len(args) < 3 {
		return Bool(false), nil
	}
	return e.Evaluate(ctx, args[2])
}

func fnAnd(e *Engine, ctx *Context, args []Node) (Value, error) {
	return e.shortCircuit(ctx, "AND", args, false)
}

func fnOr(e *Engine, ctx *Context, args []Node) (Value, error) {
	return e.shortCircuit(ctx, "OR", args, true)
}

// shortCircuit evaluates arguments until one of them equals stop. Range
// arguments contribute their boolean and numeric cells.
func (e *Engine) shortCircuit(ctx *Context, name string, args []Node, stop bool) (Value, error) {
	seen := false
	for _, arg := range args {
		v, err := e.Evaluate(ctx, arg)
		if err != nil {
			return Nil(), err
		}

		if r, ok := v.RangePosition(); ok {
			found := false
			err := e.eachCell(ctx, r, func(_ CellPosition, v Value) error {
				if v.Kind() != KindBoolean && v.Kind() != KindNumber {
					return nil
				}
				seen = true
				b, _ := toBool(v)
				found = b == stop
				if found {
					return errStop
				}
				return nil
			})
			if err != nil && err != errStop {
				return Nil(), err
			}
			if found {
				return Bool(stop), nil
			}
			continue
		}

		b, err := toBool(v)
		if err != nil {
			return Nil(), err
		}
		seen = true
		if b == stop {
			return Bool(stop), nil
		}
	}

	if !seen {
		return Nil(), newFault(StatusInvalidValue, "%s has no logical values", name)
	}
	return Bool(!stop), nil
}

func fnNot(e *Engine, ctx *Context, args []Value) (Value, error) {
	b, err := toBool(args[0])
	if err != nil {
		return Nil(), err
	}
	return Bool(!b), nil
}

// fnIsError reports whether its argument fails to evaluate. It is the only
// place where an evaluation error is turned into a value.
func fnIsError(e *Engine, ctx *Context, args []Node) (Value, error) {
	_, err := e.Evaluate(ctx, args[0])
	return Bool(err != nil), nil
}
