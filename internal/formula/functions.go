package formula

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// CustomFunc is a user registered function. It receives the owning cell and
// the evaluated arguments unwrapped to Go values (float64, string, bool,
// time.Time, CellPosition, RangePosition or nil) and returns one of those.
type CustomFunc func(cell CellPosition, args []interface{}) interface{}

// errStop ends a range iteration early without failing it.
var errStop = errors.New("stop iteration")

type valueFunc func(e *Engine, ctx *Context, args []Value) (Value, error)

type nodeFunc func(e *Engine, ctx *Context, args []Node) (Value, error)

// function is a built-in. Value functions get their arguments evaluated;
// node functions get the raw arguments and decide what to evaluate.
type function struct {
	name string
	min  int
	max  int // negative for variadic functions
	// unions expands union arguments into one range per member.
	unions bool

	eval valueFunc
	raw  nodeFunc
}

func (f *function) checkArity(n int) error {
	if n < f.min || (f.max >= 0 && n > f.max) {
		switch {
		case f.max < 0:
			return newFault(StatusMismatchedParameter, "%s expects at least %d arguments, got %d", f.name, f.min, n)
		case f.min == f.max:
			return newFault(StatusMismatchedParameter, "%s expects %d arguments, got %d", f.name, f.min, n)
		default:
			return newFault(StatusMismatchedParameter, "%s expects %d to %d arguments, got %d", f.name, f.min, f.max, n)
		}
	}
	return nil
}

func (f *function) call(e *Engine, ctx *Context, n *FunctionCall) (Value, error) {
	if f.raw != nil {
		if err := f.checkArity(len(n.Args)); err != nil {
			return Nil(), err
		}
		return f.raw(e, ctx, n.Args)
	}

	args, err := e.collectArgs(ctx, f, n.Args)
	if err != nil {
		return Nil(), err
	}
	return f.eval(e, ctx, args)
}

// collectArgs checks the arity of a call and evaluates its arguments.
func (e *Engine) collectArgs(ctx *Context, f *function, nodes []Node) ([]Value, error) {
	if err := f.checkArity(len(nodes)); err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(nodes))
	for _, n := range nodes {
		union, ok := n.(*Union)
		if !ok || !f.unions {
			v, err := e.Evaluate(ctx, n)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			continue
		}

		for _, member := range union.Ranges {
			r, err := e.resolveRange(ctx, member)
			if err != nil {
				return nil, err
			}
			args = append(args, Range(r))
		}
	}

	return args, nil
}

type library struct {
	builtins map[string]*function
	// localized maps the names of the active provider to canonical names.
	localized map[string]string
	provider  *NameProvider
	custom    map[string]CustomFunc
}

func newLibrary() *library {
	l := &library{
		builtins:  map[string]*function{},
		localized: map[string]string{},
		provider:  Canonical,
		custom:    map[string]CustomFunc{},
	}

	groups := [][]*function{
		statisticalFunctions(),
		lookupFunctions(),
		mathFunctions(),
		textFunctions(),
		logicalFunctions(),
		dateFunctions(),
	}
	for _, group := range groups {
		for _, f := range group {
			l.builtins[f.name] = f
		}
	}

	return l
}

func (l *library) selectProvider(p *NameProvider) {
	l.provider = p
	l.localized = make(map[string]string, len(p.Functions))
	for canonical, localized := range p.Functions {
		if _, ok := l.builtins[canonical]; ok {
			l.localized[localized] = canonical
		}
	}
}

// lookup finds a built-in by its canonical or active localized name.
// Matching is case sensitive.
func (l *library) lookup(name string) (*function, bool) {
	if f, ok := l.builtins[name]; ok {
		return f, true
	}
	if canonical, ok := l.localized[name]; ok {
		return l.builtins[canonical], true
	}
	return nil, false
}

func (l *library) names() []string {
	names := functionNames(l.builtins)
	names = append(names, maps.Keys(l.localized)...)
	return append(names, maps.Keys(l.custom)...)
}

// eachCell visits the cells of r, failing on the first cell in error.
func (e *Engine) eachCell(ctx *Context, r RangePosition, f func(p CellPosition, v Value) error) error {
	var err error
	ctx.Grid.IterateRange(r, func(p CellPosition, v Value) bool {
		if status := ctx.Grid.CellStatus(p); status != StatusNormal {
			err = statusFault(p, status)
			return false
		}
		err = f(p, v)
		return err == nil
	})
	return err
}

// numbers flattens the arguments of an aggregate function. Range cells count
// only when they hold a number; scalar arguments are converted.
func (e *Engine) numbers(ctx *Context, args []Value) ([]float64, error) {
	numbers := []float64{}
	for _, arg := range args {
		if r, ok := arg.RangePosition(); ok {
			err := e.eachCell(ctx, r, func(_ CellPosition, v Value) error {
				if n, ok := v.Number(); ok {
					numbers = append(numbers, n)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		if arg.IsNil() {
			continue
		}

		n, err := toNumber(arg)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// toNumber converts a scalar argument to a number.
func toNumber(v Value) (float64, error) {
	switch v.Kind() {
	case KindNumber:
		return v.n, nil
	case KindBoolean:
		return boolToFloat(v.b), nil
	case KindNil:
		return 0, nil
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, newFault(StatusInvalidValue, "'%s' is not a number", v.s)
		}
		return n, nil
	default:
		return 0, newFault(StatusInvalidValue, "expected a number, got a %s", v.Kind())
	}
}

func toInt(v Value) (int, error) {
	n, err := toNumber(v)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// toBool converts a scalar argument to a truth value.
func toBool(v Value) (bool, error) {
	switch v.Kind() {
	case KindBoolean:
		return v.b, nil
	case KindNumber:
		return v.n != 0, nil
	case KindNil:
		return false, nil
	case KindString:
		switch strings.ToUpper(v.s) {
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		}
		return false, newFault(StatusInvalidValue, "'%s' is not a boolean", v.s)
	default:
		return false, newFault(StatusInvalidValue, "expected a boolean, got a %s", v.Kind())
	}
}

// toText converts a scalar argument to text. Ranges are rejected.
func toText(v Value) (string, error) {
	if v.Kind() == KindRange {
		return "", newFault(StatusInvalidValue, "expected a text, got range %s", v.rng)
	}
	return v.String(), nil
}

func toRange(name string, v Value) (RangePosition, error) {
	r, ok := v.RangePosition()
	if !ok {
		return RangePosition{}, newFault(StatusInvalidValue, "%s expects a range, got a %s", name, v.Kind())
	}
	return r, nil
}

// optional returns args[i] or def when the argument was omitted.
func optional(args []Value, i int, def Value) Value {
	if i >= len(args) || args[i].IsNil() {
		return def
	}
	return args[i]
}
