package formula

import (
	"math"

	"github.com/shopspring/decimal"
)

func mathFunctions() []*function {
	return []*function{
		{name: "ABS", min: 1, max: 1, eval: unaryMath(math.Abs)},
		{name: "INT", min: 1, max: 1, eval: unaryMath(math.Floor)},
		{name: "EXP", min: 1, max: 1, eval: unaryMath(math.Exp)},
		{name: "LN", min: 1, max: 1, eval: positiveMath("LN", math.Log)},
		{name: "LOG10", min: 1, max: 1, eval: positiveMath("LOG10", math.Log10)},
		{name: "SQRT", min: 1, max: 1, eval: fnSqrt},
		{name: "PI", min: 0, max: 0, eval: fnPi},
		{name: "POWER", min: 2, max: 2, eval: fnPower},
		{name: "MOD", min: 2, max: 2, eval: fnMod},
		{name: "ROUND", min: 1, max: 2, eval: fnRound},
		{name: "CEILING", min: 1, max: 2, eval: fnCeiling},
		{name: "FLOOR", min: 1, max: 2, eval: fnFloor},
	}
}

func unaryMath(f func(float64) float64) valueFunc {
	return func(e *Engine, ctx *Context, args []Value) (Value, error) {
		x, err := toNumber(args[0])
		if err != nil {
			return Nil(), err
		}
		return Number(f(x)), nil
	}
}

func positiveMath(name string, f func(float64) float64) valueFunc {
	return func(e *Engine, ctx *Context, args []Value) (Value, error) {
		x, err := toNumber(args[0])
		if err != nil {
			return Nil(), err
		}
		if x <= 0 {
			return Nil(), newFault(StatusInvalidValue, "%s of a non positive number", name)
		}
		return Number(f(x)), nil
	}
}

func fnSqrt(e *Engine, ctx *Context, args []Value) (Value, error) {
	x, err := toNumber(args[0])
	if err != nil {
		return Nil(), err
	}
	if x < 0 {
		return Nil(), newFault(StatusInvalidValue, "SQRT of a negative number")
	}
	return Number(math.Sqrt(x)), nil
}

func fnPi(e *Engine, ctx *Context, args []Value) (Value, error) {
	return Number(math.Pi), nil
}

func fnPower(e *Engine, ctx *Context, args []Value) (Value, error) {
	x, y, err := twoNumbers(args)
	if err != nil {
		return Nil(), err
	}
	return Number(math.Pow(x, y)), nil
}

// fnMod returns a remainder with the sign of the divisor.
func fnMod(e *Engine, ctx *Context, args []Value) (Value, error) {
	x, y, err := twoNumbers(args)
	if err != nil {
		return Nil(), err
	}
	return Number(x - y*math.Floor(x/y)), nil
}

// fnRound rounds half away from zero to the given number of digits.
func fnRound(e *Engine, ctx *Context, args []Value) (Value, error) {
	x, err := toNumber(args[0])
	if err != nil {
		return Nil(), err
	}
	digits, err := toInt(optional(args, 1, Number(0)))
	if err != nil {
		return Nil(), err
	}

	if !finite(x) {
		return Number(x), nil
	}

	f, _ := decimal.NewFromFloat(x).Round(int32(digits)).Float64()
	return Number(f), nil
}

// fnCeiling rounds up to a multiple of the significance.
func fnCeiling(e *Engine, ctx *Context, args []Value) (Value, error) {
	return roundToMultiple(args, true)
}

// fnFloor rounds down to a multiple of the significance.
func fnFloor(e *Engine, ctx *Context, args []Value) (Value, error) {
	return roundToMultiple(args, false)
}

// roundToMultiple works on decimals so that a number which already is a
// multiple of the significance, like 0.3 for 0.1, is returned unchanged.
// A zero significance yields zero.
func roundToMultiple(args []Value, up bool) (Value, error) {
	x, err := toNumber(args[0])
	if err != nil {
		return Nil(), err
	}
	significance, err := toNumber(optional(args, 1, Number(1)))
	if err != nil {
		return Nil(), err
	}

	if !finite(significance) {
		return Nil(), newFault(StatusInvalidValue, "significance must be finite, got %s", formatFloat(significance))
	}
	if !finite(x) {
		return Number(x), nil
	}

	step := decimal.NewFromFloat(significance).Abs()
	if step.IsZero() {
		return Number(0), nil
	}

	d := decimal.NewFromFloat(x)
	rem := d.Mod(step)
	result := d.Sub(rem)
	switch {
	case up && rem.IsPositive():
		result = result.Add(step)
	case !up && rem.IsNegative():
		result = result.Sub(step)
	}

	f, _ := result.Float64()
	return Number(f), nil
}

func twoNumbers(args []Value) (float64, float64, error) {
	x, err := toNumber(args[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := toNumber(args[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// finite reports whether x can be converted to a decimal.
func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
