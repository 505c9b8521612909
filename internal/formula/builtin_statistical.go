package formula

import (
	"golang.org/x/exp/slices"
)

func statisticalFunctions() []*function {
	return []*function{
		{name: "SUM", min: 1, max: -1, unions: true, eval: fnSum},
		{name: "AVERAGE", min: 1, max: -1, unions: true, eval: fnAverage},
		{name: "COUNT", min: 1, max: -1, unions: true, eval: fnCount},
		{name: "COUNTA", min: 1, max: -1, unions: true, eval: fnCountA},
		{name: "MIN", min: 1, max: -1, unions: true, eval: fnMin},
		{name: "MAX", min: 1, max: -1, unions: true, eval: fnMax},
		{name: "MEDIAN", min: 1, max: -1, unions: true, eval: fnMedian},
		{name: "SUMIF", min: 2, max: 3, eval: fnSumIf},
		{name: "COUNTIF", min: 2, max: 2, eval: fnCountIf},
		{name: "AVERAGEIF", min: 2, max: 3, eval: fnAverageIf},
	}
}

func fnSum(e *Engine, ctx *Context, args []Value) (Value, error) {
	numbers, err := e.numbers(ctx, args)
	if err != nil {
		return Nil(), err
	}
	return Number(sum(numbers)), nil
}

func fnAverage(e *Engine, ctx *Context, args []Value) (Value, error) {
	numbers, err := e.numbers(ctx, args)
	if err != nil {
		return Nil(), err
	}
	if len(numbers) == 0 {
		return Nil(), newFault(StatusInvalidValue, "AVERAGE of no numbers")
	}
	return Number(sum(numbers) / float64(len(numbers))), nil
}

func fnCount(e *Engine, ctx *Context, args []Value) (Value, error) {
	count := 0
	for _, arg := range args {
		if r, ok := arg.RangePosition(); ok {
			err := e.eachCell(ctx, r, func(_ CellPosition, v Value) error {
				if v.Kind() == KindNumber {
					count++
				}
				return nil
			})
			if err != nil {
				return Nil(), err
			}
			continue
		}

		if arg.IsNil() {
			continue
		}
		if _, err := toNumber(arg); err == nil {
			count++
		}
	}
	return Number(float64(count)), nil
}

func fnCountA(e *Engine, ctx *Context, args []Value) (Value, error) {
	count := 0
	for _, arg := range args {
		if r, ok := arg.RangePosition(); ok {
			err := e.eachCell(ctx, r, func(_ CellPosition, v Value) error {
				if !v.IsNil() {
					count++
				}
				return nil
			})
			if err != nil {
				return Nil(), err
			}
			continue
		}

		if !arg.IsNil() {
			count++
		}
	}
	return Number(float64(count)), nil
}

func fnMin(e *Engine, ctx *Context, args []Value) (Value, error) {
	numbers, err := e.numbers(ctx, args)
	if err != nil || len(numbers) == 0 {
		return Number(0), err
	}
	min := numbers[0]
	for _, n := range numbers[1:] {
		if n < min {
			min = n
		}
	}
	return Number(min), nil
}

func fnMax(e *Engine, ctx *Context, args []Value) (Value, error) {
	numbers, err := e.numbers(ctx, args)
	if err != nil || len(numbers) == 0 {
		return Number(0), err
	}
	max := numbers[0]
	for _, n := range numbers[1:] {
		if n > max {
			max = n
		}
	}
	return Number(max), nil
}

func fnMedian(e *Engine, ctx *Context, args []Value) (Value, error) {
	numbers, err := e.numbers(ctx, args)
	if err != nil {
		return Nil(), err
	}
	if len(numbers) == 0 {
		return Nil(), newFault(StatusInvalidValue, "MEDIAN of no numbers")
	}

	slices.Sort(numbers)
	mid := len(numbers) / 2
	if len(numbers)%2 == 1 {
		return Number(numbers[mid]), nil
	}
	return Number((numbers[mid-1] + numbers[mid]) / 2), nil
}

func fnSumIf(e *Engine, ctx *Context, args []Value) (Value, error) {
	total, _, err := e.conditional(ctx, "SUMIF", args)
	if err != nil {
		return Nil(), err
	}
	return Number(total), nil
}

func fnCountIf(e *Engine, ctx *Context, args []Value) (Value, error) {
	_, count, err := e.conditional(ctx, "COUNTIF", args)
	if err != nil {
		return Nil(), err
	}
	return Number(float64(count)), nil
}

func fnAverageIf(e *Engine, ctx *Context, args []Value) (Value, error) {
	total, count, err := e.conditional(ctx, "AVERAGEIF", args)
	if err != nil {
		return Nil(), err
	}

	if count == 0 {
		return Nil(), newFault(StatusInvalidValue, "AVERAGEIF matched no numbers")
	}
	return Number(total / float64(count)), nil
}

// conditional runs the criterion of SUMIF, COUNTIF and AVERAGEIF over the
// range in args[0]. Matching cells select the cell at the same offset in the
// optional value range args[2]. It returns the sum of the selected numbers and
// the number of matches (numeric selections only when a value range is summed).
func (e *Engine) conditional(ctx *Context, name string, args []Value) (float64, int, error) {
	r, err := toRange(name, args[0])
	if err != nil {
		return 0, 0, err
	}

	var criterion *Criterion
	if text, ok := args[1].Text(); ok {
		criterion = e.ParseCriterion(text)
	} else {
		criterion = newValueCriterion(args[1])
	}

	values := r
	if len(args) > 2 {
		if values, err = toRange(name, args[2]); err != nil {
			return 0, 0, err
		}
	}

	total := 0.0
	count := 0
	err = e.eachCell(ctx, r, func(p CellPosition, v Value) error {
		ok, err := criterion.Match(e, ctx, v)
		if err != nil || !ok {
			return err
		}

		if name == "COUNTIF" {
			count++
			return nil
		}

		selected, err := e.cellValue(ctx, values.Cell(p.Row-r.StartRow, p.Col-r.StartCol))
		if err != nil {
			return err
		}
		if n, ok := selected.Number(); ok {
			total += n
			count++
		}
		return nil
	})

	return total, count, err
}

func sum(numbers []float64) float64 {
	total := 0.0
	for _, n := range numbers {
		total += n
	}
	return total
}
