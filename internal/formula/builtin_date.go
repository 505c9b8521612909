package formula

import (
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

func dateFunctions() []*function {
	return []*function{
		{name: "NOW", min: 0, max: 0, eval: fnNow},
		{name: "TODAY", min: 0, max: 0, eval: fnToday},
		{name: "DATE", min: 3, max: 3, eval: fnDate},
		{name: "DATEVALUE", min: 1, max: 1, eval: fnDateValue},
		{name: "YEAR", min: 1, max: 1, eval: datePart(func(t time.Time) int { return t.Year() })},
		{name: "MONTH", min: 1, max: 1, eval: datePart(func(t time.Time) int { return int(t.Month()) })},
		{name: "DAY", min: 1, max: 1, eval: datePart(func(t time.Time) int { return t.Day() })},
	}
}

func fnNow(e *Engine, ctx *Context, args []Value) (Value, error) {
	return DateTime(e.clock.Now()), nil
}

func fnToday(e *Engine, ctx *Context, args []Value) (Value, error) {
	now := e.clock.Now()
	return DateTime(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())), nil
}

// fnDate builds a date in UTC. Out of range months and days roll over.
func fnDate(e *Engine, ctx *Context, args []Value) (Value, error) {
	parts := make([]int, 3)
	for i := range parts {
		n, err := toInt(args[i])
		if err != nil {
			return Nil(), err
		}
		parts[i] = n
	}
	return DateTime(time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC)), nil
}

func fnDateValue(e *Engine, ctx *Context, args []Value) (Value, error) {
	t, err := toTime(args[0])
	if err != nil {
		return Nil(), err
	}
	return DateTime(t), nil
}

func datePart(part func(time.Time) int) valueFunc {
	return func(e *Engine, ctx *Context, args []Value) (Value, error) {
		t, err := toTime(args[0])
		if err != nil {
			return Nil(), err
		}
		return Number(float64(part(t))), nil
	}
}

// toTime accepts a DateTime or a text in one of the ISO 8601 forms, with or
// without the time part.
func toTime(v Value) (time.Time, error) {
	if t, ok := v.Time(); ok {
		return t, nil
	}

	s, ok := v.Text()
	if !ok {
		return time.Time{}, newFault(StatusInvalidValue, "expected a date, got a %s", v.Kind())
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, newFault(StatusInvalidValue, "empty date")
	}

	if dt, err := strfmt.ParseDateTime(s); err == nil {
		return time.Time(dt), nil
	}

	var d strfmt.Date
	if err := d.UnmarshalText([]byte(s)); err == nil {
		return time.Time(d), nil
	}

	return time.Time{}, newFault(StatusInvalidValue, "'%s' is not a date", s)
}
