package formula

import (
	"strings"
	"unicode/utf8"
)

func textFunctions() []*function {
	return []*function{
		{name: "CONCATENATE", min: 1, max: -1, eval: fnConcatenate},
		{name: "LEN", min: 1, max: 1, eval: fnLen},
		{name: "UPPER", min: 1, max: 1, eval: textMap(strings.ToUpper)},
		{name: "LOWER", min: 1, max: 1, eval: textMap(strings.ToLower)},
		{name: "TRIM", min: 1, max: 1, eval: textMap(func(s string) string { return strings.Join(strings.Fields(s), " ") })},
		{name: "LEFT", min: 1, max: 2, eval: fnLeft},
		{name: "RIGHT", min: 1, max: 2, eval: fnRight},
		{name: "MID", min: 3, max: 3, eval: fnMid},
		{name: "EXACT", min: 2, max: 2, eval: fnExact},
	}
}

func textMap(f func(string) string) valueFunc {
	return func(e *Engine, ctx *Context, args []Value) (Value, error) {
		s, err := toText(args[0])
		if err != nil {
			return Nil(), err
		}
		return String(f(s)), nil
	}
}

func fnConcatenate(e *Engine, ctx *Context, args []Value) (Value, error) {
	var b strings.Builder
	for _, arg := range args {
		s, err := toText(arg)
		if err != nil {
			return Nil(), err
		}
		b.WriteString(s)
	}
	return String(b.String()), nil
}

func fnLen(e *Engine, ctx *Context, args []Value) (Value, error) {
	s, err := toText(args[0])
	if err != nil {
		return Nil(), err
	}
	return Number(float64(utf8.RuneCountInString(s))), nil
}

func fnLeft(e *Engine, ctx *Context, args []Value) (Value, error) {
	runes, n, err := textAndCount(args)
	if err != nil {
		return Nil(), err
	}
	return String(string(runes[:n])), nil
}

func fnRight(e *Engine, ctx *Context, args []Value) (Value, error) {
	runes, n, err := textAndCount(args)
	if err != nil {
		return Nil(), err
	}
	return String(string(runes[len(runes)-n:])), nil
}

// fnMid returns count characters starting at the one based position start.
func fnMid(e *Engine, ctx *Context, args []Value) (Value, error) {
	s, err := toText(args[0])
	if err != nil {
		return Nil(), err
	}
	start, err := toInt(args[1])
	if err != nil {
		return Nil(), err
	}
	count, err := toInt(args[2])
	if err != nil {
		return Nil(), err
	}
	if start < 1 || count < 0 {
		return Nil(), newFault(StatusInvalidValue, "MID start must be positive and count non negative")
	}

	runes := []rune(s)
	if start > len(runes) {
		return String(""), nil
	}
	end := start - 1 + count
	if end > len(runes) {
		end = len(runes)
	}
	return String(string(runes[start-1 : end])), nil
}

func fnExact(e *Engine, ctx *Context, args []Value) (Value, error) {
	a, err := toText(args[0])
	if err != nil {
		return Nil(), err
	}
	b, err := toText(args[1])
	if err != nil {
		return Nil(), err
	}
	return Bool(a == b), nil
}

// textAndCount reads the text and optional character count of LEFT and RIGHT.
// The count is clamped to the text length.
func textAndCount(args []Value) ([]rune, int, error) {
	s, err := toText(args[0])
	if err != nil {
		return nil, 0, err
	}
	n, err := toInt(optional(args, 1, Number(1)))
	if err != nil {
		return nil, 0, err
	}
	if n < 0 {
		return nil, 0, newFault(StatusInvalidValue, "character count must be non negative")
	}

	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return runes, n, nil
}
