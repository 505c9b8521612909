package formula

import (
	"time"

	"go.uber.org/zap"
)

// Clock gives NOW and TODAY their notion of time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Engine parses and evaluates formulas. The locale, the custom function
// registry and the active name provider belong to the engine, so independent
// engines never affect each other. An Engine is not safe for concurrent use.
type Engine struct {
	locale    Locale
	tokenizer *Tokenizer
	library   *library
	clock     Clock
}

type Option func(e *Engine)

// WithClock replaces the system clock used by date functions.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithNameProvider selects the localized function names from the start.
func WithNameProvider(p *NameProvider) Option {
	return func(e *Engine) {
		e.library.selectProvider(p)
	}
}

func New(locale Locale, opts ...Option) (*Engine, error) {
	if err := locale.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		locale:    locale,
		tokenizer: NewTokenizer(locale),
		library:   newLibrary(),
		clock:     systemClock{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func (e *Engine) Locale() Locale {
	return e.locale
}

// Parse parses formula text, with or without the leading '='.
func (e *Engine) Parse(text string) (Node, error) {
	return parse(e.tokenizer, text)
}

// ParseCriterion parses the criterion of SUMIF like functions, e.g. ">10".
func (e *Engine) ParseCriterion(text string) *Criterion {
	return parseCriterion(e.tokenizer, text)
}

// Format regenerates the formula text of n, with the leading '='.
func (e *Engine) Format(n Node) string {
	return FormatFormula(n, e.locale)
}

// Register adds a custom function. Built-in functions take precedence over
// custom functions with the same name.
func (e *Engine) Register(name string, fn CustomFunc) {
	e.library.custom[name] = fn
	zap.S().Debugw("custom function registered", "name", name)
}

// SelectNameProvider changes the localized function names accepted by all
// subsequent evaluations of this engine.
func (e *Engine) SelectNameProvider(p *NameProvider) {
	e.library.selectProvider(p)
	zap.S().Debugw("name provider selected", "provider", p.Name)
}

// NameProvider returns the active name provider.
func (e *Engine) NameProvider() *NameProvider {
	return e.library.provider
}

// IsVolatile reports whether n calls a function whose result can change
// without any referenced cell changing. Localized names of the active
// provider resolve to their canonical function.
func (e *Engine) IsVolatile(n Node) bool {
	volatile := false
	Inspect(n, func(n Node) bool {
		if call, ok := n.(*FunctionCall); ok {
			if f, found := e.library.lookup(call.Name); found {
				switch f.name {
				case "NOW", "TODAY", "INDIRECT":
					volatile = true
				}
			}
		}
		return !volatile
	})
	return volatile
}
