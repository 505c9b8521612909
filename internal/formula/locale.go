package formula

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidLocale = errors.New("invalid locale")

// operatorRunes are the single characters used by the operator alternatives.
const operatorRunes = "=<>!+-*/%^&()."

// Locale holds the separators a formula is written with.
type Locale struct {
	DecimalSeparator   rune
	ParameterSeparator rune
}

var DefaultLocale = Locale{DecimalSeparator: '.', ParameterSeparator: ','}

// Validate rejects separators which would make the token pattern ambiguous.
func (l Locale) Validate() error {
	if l.DecimalSeparator == l.ParameterSeparator {
		return fmt.Errorf("%w: decimal and parameter separators are both '%c'", ErrInvalidLocale, l.DecimalSeparator)
	}

	for _, r := range []rune{l.DecimalSeparator, l.ParameterSeparator} {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '"' || r == '$' || r == ':' {
			return fmt.Errorf("%w: separator '%c' is not allowed", ErrInvalidLocale, r)
		}
	}

	if strings.ContainsRune(operatorRunes, l.ParameterSeparator) {
		return fmt.Errorf("%w: parameter separator '%c' is an operator", ErrInvalidLocale, l.ParameterSeparator)
	}

	return nil
}

// formatNumber renders n in its shortest form using the locale decimal separator.
func (l Locale) formatNumber(n float64) string {
	s := formatFloat(n)
	if l.DecimalSeparator != '.' {
		s = strings.Replace(s, ".", string(l.DecimalSeparator), 1)
	}
	return s
}

// parseNumber converts a number token written with the locale decimal separator.
func (l Locale) parseNumber(raw string) (float64, error) {
	if l.DecimalSeparator != '.' {
		raw = strings.Replace(raw, string(l.DecimalSeparator), ".", 1)
	}
	return parseFloat(raw)
}
