package formula

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func describe(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == OPERATOR {
			parts = append(parts, tok.Raw)
			continue
		}
		parts = append(parts, tok.Kind.String())
	}
	return strings.Join(parts, " ")
}

func TestTokens(t *testing.T) {
	tests := []struct {
		input  string
		locale Locale
		output string
	}{
		{
			input:  `SUM(A1:B2, $C$3) & "a""b"`,
			output: "identifier ( range , cell ) & string",
		},
		{
			input:  "1.5e3 + .5 >= TRUE <> false",
			output: "number + number >= boolean <> boolean",
		},
		{
			input:  "A1:A3 C1:C3",
			output: "union",
		},
		{
			input:  "LOG10(100)%^2",
			output: "cell ( number ) % ^ number",
		},
		{
			input:  "Sheet2!B$4 == MyName.Total",
			output: "identifier ! cell == identifier . identifier",
		},
		{
			input:  "A1B2 TRUEX",
			output: "identifier identifier",
		},
		{
			input:  "1 # 2",
			output: "number",
		},
		{
			input:  "ZÄHLENWENN(x;1,5)",
			locale: Locale{DecimalSeparator: ',', ParameterSeparator: ';'},
			output: "identifier ( identifier ; number )",
		},
	}

	for idx, test := range tests {
		t.Run(fmt.Sprintf("test%d: %s", idx+1, test.input), func(t *testing.T) {
			locale := test.locale
			if locale.DecimalSeparator == 0 {
				locale = DefaultLocale
			}

			tokens := NewTokenizer(locale).Tokens(test.input)
			assert.Equal(t, test.output, describe(tokens))
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := NewTokenizer(DefaultLocale).Tokens(`  "x" & A1`)

	assert.Equal(t, []Token{
		{Kind: STRING, Start: 2, Length: 3, Raw: `"x"`},
		{Kind: OPERATOR, Start: 6, Length: 1, Raw: "&"},
		{Kind: CELL, Start: 8, Length: 2, Raw: "A1"},
	}, tokens)
}

func TestTokenizerRestart(t *testing.T) {
	tz := NewTokenizer(DefaultLocale)

	tok, ok := tz.Next("SUM(A1)", 4)
	assert.True(t, ok)
	assert.Equal(t, Token{Kind: CELL, Start: 4, Length: 2, Raw: "A1"}, tok)

	_, ok = tz.Next("SUM(A1)   ", 7)
	assert.False(t, ok)
}

func TestLocaleValidate(t *testing.T) {
	assert.NoError(t, DefaultLocale.Validate())
	assert.NoError(t, Locale{DecimalSeparator: ',', ParameterSeparator: ';'}.Validate())
	assert.ErrorIs(t, Locale{DecimalSeparator: ',', ParameterSeparator: ','}.Validate(), ErrInvalidLocale)
	assert.ErrorIs(t, Locale{DecimalSeparator: '.', ParameterSeparator: '+'}.Validate(), ErrInvalidLocale)
	assert.ErrorIs(t, Locale{DecimalSeparator: 'x', ParameterSeparator: ';'}.Validate(), ErrInvalidLocale)
}
