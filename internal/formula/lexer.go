package formula

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	cellPattern  = `\$?[A-Za-z]{1,3}\$?[0-9]+`
	rangePattern = cellPattern + `:` + cellPattern
)

// Tokenizer splits formula text into tokens with a single compiled pattern.
// The alternatives are tried in priority order so that, for example, a range
// wins over the cell it starts with.
type Tokenizer struct {
	locale  Locale
	pattern *regexp.Regexp
	groups  []string
}

func NewTokenizer(locale Locale) *Tokenizer {
	dec := regexp.QuoteMeta(string(locale.DecimalSeparator))
	sep := regexp.QuoteMeta(string(locale.ParameterSeparator))

	alternatives := []string{
		`(?P<string>"(?:[^"]|"")*")`,
		`(?P<union>` + rangePattern + `(?:[ ]+` + rangePattern + `)+\b)`,
		`(?P<range>` + rangePattern + `\b)`,
		`(?P<cell>` + cellPattern + `\b)`,
		`(?P<number>(?:[0-9]+(?:` + dec + `[0-9]*)?|` + dec + `[0-9]+)(?:[eE][+-]?[0-9]+)?)`,
		`(?P<boolean>(?i:TRUE|FALSE)\b)`,
		`(?P<identifier>[\p{L}_][\p{L}\p{N}_]*)`,
		`(?P<operator>==|<>|!=|<=|>=|[=<>!+\-*/%^&().]|` + sep + `)`,
	}

	pattern := regexp.MustCompile(`^(?:` + strings.Join(alternatives, "|") + `)`)

	return &Tokenizer{
		locale:  locale,
		pattern: pattern,
		groups:  pattern.SubexpNames(),
	}
}

// Next returns the token starting at or after offset, skipping whitespace.
// It returns false at the end of the input or when nothing matches.
func (t *Tokenizer) Next(input string, offset int) (Token, bool) {
	offset = skipSpace(input, offset)
	if offset >= len(input) {
		return Token{}, false
	}

	loc := t.pattern.FindStringSubmatchIndex(input[offset:])
	if loc == nil {
		return Token{}, false
	}

	for i := 1; i < len(t.groups); i++ {
		if loc[2*i] < 0 {
			continue
		}
		return Token{
			Kind:   groupKinds[t.groups[i]],
			Start:  offset + loc[2*i],
			Length: loc[2*i+1] - loc[2*i],
			Raw:    input[offset+loc[2*i] : offset+loc[2*i+1]],
		}, true
	}

	return Token{}, false
}

// Tokens returns every token of input until the tokenizer stops.
func (t *Tokenizer) Tokens(input string) []Token {
	tokens := []Token{}
	for offset := 0; ; {
		tok, ok := t.Next(input, offset)
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
		offset = tok.End()
	}
}

func skipSpace(input string, offset int) int {
	for offset < len(input) {
		r, size := utf8.DecodeRuneInString(input[offset:])
		if !unicode.IsSpace(r) {
			break
		}
		offset += size
	}
	return offset
}

// scanner feeds the parser one token of lookahead and keeps track of how much
// of the input has been consumed.
type scanner struct {
	tokenizer *Tokenizer
	input     string
	consumed  int

	tok Token
	eof bool
}

func newScanner(t *Tokenizer, input string, offset int) *scanner {
	s := &scanner{tokenizer: t, input: input, consumed: offset}
	s.next()
	return s
}

func (s *scanner) next() {
	tok, ok := s.tokenizer.Next(s.input, s.consumed)
	if !ok {
		s.tok = Token{Kind: ILLEGAL, Start: skipSpace(s.input, s.consumed)}
		s.eof = true
		return
	}
	s.tok = tok
	s.consumed = tok.End()
}

// peekIs reports whether the token following the current one is the operator op.
func (s *scanner) peekIs(op string) bool {
	tok, ok := s.tokenizer.Next(s.input, s.consumed)
	return ok && tok.Is(op)
}

// rest returns the non-blank input left after the last consumed token.
func (s *scanner) rest() string {
	if s.eof {
		return strings.TrimSpace(s.input[s.consumed:])
	}
	return strings.TrimSpace(s.input[s.tok.Start:])
}
