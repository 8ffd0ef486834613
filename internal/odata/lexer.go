package odata

import (
	"errors"
	"fmt"
)

// ErrUnterminatedString is returned by the lexer when a quoted string has no
// closing quote.
var ErrUnterminatedString = errors.New("unterminated string literal")

// SyntaxError describes where a $filter expression stopped making sense.
// It never leaves the package: Parse reports every filter failure with the
// same public message.
type SyntaxError struct {
	Position int
	Msg      string
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Position, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// lexer is a byte scanner over an immutable input string.
type lexer struct {
	input  string
	offset int
}

// Tokenize splits a $filter value into tokens. The returned slice always ends
// with a TokenEOF token.
func Tokenize(input string) ([]Token, error) {
	l := &lexer{input: input}

	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) peek() byte {
	if l.offset >= len(l.input) {
		return 0
	}
	return l.input[l.offset]
}

func (l *lexer) isEOF() bool {
	return l.offset >= len(l.input)
}

func (l *lexer) skipWhitespace() {
	for !l.isEOF() && isSpace(l.peek()) {
		l.offset++
	}
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()

	start := l.offset
	if l.isEOF() {
		return Token{Type: TokenEOF, Position: start}, nil
	}

	switch c := l.peek(); c {
	case '(':
		l.offset++
		return Token{Type: TokenParenOpen, Value: "(", Position: start}, nil
	case ')':
		l.offset++
		return Token{Type: TokenParenClose, Value: ")", Position: start}, nil
	case '\'':
		return l.scanString()
	default:
		return l.scanWord(), nil
	}
}

// scanString reads a single-quoted string. Contents are taken verbatim.
func (l *lexer) scanString() (Token, error) {
	start := l.offset
	l.offset++ // opening quote

	for !l.isEOF() {
		if l.peek() == '\'' {
			value := l.input[start+1 : l.offset]
			l.offset++
			return Token{Type: TokenString, Value: value, Position: start}, nil
		}
		l.offset++
	}

	return Token{}, &SyntaxError{
		Position: start,
		Msg:      "string is not closed",
		Err:      ErrUnterminatedString,
	}
}

// scanWord reads until whitespace, a parenthesis or a quote.
func (l *lexer) scanWord() Token {
	start := l.offset
	for !l.isEOF() {
		c := l.peek()
		if isSpace(c) || c == '(' || c == ')' || c == '\'' {
			break
		}
		l.offset++
	}
	return Token{Type: TokenWord, Value: l.input[start:l.offset], Position: start}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
