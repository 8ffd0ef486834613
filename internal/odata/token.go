package odata

import "fmt"

// TokenType identifies the lexical class of a $filter token.
type TokenType uint8

const (
	// TokenEOF marks the end of the input.
	TokenEOF TokenType = iota

	// TokenWord is any run of characters that is not whitespace, a quote or a
	// parenthesis: identifiers, keywords and numbers.
	TokenWord

	// TokenString is a single-quoted string. Value holds the unquoted contents.
	TokenString

	TokenParenOpen  // (
	TokenParenClose // )
)

// String returns a readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "word"
	case TokenString:
		return "string"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	default:
		return fmt.Sprintf("TokenType(%d)", uint8(t))
	}
}

// Token is a single lexical element of a $filter expression.
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset of the token in the input
}

// Keywords of the filter grammar. They are case-sensitive.
const (
	keywordAnd = "and"
	keywordOr  = "or"
	keywordNot = "not"
)

// isKeyword reports whether word is reserved by the filter grammar and so
// cannot be used as a property name.
func isKeyword(word string) bool {
	switch word {
	case keywordAnd, keywordOr, keywordNot:
		return true
	}
	_, ok := comparisonOperators[word]
	return ok
}
