package odata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty input",
			input: "",
			want:  []Token{{Type: TokenEOF, Position: 0}},
		},
		{
			name:  "comparison with string",
			input: "lastname eq 'Smith'",
			want: []Token{
				{Type: TokenWord, Value: "lastname", Position: 0},
				{Type: TokenWord, Value: "eq", Position: 9},
				{Type: TokenString, Value: "Smith", Position: 12},
				{Type: TokenEOF, Position: 19},
			},
		},
		{
			name:  "parentheses need no whitespace",
			input: "not(id gt 1)",
			want: []Token{
				{Type: TokenWord, Value: "not", Position: 0},
				{Type: TokenParenOpen, Value: "(", Position: 3},
				{Type: TokenWord, Value: "id", Position: 4},
				{Type: TokenWord, Value: "gt", Position: 7},
				{Type: TokenWord, Value: "1", Position: 10},
				{Type: TokenParenClose, Value: ")", Position: 11},
				{Type: TokenEOF, Position: 12},
			},
		},
		{
			name:  "string keeps inner whitespace and parentheses",
			input: "  name eq 'a (b) c'  ",
			want: []Token{
				{Type: TokenWord, Value: "name", Position: 2},
				{Type: TokenWord, Value: "eq", Position: 7},
				{Type: TokenString, Value: "a (b) c", Position: 10},
				{Type: TokenEOF, Position: 21},
			},
		},
		{
			name:  "empty string literal",
			input: "name eq ''",
			want: []Token{
				{Type: TokenWord, Value: "name", Position: 0},
				{Type: TokenWord, Value: "eq", Position: 5},
				{Type: TokenString, Value: "", Position: 8},
				{Type: TokenEOF, Position: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_UnterminatedString(t *testing.T) {
	t.Parallel()

	_, err := Tokenize("name eq 'Smith")
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 8, syntaxErr.Position)
	assert.True(t, errors.Is(err, ErrUnterminatedString))
}

func TestTokenType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "EOF", TokenEOF.String())
	assert.Equal(t, "(", TokenParenOpen.String())
	assert.Equal(t, "TokenType(42)", TokenType(42).String())
}
