package odata

import (
	"fmt"
	"strconv"
)

// maxFilterDepth bounds parenthesis nesting so hostile input cannot drive
// unbounded recursion.
const maxFilterDepth = 100

// ParseFilter parses a $filter expression into its AST.
//
// Grammar, lowest precedence first:
//
//	orExpr     := andExpr ( 'or' andExpr )*
//	andExpr    := unaryExpr ( 'and' unaryExpr )*
//	unaryExpr  := 'not' '(' orExpr ')' | comparison | '(' orExpr ')'
//	comparison := property operator literal
//
// Errors are *SyntaxError values carrying the offending offset.
func ParseFilter(expr string) (FilterNode, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}

	p := &filterParser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// Ensure we consumed all tokens
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf(tok, "unexpected %q after expression", tok.Value)
	}

	return node, nil
}

type filterParser struct {
	tokens []Token
	pos    int
	depth  int
}

func (p *filterParser) peek() Token {
	return p.tokens[p.pos]
}

func (p *filterParser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// acceptWord consumes the next token if it is the given bare word.
func (p *filterParser) acceptWord(word string) bool {
	if tok := p.peek(); tok.Type == TokenWord && tok.Value == word {
		p.pos++
		return true
	}
	return false
}

func (p *filterParser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, found %s", tt, describe(tok))
	}
	return tok, nil
}

func (p *filterParser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Position: tok.Position, Msg: fmt.Sprintf(format, args...)}
}

func (p *filterParser) parseOr() (FilterNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.acceptWord(keywordOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *filterParser) parseAnd() (FilterNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.acceptWord(keywordAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpAnd, Left: left, Right: right}
	}

	return left, nil
}

func (p *filterParser) parseUnary() (FilterNode, error) {
	tok := p.peek()

	switch {
	case tok.Type == TokenWord && tok.Value == keywordNot:
		p.advance()
		if _, err := p.expect(TokenParenOpen); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupBody(tok)
		if err != nil {
			return nil, err
		}
		return &Negation{Value: inner}, nil

	case tok.Type == TokenParenOpen:
		p.advance()
		return p.parseGroupBody(tok)

	default:
		return p.parseComparison()
	}
}

// parseGroupBody parses the expression after an opening parenthesis and the
// closing parenthesis itself.
func (p *filterParser) parseGroupBody(open Token) (FilterNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxFilterDepth {
		return nil, p.errorf(open, "expression nested deeper than %d levels", maxFilterDepth)
	}

	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *filterParser) parseComparison() (FilterNode, error) {
	prop, err := p.parseProperty()
	if err != nil {
		return nil, err
	}

	opTok := p.advance()
	op, ok := comparisonOperators[opTok.Value]
	if opTok.Type != TokenWord || !ok {
		return nil, p.errorf(opTok, "expected comparison operator, found %s", describe(opTok))
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}

	return &Comparison{Op: op, Left: prop, Right: lit}, nil
}

func (p *filterParser) parseProperty() (Property, error) {
	tok := p.advance()
	if tok.Type != TokenWord || !isIdentifier(tok.Value) || isKeyword(tok.Value) {
		return Property{}, p.errorf(tok, "expected property name, found %s", describe(tok))
	}
	return Property{Name: tok.Value}, nil
}

func (p *filterParser) parseLiteral() (Literal, error) {
	tok := p.advance()

	switch tok.Type {
	case TokenString:
		return StringLiteral(tok.Value), nil
	case TokenWord:
		if isNumber(tok.Value) {
			n, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return Literal{}, &SyntaxError{Position: tok.Position, Msg: "number out of range", Err: err}
			}
			return NumberLiteral(n), nil
		}
	}

	return Literal{}, p.errorf(tok, "expected literal, found %s", describe(tok))
}

func describe(tok Token) string {
	if tok.Type == TokenEOF {
		return "end of expression"
	}
	return strconv.Quote(tok.Value)
}
