package odata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ComparisonOp is one of the comparison operators of the filter grammar.
type ComparisonOp string

const (
	OpEqual          ComparisonOp = "eq"
	OpNotEqual       ComparisonOp = "ne"
	OpLessThan       ComparisonOp = "lt"
	OpLessOrEqual    ComparisonOp = "le"
	OpGreaterThan    ComparisonOp = "gt"
	OpGreaterOrEqual ComparisonOp = "ge"
)

var comparisonOperators = map[string]ComparisonOp{
	"eq": OpEqual,
	"ne": OpNotEqual,
	"lt": OpLessThan,
	"le": OpLessOrEqual,
	"gt": OpGreaterThan,
	"ge": OpGreaterOrEqual,
}

// LogicalOp joins two filter expressions.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// FilterNode is a node of a parsed $filter expression. The set of
// implementations is closed: *Comparison, *Logical and *Negation.
type FilterNode interface {
	filterNode()
	String() string
}

// Comparison compares a property against a literal, e.g. `id gt 42`.
type Comparison struct {
	Op    ComparisonOp
	Left  Property
	Right Literal
}

// Logical combines two expressions with and/or.
type Logical struct {
	Op    LogicalOp
	Left  FilterNode
	Right FilterNode
}

// Negation inverts a parenthesized expression.
type Negation struct {
	Value FilterNode
}

func (*Comparison) filterNode() {}
func (*Logical) filterNode()    {}
func (*Negation) filterNode()   {}

func (c *Comparison) String() string {
	return c.Left.Name + " " + string(c.Op) + " " + c.Right.String()
}

func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + string(l.Op) + " " + l.Right.String() + ")"
}

func (n *Negation) String() string {
	return "not (" + n.Value.String() + ")"
}

// MarshalJSON encodes the node as {"type": op, "left": ..., "right": ...}.
func (c *Comparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  ComparisonOp `json:"type"`
		Left  Property     `json:"left"`
		Right Literal      `json:"right"`
	}{c.Op, c.Left, c.Right})
}

// MarshalJSON encodes the node as {"type": op, "left": ..., "right": ...}.
func (l *Logical) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  LogicalOp  `json:"type"`
		Left  FilterNode `json:"left"`
		Right FilterNode `json:"right"`
	}{l.Op, l.Left, l.Right})
}

// MarshalJSON encodes the node as {"type": "not", "value": ...}.
func (n *Negation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string     `json:"type"`
		Value FilterNode `json:"value"`
	}{keywordNot, n.Value})
}

// Property references a field of the filtered resource.
type Property struct {
	Name string
}

// MarshalJSON encodes the property as {"type": "property", "name": ...}.
func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}{"property", p.Name})
}

// LiteralKind distinguishes string and number literals.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralNumber
)

// Literal is the right-hand operand of a comparison. Dates and other typed
// values arrive as strings.
type Literal struct {
	Kind   LiteralKind
	Str    string
	Number float64
}

// StringLiteral returns a string literal.
func StringLiteral(s string) Literal {
	return Literal{Kind: LiteralString, Str: s}
}

// NumberLiteral returns a number literal.
func NumberLiteral(n float64) Literal {
	return Literal{Kind: LiteralNumber, Number: n}
}

// Value returns the literal as a string or float64.
func (l Literal) Value() any {
	if l.Kind == LiteralNumber {
		return l.Number
	}
	return l.Str
}

func (l Literal) String() string {
	if l.Kind == LiteralNumber {
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	}
	return "'" + strings.ReplaceAll(l.Str, "'", "''") + "'"
}

// MarshalJSON encodes the literal as {"type": "literal", "value": ...}.
func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}{"literal", l.Value()})
}
