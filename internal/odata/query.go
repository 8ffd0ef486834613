package odata

import (
	"encoding/json"
	"strings"
)

// Query holds the system query options of one request. A field is non-nil
// only if its option appeared in the input and parsed successfully.
type Query struct {
	Callback    *string        `json:"$callback,omitempty"`
	Count       *bool          `json:"$count,omitempty"`
	Filter      FilterNode     `json:"$filter,omitempty"`
	Format      *string        `json:"$format,omitempty"`
	MaxPageSize *int           `json:"$maxpagesize,omitempty"`
	OrderBy     []OrderByEntry `json:"$orderby,omitempty"`
	Select      []string       `json:"$select,omitempty"`
	Skip        *int           `json:"$skip,omitempty"`
	Top         *int           `json:"$top,omitempty"`
}

// Options lists the names of the options present on q, in canonical order.
func (q *Query) Options() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(q.Callback != nil, OptionCallback)
	add(q.Count != nil, OptionCount)
	add(q.Filter != nil, OptionFilter)
	add(q.Format != nil, OptionFormat)
	add(q.MaxPageSize != nil, OptionMaxPageSize)
	add(q.OrderBy != nil, OptionOrderBy)
	add(q.Select != nil, OptionSelect)
	add(q.Skip != nil, OptionSkip)
	add(q.Top != nil, OptionTop)
	return names
}

// Parse turns a query string (without the leading '?') into a Query.
//
// The string is split on '&' and each pair on its first '='. Keys that do not
// start with '$' are ignored. '$' keys are matched case-insensitively against
// the known options. The first unknown option or invalid value aborts the
// parse: the result is then a nil Query and an *Error, never a partial Query.
// When an option repeats, the last occurrence wins.
//
// Percent-decoding is the caller's job; see DecodeURI.
func Parse(raw string) (*Query, error) {
	q := &Query{}
	if raw == "" {
		return q, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if !strings.HasPrefix(key, "$") {
			continue
		}

		handle, ok := optionHandlers[strings.ToLower(key)]
		if !ok {
			return nil, unsupportedOption(key + "=" + value)
		}
		if err := handle(q, value); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// Outcome is the stored result of a parse: either Query or Err is set.
type Outcome struct {
	Query *Query
	Err   error
}

// NewOutcome parses raw and wraps the result.
func NewOutcome(raw string) Outcome {
	q, err := Parse(raw)
	return Outcome{Query: q, Err: err}
}

// DecodeAndParse percent-decodes raw with DecodeURI and parses the result.
// This is what a server does with the query string of an incoming request.
func DecodeAndParse(raw string) Outcome {
	decoded, err := DecodeURI(raw)
	if err != nil {
		return Outcome{Err: malformedQuery(err)}
	}
	return NewOutcome(decoded)
}

// OK reports whether the parse succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// MarshalJSON encodes the query options, or {"error": message} on failure.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{o.Err.Error()})
	}
	if o.Query == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.Query)
}
