package odata

import "errors"

// Sentinel errors for errors.Is checks against *Error.
var (
	ErrUnsupportedOption = errors.New("unsupported query option")
	ErrInvalidOption     = errors.New("invalid query option value")
	ErrFilterSyntax      = errors.New("invalid filter expression")
	ErrMalformedQuery    = errors.New("malformed query string")
)

// ErrorKind classifies a parse failure.
type ErrorKind uint8

const (
	// KindUnsupportedOption is a $-prefixed key outside the known option set.
	KindUnsupportedOption ErrorKind = iota + 1
	// KindInvalidOption is a known option whose value failed validation.
	KindInvalidOption
	// KindFilterSyntax is a malformed $filter expression.
	KindFilterSyntax
	// KindMalformedQuery is a query string DecodeURI rejected.
	KindMalformedQuery
)

// Error is the single error a failed Parse returns. Message is the exact text
// reported to clients.
type Error struct {
	Kind    ErrorKind
	Option  string
	Message string

	// cause is the internal failure, kept for logging only.
	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the internal cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnsupportedOption:
		return e.Kind == KindUnsupportedOption
	case ErrInvalidOption:
		return e.Kind == KindInvalidOption || e.Kind == KindFilterSyntax
	case ErrFilterSyntax:
		return e.Kind == KindFilterSyntax
	case ErrMalformedQuery:
		return e.Kind == KindMalformedQuery
	}
	return false
}

func unsupportedOption(rawPair string) *Error {
	return &Error{
		Kind:    KindUnsupportedOption,
		Message: "unsupported method: " + rawPair,
	}
}

func invalidOption(option string) *Error {
	return &Error{
		Kind:    KindInvalidOption,
		Option:  option,
		Message: "invalid " + option + " parameter",
	}
}

func filterSyntax(cause error) *Error {
	return &Error{
		Kind:    KindFilterSyntax,
		Option:  OptionFilter,
		Message: "invalid " + OptionFilter + " parameter",
		cause:   cause,
	}
}

func malformedQuery(cause error) *Error {
	return &Error{
		Kind:    KindMalformedQuery,
		Message: "malformed query string",
		cause:   cause,
	}
}
