package odata

import (
	"strconv"
	"strings"
)

// System query option names, in their canonical lower-case form.
const (
	OptionCallback    = "$callback"
	OptionCount       = "$count"
	OptionFilter      = "$filter"
	OptionFormat      = "$format"
	OptionMaxPageSize = "$maxpagesize"
	OptionOrderBy     = "$orderby"
	OptionSelect      = "$select"
	OptionSkip        = "$skip"
	OptionTop         = "$top"
)

// Response formats accepted by $format.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// optionHandler validates one option value and stores it on q.
type optionHandler func(q *Query, value string) *Error

// optionHandlers is keyed by lower-cased option name; lookups lower-case the
// incoming key, which makes option matching case-insensitive.
var optionHandlers = map[string]optionHandler{
	OptionCallback: func(q *Query, value string) *Error {
		if value == "" {
			return invalidOption(OptionCallback)
		}
		q.Callback = &value
		return nil
	},
	OptionCount: func(q *Query, value string) *Error {
		b, ok := parseCount(value)
		if !ok {
			return invalidOption(OptionCount)
		}
		q.Count = &b
		return nil
	},
	OptionFilter: func(q *Query, value string) *Error {
		node, err := ParseFilter(value)
		if err != nil {
			return filterSyntax(err)
		}
		q.Filter = node
		return nil
	},
	OptionFormat: func(q *Query, value string) *Error {
		if value != FormatJSON && value != FormatXML {
			return invalidOption(OptionFormat)
		}
		q.Format = &value
		return nil
	},
	OptionMaxPageSize: func(q *Query, value string) *Error {
		n, ok := parseNonNegative(value)
		if !ok {
			return invalidOption(OptionMaxPageSize)
		}
		q.MaxPageSize = &n
		return nil
	},
	OptionOrderBy: func(q *Query, value string) *Error {
		entries, ok := parseOrderBy(value)
		if !ok {
			return invalidOption(OptionOrderBy)
		}
		q.OrderBy = entries
		return nil
	},
	OptionSelect: func(q *Query, value string) *Error {
		fields, ok := parseSelect(value)
		if !ok {
			return invalidOption(OptionSelect)
		}
		q.Select = fields
		return nil
	},
	OptionSkip: func(q *Query, value string) *Error {
		n, ok := parseNonNegative(value)
		if !ok {
			return invalidOption(OptionSkip)
		}
		q.Skip = &n
		return nil
	},
	OptionTop: func(q *Query, value string) *Error {
		n, ok := parseNonNegative(value)
		if !ok {
			return invalidOption(OptionTop)
		}
		q.Top = &n
		return nil
	},
}

// parseNonNegative accepts one or more decimal digits that fit in an int.
func parseNonNegative(value string) (int, bool) {
	if !isDigits(value) {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseCount accepts exactly true, false, 1 and 0.
func parseCount(value string) (bool, bool) {
	switch value {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func parseSelect(value string) ([]string, bool) {
	parts := strings.Split(value, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if !isIdentifier(name) {
			return nil, false
		}
		fields = append(fields, name)
	}
	return fields, true
}
