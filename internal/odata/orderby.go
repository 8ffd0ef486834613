package odata

import (
	"encoding/json"
	"strings"
)

// SortDirection is the direction of an $orderby term.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderByEntry is one `name [asc|desc]` term of $orderby.
type OrderByEntry struct {
	Name      string
	Direction SortDirection
}

// MarshalJSON encodes the entry as {"type": direction, "name": ...}.
func (e OrderByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type SortDirection `json:"type"`
		Name string        `json:"name"`
	}{e.Direction, e.Name})
}

// parseOrderBy parses a comma-separated list of `name [asc|desc]` terms,
// keeping input order.
func parseOrderBy(value string) ([]OrderByEntry, bool) {
	if value == "" {
		return nil, false
	}

	terms := strings.Split(value, ",")
	entries := make([]OrderByEntry, 0, len(terms))
	for _, term := range terms {
		fields := strings.Fields(term)
		if len(fields) == 0 || len(fields) > 2 || !isIdentifier(fields[0]) {
			return nil, false
		}

		entry := OrderByEntry{Name: fields[0], Direction: SortAsc}
		if len(fields) == 2 {
			switch SortDirection(fields[1]) {
			case SortAsc, SortDesc:
				entry.Direction = SortDirection(fields[1])
			default:
				return nil, false
			}
		}
		entries = append(entries, entry)
	}

	return entries, true
}
