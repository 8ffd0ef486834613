package postgres

import (
	"fmt"

	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/store"
)

// ColumnType tells the query builder which literals a column accepts.
type ColumnType uint8

const (
	ColumnInteger ColumnType = iota
	ColumnText
	ColumnDate
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "integer"
	case ColumnText:
		return "text"
	case ColumnDate:
		return "date"
	}
	return "unknown"
}

// Column maps a client-facing property name onto a table column.
type Column struct {
	Property string
	Name     string
	Type     ColumnType
}

// Resource is the allow-list of properties a collection exposes to queries.
// Only names found here ever reach generated SQL.
type Resource struct {
	Table   string
	Key     string // property used as the final sort key
	Columns []Column
}

// Column looks up a property by its client-facing name.
func (r Resource) Column(property string) (Column, error) {
	for _, c := range r.Columns {
		if c.Property == property {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %q", store.ErrUnknownProperty, property)
}

// PersonResource describes the people table.
var PersonResource = Resource{
	Table: "people",
	Key:   domain.PersonPID,
	Columns: []Column{
		{Property: domain.PersonPID, Name: "pid", Type: ColumnInteger},
		{Property: domain.PersonFirstName, Name: "first_name", Type: ColumnText},
		{Property: domain.PersonLastName, Name: "last_name", Type: ColumnText},
		{Property: domain.PersonDOB, Name: "dob", Type: ColumnDate},
		{Property: domain.PersonStartDate, Name: "start_date", Type: ColumnDate},
	},
}
