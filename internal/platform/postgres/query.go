package postgres

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/odata"
	"github.com/phrazzld/odata-api/internal/store"
)

var sqlOperators = map[odata.ComparisonOp]string{
	odata.OpEqual:          "=",
	odata.OpNotEqual:       "<>",
	odata.OpLessThan:       "<",
	odata.OpLessOrEqual:    "<=",
	odata.OpGreaterThan:    ">",
	odata.OpGreaterOrEqual: ">=",
}

// SelectQuery is a generated statement together with its positional
// arguments and, for list queries, the properties of each result column.
type SelectQuery struct {
	SQL        string
	Args       []any
	Properties []string
}

// BuildListQuery translates the options of q into a SELECT over res.
//
// The page size is the smallest of $top, $maxpagesize and maxPageSize; a
// non-positive maxPageSize means the server imposes no cap. Rows are always
// ordered by the resource key last, so pages are stable.
func BuildListQuery(res Resource, q *odata.Query, maxPageSize int) (SelectQuery, error) {
	if q == nil {
		q = &odata.Query{}
	}

	columns, properties, err := selectColumns(res, q.Select)
	if err != nil {
		return SelectQuery{}, err
	}

	b := &sqlBuilder{}
	b.sql.WriteString("SELECT ")
	b.sql.WriteString(strings.Join(columns, ", "))
	b.sql.WriteString(" FROM ")
	b.sql.WriteString(res.Table)

	if err := b.where(res, q.Filter); err != nil {
		return SelectQuery{}, err
	}
	if err := b.orderBy(res, q.OrderBy); err != nil {
		return SelectQuery{}, err
	}

	if limit, ok := pageSize(q, maxPageSize); ok {
		b.sql.WriteString(" LIMIT ")
		b.sql.WriteString(b.bind(limit))
	}
	if q.Skip != nil && *q.Skip > 0 {
		b.sql.WriteString(" OFFSET ")
		b.sql.WriteString(b.bind(*q.Skip))
	}

	return SelectQuery{SQL: b.sql.String(), Args: b.args, Properties: properties}, nil
}

// BuildCountQuery counts the rows of res matching the $filter of q. Paging
// and ordering options do not affect the count.
func BuildCountQuery(res Resource, q *odata.Query) (SelectQuery, error) {
	b := &sqlBuilder{}
	b.sql.WriteString("SELECT count(*) FROM ")
	b.sql.WriteString(res.Table)

	if q != nil {
		if err := b.where(res, q.Filter); err != nil {
			return SelectQuery{}, err
		}
	}

	return SelectQuery{SQL: b.sql.String(), Args: b.args}, nil
}

func selectColumns(res Resource, selected []string) ([]string, []string, error) {
	if len(selected) == 0 {
		columns := make([]string, len(res.Columns))
		properties := make([]string, len(res.Columns))
		for i, c := range res.Columns {
			columns[i] = c.Name
			properties[i] = c.Property
		}
		return columns, properties, nil
	}

	seen := make(map[string]bool, len(selected))
	var columns, properties []string
	for _, name := range selected {
		col, err := res.Column(name)
		if err != nil {
			return nil, nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, col.Name)
		properties = append(properties, col.Property)
	}
	return columns, properties, nil
}

func pageSize(q *odata.Query, maxPageSize int) (int, bool) {
	limit, ok := maxPageSize, maxPageSize > 0
	for _, n := range []*int{q.MaxPageSize, q.Top} {
		if n != nil && (!ok || *n < limit) {
			limit, ok = *n, true
		}
	}
	return limit, ok
}

type sqlBuilder struct {
	sql  strings.Builder
	args []any
}

// bind appends a positional argument and returns its placeholder.
func (b *sqlBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *sqlBuilder) where(res Resource, filter odata.FilterNode) error {
	if filter == nil {
		return nil
	}
	cond, err := b.condition(res, filter)
	if err != nil {
		return err
	}
	b.sql.WriteString(" WHERE ")
	b.sql.WriteString(cond)
	return nil
}

func (b *sqlBuilder) condition(res Resource, node odata.FilterNode) (string, error) {
	switch n := node.(type) {
	case *odata.Comparison:
		col, err := res.Column(n.Left.Name)
		if err != nil {
			return "", err
		}
		value, err := columnValue(col, n.Right)
		if err != nil {
			return "", err
		}
		return col.Name + " " + sqlOperators[n.Op] + " " + b.bind(value), nil

	case *odata.Logical:
		left, err := b.condition(res, n.Left)
		if err != nil {
			return "", err
		}
		right, err := b.condition(res, n.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " " + strings.ToUpper(string(n.Op)) + " " + right + ")", nil

	case *odata.Negation:
		inner, err := b.condition(res, n.Value)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	}

	return "", fmt.Errorf("%w: unsupported expression %T", store.ErrInvalidFilter, node)
}

// columnValue converts a literal to the Go value bound for col.
func columnValue(col Column, lit odata.Literal) (any, error) {
	switch col.Type {
	case ColumnInteger:
		if lit.Kind == odata.LiteralNumber && lit.Number == math.Trunc(lit.Number) &&
			math.Abs(lit.Number) <= 1<<53 {
			return int64(lit.Number), nil
		}
	case ColumnText:
		if lit.Kind == odata.LiteralString {
			return lit.Str, nil
		}
	case ColumnDate:
		if lit.Kind == odata.LiteralString {
			d, err := domain.ParseDate(lit.Str)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", store.ErrInvalidFilter, col.Property, err)
			}
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s cannot be compared with %s", store.ErrInvalidFilter, col.Property, lit)
}

func (b *sqlBuilder) orderBy(res Resource, entries []odata.OrderByEntry) error {
	terms := make([]string, 0, len(entries)+1)
	keySorted := false
	for _, e := range entries {
		col, err := res.Column(e.Name)
		if err != nil {
			return err
		}
		dir := "ASC"
		if e.Direction == odata.SortDesc {
			dir = "DESC"
		}
		terms = append(terms, col.Name+" "+dir)
		keySorted = keySorted || e.Name == res.Key
	}
	if !keySorted {
		key, err := res.Column(res.Key)
		if err != nil {
			return err
		}
		terms = append(terms, key.Name+" ASC")
	}

	b.sql.WriteString(" ORDER BY ")
	b.sql.WriteString(strings.Join(terms, ", "))
	return nil
}
