// Package query builds parameterized SELECT statements over a projected table.
package query

import "strings"

// ProjectionMap maps logical field names to alias-qualified columns of one table.
type ProjectionMap struct {
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap for table under alias. A non-empty
// schema qualifies the table name.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	if schema != "" {
		table = schema + "." + table
	}
	return &ProjectionMap{
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps field to column and appends it to the select list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// From returns the aliased table reference for a FROM clause.
func (p *ProjectionMap) From() string {
	return p.table + " " + p.alias
}

// Column returns the qualified column for field, or field itself when unmapped.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.lookup(field); ok {
		return col
	}
	return field
}

// Columns returns the select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}

func (p *ProjectionMap) lookup(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}
