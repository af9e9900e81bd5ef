// Package query constructs parameterized SQL queries through a fluent builder
// with automatic placeholder numbering. Values are always passed as bound
// parameters, never interpolated into the statement text.
package query

import "strings"

type projectedColumn struct {
	column string
	field  string
}

// ProjectionMap maps view field names to aliased database columns for a table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []projectedColumn
	byField map[string]string
}

// NewProjectionMap creates a projection for schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		byField: make(map[string]string),
	}
}

// Project registers a column under its view field name. Returns the map for chaining.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns = append(p.columns, projectedColumn{column: column, field: field})
	p.byField[field] = p.alias + "." + column
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the aliased table reference, e.g. "public.entities e".
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column resolves a view field name to its aliased column.
// Unknown fields are returned as-is.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Columns returns the comma-separated select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns the aliased columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	list := make([]string, len(p.columns))
	for i, c := range p.columns {
		list[i] = p.alias + "." + c.column
	}
	return list
}
