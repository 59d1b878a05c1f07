// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of table columns onto struct field names.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps struct field names to qualified table columns. Column
// order follows Project calls and must match the row scan order.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project adds column under the given field name.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns = append(p.columns, qualified)
	p.fields[field] = qualified
	return p
}

// Table returns the aliased table reference for a FROM clause.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Columns returns the select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// Column resolves a field name to its qualified column. Unknown fields are
// returned unchanged.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.fields[field]; ok {
		return col
	}
	return field
}

// Has reports whether field is projected.
func (p *ProjectionMap) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}

// SortField names a projected field and direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression. A leading "-"
// sorts that field descending: "-CreatedAt,Status".
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		fields = append(fields, SortField{
			Field:      strings.TrimPrefix(part, "-"),
			Descending: desc,
		})
	}
	return fields
}
