// Package pairsql maps quantities onto the <field>_value / <field>_unit column
// pairs used by relational stores. It works with any database/sql driver and
// owns no schema.
package pairsql

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"fieldtrax/pkg/quantity"
)

// Columns returns the value and unit column names for field.
func Columns(field string) (value, unit string) {
	return quantity.ValueKey(field), quantity.UnitKey(field)
}

// Args returns the two statement arguments for q. An unset quantity binds as
// two NULLs.
func Args(q quantity.Quantity) []any {
	if q.IsZero() {
		return []any{pgtype.Float8{}, pgtype.Text{}}
	}
	return []any{
		pgtype.Float8{Float64: q.Value(), Valid: true},
		pgtype.Text{String: string(q.Unit()), Valid: true},
	}
}

// Scanner receives one column pair from a row.
type Scanner struct {
	field string
	value pgtype.Float8
	unit  pgtype.Text
}

// NewScanner returns a scanner for field.
func NewScanner(field string) *Scanner {
	return &Scanner{field: field}
}

// Dest returns the scan destinations in column order.
func (s *Scanner) Dest() []any {
	return []any{&s.value, &s.unit}
}

// Quantity builds the scanned quantity of dimension dim. ok is false when both
// columns were NULL; exactly one NULL column is quantity.ErrIncompletePair.
func (s *Scanner) Quantity(dim quantity.Dimension) (quantity.Quantity, bool, error) {
	record := map[string]any{}
	if s.value.Valid {
		record[quantity.ValueKey(s.field)] = s.value.Float64
	}
	if s.unit.Valid {
		record[quantity.UnitKey(s.field)] = s.unit.String
	}
	q, ok, err := quantity.Unflatten(record, s.field, dim)
	if err != nil {
		return quantity.Quantity{}, false, fmt.Errorf("scan %s: %w", s.field, err)
	}
	return q, ok, nil
}

// Row scans several pairs at once.
type Row []*Scanner

// NewRow returns scanners for fields in order.
func NewRow(fields ...string) Row {
	r := make(Row, len(fields))
	for i, f := range fields {
		r[i] = NewScanner(f)
	}
	return r
}

// Dest flattens every scanner's destinations.
func (r Row) Dest() []any {
	out := make([]any, 0, 2*len(r))
	for _, s := range r {
		out = append(out, s.Dest()...)
	}
	return out
}

// Field returns the scanner for field.
func (r Row) Field(field string) (*Scanner, bool) {
	for _, s := range r {
		if s.field == field {
			return s, true
		}
	}
	return nil, false
}
