package quantity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Pair is the (value, unit) shape collaborators persist and transmit.
type Pair struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

// ErrIncompletePair is returned when only one half of a value/unit pair is present.
var ErrIncompletePair = errors.New("incomplete value/unit pair")

// Pair returns the quantity in boundary form.
func (q Quantity) Pair() Pair {
	return Pair{Value: q.value, Unit: string(q.unit)}
}

// FromPair constructs a quantity of dimension dim from its boundary form.
func FromPair(dim Dimension, p Pair) (Quantity, error) {
	return New(dim, p.Value, Unit(p.Unit))
}

// ValueKey returns the flattened value column name for field, e.g. depth_value.
func ValueKey(field string) string { return field + "_value" }

// UnitKey returns the flattened unit column name for field, e.g. depth_unit.
func UnitKey(field string) string { return field + "_unit" }

// Flatten renders q as a <field>_value / <field>_unit record. An unset quantity
// renders as nil values.
func Flatten(field string, q Quantity) map[string]any {
	if q.IsZero() {
		return map[string]any{ValueKey(field): nil, UnitKey(field): nil}
	}
	return map[string]any{ValueKey(field): q.value, UnitKey(field): string(q.unit)}
}

// Unflatten reads a <field>_value / <field>_unit pair from record. The boolean is
// false when both halves are absent or nil.
func Unflatten(record map[string]any, field string, dim Dimension) (Quantity, bool, error) {
	rawValue := record[ValueKey(field)]
	rawUnit := record[UnitKey(field)]
	if rawValue == nil && rawUnit == nil {
		return Quantity{}, false, nil
	}
	if rawValue == nil || rawUnit == nil {
		return Quantity{}, false, fmt.Errorf("%s: %w", field, ErrIncompletePair)
	}
	unit, ok := rawUnit.(string)
	if !ok {
		return Quantity{}, false, fmt.Errorf("%s: unit must be a string, got %T", UnitKey(field), rawUnit)
	}
	value, err := toFloat(rawValue)
	if err != nil {
		return Quantity{}, false, fmt.Errorf("%s: %w", ValueKey(field), err)
	}
	q, err := New(dim, value, Unit(unit))
	if err != nil {
		return Quantity{}, false, fmt.Errorf("%s: %w", field, err)
	}
	return q, true, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
