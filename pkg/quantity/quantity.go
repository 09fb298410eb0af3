// Package quantity implements dimensioned values and exact unit conversion for
// well-construction engineering: lengths and depths along a wellbore, pressures,
// torques, volumes, densities, viscosities, temperatures and rates.
//
// A Quantity carries a magnitude and the unit it was expressed in. Conversions go
// through one canonical (SI) unit per dimension using exact decimal factors, and
// arithmetic results are expressed in that canonical unit.
package quantity

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Quantity is an immutable magnitude with a unit. The zero value is unset.
type Quantity struct {
	value float64
	unit  Unit
	dim   Dimension
}

// New constructs a quantity of dimension dim. The unit may be a primary symbol
// or a registered alias; it is stored as the primary symbol.
func New(dim Dimension, value float64, unit Unit) (Quantity, error) {
	def, ok := lookup(unit)
	if !ok || def.dim != dim {
		return Quantity{}, UnknownUnitError{Dimension: dim, Unit: unit}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quantity{}, InvalidMagnitudeError{Dimension: dim, Value: value, Reason: "not finite"}
	}
	if dim == DimTemperature && def.toCanonical(decimal.NewFromFloat(value)).IsNegative() {
		return Quantity{}, InvalidMagnitudeError{Dimension: dim, Value: value, Reason: "below absolute zero"}
	}
	return Quantity{value: value, unit: def.symbol, dim: dim}, nil
}

// FromUnit is New under the name used by conversion round trips.
func FromUnit(dim Dimension, value float64, unit Unit) (Quantity, error) {
	return New(dim, value, unit)
}

// Parse constructs a quantity, inferring the dimension from the unit symbol.
func Parse(value float64, unit Unit) (Quantity, error) {
	dim, ok := Lookup(unit)
	if !ok {
		return Quantity{}, UnknownUnitError{Unit: unit}
	}
	return New(dim, value, unit)
}

// canonicalValue builds a quantity already expressed in the canonical unit.
func canonicalValue(dim Dimension, value float64) Quantity {
	return Quantity{value: value, unit: canonicalUnits[dim], dim: dim}
}

// Value returns the magnitude in the quantity's own unit.
func (q Quantity) Value() float64 { return q.value }

// Unit returns the unit the magnitude is expressed in.
func (q Quantity) Unit() Unit { return q.unit }

// Dimension returns the quantity's dimension.
func (q Quantity) Dimension() Dimension { return q.dim }

// IsZero reports whether q is the unset zero value.
func (q Quantity) IsZero() bool { return q.unit == "" }

// In returns the magnitude expressed in target.
func (q Quantity) In(target Unit) (float64, error) {
	to, ok := lookup(target)
	if !ok || to.dim != q.dim || q.IsZero() {
		return 0, UnknownUnitError{Dimension: q.dim, Unit: target}
	}
	if to.symbol == q.unit {
		return q.value, nil
	}
	return to.fromCanonical(q.canonicalDecimal()).InexactFloat64(), nil
}

// Convert returns the same quantity expressed in target.
func (q Quantity) Convert(target Unit) (Quantity, error) {
	v, err := q.In(target)
	if err != nil {
		return Quantity{}, err
	}
	def, _ := lookup(target)
	return Quantity{value: v, unit: def.symbol, dim: q.dim}, nil
}

// Canonical returns the magnitude in the dimension's canonical unit.
func (q Quantity) Canonical() float64 {
	if q.IsZero() {
		return 0
	}
	if canonicalUnits[q.dim] == q.unit {
		return q.value
	}
	return q.canonicalDecimal().InexactFloat64()
}

func (q Quantity) canonicalDecimal() decimal.Decimal {
	def, ok := lookup(q.unit)
	if !ok {
		return decimal.Zero
	}
	return def.toCanonical(decimal.NewFromFloat(q.value))
}

// Add returns q + other in the canonical unit.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.dim != other.dim {
		return Quantity{}, DimensionMismatchError{Left: q.dim, Right: other.dim}
	}
	sum := q.canonicalDecimal().Add(other.canonicalDecimal())
	return canonicalValue(q.dim, sum.InexactFloat64()), nil
}

// Sub returns q - other in the canonical unit. The result may be negative.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.dim != other.dim {
		return Quantity{}, DimensionMismatchError{Left: q.dim, Right: other.dim}
	}
	diff := q.canonicalDecimal().Sub(other.canonicalDecimal())
	return canonicalValue(q.dim, diff.InexactFloat64()), nil
}

// Compare returns -1, 0 or +1 comparing q with other after conversion.
func (q Quantity) Compare(other Quantity) (int, error) {
	if q.dim != other.dim {
		return 0, DimensionMismatchError{Left: q.dim, Right: other.dim}
	}
	return q.canonicalDecimal().Cmp(other.canonicalDecimal()), nil
}

// Equal reports whether q and other are within tol of each other, measured in
// the canonical unit. Quantities of different dimensions are never equal.
func (q Quantity) Equal(other Quantity, tol float64) bool {
	if q.dim != other.dim {
		return false
	}
	return math.Abs(q.Canonical()-other.Canonical()) <= tol
}

// Scale returns q multiplied by f, in q's own unit. Temperatures cannot be scaled.
func (q Quantity) Scale(f float64) (Quantity, error) {
	if q.dim == DimTemperature {
		return Quantity{}, InvalidMagnitudeError{Dimension: q.dim, Value: q.value, Reason: "affine quantities cannot be scaled"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Quantity{}, InvalidMagnitudeError{Dimension: q.dim, Value: f, Reason: "scale factor not finite"}
	}
	v := decimal.NewFromFloat(q.value).Mul(decimal.NewFromFloat(f)).InexactFloat64()
	return Quantity{value: v, unit: q.unit, dim: q.dim}, nil
}

// String formats the quantity as "<value> <unit>".
func (q Quantity) String() string {
	if q.IsZero() {
		return "<unset>"
	}
	return strconv.FormatFloat(q.value, 'g', -1, 64) + " " + string(q.unit)
}

// Must panics when err is non-nil. It is intended for literals in tests and
// package-level tables.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
