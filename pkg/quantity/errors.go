package quantity

import "fmt"

// UnknownUnitError is returned when a unit symbol is not registered, or is not
// registered for the dimension it was used with.
type UnknownUnitError struct {
	Dimension Dimension
	Unit      Unit
}

func (e UnknownUnitError) Error() string {
	if e.Dimension == "" {
		return fmt.Sprintf("unknown unit %q", e.Unit)
	}
	return fmt.Sprintf("unit %q is not registered for %s", e.Unit, e.Dimension)
}

// DimensionMismatchError is returned by arithmetic across dimensions.
type DimensionMismatchError struct {
	Left  Dimension
	Right Dimension
}

func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %s and %s", e.Left, e.Right)
}

// InvalidMagnitudeError is returned when a magnitude is non-finite or outside the
// physical domain of the quantity being constructed.
type InvalidMagnitudeError struct {
	Dimension Dimension
	Value     float64
	Reason    string
}

func (e InvalidMagnitudeError) Error() string {
	return fmt.Sprintf("invalid %s magnitude %v: %s", e.Dimension, e.Value, e.Reason)
}
