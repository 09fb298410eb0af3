package settings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fieldtrax/pkg/quantity"
)

// UnitPreferences selects display units and rounding for a user.
type UnitPreferences struct {
	Region        Region        `json:"region" yaml:"region"`
	Units         UnitPreset    `json:"units" yaml:"units"`
	DecimalPlaces DecimalPlaces `json:"decimalPlaces" yaml:"decimalPlaces"`
}

// ForRegion returns the preset preferences for region. Custom starts from US.
func ForRegion(region Region) (UnitPreferences, error) {
	switch region {
	case RegionUS, RegionMetric:
		return UnitPreferences{Region: region, Units: RegionPresets[region], DecimalPlaces: DefaultDecimalPlaces}, nil
	case RegionCustom:
		return UnitPreferences{Region: RegionCustom, Units: RegionPresets[RegionUS], DecimalPlaces: DefaultDecimalPlaces}, nil
	}
	return UnitPreferences{}, fmt.Errorf("unknown region %q", region)
}

// Default returns the US preset.
func Default() UnitPreferences {
	p, _ := ForRegion(RegionUS)
	return p
}

// WithOverride returns a copy with key set to unit and the region switched to
// custom. The unit must belong to the key's dimension.
func (p UnitPreferences) WithOverride(key string, unit quantity.Unit) (UnitPreferences, error) {
	dim, ok := DimensionFor(key)
	if !ok {
		return UnitPreferences{}, fmt.Errorf("unknown preference key %q", key)
	}
	normalized, err := checkUnit(dim, unit)
	if err != nil {
		return UnitPreferences{}, err
	}
	out := p
	*out.Units.slot(key) = normalized
	out.Region = RegionCustom
	return out, nil
}

func checkUnit(dim quantity.Dimension, unit quantity.Unit) (quantity.Unit, error) {
	got, ok := quantity.Lookup(unit)
	if !ok {
		return "", quantity.UnknownUnitError{Dimension: dim, Unit: unit}
	}
	if got != dim {
		return "", quantity.DimensionMismatchError{Left: dim, Right: got}
	}
	return quantity.Normalize(unit)
}

// UnitFor returns the preferred display unit for dim. Dimensions without a
// preference key report false.
func (p UnitPreferences) UnitFor(dim quantity.Dimension) (quantity.Unit, bool) {
	for _, kd := range keyDimensions {
		if kd.dim == dim {
			u, _ := p.Units.Get(kd.key)
			return u, u != ""
		}
	}
	return "", false
}

// Display converts q to its preferred unit and rounds it half away from zero
// to the configured places. Quantities without a preferred unit keep theirs.
func (p UnitPreferences) Display(q quantity.Quantity) (decimal.Decimal, quantity.Unit, error) {
	if q.IsZero() {
		return decimal.Zero, "", fmt.Errorf("cannot display an unset quantity")
	}
	unit, ok := p.UnitFor(q.Dimension())
	if !ok {
		unit = q.Unit()
	}
	v, err := q.In(unit)
	if err != nil {
		return decimal.Zero, "", err
	}
	return decimal.NewFromFloat(v).Round(int32(p.DecimalPlaces.For(q.Dimension()))), unit, nil
}

// Format renders q as "<value> <unit>" in preferred units with fixed places.
func (p UnitPreferences) Format(q quantity.Quantity) string {
	if q.IsZero() {
		return "-"
	}
	v, unit, err := p.Display(q)
	if err != nil {
		return q.String()
	}
	return v.StringFixed(int32(p.DecimalPlaces.For(q.Dimension()))) + " " + string(unit)
}

// Validate checks every unit against its key's dimension and that rounding is
// non-negative.
func (p UnitPreferences) Validate() error {
	switch p.Region {
	case RegionUS, RegionMetric, RegionCustom:
	default:
		return fmt.Errorf("unknown region %q", p.Region)
	}
	for _, kd := range keyDimensions {
		u, _ := p.Units.Get(kd.key)
		if _, err := checkUnit(kd.dim, u); err != nil {
			return fmt.Errorf("%s: %w", kd.key, err)
		}
	}
	for k, v := range p.DecimalPlaces.Map() {
		if v < 0 {
			return fmt.Errorf("decimalPlaces.%s: must not be negative", k)
		}
	}
	return nil
}
