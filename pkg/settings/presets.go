// Package settings holds user unit preferences: which unit each dimension is
// displayed in and how many decimal places are shown. Preferences are plain
// values passed to whoever formats quantities; there is no global instance.
package settings

import (
	"fmt"
	"strings"

	"fieldtrax/pkg/quantity"
)

// Region names a preset bundle of display units.
type Region string

// Known regions. Custom is used once any unit departs from a preset.
const (
	RegionUS     Region = "US"
	RegionMetric Region = "METRIC"
	RegionCustom Region = "custom"
)

// ParseRegion accepts region names case-insensitively.
func ParseRegion(s string) (Region, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "US":
		return RegionUS, nil
	case "METRIC":
		return RegionMetric, nil
	case "CUSTOM":
		return RegionCustom, nil
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// Preference keys as persisted by the settings collaborator.
const (
	KeyLength      = "lengthUnit"
	KeyPressure    = "pressureUnit"
	KeyTemperature = "temperatureUnit"
	KeyWeight      = "weightUnit"
	KeyVolume      = "volumeUnit"
	KeyDensity     = "densityUnit"
	KeyTorque      = "torqueUnit"
	KeyRotation    = "rotationUnit"
)

var keyDimensions = []struct {
	key string
	dim quantity.Dimension
}{
	{KeyLength, quantity.DimLength},
	{KeyPressure, quantity.DimPressure},
	{KeyTemperature, quantity.DimTemperature},
	{KeyWeight, quantity.DimMass},
	{KeyVolume, quantity.DimVolume},
	{KeyDensity, quantity.DimDensity},
	{KeyTorque, quantity.DimTorque},
	{KeyRotation, quantity.DimRotationalSpeed},
}

// Keys returns the eight preference keys in persisted order.
func Keys() []string {
	out := make([]string, len(keyDimensions))
	for i, kd := range keyDimensions {
		out[i] = kd.key
	}
	return out
}

// DimensionFor returns the dimension a preference key controls.
func DimensionFor(key string) (quantity.Dimension, bool) {
	for _, kd := range keyDimensions {
		if kd.key == key {
			return kd.dim, true
		}
	}
	return "", false
}

// UnitPreset maps each preference key to a display unit.
type UnitPreset struct {
	Length      quantity.Unit `json:"lengthUnit" yaml:"lengthUnit"`
	Pressure    quantity.Unit `json:"pressureUnit" yaml:"pressureUnit"`
	Temperature quantity.Unit `json:"temperatureUnit" yaml:"temperatureUnit"`
	Weight      quantity.Unit `json:"weightUnit" yaml:"weightUnit"`
	Volume      quantity.Unit `json:"volumeUnit" yaml:"volumeUnit"`
	Density     quantity.Unit `json:"densityUnit" yaml:"densityUnit"`
	Torque      quantity.Unit `json:"torqueUnit" yaml:"torqueUnit"`
	Rotation    quantity.Unit `json:"rotationUnit" yaml:"rotationUnit"`
}

func (p *UnitPreset) slot(key string) *quantity.Unit {
	switch key {
	case KeyLength:
		return &p.Length
	case KeyPressure:
		return &p.Pressure
	case KeyTemperature:
		return &p.Temperature
	case KeyWeight:
		return &p.Weight
	case KeyVolume:
		return &p.Volume
	case KeyDensity:
		return &p.Density
	case KeyTorque:
		return &p.Torque
	case KeyRotation:
		return &p.Rotation
	}
	return nil
}

// Get returns the unit stored under key.
func (p UnitPreset) Get(key string) (quantity.Unit, bool) {
	s := p.slot(key)
	if s == nil {
		return "", false
	}
	return *s, true
}

// Map renders the preset as the persisted key/value dictionary.
func (p UnitPreset) Map() map[string]string {
	out := make(map[string]string, len(keyDimensions))
	for _, kd := range keyDimensions {
		u, _ := p.Get(kd.key)
		out[kd.key] = string(u)
	}
	return out
}

// DecimalPlaces is the display rounding per dimension. It does not affect
// stored precision.
type DecimalPlaces struct {
	Length      int `json:"length" yaml:"length"`
	Pressure    int `json:"pressure" yaml:"pressure"`
	Temperature int `json:"temperature" yaml:"temperature"`
	Weight      int `json:"weight" yaml:"weight"`
	Volume      int `json:"volume" yaml:"volume"`
	Density     int `json:"density" yaml:"density"`
	Torque      int `json:"torque" yaml:"torque"`
}

// DefaultDecimalPlaces are the rounding defaults shipped with every preset.
var DefaultDecimalPlaces = DecimalPlaces{
	Length:      2,
	Pressure:    1,
	Temperature: 1,
	Weight:      1,
	Volume:      1,
	Density:     2,
	Torque:      0,
}

// fallbackPlaces applies to dimensions without a configured rounding.
const fallbackPlaces = 2

// For returns the places configured for dim.
func (d DecimalPlaces) For(dim quantity.Dimension) int {
	switch dim {
	case quantity.DimLength:
		return d.Length
	case quantity.DimPressure:
		return d.Pressure
	case quantity.DimTemperature:
		return d.Temperature
	case quantity.DimMass:
		return d.Weight
	case quantity.DimVolume:
		return d.Volume
	case quantity.DimDensity:
		return d.Density
	case quantity.DimTorque:
		return d.Torque
	}
	return fallbackPlaces
}

// Map renders the rounding table with its persisted keys.
func (d DecimalPlaces) Map() map[string]int {
	return map[string]int{
		"length":      d.Length,
		"pressure":    d.Pressure,
		"temperature": d.Temperature,
		"weight":      d.Weight,
		"volume":      d.Volume,
		"density":     d.Density,
		"torque":      d.Torque,
	}
}

// RegionPresets are the shipped unit bundles.
var RegionPresets = map[Region]UnitPreset{
	RegionUS: {
		Length:      quantity.Foot,
		Pressure:    quantity.PSI,
		Temperature: quantity.Fahrenheit,
		Weight:      quantity.Pound,
		Volume:      quantity.Barrel,
		Density:     quantity.PPG,
		Torque:      quantity.FootPound,
		Rotation:    quantity.RPM,
	},
	RegionMetric: {
		Length:      quantity.Meter,
		Pressure:    quantity.Bar,
		Temperature: quantity.Celsius,
		Weight:      quantity.Kilogram,
		Volume:      quantity.CubicMeter,
		Density:     quantity.KgPerM3,
		Torque:      quantity.NewtonMeter,
		Rotation:    quantity.RPM,
	},
}
