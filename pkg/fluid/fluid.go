// Package fluid describes a drilling fluid sample taken over a depth interval
// and derives Bingham-plastic rheology from its viscometer readings.
package fluid

import (
	"fmt"
	"math"

	"fieldtrax/pkg/quantity"
)

// Readings are Fann viscometer dial readings at 600, 300, 200, 100, 6 and 3 rpm.
type Readings struct {
	R600 float64
	R300 float64
	R200 float64
	R100 float64
	R6   float64
	R3   float64
}

// Sample is a mud check. Unset quantities are zero values.
type Sample struct {
	Temperature quantity.Temperature
	TopDepth    quantity.Depth
	BottomDepth quantity.Depth
	MudWeight   quantity.MudWeight
	Volume      quantity.Volume

	Readings Readings
	Gel10s   quantity.Pressure
	Gel10m   quantity.Pressure
	Gel30m   quantity.Pressure

	APIFluidLoss    quantity.Volume
	HTHPFluidLoss   quantity.Volume
	HTHPTemperature quantity.Temperature
	APICake         quantity.Length
	HTHPCake        quantity.Length

	SandPercent   float64
	OilPercent    float64
	WaterPercent  float64
	SolidsPercent float64

	Alkalinity        float64
	EmulsionStability float64 // volts
}

// ValidationError reports a sample field outside its physical domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("fluid sample: %s %s", e.Field, e.Reason)
}

// New validates s and returns it unchanged on success.
func New(s Sample) (Sample, error) {
	if !s.TopDepth.IsZero() && !s.BottomDepth.IsZero() && s.TopDepth.Compare(s.BottomDepth) > 0 {
		return Sample{}, ValidationError{Field: "top_depth", Reason: "must not be below bottom_depth"}
	}
	percents := []struct {
		field string
		v     float64
	}{
		{"sand_percent", s.SandPercent},
		{"oil_percent", s.OilPercent},
		{"water_percent", s.WaterPercent},
		{"solids_percent", s.SolidsPercent},
	}
	for _, p := range percents {
		if !finite(p.v) || p.v < 0 || p.v > 100 {
			return Sample{}, ValidationError{Field: p.field, Reason: "must be between 0 and 100"}
		}
	}
	if s.SolidsPercent+s.OilPercent+s.WaterPercent > 100+1e-9 {
		return Sample{}, ValidationError{Field: "solids_percent", Reason: "solids, oil and water exceed 100 percent"}
	}
	r := s.Readings
	for _, v := range []float64{r.R600, r.R300, r.R200, r.R100, r.R6, r.R3} {
		if !finite(v) || v < 0 {
			return Sample{}, ValidationError{Field: "readings", Reason: "must be finite and non-negative"}
		}
	}
	if r.R600 < r.R300 {
		return Sample{}, ValidationError{Field: "readings", Reason: "r600 must not be below r300"}
	}
	for _, g := range []quantity.Pressure{s.Gel10s, s.Gel10m, s.Gel30m} {
		if !g.IsZero() && g.Canonical() < 0 {
			return Sample{}, ValidationError{Field: "gel_strength", Reason: "must not be negative"}
		}
	}
	if !finite(s.Alkalinity) || !finite(s.EmulsionStability) || s.EmulsionStability < 0 {
		return Sample{}, ValidationError{Field: "emulsion_stability", Reason: "must be finite and non-negative"}
	}
	return s, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// HasReadings reports whether the 600 and 300 rpm readings were taken.
func (s Sample) HasReadings() bool { return s.Readings.R600 > 0 && s.Readings.R300 > 0 }

// Contains reports whether depth lies within [TopDepth, BottomDepth].
func (s Sample) Contains(depth quantity.Depth) bool {
	if s.TopDepth.IsZero() || s.BottomDepth.IsZero() {
		return false
	}
	return depth.Compare(s.TopDepth) >= 0 && depth.Compare(s.BottomDepth) <= 0
}

// Rheology is the Bingham-plastic model derived from dial readings.
type Rheology struct {
	PlasticViscosity  quantity.Viscosity
	YieldPoint        quantity.Pressure
	ApparentViscosity quantity.Viscosity
}

// PlasticViscosity is r600 − r300 in cP.
func (s Sample) PlasticViscosity() (quantity.Viscosity, bool) {
	if !s.HasReadings() {
		return quantity.Viscosity{}, false
	}
	v, err := quantity.NewViscosity(s.Readings.R600-s.Readings.R300, quantity.Centipoise)
	return v, err == nil
}

// YieldPoint is r300 − PV in lbf/100ft². It can be negative for unusual muds.
func (s Sample) YieldPoint() (quantity.Pressure, bool) {
	if !s.HasReadings() {
		return quantity.Pressure{}, false
	}
	pv := s.Readings.R600 - s.Readings.R300
	p, err := quantity.NewPressure(s.Readings.R300-pv, quantity.LbfPer100Ft2)
	return p, err == nil
}

// ApparentViscosity is r600 / 2 in cP.
func (s Sample) ApparentViscosity() (quantity.Viscosity, bool) {
	if !s.HasReadings() {
		return quantity.Viscosity{}, false
	}
	v, err := quantity.NewViscosity(s.Readings.R600/2, quantity.Centipoise)
	return v, err == nil
}

// Rheology returns all three derived values, or false without readings.
func (s Sample) Rheology() (Rheology, bool) {
	pv, ok := s.PlasticViscosity()
	if !ok {
		return Rheology{}, false
	}
	yp, _ := s.YieldPoint()
	av, _ := s.ApparentViscosity()
	return Rheology{PlasticViscosity: pv, YieldPoint: yp, ApparentViscosity: av}, true
}
