package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtrax/pkg/quantity"
	"fieldtrax/pkg/settings"
	"fieldtrax/pkg/tubular"
)

// capacityPlaces is the display rounding for per-length capacities.
const capacityPlaces = 4

// Report is the rendered view of an assembled string. Quantities are
// formatted in the preferred units of the generating service.
type Report struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Region      settings.Region     `json:"region"`
	Units       settings.UnitPreset `json:"units"`
	Components  []ComponentRow      `json:"components"`
	Overlaps    []OverlapRow        `json:"overlaps,omitempty"`
	Totals      Totals              `json:"totals"`
	Violations  []ViolationRow      `json:"violations,omitempty"`
	Blocked     bool                `json:"blocked"`
}

// ComponentRow is one line of the tally.
type ComponentRow struct {
	Index          int          `json:"index"`
	ID             string       `json:"id"`
	Kind           tubular.Kind `json:"kind"`
	Name           string       `json:"name,omitempty"`
	StartDepth     string       `json:"start_depth"`
	EndDepth       string       `json:"end_depth"`
	Length         string       `json:"length"`
	OuterDiameter  string       `json:"outer_diameter"`
	InnerDiameter  string       `json:"inner_diameter"`
	Capacity       string       `json:"capacity"`
	InternalVolume string       `json:"internal_volume"`
	Grade          string       `json:"grade,omitempty"`
	Thread         string       `json:"thread,omitempty"`
	Installed      bool         `json:"installed,omitempty"`
}

// OverlapRow reports an installed liner's lap over its predecessor.
type OverlapRow struct {
	LinerID    string `json:"liner_id"`
	PreviousID string `json:"previous_id"`
	Overlap    string `json:"overlap"`
	Gap        bool   `json:"gap"`
}

// Totals summarises the string.
type Totals struct {
	Components     int    `json:"components"`
	EndDepth       string `json:"end_depth"`
	TotalLength    string `json:"total_length"`
	InternalVolume string `json:"internal_volume"`
}

// ViolationRow mirrors tubular.Violation for serialisation.
type ViolationRow struct {
	Rule        string           `json:"rule"`
	Severity    tubular.Severity `json:"severity"`
	Message     string           `json:"message"`
	ComponentID string           `json:"component_id,omitempty"`
}

func buildReport(str *tubular.String, res tubular.Result, prefs settings.UnitPreferences, now time.Time) Report {
	r := Report{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Region:      prefs.Region,
		Units:       prefs.Units,
		Blocked:     res.HasBlocking(),
	}
	for i, c := range str.Components() {
		b := c.Body()
		row := ComponentRow{
			Index:          i,
			ID:             c.ID(),
			Kind:           c.Kind(),
			StartDepth:     prefs.Format(c.StartDepth().Quantity),
			EndDepth:       prefs.Format(c.EndDepth().Quantity),
			Length:         prefs.Format(b.Length.Quantity),
			OuterDiameter:  formatDiameter(b.OuterDiameter, prefs),
			InnerDiameter:  formatDiameter(b.InnerDiameter, prefs),
			Capacity:       formatCapacity(c.Capacity(), prefs),
			InternalVolume: prefs.Format(c.InternalVolume().Quantity),
			Grade:          b.Grade,
			Thread:         b.Thread,
		}
		switch c.Kind() {
		case tubular.KindTool:
			info, _ := c.Tool()
			row.Name = info.Name
		case tubular.KindLiner:
			info, _ := c.Liner()
			row.Installed = info.InstalledBelow
		case tubular.KindPipe:
		}
		r.Components = append(r.Components, row)
	}
	for _, o := range str.Overlaps() {
		r.Overlaps = append(r.Overlaps, OverlapRow{
			LinerID:    o.LinerID,
			PreviousID: o.PreviousID,
			Overlap:    prefs.Format(o.Length.Quantity),
			Gap:        o.Length.Canonical() < 0,
		})
	}
	r.Totals = Totals{
		Components:     str.Len(),
		EndDepth:       prefs.Format(str.EndDepth().Quantity),
		TotalLength:    prefs.Format(str.TotalLength().Quantity),
		InternalVolume: prefs.Format(str.InternalVolume().Quantity),
	}
	for _, v := range res.Violations {
		r.Violations = append(r.Violations, ViolationRow(v))
	}
	return r
}

// formatDiameter shows diameters in inches or millimetres depending on the
// preferred length unit, with three places.
func formatDiameter(d quantity.Diameter, prefs settings.UnitPreferences) string {
	unit := quantity.Millimeter
	if prefs.Units.Length == quantity.Foot || prefs.Units.Length == quantity.Inch {
		unit = quantity.Inch
	}
	v, err := d.In(unit)
	if err != nil {
		return d.String()
	}
	return decimal.NewFromFloat(v).StringFixed(3) + " " + string(unit)
}

// formatCapacity shows capacity as preferred volume per preferred length when
// that unit is registered (bbl/ft, m³/m), otherwise in the canonical unit.
func formatCapacity(c quantity.UnitCapacity, prefs settings.UnitPreferences) string {
	unit := quantity.Unit(string(prefs.Units.Volume) + "/" + string(prefs.Units.Length))
	if dim, ok := quantity.Lookup(unit); !ok || dim != quantity.DimUnitCapacity {
		unit = quantity.M3PerMeter
	}
	v, err := c.In(unit)
	if err != nil {
		return c.String()
	}
	return decimal.NewFromFloat(v).StringFixed(capacityPlaces) + " " + string(unit)
}
