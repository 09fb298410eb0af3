package quantity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unit is a registered unit symbol such as "ft" or "psi".
type Unit string

// Commonly referenced unit symbols.
const (
	Meter        Unit = "m"
	Foot         Unit = "ft"
	Inch         Unit = "in"
	Millimeter   Unit = "mm"
	Pascal       Unit = "Pa"
	Bar          Unit = "bar"
	PSI          Unit = "psi"
	NewtonMeter  Unit = "N·m"
	FootPound    Unit = "ft-lbs"
	CubicMeter   Unit = "m³"
	Barrel       Unit = "bbl"
	Gallon       Unit = "gal"
	Liter        Unit = "L"
	Milliliter   Unit = "mL"
	Kilogram     Unit = "kg"
	Pound        Unit = "lbs"
	KgPerMeter   Unit = "kg/m"
	PoundPerFoot Unit = "lb/ft"
	KgPerM3      Unit = "kg/m³"
	PPG          Unit = "ppg"
	PascalSecond Unit = "Pa·s"
	Centipoise   Unit = "cP"
	Kelvin       Unit = "K"
	Celsius      Unit = "C"
	Fahrenheit   Unit = "F"
	M3PerMeter   Unit = "m³/m"
	BblPerFoot   Unit = "bbl/ft"
	M3PerSecond  Unit = "m³/s"
	GPM          Unit = "gpm"
	MPerSecond   Unit = "m/s"
	FtPerMinute  Unit = "ft/min"
	RPM          Unit = "rpm"
	LbfPer100Ft2 Unit = "lbf/100ft²"
)

// divisionPlaces bounds the decimal places kept when a conversion divides.
const divisionPlaces int32 = 34

// Exact definitions used to derive customary units.
const (
	footInMeters     = "0.3048"
	inchInMeters     = "0.0254"
	poundInKilograms = "0.45359237"
	poundForceInN    = "4.4482216152605"
	gallonInM3       = "0.003785411784"
	barrelInM3       = "0.158987294928"
	cubicFootInM3    = "0.028316846592"
	squareInchInM2   = "0.00064516"
	squareFootInM2   = "0.09290304"
)

// unitDef converts x in this unit to the canonical unit as (x + pre) * num / den.
type unitDef struct {
	symbol    Unit
	dim       Dimension
	num       decimal.Decimal
	den       decimal.Decimal
	pre       decimal.Decimal
	canonical bool
}

func (u *unitDef) toCanonical(x decimal.Decimal) decimal.Decimal {
	v := x.Add(u.pre).Mul(u.num)
	if u.den.Equal(one) {
		return v
	}
	return v.DivRound(u.den, divisionPlaces)
}

func (u *unitDef) fromCanonical(c decimal.Decimal) decimal.Decimal {
	v := c.Mul(u.den)
	if !u.num.Equal(one) {
		v = v.DivRound(u.num, divisionPlaces)
	}
	return v.Sub(u.pre)
}

type definition struct {
	dim       Dimension
	symbol    Unit
	num       string
	den       string
	pre       string
	canonical bool
	aliases   []Unit
}

var one = decimal.NewFromInt(1)

// definitions is the conversion table. Every factor is an exact decimal; units
// defined through other customary units use products or ratios of exact values.
var definitions = []definition{
	{dim: DimLength, symbol: Meter, canonical: true},
	{dim: DimLength, symbol: Foot, num: footInMeters},
	{dim: DimLength, symbol: Inch, num: inchInMeters},
	{dim: DimLength, symbol: "cm", num: "0.01"},
	{dim: DimLength, symbol: Millimeter, num: "0.001"},
	{dim: DimLength, symbol: "km", num: "1000"},
	{dim: DimLength, symbol: "yd", num: "0.9144"},
	{dim: DimLength, symbol: "mi", num: "1609.344"},
	{dim: DimLength, symbol: "1/32in", num: inchInMeters, den: "32"},

	{dim: DimPressure, symbol: Pascal, canonical: true},
	{dim: DimPressure, symbol: "kPa", num: "1000"},
	{dim: DimPressure, symbol: "MPa", num: "1000000"},
	{dim: DimPressure, symbol: Bar, num: "100000"},
	{dim: DimPressure, symbol: "atm", num: "101325"},
	{dim: DimPressure, symbol: PSI, num: poundForceInN, den: squareInchInM2},
	{dim: DimPressure, symbol: "ksi", num: "4448.2216152605", den: squareInchInM2},
	{dim: DimPressure, symbol: LbfPer100Ft2, num: poundForceInN, den: "9.290304", aliases: []Unit{"lbf/100ft2"}},

	{dim: DimTorque, symbol: NewtonMeter, canonical: true, aliases: []Unit{"N.m", "Nm"}},
	{dim: DimTorque, symbol: "kN·m", num: "1000", aliases: []Unit{"kN.m"}},
	{dim: DimTorque, symbol: FootPound, num: footInMeters + "*" + poundForceInN, aliases: []Unit{"ft-lbf", "lbf·ft"}},
	{dim: DimTorque, symbol: "in-lbs", num: inchInMeters + "*" + poundForceInN, aliases: []Unit{"in-lbf"}},

	{dim: DimVolume, symbol: CubicMeter, canonical: true, aliases: []Unit{"m3"}},
	{dim: DimVolume, symbol: Barrel, num: barrelInM3},
	{dim: DimVolume, symbol: Gallon, num: gallonInM3},
	{dim: DimVolume, symbol: Liter, num: "0.001"},
	{dim: DimVolume, symbol: Milliliter, num: "0.000001", aliases: []Unit{"cm³", "cm3"}},
	{dim: DimVolume, symbol: "ft³", num: cubicFootInM3, aliases: []Unit{"ft3"}},

	{dim: DimMass, symbol: Kilogram, canonical: true},
	{dim: DimMass, symbol: Pound, num: poundInKilograms, aliases: []Unit{"lb", "lbm"}},
	{dim: DimMass, symbol: "klbs", num: "453.59237"},
	{dim: DimMass, symbol: "t", num: "1000"},

	{dim: DimLinearDensity, symbol: KgPerMeter, canonical: true},
	{dim: DimLinearDensity, symbol: PoundPerFoot, num: poundInKilograms, den: footInMeters, aliases: []Unit{"ppf"}},

	{dim: DimDensity, symbol: KgPerM3, canonical: true, aliases: []Unit{"kg/m3"}},
	{dim: DimDensity, symbol: "g/cm³", num: "1000", aliases: []Unit{"g/cm3"}},
	{dim: DimDensity, symbol: "sg", num: "1000"},
	{dim: DimDensity, symbol: PPG, num: poundInKilograms, den: gallonInM3, aliases: []Unit{"lb/gal"}},
	{dim: DimDensity, symbol: "lb/ft³", num: poundInKilograms, den: cubicFootInM3, aliases: []Unit{"lb/ft3", "pcf"}},

	{dim: DimViscosity, symbol: PascalSecond, canonical: true, aliases: []Unit{"Pa.s"}},
	{dim: DimViscosity, symbol: Centipoise, num: "0.001", aliases: []Unit{"cp", "mPa·s", "mPa.s"}},
	{dim: DimViscosity, symbol: "P", num: "0.1"},

	{dim: DimTemperature, symbol: Kelvin, canonical: true},
	{dim: DimTemperature, symbol: Celsius, pre: "273.15", aliases: []Unit{"°C", "degC"}},
	{dim: DimTemperature, symbol: Fahrenheit, num: "5", den: "9", pre: "459.67", aliases: []Unit{"°F", "degF"}},
	{dim: DimTemperature, symbol: "R", num: "5", den: "9", aliases: []Unit{"°R"}},

	{dim: DimUnitCapacity, symbol: M3PerMeter, canonical: true, aliases: []Unit{"m3/m"}},
	{dim: DimUnitCapacity, symbol: "L/m", num: "0.001"},
	{dim: DimUnitCapacity, symbol: "bbl/m", num: barrelInM3},
	{dim: DimUnitCapacity, symbol: BblPerFoot, num: barrelInM3, den: footInMeters},
	{dim: DimUnitCapacity, symbol: "gal/ft", num: gallonInM3, den: footInMeters},
	{dim: DimUnitCapacity, symbol: "ft³/ft", num: cubicFootInM3, den: footInMeters, aliases: []Unit{"ft3/ft"}},

	{dim: DimFlowRate, symbol: M3PerSecond, canonical: true, aliases: []Unit{"m3/s"}},
	{dim: DimFlowRate, symbol: "m³/min", den: "60", aliases: []Unit{"m3/min"}},
	{dim: DimFlowRate, symbol: "m³/h", den: "3600", aliases: []Unit{"m3/h"}},
	{dim: DimFlowRate, symbol: "L/s", num: "0.001"},
	{dim: DimFlowRate, symbol: "L/min", num: "0.001", den: "60", aliases: []Unit{"lpm"}},
	{dim: DimFlowRate, symbol: GPM, num: gallonInM3, den: "60", aliases: []Unit{"gal/min"}},
	{dim: DimFlowRate, symbol: "bpm", num: barrelInM3, den: "60", aliases: []Unit{"bbl/min"}},
	{dim: DimFlowRate, symbol: "bbl/d", num: barrelInM3, den: "86400", aliases: []Unit{"bpd"}},

	{dim: DimVelocity, symbol: MPerSecond, canonical: true},
	{dim: DimVelocity, symbol: "m/min", den: "60"},
	{dim: DimVelocity, symbol: "m/h", den: "3600"},
	{dim: DimVelocity, symbol: "ft/s", num: footInMeters},
	{dim: DimVelocity, symbol: FtPerMinute, num: footInMeters, den: "60"},
	{dim: DimVelocity, symbol: "ft/h", num: footInMeters, den: "3600"},

	{dim: DimRotationalSpeed, symbol: RPM, canonical: true},
	{dim: DimRotationalSpeed, symbol: "rps", num: "60"},
}

var (
	registry       = make(map[Unit]*unitDef)
	unitsByDim     = make(map[Dimension][]Unit)
	canonicalUnits = make(map[Dimension]Unit)
)

func init() {
	for _, d := range definitions {
		if err := register(d); err != nil {
			panic(err)
		}
	}
	for _, dim := range Dimensions() {
		if _, ok := canonicalUnits[dim]; !ok {
			panic(fmt.Sprintf("quantity: dimension %s has no canonical unit", dim))
		}
	}
}

func register(d definition) error {
	def := &unitDef{
		symbol:    d.symbol,
		dim:       d.dim,
		num:       exact(d.num, one),
		den:       exact(d.den, one),
		pre:       exact(d.pre, decimal.Zero),
		canonical: d.canonical,
	}
	if def.num.IsZero() || def.den.IsZero() {
		return fmt.Errorf("quantity: unit %s has a zero factor", d.symbol)
	}
	if d.canonical {
		if existing, ok := canonicalUnits[d.dim]; ok {
			return fmt.Errorf("quantity: dimension %s already has canonical unit %s", d.dim, existing)
		}
		if !def.num.Equal(one) || !def.den.Equal(one) || !def.pre.IsZero() {
			return fmt.Errorf("quantity: canonical unit %s must have unit factor", d.symbol)
		}
		canonicalUnits[d.dim] = d.symbol
	}
	for _, sym := range append([]Unit{d.symbol}, d.aliases...) {
		if _, dup := registry[sym]; dup {
			return fmt.Errorf("quantity: unit %s registered twice", sym)
		}
		registry[sym] = def
	}
	unitsByDim[d.dim] = append(unitsByDim[d.dim], d.symbol)
	return nil
}

// exact parses a decimal literal or a product of literals joined by "*".
func exact(s string, fallback decimal.Decimal) decimal.Decimal {
	if s == "" {
		return fallback
	}
	out := one
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '*' {
			out = out.Mul(decimal.RequireFromString(s[start:i]))
			start = i + 1
		}
	}
	return out
}

func lookup(u Unit) (*unitDef, bool) {
	def, ok := registry[u]
	return def, ok
}

// Lookup returns the dimension a unit symbol or alias belongs to.
func Lookup(u Unit) (Dimension, bool) {
	def, ok := registry[u]
	if !ok {
		return "", false
	}
	return def.dim, true
}

// Units lists the primary symbols registered for a dimension, canonical first.
func Units(dim Dimension) []Unit {
	src := unitsByDim[dim]
	out := make([]Unit, len(src))
	copy(out, src)
	return out
}

// CanonicalUnit returns the internal reference unit for a dimension.
func CanonicalUnit(dim Dimension) (Unit, bool) {
	u, ok := canonicalUnits[dim]
	return u, ok
}

// Normalize maps an alias to its primary symbol.
func Normalize(u Unit) (Unit, error) {
	def, ok := registry[u]
	if !ok {
		return "", UnknownUnitError{Unit: u}
	}
	return def.symbol, nil
}
