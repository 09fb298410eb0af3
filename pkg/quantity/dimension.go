package quantity

// Dimension identifies a physical quantity kind. Units convert freely within a
// dimension and never across dimensions.
type Dimension string

// Supported dimensions.
const (
	DimLength          Dimension = "length"
	DimPressure        Dimension = "pressure"
	DimTorque          Dimension = "torque"
	DimVolume          Dimension = "volume"
	DimMass            Dimension = "mass"
	DimLinearDensity   Dimension = "linear_density"
	DimDensity         Dimension = "density"
	DimViscosity       Dimension = "viscosity"
	DimTemperature     Dimension = "temperature"
	DimUnitCapacity    Dimension = "unit_capacity"
	DimFlowRate        Dimension = "flow_rate"
	DimVelocity        Dimension = "velocity"
	DimRotationalSpeed Dimension = "rotational_speed"
)

// Dimensions returns every supported dimension in declaration order.
func Dimensions() []Dimension {
	return []Dimension{
		DimLength,
		DimPressure,
		DimTorque,
		DimVolume,
		DimMass,
		DimLinearDensity,
		DimDensity,
		DimViscosity,
		DimTemperature,
		DimUnitCapacity,
		DimFlowRate,
		DimVelocity,
		DimRotationalSpeed,
	}
}

// Valid reports whether d is a supported dimension.
func (d Dimension) Valid() bool {
	_, ok := canonicalUnits[d]
	return ok
}
