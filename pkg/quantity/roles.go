package quantity

// Role types give a Quantity a fixed dimension and physical domain. They embed
// Quantity, so In, Convert, Canonical, Pair and String are available on each.

type magnitudeDomain int

const (
	anySign magnitudeDomain = iota
	nonNegative
)

func newRole(dim Dimension, value float64, unit Unit, d magnitudeDomain) (Quantity, error) {
	q, err := New(dim, value, unit)
	if err != nil {
		return Quantity{}, err
	}
	return checkRole(q, dim, d)
}

func checkRole(q Quantity, dim Dimension, d magnitudeDomain) (Quantity, error) {
	if q.dim != dim {
		return Quantity{}, DimensionMismatchError{Left: dim, Right: q.dim}
	}
	if d == nonNegative && q.Canonical() < 0 {
		return Quantity{}, InvalidMagnitudeError{Dimension: dim, Value: q.value, Reason: "must not be negative"}
	}
	return q, nil
}

func convertRole(q Quantity, target Unit) (Quantity, error) {
	return q.Convert(target)
}

// sum and diff combine operands already known to share a dimension.
func sum(a, b Quantity) Quantity {
	return canonicalValue(a.dim, a.canonicalDecimal().Add(b.canonicalDecimal()).InexactFloat64())
}

func diff(a, b Quantity) Quantity {
	return canonicalValue(a.dim, a.canonicalDecimal().Sub(b.canonicalDecimal()).InexactFloat64())
}

// Length is a non-negative distance. Lengths produced by subtraction are signed.
type Length struct{ Quantity }

// NewLength constructs a Length.
func NewLength(value float64, unit Unit) (Length, error) {
	q, err := newRole(DimLength, value, unit, nonNegative)
	return Length{q}, err
}

// LengthOf checks that q is a length.
func LengthOf(q Quantity) (Length, error) {
	q, err := checkRole(q, DimLength, anySign)
	return Length{q}, err
}

// To converts the length to unit.
func (l Length) To(unit Unit) (Length, error) {
	q, err := convertRole(l.Quantity, unit)
	return Length{q}, err
}

// Add returns l + o.
func (l Length) Add(o Length) Length { return Length{sum(l.Quantity, o.Quantity)} }

// Sub returns l - o, which may be negative.
func (l Length) Sub(o Length) Length { return Length{diff(l.Quantity, o.Quantity)} }

// Depth is a position along the wellbore measured from the datum. Depths above
// the datum are negative.
type Depth struct{ Quantity }

// ZeroDepth is the datum.
var ZeroDepth = Depth{Quantity{value: 0, unit: Meter, dim: DimLength}}

// NewDepth constructs a Depth.
func NewDepth(value float64, unit Unit) (Depth, error) {
	q, err := newRole(DimLength, value, unit, anySign)
	return Depth{q}, err
}

// DepthOf checks that q is a length usable as a depth.
func DepthOf(q Quantity) (Depth, error) {
	q, err := checkRole(q, DimLength, anySign)
	return Depth{q}, err
}

// To converts the depth to unit.
func (d Depth) To(unit Unit) (Depth, error) {
	q, err := convertRole(d.Quantity, unit)
	return Depth{q}, err
}

// Below returns the depth l further down hole.
func (d Depth) Below(l Length) Depth { return Depth{sum(d.Quantity, l.Quantity)} }

// Sub returns the signed distance d - o.
func (d Depth) Sub(o Depth) Length { return Length{diff(d.Quantity, o.Quantity)} }

// Compare returns -1 when d is shallower than o, +1 when deeper, 0 when equal.
func (d Depth) Compare(o Depth) int {
	return d.canonicalDecimal().Cmp(o.canonicalDecimal())
}

// Diameter is a cross-sectional length.
type Diameter struct{ Quantity }

// NewDiameter constructs a Diameter.
func NewDiameter(value float64, unit Unit) (Diameter, error) {
	q, err := newRole(DimLength, value, unit, nonNegative)
	return Diameter{q}, err
}

// DiameterOf checks that q is a non-negative length.
func DiameterOf(q Quantity) (Diameter, error) {
	q, err := checkRole(q, DimLength, nonNegative)
	return Diameter{q}, err
}

// To converts the diameter to unit.
func (d Diameter) To(unit Unit) (Diameter, error) {
	q, err := convertRole(d.Quantity, unit)
	return Diameter{q}, err
}

// Compare orders two diameters.
func (d Diameter) Compare(o Diameter) int {
	return d.canonicalDecimal().Cmp(o.canonicalDecimal())
}

// Pressure is a signed pressure; ratings are validated by their owners.
type Pressure struct{ Quantity }

// NewPressure constructs a Pressure.
func NewPressure(value float64, unit Unit) (Pressure, error) {
	q, err := newRole(DimPressure, value, unit, anySign)
	return Pressure{q}, err
}

// PressureOf checks that q is a pressure.
func PressureOf(q Quantity) (Pressure, error) {
	q, err := checkRole(q, DimPressure, anySign)
	return Pressure{q}, err
}

// To converts the pressure to unit.
func (p Pressure) To(unit Unit) (Pressure, error) {
	q, err := convertRole(p.Quantity, unit)
	return Pressure{q}, err
}

// Torque is a signed torque.
type Torque struct{ Quantity }

// NewTorque constructs a Torque.
func NewTorque(value float64, unit Unit) (Torque, error) {
	q, err := newRole(DimTorque, value, unit, anySign)
	return Torque{q}, err
}

// TorqueOf checks that q is a torque.
func TorqueOf(q Quantity) (Torque, error) {
	q, err := checkRole(q, DimTorque, anySign)
	return Torque{q}, err
}

// To converts the torque to unit.
func (t Torque) To(unit Unit) (Torque, error) {
	q, err := convertRole(t.Quantity, unit)
	return Torque{q}, err
}

// Volume is a non-negative volume.
type Volume struct{ Quantity }

// NewVolume constructs a Volume.
func NewVolume(value float64, unit Unit) (Volume, error) {
	q, err := newRole(DimVolume, value, unit, nonNegative)
	return Volume{q}, err
}

// VolumeOf checks that q is a non-negative volume.
func VolumeOf(q Quantity) (Volume, error) {
	q, err := checkRole(q, DimVolume, nonNegative)
	return Volume{q}, err
}

// To converts the volume to unit.
func (v Volume) To(unit Unit) (Volume, error) {
	q, err := convertRole(v.Quantity, unit)
	return Volume{q}, err
}

// Add returns v + o.
func (v Volume) Add(o Volume) Volume { return Volume{sum(v.Quantity, o.Quantity)} }

// Mass is a non-negative mass (weight in oilfield usage).
type Mass struct{ Quantity }

// NewMass constructs a Mass.
func NewMass(value float64, unit Unit) (Mass, error) {
	q, err := newRole(DimMass, value, unit, nonNegative)
	return Mass{q}, err
}

// To converts the mass to unit.
func (m Mass) To(unit Unit) (Mass, error) {
	q, err := convertRole(m.Quantity, unit)
	return Mass{q}, err
}

// LinearDensity is mass per unit length, the nominal weight of a tubular.
type LinearDensity struct{ Quantity }

// NewLinearDensity constructs a LinearDensity.
func NewLinearDensity(value float64, unit Unit) (LinearDensity, error) {
	q, err := newRole(DimLinearDensity, value, unit, nonNegative)
	return LinearDensity{q}, err
}

// LinearDensityOf checks that q is a non-negative linear density.
func LinearDensityOf(q Quantity) (LinearDensity, error) {
	q, err := checkRole(q, DimLinearDensity, nonNegative)
	return LinearDensity{q}, err
}

// To converts the linear density to unit.
func (l LinearDensity) To(unit Unit) (LinearDensity, error) {
	q, err := convertRole(l.Quantity, unit)
	return LinearDensity{q}, err
}

// MudWeight is a drilling fluid density.
type MudWeight struct{ Quantity }

// NewMudWeight constructs a MudWeight.
func NewMudWeight(value float64, unit Unit) (MudWeight, error) {
	q, err := newRole(DimDensity, value, unit, nonNegative)
	return MudWeight{q}, err
}

// To converts the mud weight to unit.
func (m MudWeight) To(unit Unit) (MudWeight, error) {
	q, err := convertRole(m.Quantity, unit)
	return MudWeight{q}, err
}

// Viscosity is a dynamic viscosity.
type Viscosity struct{ Quantity }

// NewViscosity constructs a Viscosity.
func NewViscosity(value float64, unit Unit) (Viscosity, error) {
	q, err := newRole(DimViscosity, value, unit, nonNegative)
	return Viscosity{q}, err
}

// To converts the viscosity to unit.
func (v Viscosity) To(unit Unit) (Viscosity, error) {
	q, err := convertRole(v.Quantity, unit)
	return Viscosity{q}, err
}

// Temperature is an absolute temperature; conversions are affine.
type Temperature struct{ Quantity }

// NewTemperature constructs a Temperature. Values below absolute zero fail.
func NewTemperature(value float64, unit Unit) (Temperature, error) {
	q, err := newRole(DimTemperature, value, unit, anySign)
	return Temperature{q}, err
}

// To converts the temperature to unit.
func (t Temperature) To(unit Unit) (Temperature, error) {
	q, err := convertRole(t.Quantity, unit)
	return Temperature{q}, err
}

// UnitCapacity is volume per unit length.
type UnitCapacity struct{ Quantity }

// NewUnitCapacity constructs a UnitCapacity.
func NewUnitCapacity(value float64, unit Unit) (UnitCapacity, error) {
	q, err := newRole(DimUnitCapacity, value, unit, nonNegative)
	return UnitCapacity{q}, err
}

// To converts the capacity to unit.
func (c UnitCapacity) To(unit Unit) (UnitCapacity, error) {
	q, err := convertRole(c.Quantity, unit)
	return UnitCapacity{q}, err
}

// Over returns the volume held over length l.
func (c UnitCapacity) Over(l Length) Volume {
	v := c.canonicalDecimal().Mul(l.canonicalDecimal())
	return Volume{canonicalValue(DimVolume, v.InexactFloat64())}
}

// FlowRate is a volumetric flow rate.
type FlowRate struct{ Quantity }

// NewFlowRate constructs a FlowRate.
func NewFlowRate(value float64, unit Unit) (FlowRate, error) {
	q, err := newRole(DimFlowRate, value, unit, anySign)
	return FlowRate{q}, err
}

// To converts the flow rate to unit.
func (f FlowRate) To(unit Unit) (FlowRate, error) {
	q, err := convertRole(f.Quantity, unit)
	return FlowRate{q}, err
}

// Velocity is a linear speed.
type Velocity struct{ Quantity }

// NewVelocity constructs a Velocity.
func NewVelocity(value float64, unit Unit) (Velocity, error) {
	q, err := newRole(DimVelocity, value, unit, anySign)
	return Velocity{q}, err
}

// To converts the velocity to unit.
func (v Velocity) To(unit Unit) (Velocity, error) {
	q, err := convertRole(v.Quantity, unit)
	return Velocity{q}, err
}

// RotationalSpeed is a rotary speed.
type RotationalSpeed struct{ Quantity }

// NewRotationalSpeed constructs a RotationalSpeed.
func NewRotationalSpeed(value float64, unit Unit) (RotationalSpeed, error) {
	q, err := newRole(DimRotationalSpeed, value, unit, anySign)
	return RotationalSpeed{q}, err
}

// To converts the rotational speed to unit.
func (r RotationalSpeed) To(unit Unit) (RotationalSpeed, error) {
	q, err := convertRole(r.Quantity, unit)
	return RotationalSpeed{q}, err
}
