// Package tubular models the physical components of a wellbore string (plain
// pipe joints, tools and liners) and their composition into an ordered String.
package tubular

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"fieldtrax/pkg/quantity"
)

// Kind tags the variant held by a Component.
type Kind string

// Component variants.
const (
	KindPipe  Kind = "pipe"
	KindTool  Kind = "tool"
	KindLiner Kind = "liner"
)

// Kinds lists every variant in declaration order.
func Kinds() []Kind { return []Kind{KindPipe, KindTool, KindLiner} }

// Valid reports whether k is a known variant.
func (k Kind) Valid() bool {
	switch k {
	case KindPipe, KindTool, KindLiner:
		return true
	}
	return false
}

// Body holds the data shared by every component variant. Ratings are optional
// and left as zero values when unknown.
type Body struct {
	OuterDiameter  quantity.Diameter
	InnerDiameter  quantity.Diameter
	Length         quantity.Length
	StartDepth     quantity.Depth
	LinearDensity  quantity.LinearDensity
	YieldStrength  quantity.Pressure
	Grade          string
	Thread         string
	TorqueRating   quantity.Torque
	BurstRating    quantity.Pressure
	CollapseRating quantity.Pressure
}

// ToolInfo is the tool payload.
type ToolInfo struct {
	Name string
}

// LinerInfo is the liner payload. It is populated once, when the liner is
// installed below another component.
type LinerInfo struct {
	InstalledBelow bool
	TopOfLiner     quantity.Depth
	ShoeDepth      quantity.Depth
}

// Component is one tubular in a string: a pipe joint, a tool or a liner.
// Components are values; the zero value is not usable.
type Component struct {
	id    string
	kind  Kind
	body  Body
	tool  ToolInfo
	liner LinerInfo
}

// Option customises component construction.
type Option func(*Component)

// WithID supplies the component identifier instead of generating one.
func WithID(id string) Option {
	return func(c *Component) {
		if id = strings.TrimSpace(id); id != "" {
			c.id = id
		}
	}
}

// NewPipe constructs a plain pipe joint.
func NewPipe(body Body, opts ...Option) (Component, error) {
	return newComponent(KindPipe, body, opts)
}

// NewTool constructs a tool with a display name.
func NewTool(name string, body Body, opts ...Option) (Component, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Component{}, ErrMissingName
	}
	c, err := newComponent(KindTool, body, opts)
	if err != nil {
		return Component{}, err
	}
	c.tool = ToolInfo{Name: name}
	return c, nil
}

// NewLiner constructs a liner. It is not installed until it is appended below
// another component.
func NewLiner(body Body, opts ...Option) (Component, error) {
	return newComponent(KindLiner, body, opts)
}

func newComponent(kind Kind, body Body, opts []Option) (Component, error) {
	if err := validateBody(body); err != nil {
		return Component{}, err
	}
	c := Component{kind: kind, body: body}
	for _, opt := range opts {
		opt(&c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	return c, nil
}

func validateBody(b Body) error {
	switch {
	case b.OuterDiameter.IsZero():
		return InvalidGeometryError{Field: "outer_diameter", Reason: "is required"}
	case b.InnerDiameter.IsZero():
		return InvalidGeometryError{Field: "inner_diameter", Reason: "is required"}
	case b.Length.IsZero():
		return InvalidGeometryError{Field: "length", Reason: "is required"}
	case b.StartDepth.IsZero():
		return InvalidGeometryError{Field: "start_depth", Reason: "is required"}
	}
	if b.InnerDiameter.Canonical() <= 0 {
		return InvalidGeometryError{Field: "inner_diameter", Reason: "must be positive"}
	}
	if b.OuterDiameter.Compare(b.InnerDiameter) <= 0 {
		return InvalidGeometryError{Field: "outer_diameter", Reason: "must exceed inner_diameter"}
	}
	if b.Length.Canonical() <= 0 {
		return InvalidGeometryError{Field: "length", Reason: "must be positive"}
	}
	ratings := []struct {
		field string
		q     quantity.Quantity
	}{
		{"yield_strength", b.YieldStrength.Quantity},
		{"torque_rating", b.TorqueRating.Quantity},
		{"burst_rating", b.BurstRating.Quantity},
		{"collapse_rating", b.CollapseRating.Quantity},
	}
	for _, r := range ratings {
		if !r.q.IsZero() && r.q.Canonical() < 0 {
			return quantity.InvalidMagnitudeError{Dimension: r.q.Dimension(), Value: r.q.Value(), Reason: r.field + " must not be negative"}
		}
	}
	return nil
}

// ID returns the component identifier.
func (c Component) ID() string { return c.id }

// Kind returns the variant tag.
func (c Component) Kind() Kind { return c.kind }

// Body returns the shared component data.
func (c Component) Body() Body { return c.body }

// Tool returns the tool payload; ok is false for other variants.
func (c Component) Tool() (ToolInfo, bool) { return c.tool, c.kind == KindTool }

// Liner returns the liner payload; ok is false for other variants.
func (c Component) Liner() (LinerInfo, bool) { return c.liner, c.kind == KindLiner }

// StartDepth returns the depth of the top of the component.
func (c Component) StartDepth() quantity.Depth { return c.body.StartDepth }

// EndDepth returns start depth plus length.
func (c Component) EndDepth() quantity.Depth { return c.body.StartDepth.Below(c.body.Length) }

// Capacity returns the internal volume per unit length, π·(ID/2)².
func (c Component) Capacity() quantity.UnitCapacity {
	id := c.body.InnerDiameter.Canonical()
	return quantity.Must(quantity.NewUnitCapacity(math.Pi*id*id/4, quantity.M3PerMeter))
}

// Displacement returns the steel volume per unit length, π/4·(OD² − ID²).
func (c Component) Displacement() quantity.UnitCapacity {
	od := c.body.OuterDiameter.Canonical()
	id := c.body.InnerDiameter.Canonical()
	return quantity.Must(quantity.NewUnitCapacity(math.Pi*(od*od-id*id)/4, quantity.M3PerMeter))
}

// InternalVolume returns capacity times length.
func (c Component) InternalVolume() quantity.Volume {
	return c.Capacity().Over(c.body.Length)
}

// Overlap returns the signed distance from this liner's start depth up to the
// end depth of previous. Positive values are a true overlap, negative values a
// gap between the previous shoe and the top of the liner.
func (c Component) Overlap(previous Component) (quantity.Length, error) {
	if c.kind != KindLiner {
		return quantity.Length{}, ErrNotLiner
	}
	if !previous.kind.Valid() {
		return quantity.Length{}, ErrUnconstructed
	}
	return previous.EndDepth().Sub(c.body.StartDepth), nil
}

// Install marks the liner as hung below another component. It may be called
// once per liner.
func (c *Component) Install() error {
	if c.kind != KindLiner {
		return ErrNotLiner
	}
	if c.liner.InstalledBelow {
		return ErrLinerInstalled
	}
	c.liner = LinerInfo{
		InstalledBelow: true,
		TopOfLiner:     c.body.StartDepth,
		ShoeDepth:      c.EndDepth(),
	}
	return nil
}
