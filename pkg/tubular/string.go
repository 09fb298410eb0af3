package tubular

import "fieldtrax/pkg/quantity"

// String is an ordered run of components keyed by non-decreasing start depth.
// A String is not safe for concurrent mutation.
type String struct {
	components []Component
}

// Overlap pairs an installed liner with the component it hangs below.
type Overlap struct {
	LinerID    string
	PreviousID string
	Length     quantity.Length
}

// NewString returns an empty string.
func NewString() *String {
	return &String{}
}

// Append adds a copy of c below the current components and returns the stored
// copy. A liner appended below an existing component is installed.
func (s *String) Append(c Component) (Component, error) {
	if !c.kind.Valid() {
		return Component{}, ErrUnconstructed
	}
	if n := len(s.components); n > 0 {
		prev := s.components[n-1]
		if c.StartDepth().Compare(prev.StartDepth()) < 0 {
			return Component{}, OutOfOrderError{ID: c.id, Start: c.StartDepth(), Previous: prev.StartDepth()}
		}
		if c.kind == KindLiner {
			if err := c.Install(); err != nil {
				return Component{}, err
			}
		}
	}
	s.components = append(s.components, c)
	return c, nil
}

// Components returns a copy of the components in order.
func (s *String) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}

// Len returns the number of components.
func (s *String) Len() int { return len(s.components) }

// EndDepth returns the deepest end depth in the string, or the datum when empty.
func (s *String) EndDepth() quantity.Depth {
	deepest := quantity.ZeroDepth
	for i, c := range s.components {
		if end := c.EndDepth(); i == 0 || end.Compare(deepest) > 0 {
			deepest = end
		}
	}
	return deepest
}

// TotalLength sums the component lengths.
func (s *String) TotalLength() quantity.Length {
	total := quantity.Must(quantity.NewLength(0, quantity.Meter))
	for _, c := range s.components {
		total = total.Add(c.body.Length)
	}
	return total
}

// InternalVolume sums capacity times length over every component.
func (s *String) InternalVolume() quantity.Volume {
	total := quantity.Must(quantity.NewVolume(0, quantity.CubicMeter))
	for _, c := range s.components {
		total = total.Add(c.InternalVolume())
	}
	return total
}

// Overlaps reports each installed liner against its predecessor.
func (s *String) Overlaps() []Overlap {
	var out []Overlap
	for i := 1; i < len(s.components); i++ {
		c := s.components[i]
		if info, ok := c.Liner(); !ok || !info.InstalledBelow {
			continue
		}
		prev := s.components[i-1]
		length, err := c.Overlap(prev)
		if err != nil {
			continue
		}
		out = append(out, Overlap{LinerID: c.id, PreviousID: prev.id, Length: length})
	}
	return out
}

// At returns the component spanning depth, preferring the most recently
// appended one where components overlap. Intervals are [start, end).
func (s *String) At(depth quantity.Depth) (Component, bool) {
	for i := len(s.components) - 1; i >= 0; i-- {
		c := s.components[i]
		if depth.Compare(c.StartDepth()) >= 0 && depth.Compare(c.EndDepth()) < 0 {
			return c, true
		}
	}
	return Component{}, false
}
