package tubular

import (
	"math"
	"testing"

	"fieldtrax/pkg/quantity"
)

func ft(v float64) quantity.Length { return quantity.Must(quantity.NewLength(v, quantity.Foot)) }

func depthFt(v float64) quantity.Depth { return quantity.Must(quantity.NewDepth(v, quantity.Foot)) }

func inch(v float64) quantity.Diameter {
	return quantity.Must(quantity.NewDiameter(v, quantity.Inch))
}

func body(start, length, od, id float64) Body {
	return Body{
		OuterDiameter: inch(od),
		InnerDiameter: inch(id),
		Length:        ft(length),
		StartDepth:    depthFt(start),
	}
}

func mustPipe(t *testing.T, b Body, opts ...Option) Component {
	t.Helper()
	c, err := NewPipe(b, opts...)
	if err != nil {
		t.Fatalf("new pipe: %v", err)
	}
	return c
}

func mustLiner(t *testing.T, b Body, opts ...Option) Component {
	t.Helper()
	c, err := NewLiner(b, opts...)
	if err != nil {
		t.Fatalf("new liner: %v", err)
	}
	return c
}

func inFeet(t *testing.T, q quantity.Quantity) float64 {
	t.Helper()
	v, err := q.In(quantity.Foot)
	if err != nil {
		t.Fatalf("in ft: %v", err)
	}
	return v
}

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b)) }
