package tubular

import (
	"errors"
	"fmt"

	"fieldtrax/pkg/quantity"
)

var (
	// ErrNotLiner is returned when a liner-only operation is invoked on a pipe or tool.
	ErrNotLiner = errors.New("component is not a liner")
	// ErrLinerInstalled is returned when a liner is installed a second time.
	ErrLinerInstalled = errors.New("liner already installed")
	// ErrUnconstructed is returned for zero-value components that bypassed the constructors.
	ErrUnconstructed = errors.New("component was not constructed")
	// ErrMissingName is returned when a tool has no display name.
	ErrMissingName = errors.New("tool name is required")
)

// InvalidGeometryError reports a body whose dimensions cannot describe a tubular.
type InvalidGeometryError struct {
	Field  string
	Reason string
}

func (e InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s %s", e.Field, e.Reason)
}

// OutOfOrderError is returned when a component starts shallower than the one before it.
type OutOfOrderError struct {
	ID       string
	Start    quantity.Depth
	Previous quantity.Depth
}

func (e OutOfOrderError) Error() string {
	return fmt.Sprintf("component %s starts at %s, above previous start %s", e.ID, e.Start, e.Previous)
}
