// Package tally reads and writes tally documents: ordered component lists in
// YAML or JSON where every quantity is a flattened <field>_value / <field>_unit
// pair.
//
//	components:
//	  - kind: pipe
//	    id: csg-1
//	    grade: N80
//	    outer_diameter_value: 9.625
//	    outer_diameter_unit: in
//	    ...
package tally

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fieldtrax/pkg/quantity"
	"fieldtrax/pkg/tubular"
)

// ErrEmpty is returned for a document without components.
var ErrEmpty = errors.New("components entry is empty")

// FieldError locates a decoding failure inside a document.
type FieldError struct {
	Index int
	Field string
	Err   error
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("components[%d]: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("components[%d].%s: %v", e.Index, e.Field, e.Err)
}

func (e FieldError) Unwrap() error { return e.Err }

type document struct {
	Well       string           `yaml:"well,omitempty"`
	Components []map[string]any `yaml:"components"`
}

// quantityField is a flattened pair stored in a Body slot.
type quantityField struct {
	name string
	dim  quantity.Dimension
}

var quantityFields = []quantityField{
	{"outer_diameter", quantity.DimLength},
	{"inner_diameter", quantity.DimLength},
	{"length", quantity.DimLength},
	{"start_depth", quantity.DimLength},
	{"linear_density", quantity.DimLinearDensity},
	{"yield_strength", quantity.DimPressure},
	{"torque_rating", quantity.DimTorque},
	{"burst_rating", quantity.DimPressure},
	{"collapse_rating", quantity.DimPressure},
}

func (f quantityField) get(b tubular.Body) quantity.Quantity {
	switch f.name {
	case "outer_diameter":
		return b.OuterDiameter.Quantity
	case "inner_diameter":
		return b.InnerDiameter.Quantity
	case "length":
		return b.Length.Quantity
	case "start_depth":
		return b.StartDepth.Quantity
	case "linear_density":
		return b.LinearDensity.Quantity
	case "yield_strength":
		return b.YieldStrength.Quantity
	case "torque_rating":
		return b.TorqueRating.Quantity
	case "burst_rating":
		return b.BurstRating.Quantity
	case "collapse_rating":
		return b.CollapseRating.Quantity
	}
	return quantity.Quantity{}
}

func (f quantityField) set(b *tubular.Body, q quantity.Quantity) error {
	var err error
	switch f.name {
	case "outer_diameter":
		b.OuterDiameter, err = quantity.DiameterOf(q)
	case "inner_diameter":
		b.InnerDiameter, err = quantity.DiameterOf(q)
	case "length":
		b.Length, err = quantity.LengthOf(q)
	case "start_depth":
		b.StartDepth, err = quantity.DepthOf(q)
	case "linear_density":
		b.LinearDensity, err = quantity.LinearDensityOf(q)
	case "yield_strength":
		b.YieldStrength, err = quantity.PressureOf(q)
	case "torque_rating":
		b.TorqueRating, err = quantity.TorqueOf(q)
	case "burst_rating":
		b.BurstRating, err = quantity.PressureOf(q)
	case "collapse_rating":
		b.CollapseRating, err = quantity.PressureOf(q)
	}
	return err
}

const (
	keyKind   = "kind"
	keyID     = "id"
	keyName   = "name"
	keyGrade  = "grade"
	keyThread = "thread"
)

var knownKeys = func() map[string]struct{} {
	m := map[string]struct{}{keyKind: {}, keyID: {}, keyName: {}, keyGrade: {}, keyThread: {}}
	for _, f := range quantityFields {
		m[quantity.ValueKey(f.name)] = struct{}{}
		m[quantity.UnitKey(f.name)] = struct{}{}
	}
	return m
}()

// Decode reads a tally document and constructs its components in order.
// JSON documents are accepted as YAML.
func Decode(r io.Reader) ([]tubular.Component, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse tally: %w", err)
	}
	if len(doc.Components) == 0 {
		return nil, ErrEmpty
	}
	out := make([]tubular.Component, 0, len(doc.Components))
	for i, rec := range doc.Components {
		c, err := decodeComponent(i, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeComponent(i int, rec map[string]any) (tubular.Component, error) {
	if unknown := unknownKeys(rec); len(unknown) > 0 {
		return tubular.Component{}, FieldError{Index: i, Field: unknown[0], Err: errors.New("unknown field")}
	}
	kindRaw, err := stringField(rec, keyKind)
	if err != nil {
		return tubular.Component{}, FieldError{Index: i, Field: keyKind, Err: err}
	}
	kind := tubular.Kind(strings.ToLower(kindRaw))
	if !kind.Valid() {
		return tubular.Component{}, FieldError{Index: i, Field: keyKind, Err: fmt.Errorf("unknown kind %q", kindRaw)}
	}
	var body tubular.Body
	for _, f := range quantityFields {
		q, ok, err := quantity.Unflatten(rec, f.name, f.dim)
		if err != nil {
			return tubular.Component{}, FieldError{Index: i, Field: f.name, Err: unwrapField(err, f.name)}
		}
		if !ok {
			continue
		}
		if err := f.set(&body, q); err != nil {
			return tubular.Component{}, FieldError{Index: i, Field: f.name, Err: err}
		}
	}
	strs := make(map[string]string, 4)
	for _, k := range []string{keyID, keyName, keyGrade, keyThread} {
		v, err := stringField(rec, k)
		if err != nil && !errors.Is(err, errMissing) {
			return tubular.Component{}, FieldError{Index: i, Field: k, Err: err}
		}
		strs[k] = v
	}
	body.Grade, body.Thread = strs[keyGrade], strs[keyThread]
	opts := []tubular.Option{tubular.WithID(strs[keyID])}

	var c tubular.Component
	switch kind {
	case tubular.KindPipe:
		c, err = tubular.NewPipe(body, opts...)
	case tubular.KindTool:
		c, err = tubular.NewTool(strs[keyName], body, opts...)
	case tubular.KindLiner:
		c, err = tubular.NewLiner(body, opts...)
	}
	if err != nil {
		var geom tubular.InvalidGeometryError
		if errors.As(err, &geom) {
			return tubular.Component{}, FieldError{Index: i, Field: geom.Field, Err: err}
		}
		if errors.Is(err, tubular.ErrMissingName) {
			return tubular.Component{}, FieldError{Index: i, Field: keyName, Err: err}
		}
		return tubular.Component{}, FieldError{Index: i, Err: err}
	}
	return c, nil
}

var errMissing = errors.New("required")

func stringField(rec map[string]any, key string) (string, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return "", errMissing
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("must be a string, got %T", raw)
	}
	return strings.TrimSpace(s), nil
}

func unknownKeys(rec map[string]any) []string {
	var out []string
	for k := range rec {
		if _, ok := knownKeys[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// unwrapField drops the "<field>: " prefix Unflatten adds, since FieldError
// already names the field.
func unwrapField(err error, field string) error {
	if inner := errors.Unwrap(err); inner != nil && strings.HasPrefix(err.Error(), field+": ") {
		return inner
	}
	return err
}

// Encode writes components as a YAML tally document. Quantities keep the unit
// they were entered in; unset quantities are omitted.
func Encode(w io.Writer, components []tubular.Component) error {
	doc := document{Components: make([]map[string]any, 0, len(components))}
	for _, c := range components {
		rec := map[string]any{keyKind: string(c.Kind()), keyID: c.ID()}
		body := c.Body()
		if tool, ok := c.Tool(); ok {
			rec[keyName] = tool.Name
		}
		if body.Grade != "" {
			rec[keyGrade] = body.Grade
		}
		if body.Thread != "" {
			rec[keyThread] = body.Thread
		}
		for _, f := range quantityFields {
			if q := f.get(body); !q.IsZero() {
				for k, v := range quantity.Flatten(f.name, q) {
					rec[k] = v
				}
			}
		}
		doc.Components = append(doc.Components, rec)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode tally: %w", err)
	}
	return enc.Close()
}
