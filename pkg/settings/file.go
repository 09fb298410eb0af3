package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fieldtrax/pkg/quantity"
)

// document is the on-disk shape. Maps let missing keys fall back to the preset.
type document struct {
	Region        string            `yaml:"region"`
	Units         map[string]string `yaml:"units"`
	DecimalPlaces map[string]int    `yaml:"decimalPlaces"`
}

// Load reads preferences from YAML or JSON. Keys left out fall back to the
// region preset and default rounding. An empty document yields Default().
func Load(r io.Reader) (UnitPreferences, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return UnitPreferences{}, fmt.Errorf("decode settings: %w", err)
	}
	return doc.preferences()
}

// LoadFile reads preferences from path.
func LoadFile(path string) (UnitPreferences, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return UnitPreferences{}, err
	}
	defer func() { _ = f.Close() }()
	p, err := Load(f)
	if err != nil {
		return UnitPreferences{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (d document) preferences() (UnitPreferences, error) {
	region := RegionUS
	switch {
	case d.Region != "":
		r, err := ParseRegion(d.Region)
		if err != nil {
			return UnitPreferences{}, err
		}
		region = r
	case len(d.Units) > 0:
		region = RegionCustom
	}
	p, err := ForRegion(region)
	if err != nil {
		return UnitPreferences{}, err
	}
	for key, raw := range d.Units {
		dim, ok := DimensionFor(key)
		if !ok {
			return UnitPreferences{}, fmt.Errorf("units.%s: unknown preference key", key)
		}
		unit, err := checkUnit(dim, quantity.Unit(raw))
		if err != nil {
			return UnitPreferences{}, fmt.Errorf("units.%s: %w", key, err)
		}
		*p.Units.slot(key) = unit
	}
	if preset, ok := RegionPresets[p.Region]; ok && preset != p.Units {
		p.Region = RegionCustom
	}
	for key, places := range d.DecimalPlaces {
		slot := p.DecimalPlaces.slot(key)
		if slot == nil {
			return UnitPreferences{}, fmt.Errorf("decimalPlaces.%s: unknown key", key)
		}
		*slot = places
	}
	if err := p.Validate(); err != nil {
		return UnitPreferences{}, err
	}
	return p, nil
}

func (d *DecimalPlaces) slot(key string) *int {
	switch key {
	case "length":
		return &d.Length
	case "pressure":
		return &d.Pressure
	case "temperature":
		return &d.Temperature
	case "weight":
		return &d.Weight
	case "volume":
		return &d.Volume
	case "density":
		return &d.Density
	case "torque":
		return &d.Torque
	}
	return nil
}

// Save writes p as indented JSON, the format the settings collaborator persists.
func Save(w io.Writer, p UnitPreferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
