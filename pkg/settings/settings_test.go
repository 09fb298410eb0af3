package settings

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldtrax/pkg/quantity"
	"fieldtrax/testutil"
)

func TestRegionPresetsVerbatim(t *testing.T) {
	us := RegionPresets[RegionUS].Map()
	metric := RegionPresets[RegionMetric].Map()
	if us["lengthUnit"] != "ft" || metric["lengthUnit"] != "m" {
		t.Fatalf("unexpected length units %q %q", us["lengthUnit"], metric["lengthUnit"])
	}
	wantUS := map[string]string{
		"lengthUnit": "ft", "pressureUnit": "psi", "temperatureUnit": "F", "weightUnit": "lbs",
		"volumeUnit": "bbl", "densityUnit": "ppg", "torqueUnit": "ft-lbs", "rotationUnit": "rpm",
	}
	wantMetric := map[string]string{
		"lengthUnit": "m", "pressureUnit": "bar", "temperatureUnit": "C", "weightUnit": "kg",
		"volumeUnit": "m³", "densityUnit": "kg/m³", "torqueUnit": "N·m", "rotationUnit": "rpm",
	}
	for _, key := range Keys() {
		if us[key] != wantUS[key] {
			t.Fatalf("US %s: expected %q, got %q", key, wantUS[key], us[key])
		}
		if metric[key] != wantMetric[key] {
			t.Fatalf("METRIC %s: expected %q, got %q", key, wantMetric[key], metric[key])
		}
	}
	if len(us) != 8 || len(metric) != 8 {
		t.Fatalf("expected eight keys per preset")
	}
	places := DefaultDecimalPlaces.Map()
	wantPlaces := map[string]int{"length": 2, "pressure": 1, "temperature": 1, "weight": 1, "volume": 1, "density": 2, "torque": 0}
	for k, v := range wantPlaces {
		if places[k] != v {
			t.Fatalf("decimal places %s: expected %d, got %d", k, v, places[k])
		}
	}
}

func TestPresetUnitsAreRegistered(t *testing.T) {
	for region := range RegionPresets {
		p, err := ForRegion(region)
		if err != nil {
			t.Fatalf("for region: %v", err)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("%s preset invalid: %v", region, err)
		}
	}
	if _, err := ForRegion("MARS"); err == nil {
		t.Fatalf("expected unknown region error")
	}
}

func TestWithOverride(t *testing.T) {
	p := Default()
	custom, err := p.WithOverride(KeyPressure, quantity.Bar)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if custom.Region != RegionCustom || custom.Units.Pressure != quantity.Bar {
		t.Fatalf("unexpected override result %+v", custom)
	}
	if p.Region != RegionUS || p.Units.Pressure != quantity.PSI {
		t.Fatalf("override must not mutate the receiver")
	}
	aliased, err := p.WithOverride(KeyVolume, "m3")
	if err != nil || aliased.Units.Volume != quantity.CubicMeter {
		t.Fatalf("expected alias normalisation, got %v %v", aliased.Units.Volume, err)
	}

	var mismatch quantity.DimensionMismatchError
	if _, err := p.WithOverride(KeyLength, quantity.PSI); !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	var unknown quantity.UnknownUnitError
	if _, err := p.WithOverride(KeyLength, "cubit"); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownUnitError, got %v", err)
	}
	if _, err := p.WithOverride("colourUnit", quantity.Meter); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDisplayAndFormat(t *testing.T) {
	depth := quantity.Must(quantity.NewDepth(2895.6, quantity.Meter))
	us := Default()
	if got := us.Format(depth.Quantity); got != "9500.00 ft" {
		t.Fatalf("unexpected US format %q", got)
	}
	metric, _ := ForRegion(RegionMetric)
	if got := metric.Format(depth.Quantity); got != "2895.60 m" {
		t.Fatalf("unexpected metric format %q", got)
	}
	torque := quantity.Must(quantity.NewTorque(1000, quantity.NewtonMeter))
	if got := us.Format(torque.Quantity); got != "738 ft-lbs" {
		t.Fatalf("unexpected torque format %q", got)
	}
	temp := quantity.Must(quantity.NewTemperature(0, quantity.Celsius))
	if got := us.Format(temp.Quantity); got != "32.0 F" {
		t.Fatalf("unexpected temperature format %q", got)
	}
	half := quantity.Must(quantity.NewPressure(12.25, quantity.PSI))
	v, unit, err := us.Display(half.Quantity)
	if err != nil || unit != quantity.PSI || v.String() != "12.3" {
		t.Fatalf("expected half away from zero rounding, got %v %s %v", v, unit, err)
	}
	visc := quantity.Must(quantity.NewViscosity(22, quantity.Centipoise))
	if got := us.Format(visc.Quantity); got != "22.00 cP" {
		t.Fatalf("expected dimensions without preference to keep their unit, got %q", got)
	}
	if got := us.Format(quantity.Quantity{}); got != "-" {
		t.Fatalf("unexpected unset format %q", got)
	}
	if _, _, err := us.Display(quantity.Quantity{}); err == nil {
		t.Fatalf("expected unset display error")
	}
}

func TestLoadYAML(t *testing.T) {
	src := `
region: METRIC
units:
  pressureUnit: psi
decimalPlaces:
  length: 3
`
	p, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Region != RegionCustom || p.Units.Length != quantity.Meter || p.Units.Pressure != quantity.PSI {
		t.Fatalf("unexpected preferences %+v", p)
	}
	if p.DecimalPlaces.Length != 3 || p.DecimalPlaces.Density != 2 {
		t.Fatalf("unexpected decimal places %+v", p.DecimalPlaces)
	}
}

func TestLoadPresetStaysPreset(t *testing.T) {
	p, err := Load(strings.NewReader(`{"region": "metric", "units": {"lengthUnit": "m"}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Region != RegionMetric {
		t.Fatalf("expected METRIC region, got %s", p.Region)
	}
	empty, err := Load(strings.NewReader(""))
	if err != nil || empty != Default() {
		t.Fatalf("expected default preferences for empty document, got %+v %v", empty, err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown top-level key": "colour: red\n",
		"unknown unit key":      "units:\n  colourUnit: red\n",
		"unknown unit":          "units:\n  lengthUnit: cubit\n",
		"wrong dimension":       "units:\n  lengthUnit: psi\n",
		"unknown places key":    "decimalPlaces:\n  colour: 1\n",
		"negative places":       "decimalPlaces:\n  length: -1\n",
		"unknown region":        "region: MARS\n",
		"malformed":             "units: [\n",
	}
	for name, src := range cases {
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSaveLoadFileRoundTrip(t *testing.T) {
	p, _ := ForRegion(RegionMetric)
	p, err := p.WithOverride(KeyDensity, quantity.PPG)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	var buf bytes.Buffer
	if err := Save(&buf, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(buf.String(), `"densityUnit": "ppg"`) || !strings.Contains(buf.String(), `"decimalPlaces"`) {
		t.Fatalf("unexpected saved document %s", buf.String())
	}
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if back != p {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, p)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if err := Save(&buf, UnitPreferences{}); err == nil {
		t.Fatalf("expected invalid preferences to be rejected")
	}
}

func TestSettingsImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.PackagesForbidden("pkg/tubular", "pkg/fluid", "internal"), "settings only depends on quantity")
}
