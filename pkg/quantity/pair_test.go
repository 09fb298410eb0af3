package quantity

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFlattenUnflatten(t *testing.T) {
	depth := Must(NewDepth(9500, Foot))
	record := Flatten("depth", depth.Quantity)
	if record["depth_value"] != 9500.0 || record["depth_unit"] != "ft" {
		t.Fatalf("unexpected flattened record %+v", record)
	}
	got, ok, err := Unflatten(record, "depth", DimLength)
	if err != nil || !ok {
		t.Fatalf("unflatten: ok=%v err=%v", ok, err)
	}
	if got != depth.Quantity {
		t.Fatalf("expected %v, got %v", depth, got)
	}
}

func TestUnflattenAbsentAndIncomplete(t *testing.T) {
	_, ok, err := Unflatten(map[string]any{}, "total_length", DimLength)
	if ok || err != nil {
		t.Fatalf("expected absent pair, got ok=%v err=%v", ok, err)
	}
	empty := Flatten("total_length", Quantity{})
	if _, ok, err := Unflatten(empty, "total_length", DimLength); ok || err != nil {
		t.Fatalf("expected nil pair to be absent, got ok=%v err=%v", ok, err)
	}
	_, _, err = Unflatten(map[string]any{"total_length_value": 3.0}, "total_length", DimLength)
	if !errors.Is(err, ErrIncompletePair) {
		t.Fatalf("expected ErrIncompletePair, got %v", err)
	}
	_, _, err = Unflatten(map[string]any{"total_length_value": 3.0, "total_length_unit": 7}, "total_length", DimLength)
	if err == nil {
		t.Fatalf("expected non-string unit error")
	}
}

func TestUnflattenNumericTypesAndUnitErrors(t *testing.T) {
	record := map[string]any{"mw_value": json.Number("10.5"), "mw_unit": "ppg"}
	q, ok, err := Unflatten(record, "mw", DimDensity)
	if err != nil || !ok || q.Value() != 10.5 {
		t.Fatalf("unexpected json.Number decode: %v %v %v", q, ok, err)
	}
	record = map[string]any{"len_value": 40, "len_unit": "ft"}
	if q, _, err := Unflatten(record, "len", DimLength); err != nil || q.Value() != 40 {
		t.Fatalf("unexpected int decode: %v %v", q, err)
	}
	record = map[string]any{"len_value": 40, "len_unit": "psi"}
	_, _, err = Unflatten(record, "len", DimLength)
	var unknown UnknownUnitError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownUnitError, got %v", err)
	}
	record = map[string]any{"len_value": []int{1}, "len_unit": "ft"}
	if _, _, err := Unflatten(record, "len", DimLength); err == nil {
		t.Fatalf("expected unsupported value type error")
	}
}

func TestPairJSON(t *testing.T) {
	p := Must(NewPressure(5000, PSI)).Pair()
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"value":5000,"unit":"psi"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var back Pair
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	q, err := FromPair(DimPressure, back)
	if err != nil {
		t.Fatalf("from pair: %v", err)
	}
	if q.Value() != 5000 || q.Unit() != PSI {
		t.Fatalf("unexpected quantity %v", q)
	}
}
