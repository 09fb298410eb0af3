package pairsql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"fieldtrax/pkg/quantity"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE joints (id TEXT PRIMARY KEY, depth_value REAL, depth_unit TEXT, burst_rating_value REAL, burst_rating_unit TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestColumns(t *testing.T) {
	v, u := Columns("total_length")
	if v != "total_length_value" || u != "total_length_unit" {
		t.Fatalf("unexpected columns %s %s", v, u)
	}
}

func TestRoundTripThroughSQLite(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	depth := quantity.Must(quantity.NewDepth(9500, quantity.Foot))
	args := append([]any{"j1"}, Args(depth.Quantity)...)
	args = append(args, Args(quantity.Quantity{})...)
	if _, err := db.ExecContext(ctx, `INSERT INTO joints VALUES (?, ?, ?, ?, ?)`, args...); err != nil {
		t.Fatalf("insert: %v", err)
	}

	row := NewRow("depth", "burst_rating")
	if err := db.QueryRowContext(ctx, `SELECT depth_value, depth_unit, burst_rating_value, burst_rating_unit FROM joints WHERE id = ?`, "j1").Scan(row.Dest()...); err != nil {
		t.Fatalf("scan: %v", err)
	}
	ds, _ := row.Field("depth")
	got, ok, err := ds.Quantity(quantity.DimLength)
	if err != nil || !ok {
		t.Fatalf("depth: ok=%v err=%v", ok, err)
	}
	if got != depth.Quantity {
		t.Fatalf("expected %v, got %v", depth, got)
	}
	bs, _ := row.Field("burst_rating")
	if _, ok, err := bs.Quantity(quantity.DimPressure); ok || err != nil {
		t.Fatalf("expected NULL pair to be absent, got ok=%v err=%v", ok, err)
	}
	if _, ok := row.Field("missing"); ok {
		t.Fatalf("unexpected scanner for missing field")
	}
}

func TestIncompleteAndForeignRows(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `INSERT INTO joints VALUES ('half', 100, NULL, 10, 'bar')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	row := NewRow("depth", "burst_rating")
	if err := db.QueryRowContext(ctx, `SELECT depth_value, depth_unit, burst_rating_value, burst_rating_unit FROM joints`).Scan(row.Dest()...); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, _, err := row[0].Quantity(quantity.DimLength); !errors.Is(err, quantity.ErrIncompletePair) {
		t.Fatalf("expected ErrIncompletePair, got %v", err)
	}
	p, ok, err := row[1].Quantity(quantity.DimPressure)
	if err != nil || !ok || p.Value() != 10 || p.Unit() != quantity.Bar {
		t.Fatalf("expected integer column to scan as 10 bar, got %v %v %v", p, ok, err)
	}
	var unknown quantity.UnknownUnitError
	if _, _, err := row[1].Quantity(quantity.DimLength); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownUnitError for wrong dimension, got %v", err)
	}
}
