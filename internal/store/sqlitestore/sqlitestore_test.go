package sqlitestore

import (
	"context"
	"fmt"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadAllUnknownSheet(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.ReadAll(context.Background(), "cp_invoices")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("unknown sheet returned %d rows", len(rows))
	}
}

func TestOverwriteRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.OverwriteAll(ctx, "cp_avonstock", []string{"StockNo", "StockName"}, [][]string{
		{"10", "Soap"},
		{"11", "Lotion"},
	})
	if err != nil {
		t.Fatalf("OverwriteAll: %v", err)
	}
	rows, err := s.ReadAll(ctx, "cp_avonstock")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 || rows[0]["StockName"] != "Soap" || rows[1]["StockNo"] != "11" {
		t.Fatalf("rows = %+v", rows)
	}

	// A shrinking overwrite leaves no stale rows behind.
	if err := s.OverwriteAll(ctx, "cp_avonstock", []string{"StockNo", "StockName"}, [][]string{{"10", "Soap"}}); err != nil {
		t.Fatalf("second OverwriteAll: %v", err)
	}
	rows, _ = s.ReadAll(ctx, "cp_avonstock")
	if len(rows) != 1 {
		t.Fatalf("stale rows survived overwrite: %+v", rows)
	}
}

func TestDeleteRowRenumbers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.OverwriteAll(ctx, "cp_invoices", []string{"Id"}, [][]string{
		{"1"}, {"2"}, {"3"}, {"4"},
	})
	if err != nil {
		t.Fatalf("OverwriteAll: %v", err)
	}

	// Worksheet row 3 is the second data row. After it goes, the old row 4
	// becomes row 3 and can be deleted by its new number.
	if err := s.DeleteRow(ctx, "cp_invoices", 3); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if err := s.DeleteRow(ctx, "cp_invoices", 3); err != nil {
		t.Fatalf("DeleteRow after renumber: %v", err)
	}
	rows, err := s.ReadAll(ctx, "cp_invoices")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 || rows[0]["Id"] != "1" || rows[1]["Id"] != "4" {
		t.Fatalf("rows = %+v", rows)
	}

	if err := s.DeleteRow(ctx, "cp_invoices", 1); err == nil {
		t.Fatal("deleting the header row must fail")
	}
	if err := s.DeleteRow(ctx, "cp_invoices", 99); err == nil {
		t.Fatal("out-of-range delete must fail")
	}
}
