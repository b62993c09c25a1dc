package pdf

import (
	"bytes"
	"testing"
	"time"
)

func TestFormatRand(t *testing.T) {
	cases := map[float64]string{
		10:     "R 10.00",
		30:     "R 30.00",
		99.985: "R 99.99",
		0:      "R 0.00",
	}
	for in, want := range cases {
		if got := FormatRand(in); got != want {
			t.Errorf("FormatRand(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	data, err := Render(Invoice{
		StoreName:    "Koep en Loep",
		InvoiceNo:    1,
		IssueDate:    time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC),
		DueDate:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CustomerName: "A B",
		Issuer:       Contact{Name: "C Pretorius", Cell: "082 123 4567", Email: "cp@example.com"},
		Items: []Item{
			{Name: "Soap", Quantity: 3, UnitPrice: 10, Total: 30},
		},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", data[:8])
	}
}

func TestRenderNoItems(t *testing.T) {
	data, err := Render(Invoice{StoreName: "Koep en Loep", InvoiceNo: 2, IssueDate: time.Now(), DueDate: time.Now()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}
