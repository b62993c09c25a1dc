package models

import (
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the cell format for all date columns, matching the
// original workbook ("2006/01/02 15:04").
const DateTimeLayout = "2006/01/02 15:04"

// Paid column values.
const (
	PaidYes = "Y"
	PaidNo  = "N"
)

// InvoiceLine mirrors one row of cp_invoices. Id is the true row key, unique
// across the whole worksheet; InvoiceNo is shared by every line added in the
// same operation.
type InvoiceLine struct {
	ID           int
	InvoiceNo    int
	CustomerID   int
	StockNo      int
	OrderDate    time.Time
	InvoiceDate  time.Time
	PaymentDate  time.Time // zero until the line is paid
	InvoiceType  ProductLine
	Quantity     int
	UnitPrice    float64
	InvoiceTotal float64
	Paid         bool
}

var InvoiceColumns = []string{
	"Id", "InvoiceNo", "CustomerID", "StockNo", "OrderDate", "InvoiceDate",
	"PaymentDate", "InvoiceType", "Quantity", "UnitPrice", "InvoiceTotal",
	"Paid",
}

func InvoiceLineFromRow(row map[string]string) InvoiceLine {
	return InvoiceLine{
		ID:           atoi(row["Id"]),
		InvoiceNo:    atoi(row["InvoiceNo"]),
		CustomerID:   atoi(row["CustomerID"]),
		StockNo:      atoi(row["StockNo"]),
		OrderDate:    parseDate(row["OrderDate"]),
		InvoiceDate:  parseDate(row["InvoiceDate"]),
		PaymentDate:  parseDate(row["PaymentDate"]),
		InvoiceType:  ProductLine(atoi(row["InvoiceType"])),
		Quantity:     atoi(row["Quantity"]),
		UnitPrice:    parseMoney(row["UnitPrice"]),
		InvoiceTotal: parseMoney(row["InvoiceTotal"]),
		Paid:         strings.EqualFold(strings.TrimSpace(row["Paid"]), PaidYes),
	}
}

// Values serializes the line in InvoiceColumns order. PaymentDate is written
// as the empty cell while the line is unpaid.
func (l InvoiceLine) Values() []string {
	return []string{
		strconv.Itoa(l.ID),
		strconv.Itoa(l.InvoiceNo),
		strconv.Itoa(l.CustomerID),
		strconv.Itoa(l.StockNo),
		formatDate(l.OrderDate),
		formatDate(l.InvoiceDate),
		formatDate(l.PaymentDate),
		strconv.Itoa(int(l.InvoiceType)),
		strconv.Itoa(l.Quantity),
		FormatMoney(l.UnitPrice),
		FormatMoney(l.InvoiceTotal),
		l.paidValue(),
	}
}

func (l InvoiceLine) paidValue() string {
	if l.Paid {
		return PaidYes
	}
	return PaidNo
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func parseMoney(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatMoney renders an amount with two decimals, the form every money cell
// is written in.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
