package models

import (
	"fmt"
	"strings"
)

// Worksheet names in the invoices_app workbook.
const (
	TableCustomers      = "cp_customers"
	TableInvoices       = "cp_invoices"
	TableAvonStock      = "cp_avonstock"
	TableDetergentStock = "cp_detergentstock"
	TableShopStock      = "cp_shopstock"
)

// ProductLine selects one of the three stock catalogs. The numeric values are
// stored verbatim in the InvoiceType column.
type ProductLine int

const (
	LineAvon ProductLine = iota + 1
	LineDetergents
	LineShop
)

func (l ProductLine) Valid() bool {
	return l >= LineAvon && l <= LineShop
}

func (l ProductLine) String() string {
	switch l {
	case LineAvon:
		return "Avon"
	case LineDetergents:
		return "Detergents"
	case LineShop:
		return "Koep en Loep"
	}
	return fmt.Sprintf("ProductLine(%d)", int(l))
}

// StockTable returns the worksheet holding this line's stock catalog.
func (l ProductLine) StockTable() string {
	switch l {
	case LineAvon:
		return TableAvonStock
	case LineDetergents:
		return TableDetergentStock
	case LineShop:
		return TableShopStock
	}
	return ""
}

// ParseLine accepts the short names used in the API ("avon", "detergents",
// "shop") as well as the numeric InvoiceType values.
func ParseLine(s string) (ProductLine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "avon", "1":
		return LineAvon, nil
	case "detergents", "2":
		return LineDetergents, nil
	case "shop", "koep en loep", "3":
		return LineShop, nil
	}
	return 0, fmt.Errorf("unknown product line %q", s)
}
