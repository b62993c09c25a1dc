package models

import "strconv"

// StockItem mirrors one row of a stock catalog worksheet. StockNo is unique
// per catalog, not across catalogs.
type StockItem struct {
	StockNo   int
	StockName string
}

var StockColumns = []string{"StockNo", "StockName"}

func StockItemFromRow(row map[string]string) StockItem {
	return StockItem{
		StockNo:   atoi(row["StockNo"]),
		StockName: row["StockName"],
	}
}

func (s StockItem) Values() []string {
	return []string{strconv.Itoa(s.StockNo), s.StockName}
}
