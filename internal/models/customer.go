package models

import (
	"strconv"
	"strings"
)

// Customer mirrors one row of cp_customers. Customers are only ever appended;
// there is no edit or delete path.
type Customer struct {
	CustomerID      int
	CustomerName    string
	CustomerSurname string
	CustomerCell    string
	CustomerEmail   string
	Address1        string
	Address2        string
	Address3        string
	Address4        string
	PostalCode      string
}

// CustomerColumns is the worksheet header row, in storage order.
var CustomerColumns = []string{
	"CustomerID", "CustomerName", "CustomerSurname", "CustomerCell",
	"CustomerEmail", "Address1", "Address2", "Address3", "Address4",
	"PostalCode",
}

func CustomerFromRow(row map[string]string) Customer {
	return Customer{
		CustomerID:      atoi(row["CustomerID"]),
		CustomerName:    row["CustomerName"],
		CustomerSurname: row["CustomerSurname"],
		CustomerCell:    strings.TrimSpace(row["CustomerCell"]),
		CustomerEmail:   row["CustomerEmail"],
		Address1:        row["Address1"],
		Address2:        row["Address2"],
		Address3:        row["Address3"],
		Address4:        row["Address4"],
		PostalCode:      row["PostalCode"],
	}
}

// Values serializes the customer in CustomerColumns order.
func (c Customer) Values() []string {
	return []string{
		strconv.Itoa(c.CustomerID), c.CustomerName, c.CustomerSurname,
		c.CustomerCell, c.CustomerEmail, c.Address1, c.Address2,
		c.Address3, c.Address4, c.PostalCode,
	}
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.CustomerName + " " + c.CustomerSurname)
}

// atoi is the lenient parse used for identifier cells: all values round-trip
// as text, and an unparseable key resolves to 0, which no real row carries,
// so the row simply drops out of joins.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
