package ledger

import (
	"context"
	"log"
	"sort"

	"github.com/cpretorius/huiswinkel/internal/models"
)

// QueueRow is one joined display row: an invoice line with its customer and
// stock catalog columns resolved.
type QueueRow struct {
	ID              int     `json:"id"`
	InvoiceNo       int     `json:"invoice_no"`
	StockName       string  `json:"stock_name"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	InvoiceTotal    float64 `json:"invoice_total"`
	CustomerName    string  `json:"customer_name"`
	CustomerSurname string  `json:"customer_surname"`
	CustomerCell    string  `json:"customer_cell"`
	OrderDate       string  `json:"order_date"`
	Paid            string  `json:"paid"`
}

// UnpaidQueue inner-joins customers, invoice lines, and the line's stock
// catalog, keeping only unpaid lines of the requested product line, sorted
// ascending by InvoiceNo then Id.
//
// A line whose customer or stock reference is missing drops out of the view
// rather than failing; each dropped line is logged as an integrity warning.
func (l *Ledger) UnpaidQueue(ctx context.Context, line models.ProductLine) ([]QueueRow, error) {
	return l.queue(ctx, line, false)
}

// PaidQueue is the same join filtered to settled lines.
func (l *Ledger) PaidQueue(ctx context.Context, line models.ProductLine) ([]QueueRow, error) {
	return l.queue(ctx, line, true)
}

func (l *Ledger) queue(ctx context.Context, line models.ProductLine, paid bool) ([]QueueRow, error) {
	if !line.Valid() {
		return nil, validationf("invalid product line %d", line)
	}
	customers, err := l.Customers(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := l.Stock(ctx, line)
	if err != nil {
		return nil, err
	}
	lines, err := l.InvoiceLines(ctx)
	if err != nil {
		return nil, err
	}

	custByID := make(map[int]models.Customer, len(customers))
	for _, c := range customers {
		custByID[c.CustomerID] = c
	}
	stockByNo := make(map[int]models.StockItem, len(stock))
	for _, s := range stock {
		stockByNo[s.StockNo] = s
	}

	var out []QueueRow
	for _, ln := range lines {
		if ln.InvoiceType != line || ln.Paid != paid {
			continue
		}
		cust, ok := custByID[ln.CustomerID]
		if !ok {
			log.Printf("[ledger] referential gap: invoice line id=%d references missing customer %d", ln.ID, ln.CustomerID)
			continue
		}
		item, ok := stockByNo[ln.StockNo]
		if !ok {
			log.Printf("[ledger] referential gap: invoice line id=%d references missing stock %d in %s", ln.ID, ln.StockNo, line)
			continue
		}
		out = append(out, QueueRow{
			ID:              ln.ID,
			InvoiceNo:       ln.InvoiceNo,
			StockName:       item.StockName,
			Quantity:        ln.Quantity,
			UnitPrice:       ln.UnitPrice,
			InvoiceTotal:    ln.InvoiceTotal,
			CustomerName:    cust.CustomerName,
			CustomerSurname: cust.CustomerSurname,
			CustomerCell:    cust.CustomerCell,
			OrderDate:       ln.OrderDate.Format(models.DateTimeLayout),
			Paid:            paidFlag(ln.Paid),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].InvoiceNo != out[j].InvoiceNo {
			return out[i].InvoiceNo < out[j].InvoiceNo
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func paidFlag(paid bool) string {
	if paid {
		return models.PaidYes
	}
	return models.PaidNo
}
