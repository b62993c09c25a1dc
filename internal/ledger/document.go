package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cpretorius/huiswinkel/internal/models"
	"github.com/cpretorius/huiswinkel/internal/pdf"
)

// InvoiceDocument renders the printable document for the selected line ids
// and returns the PDF bytes plus the download filename.
//
// All selected lines must belong to one customer and one invoice number;
// mixed selections are rejected rather than silently merged.
func (l *Ledger) InvoiceDocument(ctx context.Context, ids []int, storeName string, issuer pdf.Contact, paymentDue time.Time) ([]byte, string, error) {
	lines, err := l.InvoiceLines(ctx)
	if err != nil {
		return nil, "", err
	}
	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var selected []models.InvoiceLine
	for _, ln := range lines {
		if wanted[ln.ID] {
			selected = append(selected, ln)
		}
	}
	if len(selected) == 0 {
		return nil, "", validationf("no invoice lines selected")
	}
	first := selected[0]
	for _, ln := range selected[1:] {
		if ln.CustomerID != first.CustomerID {
			return nil, "", validationf("selected lines span more than one customer")
		}
		if ln.InvoiceNo != first.InvoiceNo {
			return nil, "", validationf("selected lines span more than one invoice")
		}
	}

	customers, err := l.Customers(ctx)
	if err != nil {
		return nil, "", err
	}
	var customer models.Customer
	found := false
	for _, c := range customers {
		if c.CustomerID == first.CustomerID {
			customer = c
			found = true
			break
		}
	}
	if !found {
		return nil, "", validationf("customer %d not found for invoice %d", first.CustomerID, first.InvoiceNo)
	}

	items := make([]pdf.Item, 0, len(selected))
	for _, ln := range selected {
		name, err := l.stockName(ctx, ln)
		if err != nil {
			return nil, "", err
		}
		items = append(items, pdf.Item{
			Name:      name,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice,
			Total:     ln.InvoiceTotal,
		})
	}

	now := l.now()
	data, err := pdf.Render(pdf.Invoice{
		StoreName:    storeName,
		InvoiceNo:    first.InvoiceNo,
		IssueDate:    now,
		DueDate:      paymentDue,
		CustomerName: customer.FullName(),
		Issuer:       issuer,
		Items:        items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("render invoice %d: %w", first.InvoiceNo, err)
	}

	filename := fmt.Sprintf("%s_%s_%d_%s.pdf",
		sanitizeFilePart(customer.FullName()),
		sanitizeFilePart(storeName),
		first.InvoiceNo,
		now.Format("20060102150405"),
	)
	return data, filename, nil
}

func (l *Ledger) stockName(ctx context.Context, ln models.InvoiceLine) (string, error) {
	stock, err := l.Stock(ctx, ln.InvoiceType)
	if err != nil {
		return "", err
	}
	for _, it := range stock {
		if it.StockNo == ln.StockNo {
			return it.StockName, nil
		}
	}
	return "", validationf("stock %d not found in %s for invoice line %d", ln.StockNo, ln.InvoiceType, ln.ID)
}

func sanitizeFilePart(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, s)
}
