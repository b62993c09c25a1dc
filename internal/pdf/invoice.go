// Package pdf renders the printable invoice document with maroto. Output is
// a self-contained A4 PDF byte slice, ready for direct download.
package pdf

import (
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/cpretorius/huiswinkel/internal/models"
)

// Item is one line of the items table.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Total     float64
}

// Contact is the issuer block under the banner.
type Contact struct {
	Name  string
	Cell  string
	Email string
}

// Invoice is everything the renderer needs. The caller guarantees all items
// belong to one customer and one invoice number.
type Invoice struct {
	StoreName    string
	InvoiceNo    int
	IssueDate    time.Time
	DueDate      time.Time
	CustomerName string
	Issuer       Contact
	Items        []Item
}

// FormatRand renders an amount as a rand value with two decimals ("R 30.00").
func FormatRand(v float64) string {
	return "R " + models.FormatMoney(v)
}

// Render produces the PDF bytes for one invoice.
func Render(inv Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		row.New(14).Add(
			text.NewCol(12, inv.StoreName, props.Text{
				Size: 20, Style: fontstyle.Bold, Align: align.Center,
			}),
		),
		row.New(6).Add(
			text.NewCol(12, "INVOICE", props.Text{
				Size: 12, Align: align.Center,
			}),
		),
	)

	if inv.Issuer.Name != "" || inv.Issuer.Cell != "" || inv.Issuer.Email != "" {
		m.AddRows(
			row.New(5).Add(text.NewCol(12, inv.Issuer.Name, props.Text{Size: 9})),
			row.New(4).Add(text.NewCol(12, inv.Issuer.Cell, props.Text{Size: 9})),
			row.New(4).Add(text.NewCol(12, inv.Issuer.Email, props.Text{Size: 9})),
		)
	}

	m.AddRows(
		row.New(8),
		row.New(5).Add(
			text.NewCol(6, "Invoice No: "+itoa(inv.InvoiceNo), props.Text{Size: 10, Style: fontstyle.Bold}),
			text.NewCol(6, "Date: "+inv.IssueDate.Format("2006/01/02"), props.Text{Size: 10, Align: align.Right}),
		),
		row.New(5).Add(
			text.NewCol(12, "Billed to: "+inv.CustomerName, props.Text{Size: 10}),
		),
		row.New(6),
	)

	m.AddRows(
		row.New(7).Add(
			text.NewCol(6, "Item", props.Text{Size: 10, Style: fontstyle.Bold}),
			text.NewCol(2, "Qty", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, "Unit Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
		line.NewRow(2),
	)

	var total float64
	for _, it := range inv.Items {
		m.AddRows(row.New(6).Add(
			text.NewCol(6, it.Name, props.Text{Size: 10}),
			text.NewCol(2, itoa(it.Quantity), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, FormatRand(it.UnitPrice), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, FormatRand(it.Total), props.Text{Size: 10, Align: align.Right}),
		))
		total += it.Total
	}

	m.AddRows(
		line.NewRow(2),
		row.New(7).Add(
			col.New(8),
			text.NewCol(2, "TOTAL", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, FormatRand(total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
		row.New(10),
		row.New(5).Add(
			text.NewCol(12, "Payment due by "+inv.DueDate.Format("2006/01/02"), props.Text{Size: 10}),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
