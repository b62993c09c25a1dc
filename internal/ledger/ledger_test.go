package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cpretorius/huiswinkel/internal/models"
	"github.com/cpretorius/huiswinkel/internal/store"
)

// Cell values carry no zone, so a stored date parses back as 09:30 UTC.
// Pinning the fixture clock to UTC keeps instant comparisons valid across a
// store round trip.
var testNow = time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

// newTestLedger seeds the scenario fixture: one customer, one Avon stock
// item, empty invoices.
func newTestLedger(t *testing.T) (*Ledger, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	mem.Seed(models.TableCustomers, models.CustomerColumns,
		models.Customer{CustomerID: 1, CustomerName: "A", CustomerSurname: "B", CustomerCell: "0821234567"}.Values(),
	)
	mem.Seed(models.TableAvonStock, models.StockColumns,
		models.StockItem{StockNo: 10, StockName: "Soap"}.Values(),
	)
	mem.Seed(models.TableInvoices, models.InvoiceColumns)
	l := New(mem)
	l.now = func() time.Time { return testNow }
	return l, mem
}

func addSoapInvoice(t *testing.T, l *Ledger) models.InvoiceLine {
	t.Helper()
	lines, err := l.AddInvoice(context.Background(), models.LineAvon, 1, time.Time{}, []ItemInput{
		{StockNo: 10, Quantity: 3, UnitPrice: 10.00},
	})
	if err != nil {
		t.Fatalf("AddInvoice: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("AddInvoice returned %d lines, want 1", len(lines))
	}
	return lines[0]
}

func TestAddInvoiceScenario(t *testing.T) {
	l, _ := newTestLedger(t)
	ln := addSoapInvoice(t, l)

	if ln.InvoiceNo != 1 || ln.ID != 1 {
		t.Fatalf("got InvoiceNo=%d Id=%d, want 1/1", ln.InvoiceNo, ln.ID)
	}
	if ln.Quantity != 3 || ln.UnitPrice != 10.00 || ln.InvoiceTotal != 30.00 {
		t.Fatalf("got qty=%d price=%.2f total=%.2f", ln.Quantity, ln.UnitPrice, ln.InvoiceTotal)
	}
	if ln.Paid {
		t.Fatal("new line must be unpaid")
	}
	if !ln.InvoiceDate.Equal(testNow) || !ln.OrderDate.Equal(testNow) {
		t.Fatalf("dates not defaulted to now: order=%v invoice=%v", ln.OrderDate, ln.InvoiceDate)
	}

	// The line must have landed in the store, not just in memory.
	stored, err := l.InvoiceLines(context.Background())
	if err != nil {
		t.Fatalf("InvoiceLines: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != 1 {
		t.Fatalf("stored lines = %+v", stored)
	}
}

func TestAddInvoiceMultipleItems(t *testing.T) {
	l, _ := newTestLedger(t)
	if _, err := l.AddStockItem(context.Background(), models.LineAvon, "Lotion"); err != nil {
		t.Fatalf("AddStockItem: %v", err)
	}

	lines, err := l.AddInvoice(context.Background(), models.LineAvon, 1, time.Time{}, []ItemInput{
		{StockNo: 10, Quantity: 2, UnitPrice: 15.50},
		{StockNo: 11, Quantity: 1, UnitPrice: 99.99},
	})
	if err != nil {
		t.Fatalf("AddInvoice: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].InvoiceNo != lines[1].InvoiceNo {
		t.Fatalf("lines do not share an InvoiceNo: %d vs %d", lines[0].InvoiceNo, lines[1].InvoiceNo)
	}
	if lines[1].ID <= lines[0].ID {
		t.Fatalf("ids not strictly increasing: %d then %d", lines[0].ID, lines[1].ID)
	}
	for _, ln := range lines {
		if ln.InvoiceTotal != float64(ln.Quantity)*ln.UnitPrice {
			t.Fatalf("line %d total %.2f != %d x %.2f", ln.ID, ln.InvoiceTotal, ln.Quantity, ln.UnitPrice)
		}
	}
}

func TestAddInvoiceValidations(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		do    func() error
	}{
		{"no items", func() error {
			_, err := l.AddInvoice(ctx, models.LineAvon, 1, time.Time{}, nil)
			return err
		}},
		{"zero quantity", func() error {
			_, err := l.AddInvoice(ctx, models.LineAvon, 1, time.Time{}, []ItemInput{{StockNo: 10, Quantity: 0, UnitPrice: 1}})
			return err
		}},
		{"negative price", func() error {
			_, err := l.AddInvoice(ctx, models.LineAvon, 1, time.Time{}, []ItemInput{{StockNo: 10, Quantity: 1, UnitPrice: -1}})
			return err
		}},
		{"unknown customer", func() error {
			_, err := l.AddInvoice(ctx, models.LineAvon, 99, time.Time{}, []ItemInput{{StockNo: 10, Quantity: 1, UnitPrice: 1}})
			return err
		}},
		{"unknown stock", func() error {
			_, err := l.AddInvoice(ctx, models.LineAvon, 1, time.Time{}, []ItemInput{{StockNo: 404, Quantity: 1, UnitPrice: 1}})
			return err
		}},
		{"invalid line", func() error {
			_, err := l.AddInvoice(ctx, models.ProductLine(9), 1, time.Time{}, []ItemInput{{StockNo: 10, Quantity: 1, UnitPrice: 1}})
			return err
		}},
	}
	for _, tc := range cases {
		if err := tc.do(); !IsValidation(err) {
			t.Errorf("%s: got %v, want validation error", tc.name, err)
		}
	}

	// Nothing may have been written.
	lines, err := l.InvoiceLines(ctx)
	if err != nil {
		t.Fatalf("InvoiceLines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("rejected operations wrote %d lines", len(lines))
	}
}

func TestAddStockItemDuplicateRejected(t *testing.T) {
	l, mem := newTestLedger(t)
	before := mem.RawRows(models.TableAvonStock)

	_, err := l.AddStockItem(context.Background(), models.LineAvon, "  Soap ")
	if !IsValidation(err) {
		t.Fatalf("duplicate add: got %v, want validation error", err)
	}
	after := mem.RawRows(models.TableAvonStock)
	if len(after) != len(before) {
		t.Fatalf("relation changed on rejected add: %d -> %d rows", len(before), len(after))
	}

	// Case differs, so this is a new item.
	item, err := l.AddStockItem(context.Background(), models.LineAvon, "soap")
	if err != nil {
		t.Fatalf("case-sensitive add: %v", err)
	}
	if item.StockNo != 11 {
		t.Fatalf("StockNo = %d, want 11", item.StockNo)
	}
}

func TestAddStockItemEmptyCatalog(t *testing.T) {
	l, _ := newTestLedger(t)
	item, err := l.AddStockItem(context.Background(), models.LineDetergents, "Dishwash")
	if err != nil {
		t.Fatalf("AddStockItem: %v", err)
	}
	if item.StockNo != 1 {
		t.Fatalf("first item in empty catalog got StockNo %d, want 1", item.StockNo)
	}
}

func TestAddCustomerAllocatesNextID(t *testing.T) {
	l, _ := newTestLedger(t)
	c, err := l.AddCustomer(context.Background(), models.Customer{CustomerName: "Jane", CustomerSurname: "Doe"})
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}
	if c.CustomerID != 2 {
		t.Fatalf("CustomerID = %d, want 2", c.CustomerID)
	}
	customers, err := l.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	l, _ := newTestLedger(t)
	ln := addSoapInvoice(t, l)
	ctx := context.Background()

	changed, err := l.MarkPaid(ctx, []int{ln.ID})
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	first, err := l.InvoiceLines(ctx)
	if err != nil {
		t.Fatalf("InvoiceLines: %v", err)
	}
	if !first[0].Paid || !first[0].PaymentDate.Equal(testNow) {
		t.Fatalf("after MarkPaid: paid=%v date=%v", first[0].Paid, first[0].PaymentDate)
	}

	// Second application changes nothing, including the payment date.
	l.now = func() time.Time { return testNow.Add(48 * time.Hour) }
	changed, err = l.MarkPaid(ctx, []int{ln.ID})
	if err != nil {
		t.Fatalf("MarkPaid again: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second MarkPaid changed %d lines", changed)
	}
	second, err := l.InvoiceLines(ctx)
	if err != nil {
		t.Fatalf("InvoiceLines: %v", err)
	}
	if !second[0].PaymentDate.Equal(testNow) {
		t.Fatalf("payment date moved on re-mark: %v", second[0].PaymentDate)
	}
}

func TestMarkPaidUnknownIDIsNoOp(t *testing.T) {
	l, _ := newTestLedger(t)
	addSoapInvoice(t, l)
	changed, err := l.MarkPaid(context.Background(), []int{404})
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}
}

func TestDeleteLinesRemovesExactlySelected(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := l.AddInvoice(ctx, models.LineAvon, 1, time.Time{}, []ItemInput{{StockNo: 10, Quantity: 1, UnitPrice: 5}})
		if err != nil {
			t.Fatalf("AddInvoice %d: %v", i, err)
		}
	}

	// Ids 1..4 exist; delete a non-adjacent pair to exercise descending
	// row deletion.
	deleted, err := l.DeleteLines(ctx, []int{1, 3})
	if err != nil {
		t.Fatalf("DeleteLines: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	lines, err := l.InvoiceLines(ctx)
	if err != nil {
		t.Fatalf("InvoiceLines: %v", err)
	}
	if len(lines) != 2 || lines[0].ID != 2 || lines[1].ID != 4 {
		ids := []int{}
		for _, ln := range lines {
			ids = append(ids, ln.ID)
		}
		t.Fatalf("remaining ids = %v, want [2 4]", ids)
	}

	// Ids are never reused: the next allocation continues past 4.
	added, err := l.AddInvoice(ctx, models.LineAvon, 1, time.Time{}, []ItemInput{{StockNo: 10, Quantity: 1, UnitPrice: 5}})
	if err != nil {
		t.Fatalf("AddInvoice after delete: %v", err)
	}
	if added[0].ID != 5 {
		t.Fatalf("post-delete Id = %d, want 5", added[0].ID)
	}
}

func TestDeleteLinesUnknownIDSkipped(t *testing.T) {
	l, _ := newTestLedger(t)
	addSoapInvoice(t, l)
	deleted, err := l.DeleteLines(context.Background(), []int{404})
	if err != nil {
		t.Fatalf("DeleteLines: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted = %d, want 0", deleted)
	}
}

func TestMutationFailureLeavesStoreUntouched(t *testing.T) {
	l, mem := newTestLedger(t)
	ctx := context.Background()

	mem.FailWrites(store.ErrUnavailable)
	_, err := l.AddStockItem(ctx, models.LineAvon, "Perfume")
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
	mem.FailWrites(nil)

	items, err := l.Stock(ctx, models.LineAvon)
	if err != nil {
		t.Fatalf("Stock: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("failed write still landed: %+v", items)
	}
}

func TestCacheInvalidatedAfterFailedWrite(t *testing.T) {
	l, mem := newTestLedger(t)
	ctx := context.Background()

	// Prime the cache.
	if _, err := l.Stock(ctx, models.LineAvon); err != nil {
		t.Fatalf("Stock: %v", err)
	}
	mem.FailWrites(store.ErrUnavailable)
	if _, err := l.AddStockItem(ctx, models.LineAvon, "Perfume"); err == nil {
		t.Fatal("expected write failure")
	}
	mem.FailWrites(nil)

	// The snapshot must not be trusted after the ambiguous failure: a
	// change made behind the ledger's back is visible on the next read.
	mem.Seed(models.TableAvonStock, models.StockColumns,
		models.StockItem{StockNo: 10, StockName: "Soap"}.Values(),
		models.StockItem{StockNo: 77, StockName: "Added elsewhere"}.Values(),
	)
	items, err := l.Stock(ctx, models.LineAvon)
	if err != nil {
		t.Fatalf("Stock: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("stale snapshot survived failed write: %+v", items)
	}
}

func TestSnapshotCacheMemoizesUntilRefresh(t *testing.T) {
	l, mem := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Customers(ctx); err != nil {
		t.Fatalf("Customers: %v", err)
	}
	mem.Seed(models.TableCustomers, models.CustomerColumns,
		models.Customer{CustomerID: 1, CustomerName: "A", CustomerSurname: "B"}.Values(),
		models.Customer{CustomerID: 2, CustomerName: "C", CustomerSurname: "D"}.Values(),
	)
	cached, err := l.Customers(ctx)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("cache bypassed: got %d customers", len(cached))
	}

	l.ForceRefresh()
	fresh, err := l.Customers(ctx)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("refresh did not refetch: got %d customers", len(fresh))
	}
}

func TestUnpaidQueue(t *testing.T) {
	l, mem := newTestLedger(t)
	ctx := context.Background()

	// Three invoices; pay the second. Add one detergent invoice that must
	// never appear in the Avon queue.
	first := addSoapInvoice(t, l)
	second := addSoapInvoice(t, l)
	addSoapInvoice(t, l)
	if _, err := l.AddStockItem(ctx, models.LineDetergents, "Dishwash"); err != nil {
		t.Fatalf("AddStockItem: %v", err)
	}
	if _, err := l.AddInvoice(ctx, models.LineDetergents, 1, time.Time{}, []ItemInput{{StockNo: 1, Quantity: 1, UnitPrice: 20}}); err != nil {
		t.Fatalf("AddInvoice detergents: %v", err)
	}
	if _, err := l.MarkPaid(ctx, []int{second.ID}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	queue, err := l.UnpaidQueue(ctx, models.LineAvon)
	if err != nil {
		t.Fatalf("UnpaidQueue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue has %d rows, want 2: %+v", len(queue), queue)
	}
	for i, row := range queue {
		if row.Paid != models.PaidNo {
			t.Fatalf("queue row %d is paid", i)
		}
		if row.StockName != "Soap" {
			t.Fatalf("queue row %d stock = %q", i, row.StockName)
		}
		if row.CustomerName != "A" || row.CustomerSurname != "B" {
			t.Fatalf("queue row %d customer = %q %q", i, row.CustomerName, row.CustomerSurname)
		}
	}
	if queue[0].InvoiceNo > queue[1].InvoiceNo {
		t.Fatalf("queue not sorted by InvoiceNo: %d then %d", queue[0].InvoiceNo, queue[1].InvoiceNo)
	}
	if queue[0].ID != first.ID {
		t.Fatalf("queue[0].ID = %d, want %d", queue[0].ID, first.ID)
	}

	paid, err := l.PaidQueue(ctx, models.LineAvon)
	if err != nil {
		t.Fatalf("PaidQueue: %v", err)
	}
	if len(paid) != 1 || paid[0].ID != second.ID {
		t.Fatalf("paid queue = %+v", paid)
	}

	// A dangling customer reference drops from the view instead of erroring.
	orphan := models.InvoiceLine{
		ID: 99, InvoiceNo: 99, CustomerID: 404, StockNo: 10,
		InvoiceType: models.LineAvon, Quantity: 1, UnitPrice: 1, InvoiceTotal: 1,
	}
	rows := mem.RawRows(models.TableInvoices)
	rows = append(rows, orphan.Values())
	mem.Seed(models.TableInvoices, models.InvoiceColumns, rows...)
	l.ForceRefresh()

	queue, err = l.UnpaidQueue(ctx, models.LineAvon)
	if err != nil {
		t.Fatalf("UnpaidQueue with orphan: %v", err)
	}
	for _, row := range queue {
		if row.ID == orphan.ID {
			t.Fatal("orphaned line leaked into the queue")
		}
	}
}

func TestUnpaidQueueEmptyAfterPayment(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	ln := addSoapInvoice(t, l)
	if _, err := l.MarkPaid(ctx, []int{ln.ID}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	queue, err := l.UnpaidQueue(ctx, models.LineAvon)
	if err != nil {
		t.Fatalf("UnpaidQueue: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("queue not empty after payment: %+v", queue)
	}
}
