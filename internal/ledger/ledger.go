// Package ledger treats the five workbook worksheets as a small relational
// database: it joins them, allocates surrogate identifiers, applies payment
// transitions, and writes whole-table snapshots back through the TableStore.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cpretorius/huiswinkel/internal/models"
	"github.com/cpretorius/huiswinkel/internal/store"
)

// All timestamps are written in South African time, like the original
// workbook.
var johannesburg = func() *time.Location {
	loc, err := time.LoadLocation("Africa/Johannesburg")
	if err != nil {
		return time.FixedZone("SAST", 2*60*60)
	}
	return loc
}()

// Ledger owns the snapshot cache and serializes every mutation behind one
// mutex. The lock only covers this process: two processes writing the same
// spreadsheet can still race, which matches the single-operator deployment.
type Ledger struct {
	store store.TableStore
	cache *SnapshotCache

	mu  sync.Mutex
	now func() time.Time
}

func New(ts store.TableStore) *Ledger {
	return &Ledger{
		store: ts,
		cache: NewSnapshotCache(ts),
		now:   func() time.Time { return time.Now().In(johannesburg) },
	}
}

// ForceRefresh drops every cached snapshot so the next read refetches.
func (l *Ledger) ForceRefresh() {
	l.cache.InvalidateAll()
}

// Ping checks store reachability, bypassing the cache.
func (l *Ledger) Ping(ctx context.Context) error {
	_, err := l.store.ReadAll(ctx, models.TableCustomers)
	return err
}

// ---- reads ----

func (l *Ledger) Customers(ctx context.Context) ([]models.Customer, error) {
	rows, err := l.cache.Load(ctx, models.TableCustomers)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CustomerFromRow(r))
	}
	return out, nil
}

func (l *Ledger) Stock(ctx context.Context, line models.ProductLine) ([]models.StockItem, error) {
	if !line.Valid() {
		return nil, validationf("invalid product line %d", line)
	}
	rows, err := l.cache.Load(ctx, line.StockTable())
	if err != nil {
		return nil, err
	}
	out := make([]models.StockItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.StockItemFromRow(r))
	}
	return out, nil
}

func (l *Ledger) InvoiceLines(ctx context.Context) ([]models.InvoiceLine, error) {
	rows, err := l.cache.Load(ctx, models.TableInvoices)
	if err != nil {
		return nil, err
	}
	out := make([]models.InvoiceLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.InvoiceLineFromRow(r))
	}
	return out, nil
}

// ---- mutations ----
//
// Every mutation follows the same protocol: take the writer lock, force a
// fresh load of the touched relations, compute the new table in memory,
// overwrite the whole remote relation, and invalidate the cache. The cache is
// invalidated even when the write fails, because after an ambiguous failure
// the in-memory copy cannot be trusted.

// AddCustomer appends a new customer row and returns it with its allocated
// CustomerID. Nothing is rejected: the source never enforced uniqueness on
// names or emails.
func (l *Ledger) AddCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.InvalidateAll()
	customers, err := l.Customers(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	ids := make([]int, 0, len(customers))
	for _, ex := range customers {
		ids = append(ids, ex.CustomerID)
	}
	c.CustomerID = NextID(ids)

	rows := make([][]string, 0, len(customers)+1)
	for _, ex := range customers {
		rows = append(rows, ex.Values())
	}
	rows = append(rows, c.Values())
	if err := l.overwrite(ctx, models.TableCustomers, models.CustomerColumns, rows); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// AddStockItem appends a catalog item for the given line. A name already in
// the catalog (trimmed, case-sensitive) rejects the operation.
func (l *Ledger) AddStockItem(ctx context.Context, line models.ProductLine, name string) (models.StockItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.StockItem{}, validationf("stock name is required")
	}
	if !line.Valid() {
		return models.StockItem{}, validationf("invalid product line %d", line)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.InvalidateAll()
	items, err := l.Stock(ctx, line)
	if err != nil {
		return models.StockItem{}, err
	}
	ids := make([]int, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.StockName) == name {
			return models.StockItem{}, validationf("stock item %q already exists in %s", name, line)
		}
		ids = append(ids, it.StockNo)
	}
	item := models.StockItem{StockNo: NextID(ids), StockName: name}

	rows := make([][]string, 0, len(items)+1)
	for _, it := range items {
		rows = append(rows, it.Values())
	}
	rows = append(rows, item.Values())
	if err := l.overwrite(ctx, line.StockTable(), models.StockColumns, rows); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

// ItemInput is one chosen catalog item on a new invoice.
type ItemInput struct {
	StockNo   int
	Quantity  int
	UnitPrice float64
}

// AddInvoice creates one logical invoice: every item becomes a line sharing
// one freshly allocated InvoiceNo, with distinct strictly increasing Ids.
// The customer and every stock number must exist; the ledger refuses to mint
// new dangling references even though it tolerates legacy ones in joins.
func (l *Ledger) AddInvoice(ctx context.Context, line models.ProductLine, customerID int, orderDate time.Time, items []ItemInput) ([]models.InvoiceLine, error) {
	if !line.Valid() {
		return nil, validationf("invalid product line %d", line)
	}
	if len(items) == 0 {
		return nil, validationf("invoice needs at least one item")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, validationf("quantity must be positive for stock %d", it.StockNo)
		}
		if it.UnitPrice < 0 {
			return nil, validationf("unit price cannot be negative for stock %d", it.StockNo)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.InvalidateAll()
	customers, err := l.Customers(ctx)
	if err != nil {
		return nil, err
	}
	if !customerExists(customers, customerID) {
		return nil, validationf("customer %d not found", customerID)
	}
	stock, err := l.Stock(ctx, line)
	if err != nil {
		return nil, err
	}
	stockNos := map[int]bool{}
	for _, it := range stock {
		stockNos[it.StockNo] = true
	}
	for _, it := range items {
		if !stockNos[it.StockNo] {
			return nil, validationf("stock %d not found in %s", it.StockNo, line)
		}
	}

	existing, err := l.InvoiceLines(ctx)
	if err != nil {
		return nil, err
	}
	invoiceNos := make([]int, 0, len(existing))
	for _, ln := range existing {
		invoiceNos = append(invoiceNos, ln.InvoiceNo)
	}
	invoiceNo := NextID(invoiceNos)

	now := l.now()
	if orderDate.IsZero() {
		orderDate = now
	}

	// Each Id allocation scans the working table including the lines just
	// appended, so Ids within one invoice cannot collide.
	working := append([]models.InvoiceLine(nil), existing...)
	added := make([]models.InvoiceLine, 0, len(items))
	for _, it := range items {
		ids := make([]int, 0, len(working))
		for _, ln := range working {
			ids = append(ids, ln.ID)
		}
		nl := models.InvoiceLine{
			ID:           NextID(ids),
			InvoiceNo:    invoiceNo,
			CustomerID:   customerID,
			StockNo:      it.StockNo,
			OrderDate:    orderDate,
			InvoiceDate:  now,
			InvoiceType:  line,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			InvoiceTotal: float64(it.Quantity) * it.UnitPrice,
			Paid:         false,
		}
		working = append(working, nl)
		added = append(added, nl)
	}

	if err := l.overwriteInvoices(ctx, working); err != nil {
		return nil, err
	}
	return added, nil
}

// MarkPaid sets Paid="Y" and PaymentDate=now on each selected line. Already
// paid lines are left untouched and unknown ids are skipped, so a stale
// selection is harmless and the operation is idempotent. Returns how many
// lines actually changed.
func (l *Ledger) MarkPaid(ctx context.Context, ids []int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.InvalidateAll()
	lines, err := l.InvoiceLines(ctx)
	if err != nil {
		return 0, err
	}
	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	now := l.now()
	changed := 0
	for i := range lines {
		if wanted[lines[i].ID] && !lines[i].Paid {
			lines[i].Paid = true
			lines[i].PaymentDate = now
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := l.overwriteInvoices(ctx, lines); err != nil {
		return 0, err
	}
	return changed, nil
}

// DeleteLines removes the selected lines from cp_invoices. Remote rows are
// deleted in descending row order so earlier deletions never shift the
// positions of later ones. Unknown ids are skipped. Returns how many rows
// were deleted.
func (l *Ledger) DeleteLines(ctx context.Context, ids []int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.InvalidateAll()
	lines, err := l.InvoiceLines(ctx)
	if err != nil {
		return 0, err
	}
	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var positions []int
	for i, ln := range lines {
		if wanted[ln.ID] {
			positions = append(positions, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))

	// After the first delete the snapshot no longer matches the remote
	// table, so invalidate no matter how far the batch got.
	defer l.cache.InvalidateAll()
	for _, pos := range positions {
		// 0-based snapshot position -> 1-based worksheet row, plus the
		// header row.
		if err := l.store.DeleteRow(ctx, models.TableInvoices, pos+2); err != nil {
			return 0, fmt.Errorf("delete invoice rows: %w", err)
		}
	}
	return len(positions), nil
}

func customerExists(customers []models.Customer, id int) bool {
	for _, c := range customers {
		if c.CustomerID == id {
			return true
		}
	}
	return false
}

func (l *Ledger) overwriteInvoices(ctx context.Context, lines []models.InvoiceLine) error {
	rows := make([][]string, 0, len(lines))
	for _, ln := range lines {
		rows = append(rows, ln.Values())
	}
	return l.overwrite(ctx, models.TableInvoices, models.InvoiceColumns, rows)
}

func (l *Ledger) overwrite(ctx context.Context, table string, header []string, rows [][]string) error {
	err := l.store.OverwriteAll(ctx, table, header, rows)
	l.cache.InvalidateAll()
	if err != nil {
		return fmt.Errorf("overwrite %s: %w", table, err)
	}
	return nil
}
