package store

import (
	"context"
	"errors"
)

// Row is one worksheet data row keyed by column name. Every cell round-trips
// as text; typing is the caller's job.
type Row = map[string]string

// ErrUnavailable marks any failure to reach the backing store. Callers treat
// a wrapped ErrUnavailable as "nothing committed".
var ErrUnavailable = errors.New("table store unavailable")

// TableStore is the only contract the ledger has with its persistence. The
// three primitives match what a spreadsheet service offers: read a whole
// worksheet, replace a whole worksheet, delete one row by its 1-based number
// (row 1 being the header).
//
// There are no partial updates and no transactions; the ledger layers its
// own read-modify-overwrite protocol on top.
type TableStore interface {
	ReadAll(ctx context.Context, table string) ([]Row, error)
	OverwriteAll(ctx context.Context, table string, header []string, rows [][]string) error
	DeleteRow(ctx context.Context, table string, rowNumber int) error
}
