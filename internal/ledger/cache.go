package ledger

import (
	"context"
	"sync"

	"github.com/cpretorius/huiswinkel/internal/store"
)

// SnapshotCache memoizes whole-table reads for the lifetime of the process,
// until InvalidateAll clears it. The ledger owns exactly one instance and
// clears it after every mutation, so the next read refetches ground truth.
//
// Cached snapshots are shared, not copied; callers must treat them as
// read-only and build new slices for writes.
type SnapshotCache struct {
	store store.TableStore

	mu     sync.Mutex
	tables map[string][]store.Row
}

func NewSnapshotCache(ts store.TableStore) *SnapshotCache {
	return &SnapshotCache{store: ts, tables: map[string][]store.Row{}}
}

func (c *SnapshotCache) Load(ctx context.Context, table string) ([]store.Row, error) {
	c.mu.Lock()
	if rows, ok := c.tables[table]; ok {
		c.mu.Unlock()
		return rows, nil
	}
	c.mu.Unlock()

	rows, err := c.store.ReadAll(ctx, table)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tables[table] = rows
	c.mu.Unlock()
	return rows, nil
}

func (c *SnapshotCache) InvalidateAll() {
	c.mu.Lock()
	c.tables = map[string][]store.Row{}
	c.mu.Unlock()
}
