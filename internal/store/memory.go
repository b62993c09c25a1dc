package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is the in-process TableStore. It is the reference implementation of
// the contract and the backing used by tests; cmd/server also offers it as
// the "memory" backend for trying the API without credentials.
type Memory struct {
	mu      sync.Mutex
	headers map[string][]string
	rows    map[string][][]string

	failRead  error
	failWrite error
}

func NewMemory() *Memory {
	return &Memory{
		headers: map[string][]string{},
		rows:    map[string][][]string{},
	}
}

// Seed replaces a table's contents without going through the store contract.
// Test fixtures only.
func (m *Memory) Seed(table string, header []string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headers[table] = append([]string(nil), header...)
	m.rows[table] = nil
	for _, r := range rows {
		m.rows[table] = append(m.rows[table], append([]string(nil), r...))
	}
}

// FailReads makes every subsequent read return err (nil restores service).
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = err
}

// FailWrites makes every subsequent overwrite/delete return err.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = err
}

// RawRows returns a copy of a table's cell grid for test assertions.
func (m *Memory) RawRows(table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, 0, len(m.rows[table]))
	for _, r := range m.rows[table] {
		out = append(out, append([]string(nil), r...))
	}
	return out
}

func (m *Memory) ReadAll(_ context.Context, table string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, fmt.Errorf("read %s: %w", table, m.failRead)
	}
	header := m.headers[table]
	out := make([]Row, 0, len(m.rows[table]))
	for _, cells := range m.rows[table] {
		row := Row{}
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *Memory) OverwriteAll(_ context.Context, table string, header []string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return fmt.Errorf("overwrite %s: %w", table, m.failWrite)
	}
	m.headers[table] = append([]string(nil), header...)
	m.rows[table] = nil
	for _, r := range rows {
		m.rows[table] = append(m.rows[table], append([]string(nil), r...))
	}
	return nil
}

func (m *Memory) DeleteRow(_ context.Context, table string, rowNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return fmt.Errorf("delete %s row %d: %w", table, rowNumber, m.failWrite)
	}
	// Row 1 is the header; data starts at row 2.
	idx := rowNumber - 2
	if idx < 0 || idx >= len(m.rows[table]) {
		return fmt.Errorf("delete %s: row %d out of range", table, rowNumber)
	}
	m.rows[table] = append(m.rows[table][:idx], m.rows[table][idx+1:]...)
	return nil
}
