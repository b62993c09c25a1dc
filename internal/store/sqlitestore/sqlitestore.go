// Package sqlitestore keeps the workbook in a local sqlite file with the
// same shape the spreadsheet service exposes: one header plus ordered rows
// per worksheet. It exists for offline use and for tests that want real
// persistence without Google credentials.
package sqlitestore

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cpretorius/huiswinkel/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type sheetHeader struct {
	Sheet   string `gorm:"primaryKey;column:sheet"`
	Columns string `gorm:"column:columns"` // JSON array of column names
}

func (sheetHeader) TableName() string { return "sheet_headers" }

type sheetRow struct {
	Sheet    string `gorm:"primaryKey;column:sheet"`
	Position int    `gorm:"primaryKey;column:position"` // 1-based order within the sheet
	Cells    string `gorm:"column:cells"`               // JSON array of cell values
}

func (sheetRow) TableName() string { return "sheet_rows" }

type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dsn and applies schema migrations.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("sqlite store migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	drv, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ReadAll(ctx context.Context, table string) ([]store.Row, error) {
	var hdr sheetHeader
	err := s.db.WithContext(ctx).First(&hdr, "sheet = ?", table).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s header: %v", store.ErrUnavailable, table, err)
	}
	var header []string
	if err := json.Unmarshal([]byte(hdr.Columns), &header); err != nil {
		return nil, fmt.Errorf("read %s: corrupt header: %w", table, err)
	}
	var rows []sheetRow
	if err := s.db.WithContext(ctx).Where("sheet = ?", table).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", store.ErrUnavailable, table, err)
	}
	out := make([]store.Row, 0, len(rows))
	for _, r := range rows {
		var cells []string
		if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
			return nil, fmt.Errorf("read %s: corrupt row %d: %w", table, r.Position, err)
		}
		row := store.Row{}
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

func (s *Store) OverwriteAll(ctx context.Context, table string, header []string, rows [][]string) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sheet = ?", table).Delete(&sheetRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sheet = ?", table).Delete(&sheetHeader{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&sheetHeader{Sheet: table, Columns: string(headerJSON)}).Error; err != nil {
			return err
		}
		for i, cells := range rows {
			cellsJSON, err := json.Marshal(cells)
			if err != nil {
				return err
			}
			if err := tx.Create(&sheetRow{Sheet: table, Position: i + 1, Cells: string(cellsJSON)}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: overwrite %s: %v", store.ErrUnavailable, table, err)
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, table string, rowNumber int) error {
	// Worksheet row 1 is the header; stored data positions start at 1, so
	// worksheet row N maps to position N-1.
	pos := rowNumber - 1
	if pos < 1 {
		return fmt.Errorf("delete %s: row %d out of range", table, rowNumber)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sheet = ? AND position = ?", table, pos).Delete(&sheetRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("row %d not present", rowNumber)
		}
		return tx.Exec(
			"UPDATE sheet_rows SET position = position - 1 WHERE sheet = ? AND position > ?",
			table, pos,
		).Error
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s row %d: %v", store.ErrUnavailable, table, rowNumber, err)
	}
	return nil
}
