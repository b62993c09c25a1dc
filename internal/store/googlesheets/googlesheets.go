// Package googlesheets backs the TableStore contract with the Google Sheets
// API, which is where the production workbook lives. Worksheets are addressed
// by title inside one spreadsheet, mirroring how the workbook is organised.
package googlesheets

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/cpretorius/huiswinkel/internal/store"
)

type Store struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> sheet id, for row deletes
}

// New authenticates with service-account credentials JSON and binds to one
// spreadsheet by ID. The Sheets API has no open-by-name, so the workbook's ID
// comes from configuration.
func New(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Store, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, sheetIDs: map[string]int64{}}, nil
}

func (s *Store) ReadAll(ctx context.Context, table string) ([]store.Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", store.ErrUnavailable, table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	header := toStrings(resp.Values[0])
	out := make([]store.Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		cells := toStrings(raw)
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
	// Clear first so a shrinking table leaves no stale trailing rows behind.
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, table, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: clear %s: %v", store.ErrUnavailable, table, err)
	}
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaces(header))
	for _, r := range rows {
		values = append(values, toInterfaces(r))
	}
	vr := &sheets.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, table+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: overwrite %s: %v", store.ErrUnavailable, table, err)
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, table string, rowNumber int) error {
	if rowNumber < 2 {
		return fmt.Errorf("delete %s: row %d out of range", table, rowNumber)
	}
	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNumber - 1),
					EndIndex:   int64(rowNumber),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: delete %s row %d: %v", store.ErrUnavailable, table, rowNumber, err)
	}
	return nil
}

func (s *Store) sheetID(ctx context.Context, table string) (int64, error) {
	s.mu.Lock()
	if id, ok := s.sheetIDs[table]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%w: lookup sheet %s: %v", store.ErrUnavailable, table, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := s.sheetIDs[table]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found in spreadsheet", table)
	}
	return id, nil
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toInterfaces(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
