// Package excel internal/infrastructure/excel/workbook.go
package excel

import (
	"fmt"
	"strings"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const (
	ratesSheet = "Rates"
	metaSheet  = "Meta"
	statsSheet = "Stats"
)

// WorkbookWriter renders an export result as an .xlsx workbook
type WorkbookWriter struct{}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// Write builds the workbook: a Rates sheet with one row per date and one
// column per requested currency (missing cells stay blank so they cannot be
// mistaken for zero), a Meta sheet with the query fields as key/value rows,
// and a Stats sheet with per-currency min/max/mean.
func (w *WorkbookWriter) Write(table *entity.RateTable, meta entity.QueryMeta, stats []entity.CurrencyStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ratesSheet); err != nil {
		return nil, fmt.Errorf("failed to name rates sheet: %w", err)
	}

	if err := w.writeRates(f, table); err != nil {
		return nil, err
	}
	if err := w.writeMeta(f, meta); err != nil {
		return nil, err
	}
	if err := w.writeStats(f, stats); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func (w *WorkbookWriter) writeRates(f *excelize.File, table *entity.RateTable) error {
	if err := setCell(f, ratesSheet, 1, 1, "Date"); err != nil {
		return err
	}
	for i, currency := range table.Columns {
		if err := setCell(f, ratesSheet, i+2, 1, currency); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		if err := setCell(f, ratesSheet, 1, r+2, row.Date.Format(entity.ISODate)); err != nil {
			return err
		}
		for c, cell := range row.Cells {
			if cell == nil {
				continue
			}
			if err := setCell(f, ratesSheet, c+2, r+2, *cell); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *WorkbookWriter) writeMeta(f *excelize.File, meta entity.QueryMeta) error {
	if _, err := f.NewSheet(metaSheet); err != nil {
		return fmt.Errorf("failed to create meta sheet: %w", err)
	}

	rows := [][2]string{
		{"Key", "Value"},
		{"Base", meta.Base},
		{"Symbols", strings.Join(meta.Targets, ", ")},
		{"Start", meta.Range.Start.Format(entity.ISODate)},
		{"End", meta.Range.End.Format(entity.ISODate)},
		{"Endpoint", meta.Source},
		{"Generated", meta.FetchedAt.UTC().Format("2006-01-02T15:04:05") + "Z"},
	}

	for i, kv := range rows {
		if err := setCell(f, metaSheet, 1, i+1, kv[0]); err != nil {
			return err
		}
		if err := setCell(f, metaSheet, 2, i+1, kv[1]); err != nil {
			return err
		}
	}

	return nil
}

func (w *WorkbookWriter) writeStats(f *excelize.File, stats []entity.CurrencyStats) error {
	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("failed to create stats sheet: %w", err)
	}

	header := []string{"Currency", "Min", "Max", "Mean", "Observations"}
	for i, h := range header {
		if err := setCell(f, statsSheet, i+1, 1, h); err != nil {
			return err
		}
	}

	for r, s := range stats {
		values := []interface{}{s.Currency, s.Min, s.Max, s.Mean, s.Count}
		for c, v := range values {
			if err := setCell(f, statsSheet, c+1, r+2, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("bad cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, name, value); err != nil {
		return fmt.Errorf("failed to set cell %s!%s: %w", sheet, name, err)
	}
	return nil
}

// Filename derives the download name for one export
func Filename(meta entity.QueryMeta) string {
	return fmt.Sprintf("fx_timeseries_%s_%s_%s.xlsx",
		meta.Base,
		meta.Range.Start.Format(entity.ISODate),
		meta.Range.End.Format(entity.ISODate))
}
