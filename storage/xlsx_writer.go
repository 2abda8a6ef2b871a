package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ItsCxdy/google-maps-scraper/models"
)

const sheetName = "Places"

// XLSXWriter writes places to an Excel workbook with a single sheet.
type XLSXWriter struct {
	path string
	file *excelize.File
	row  int
}

// NewXLSXWriter prepares a workbook with a bold header row. Nothing is
// written to disk until Write.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	columns := models.Place{}.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: write header: %w", err)
	}

	if err := styleHeader(f, len(columns)); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &XLSXWriter{path: path, file: f, row: 2}, nil
}

// styleHeader makes the header row bold and widens the place columns.
func styleHeader(f *excelize.File, columns int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx: apply header style: %w", err)
	}

	for i := 1; i <= columns; i++ {
		col, err := excelize.ColumnNumberToName(i)
		if err != nil {
			return fmt.Errorf("xlsx: column %d: %w", i, err)
		}
		if err := f.SetColWidth(sheetName, col, col, 28); err != nil {
			return fmt.Errorf("xlsx: width of column %s: %w", col, err)
		}
	}
	return nil
}

// Write appends one row per place, skipping feed artifacts, and saves the
// workbook.
func (x *XLSXWriter) Write(places []*models.Place) error {
	for _, p := range dropArtifacts(places) {
		cell, err := excelize.CoordinatesToCellName(1, x.row)
		if err != nil {
			return fmt.Errorf("xlsx: row %d: %w", x.row, err)
		}

		values := p.Row()
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		if err := x.file.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", x.row, err)
		}
		x.row++
	}

	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

// Close releases the workbook.
func (x *XLSXWriter) Close() error {
	return x.file.Close()
}
