package core

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export filenames offered by the dashboard's download buttons.
const (
	ExportWorkbookName = "극지식물_EC_생육분석.xlsx"
	ExportCSVName      = "극지식물_EC_생육분석.csv"
)

// ExportWorkbook writes the combined growth table as a single-sheet xlsx
// workbook.
func (s *Service) ExportWorkbook(w io.Writer) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	t := snap.Combined

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

// ExportCSV writes the combined growth table as UTF-8 CSV.
func (s *Service) ExportCSV(w io.Writer) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	t := snap.Combined

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
