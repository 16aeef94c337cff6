package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"polarec/internal/table"
)

// SheetKey derives the logical key for one sheet of a workbook request.
func SheetKey(base, sheet string) string {
	return base + "/" + sheet
}

// parseWorkbook reads every sheet of an xlsx file into its own table, keyed
// by the workbook's base key plus the sheet name. The first row of each
// sheet is its header; sheets without a header row are skipped.
func parseWorkbook(path, baseKey string) ([]*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var tables []*table.Table
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		t := table.New(SheetKey(baseKey, sheet), rows[0])
		for _, row := range rows[1:] {
			t.AppendRow(row)
		}
		tables = append(tables, t)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("workbook has no non-empty sheets")
	}
	return tables, nil
}
