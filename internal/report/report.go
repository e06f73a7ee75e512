// Package report writes merged settlement entries to CSV or XLSX files.
// Reporting sits outside the extraction core; both sinks are optional.
package report

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/fintessa/settlescan/internal/extract"
)

// WriteCSV writes the entries to path with a header row.
func WriteCSV(path string, entries []extract.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&entries, f); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes the entries to a workbook: a header row, one row per
// entry, and a trailing summary row carrying the network total.
func WriteXLSX(path string, entries []extract.Entry) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []interface{}{"MTCN", "Amount", "Page", "Line", "Network Total"}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, en := range entries {
		row := []interface{}{
			en.MTCN,
			en.Amount.InexactFloat64(),
			en.Page,
			en.Line,
			en.NetworkTotal.InexactFloat64(),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		summary := []interface{}{"Total", entries[0].NetworkTotal.InexactFloat64()}
		if err := setRow(f, sheet, len(entries)+3, summary); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
