package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fintessa/settlescan/internal/extract"
)

func sampleEntries() []extract.Entry {
	total := decimal.RequireFromString("1234.56")
	return []extract.Entry{
		{MTCN: "1234567890", Amount: decimal.RequireFromString("95.00"), Page: 1, NetworkTotal: total},
		{MTCN: "5555555555", Amount: decimal.RequireFromString("-47.50"), Page: 2, NetworkTotal: total},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	if err := WriteCSV(path, sampleEntries()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "mtcn,amount,page,line,network_total" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1234567890,95,1,0,1234.56" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "5555555555,-47.5,") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.xlsx")
	if err := WriteXLSX(path, sampleEntries()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) < 3 {
		t.Fatalf("expected at least header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "MTCN" || rows[0][4] != "Network Total" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "1234567890" {
		t.Fatalf("unexpected first entry row: %v", rows[1])
	}
	last := rows[len(rows)-1]
	if last[0] != "Total" {
		t.Fatalf("expected trailing summary row, got %v", last)
	}
}

func TestWriteCSV_EmptyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "mtcn,amount,page,line,network_total" {
		t.Fatalf("expected bare header, got %q", got)
	}
}

func TestWriteCSV_BadPath(t *testing.T) {
	if err := WriteCSV(filepath.Join(t.TempDir(), "missing", "entries.csv"), sampleEntries()); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
