// Package xlsx extracts settlement entries from XLSX exports of the same
// reports the PDF path handles. The workbook carries a header row with MTCN
// and AMOUNT columns and an optional TOTAL cell whose value sits directly
// below it.
package xlsx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fintessa/settlescan/internal/extract"
)

// ExtractFile pulls MTCN entries from the first sheet of the workbook at
// path. Every entry carries Page=1 and the sheet's network total.
func ExtractFile(path string) ([]extract.Entry, error) {
	log.Info().Str("file", path).Msg("processing workbook")

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("file", path).Msg("closing workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return extractRows(rows)
}

func extractRows(rows [][]string) ([]extract.Entry, error) {
	total := findNetworkTotal(rows)

	headerRow := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToUpper(strings.TrimSpace(cell)), "MTCN") {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, errors.New("no row containing an MTCN header")
	}

	mtcnCol, amountCol := -1, -1
	for j, cell := range rows[headerRow] {
		v := strings.ToUpper(strings.TrimSpace(cell))
		switch {
		case strings.Contains(v, "MTCN"):
			mtcnCol = j
		case strings.Contains(v, "AMOUNT"):
			amountCol = j
		}
	}
	if mtcnCol < 0 || amountCol < 0 {
		return nil, errors.New("header row is missing the MTCN or AMOUNT column")
	}

	var entries []extract.Entry
	for _, row := range rows[headerRow+1:] {
		mtcn := cellAt(row, mtcnCol)
		amountStr := cellAt(row, amountCol)
		if mtcn == "" || amountStr == "" {
			continue
		}
		amount, err := parseMoneyCell(amountStr)
		if err != nil {
			log.Warn().Str("mtcn", mtcn).Str("value", amountStr).Msg("unparseable amount; skipping row")
			continue
		}
		// Numeric cells round-trip as "1234567890.0"; strip the decimal
		// before validating.
		mtcn = strings.TrimSuffix(mtcn, ".0")
		if !isMTCN(mtcn) {
			continue
		}
		entries = append(entries, extract.Entry{
			MTCN:         mtcn,
			Amount:       amount,
			Page:         1,
			NetworkTotal: total,
		})
	}

	log.Info().Int("entries", len(entries)).Str("networkTotal", total.String()).Msg("workbook extracted")
	return entries, nil
}

// findNetworkTotal locates a cell whose value is TOTAL and reads the amount
// from the cell directly below it. A missing or unparseable total stays
// zero.
func findNetworkTotal(rows [][]string) decimal.Decimal {
	for i, row := range rows {
		for j, cell := range row {
			if !strings.EqualFold(strings.TrimSpace(cell), "TOTAL") {
				continue
			}
			if i+1 >= len(rows) {
				continue
			}
			below := cellAt(rows[i+1], j)
			if below == "" {
				continue
			}
			v, err := parseMoneyCell(below)
			if err != nil {
				log.Warn().Str("value", below).Msg("unparseable network total cell")
				continue
			}
			return v
		}
	}
	log.Warn().Msg("no TOTAL cell found in workbook")
	return decimal.Decimal{}
}

func parseMoneyCell(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	return decimal.NewFromString(clean)
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isMTCN(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
