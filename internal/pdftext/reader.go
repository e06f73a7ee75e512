// Package pdftext decodes PDF reports into per-page text, preserving the
// rough tabular layout the settlement patterns expect.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ReadPages decodes every page of the PDF at path into its visible text, in
// page order. Rows become newline-separated lines with their cells joined by
// spaces. A page whose text cannot be extracted yields an empty string; a
// file that cannot be decoded at all is an error.
func ReadPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := pageText(p)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Str("file", path).Msg("page text extraction failed")
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowText(row))
	}
	return strings.Join(lines, "\n"), nil
}

// rowText joins the text chunks of one row left to right. A space is
// inserted between chunks separated by a visible horizontal gap, so tokens
// stay distinct without breaking up per-glyph chunks.
func rowText(row *pdf.Row) string {
	var b strings.Builder
	var prevEnd float64
	for i, word := range row.Content {
		if i > 0 && word.X-prevEnd > 0.5 {
			b.WriteByte(' ')
		}
		b.WriteString(word.S)
		prevEnd = word.X + word.W
	}
	return b.String()
}
