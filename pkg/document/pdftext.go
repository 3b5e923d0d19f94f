package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractLines reads the text layer of a PDF and returns its non-empty
// trimmed lines in reading order: pages ascending, rows top to bottom.
func ExtractLines(pdfPath string) ([]Line, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []Line
	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("read text of page %d: %w", pageNum, err)
		}

		// PDF y-coordinates grow upward; larger position means higher
		// on the page.
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].Position > rows[j].Position
		})

		lineNum := 0
		for _, row := range rows {
			var sb strings.Builder
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			text := strings.TrimSpace(sb.String())
			if text == "" {
				continue
			}
			lineNum++
			out = append(out, Line{Page: pageNum, Number: lineNum, Text: text})
		}
	}
	return out, nil
}
