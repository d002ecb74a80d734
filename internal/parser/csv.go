package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvRowsPerPage groups data rows so a table reads as a few pages of
// "header: value" lines rather than one unbroken blob.
const csvRowsPerPage = 20

// CSVParser handles CSV files.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	ext := &Extraction{Title: trimExt(filename)}
	if len(records) == 0 {
		return ext, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var pages []string
	for i := 0; i < len(dataRows); i += csvRowsPerPage {
		end := min(i+csvRowsPerPage, len(dataRows))

		var text strings.Builder
		for _, row := range dataRows[i:end] {
			cells := make([]string, 0, len(row))
			for j, cell := range row {
				if j < len(headers) && headers[j] != "" {
					cells = append(cells, headers[j]+": "+cell)
				} else {
					cells = append(cells, cell)
				}
			}
			text.WriteString(strings.Join(cells, ", "))
			text.WriteString("\n")
		}
		pages = append(pages, text.String())
	}
	if len(pages) == 0 {
		pages = []string{strings.Join(headers, ", ")}
	}

	ext.Pages = cleanPages(pages)
	return ext, nil
}
