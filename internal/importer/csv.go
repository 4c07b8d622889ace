package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/compras-dev/compras/internal/model"
)

// CSVParser parses comma or semicolon separated purchase lists.
type CSVParser struct {
	// Comma forces the field separator. Zero detects it from the header.
	Comma rune
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV with a header row and returns its line items.
func (p *CSVParser) Parse(r io.Reader) ([]model.LineItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = p.Comma
	if cr.Comma == 0 {
		cr.Comma = detectComma(data)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return parseRows(records)
}

// detectComma picks ';' when the header has semicolons and no commas, as
// spreadsheets do in locales that use a decimal comma.
func detectComma(data []byte) rune {
	header, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if bytes.Contains(header, []byte(";")) && !bytes.Contains(header, []byte(",")) {
		return ';'
	}
	return ','
}
