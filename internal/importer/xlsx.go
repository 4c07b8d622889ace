package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/compras-dev/compras/internal/model"
)

// XLSXParser parses the first worksheet of an Excel workbook.
type XLSXParser struct {
	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string
}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads a workbook with a header row and returns its line items.
func (p *XLSXParser) Parse(r io.Reader) ([]model.LineItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("no sheets found in workbook")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}
