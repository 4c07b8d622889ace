package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

// SummarySheet names the totals sheet of the all-stores workbook.
const SummarySheet = "Resumen"

const maxSheetName = 31

type workbook struct {
	f      *excelize.File
	bold   int
	amount int
}

func writeXLSX(path string, l *ledger.Ledger, slug string, _ Options) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	wb := &workbook{f: f, bold: bold, amount: amount}

	stores := scope(l, slug)
	names := sheetNames(stores, slug == "")

	for i, name := range names {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}
	}

	for i, s := range stores {
		if err := wb.storeSheet(names[i], l, s); err != nil {
			return err
		}
	}
	if slug == "" {
		if err := wb.summarySheet(l); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

// SheetName returns the worksheet name used for slug.
func SheetName(slug string) string {
	return truncateRunes(model.DisplayName(slug), maxSheetName)
}

// sheetNames returns one distinct worksheet name per store, followed by
// SummarySheet when summary is set. Sheet names compare case-insensitively,
// so clashes get a " (n)" suffix within the length limit.
func sheetNames(stores []string, summary bool) []string {
	taken := make(map[string]bool, len(stores)+1)
	if summary {
		taken[strings.ToLower(SummarySheet)] = true
	}
	names := make([]string, 0, len(stores)+1)
	for _, s := range stores {
		base := SheetName(s)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		names = append(names, name)
	}
	if summary {
		names = append(names, SummarySheet)
	}
	return names
}

func truncateRunes(s string, n int) string {
	for utf8.RuneCountInString(s) > n {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}

func (wb *workbook) storeSheet(sheet string, l *ledger.Ledger, slug string) error {
	header := make([]any, len(itemColumns))
	for i, c := range itemColumns {
		header[i] = c
	}
	if err := wb.setRow(sheet, 1, header, wb.bold); err != nil {
		return err
	}

	rows := l.Rows(slug)
	for i, r := range rows {
		values := []any{
			r.Product,
			r.Quantity,
			r.UnitPrice.InexactFloat64(),
			r.LineTotal.InexactFloat64(),
			r.Cumulative.InexactFloat64(),
		}
		if err := wb.setRow(sheet, i+2, values, 0); err != nil {
			return err
		}
	}
	last := len(rows) + 1
	if len(rows) > 0 {
		if err := wb.f.SetCellStyle(sheet, "C2", fmt.Sprintf("E%d", last), wb.amount); err != nil {
			return fmt.Errorf("styling %s: %w", sheet, err)
		}
	}

	total := []any{"TOTAL", len(rows), "", l.StoreTotal(slug).InexactFloat64()}
	if err := wb.setRow(sheet, last+2, total, wb.bold); err != nil {
		return err
	}
	return wb.f.SetColWidth(sheet, "A", "A", 32)
}

func (wb *workbook) summarySheet(l *ledger.Ledger) error {
	s := l.Summary()
	if err := wb.setRow(SummarySheet, 1, []any{"Supermercado", "Productos", "Monto Total"}, wb.bold); err != nil {
		return err
	}
	for i, st := range s.Stores {
		if err := wb.setRow(SummarySheet, i+2, []any{model.DisplayName(st.Slug), st.Items, st.Total.InexactFloat64()}, 0); err != nil {
			return err
		}
	}
	row := len(s.Stores) + 2
	if err := wb.setRow(SummarySheet, row, []any{"TOTAL GENERAL", s.Items, s.GrandTotal.InexactFloat64()}, wb.bold); err != nil {
		return err
	}
	if err := wb.f.SetCellStyle(SummarySheet, "C2", fmt.Sprintf("C%d", row), wb.amount); err != nil {
		return fmt.Errorf("styling %s: %w", SummarySheet, err)
	}
	if len(s.Stores) > 1 {
		row++
		if err := wb.setRow(SummarySheet, row, []any{"Promedio por supermercado", "", s.Average().Round(2).InexactFloat64()}, 0); err != nil {
			return err
		}
	}
	return wb.f.SetColWidth(SummarySheet, "A", "A", 32)
}

func (wb *workbook) setRow(sheet string, row int, values []any, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, cell, end, style)
}
