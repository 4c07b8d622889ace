package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/compras-dev/compras/internal/model"
)

// Row is a line item with its derived totals.
type Row struct {
	model.LineItem
	LineTotal  decimal.Decimal
	Cumulative decimal.Decimal
}

// StoreSummary aggregates one store.
type StoreSummary struct {
	Slug  string
	Items int
	Total decimal.Decimal
}

// Summary aggregates the whole period.
type Summary struct {
	Stores     []StoreSummary
	Items      int
	GrandTotal decimal.Decimal
}

// Average returns the grand total divided by the number of stores, or zero.
func (s Summary) Average() decimal.Decimal {
	if len(s.Stores) == 0 {
		return decimal.Zero
	}
	return s.GrandTotal.Div(decimal.NewFromInt(int64(len(s.Stores))))
}

// Rows computes line and running totals for slug in display order.
func (l *Ledger) Rows(slug string) []Row {
	items := l.items[slug]
	rows := make([]Row, len(items))
	running := decimal.Zero
	for i, it := range items {
		total := it.Total()
		running = running.Add(total)
		rows[i] = Row{LineItem: it, LineTotal: total, Cumulative: running}
	}
	return rows
}

// StoreTotal is the cumulative total of slug's last row, or zero.
func (l *Ledger) StoreTotal(slug string) decimal.Decimal {
	rows := l.Rows(slug)
	if len(rows) == 0 {
		return decimal.Zero
	}
	return rows[len(rows)-1].Cumulative
}

// GrandTotal sums every store total.
func (l *Ledger) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, slug := range l.stores {
		total = total.Add(l.StoreTotal(slug))
	}
	return total
}

// Summary returns per-store and overall totals in registry order.
func (l *Ledger) Summary() Summary {
	s := Summary{GrandTotal: decimal.Zero}
	for _, slug := range l.stores {
		st := StoreSummary{Slug: slug, Items: len(l.items[slug]), Total: l.StoreTotal(slug)}
		s.Stores = append(s.Stores, st)
		s.Items += st.Items
		s.GrandTotal = s.GrandTotal.Add(st.Total)
	}
	return s
}
