package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

// RenderStore prints slug's items with line and running totals. Rows are
// numbered from 1, matching the item arguments of the CLI.
func RenderStore(w io.Writer, l *ledger.Ledger, slug string, opts Options) {
	rows := l.Rows(slug)
	if len(rows) == 0 {
		fmt.Fprintf(w, "%s: %s\n", model.DisplayName(slug), emptyStore)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(model.DisplayName(slug))

	header := table.Row{"#"}
	for _, c := range itemColumns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i, r := range rows {
		t.AppendRow(table.Row{
			i + 1,
			r.Product,
			r.Quantity,
			opts.money(r.UnitPrice),
			opts.money(r.LineTotal),
			opts.money(r.Cumulative),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", opts.money(l.StoreTotal(slug))})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

// RenderSummary prints the per-store totals of the period.
func RenderSummary(w io.Writer, l *ledger.Ledger, opts Options) {
	s := l.Summary()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("RESUMEN GENERAL")
	t.AppendHeader(table.Row{"Supermercado", "Productos", "Monto Total"})
	for _, st := range s.Stores {
		t.AppendRow(table.Row{model.DisplayName(st.Slug), st.Items, opts.money(st.Total)})
	}
	t.AppendFooter(table.Row{"TOTAL GENERAL", s.Items, opts.money(s.GrandTotal)})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()

	if len(s.Stores) > 1 {
		fmt.Fprintf(w, "Promedio por supermercado: %s\n", opts.money(s.Average()))
	}
	fmt.Fprintf(w, "Total de supermercados registrados: %d\n", len(s.Stores))
}

// RenderReport prints the full text report: heading, store tables and, for
// the all-stores layout, the summary.
func RenderReport(w io.Writer, l *ledger.Ledger, slug string, opts Options) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, subtitle(slug))
	fmt.Fprintf(w, "Fecha de generación: %s\n", opts.now().Format(generatedLayout))
	fmt.Fprintf(w, "Período: %s\n\n", model.PeriodTitle(l.Period()))

	for _, s := range scope(l, slug) {
		RenderStore(w, l, s, opts)
		fmt.Fprintln(w)
	}
	if slug == "" {
		RenderSummary(w, l, opts)
	}
}

func subtitle(slug string) string {
	if slug == "" {
		return "REPORTE COMPLETO - TODOS LOS SUPERMERCADOS"
	}
	return "Reporte de " + strings.ToUpper(model.DisplayName(slug))
}

func writeText(path string, l *ledger.Ledger, slug string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	RenderReport(f, l, slug, opts)
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
