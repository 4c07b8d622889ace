package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

type rgb struct{ r, g, b int }

var (
	darkBlue   = rgb{0, 0, 139}
	darkGreen  = rgb{0, 100, 0}
	whiteSmoke = rgb{245, 245, 245}
	white      = rgb{255, 255, 255}
	lightGrey  = rgb{211, 211, 211}
	lightBlue  = rgb{173, 216, 230}
	black      = rgb{0, 0, 0}
)

const (
	margin       = 72.0
	bottomMargin = 18.0
	rowHeight    = 18.0
	ellipsis     = "..."
)

// Column widths in points; each table fits the A4 content width.
var (
	storeWidths   = []float64{160, 55, 80, 78, 78}
	sectionWidths = []float64{190, 55, 95, 95}
	summaryWidths = []float64{216, 144}
	totalsWidths  = []float64{180, 72, 108}
	subtotalWidth = []float64{216, 216}
)

type pdfWriter struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	l    *ledger.Ledger
	opts Options
}

func writePDF(path string, l *ledger.Ledger, slug string, opts Options) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetTitle(title+" - "+model.PeriodTitle(l.Period()), true)
	pdf.SetCreator("compras", true)
	pdf.SetCreationDate(opts.now())

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), l: l, opts: opts}
	pdf.AddPage()
	w.heading(subtitle(slug))
	if slug != "" {
		w.storeReport(slug)
	} else {
		w.completeReport()
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (w *pdfWriter) heading(sub string) {
	w.text(title, 24, "B", darkBlue)
	w.pdf.Ln(20)
	w.text(sub, 16, "B", darkGreen)
	w.pdf.Ln(10)
	w.text("Fecha de generación: "+w.opts.now().Format(generatedLayout), 12, "", black)
	w.text("Período: "+model.PeriodTitle(w.l.Period()), 12, "", black)
	w.pdf.Ln(30)
}

func (w *pdfWriter) storeReport(slug string) {
	w.tableHeader(storeWidths, itemColumns, 12)
	rows := w.l.Rows(slug)
	for i, r := range rows {
		w.tableRow(storeWidths, []string{
			r.Product,
			strconv.Itoa(r.Quantity),
			w.opts.money(r.UnitPrice),
			w.opts.money(r.LineTotal),
			w.opts.money(r.Cumulative),
		}, 10, stripe(i))
	}
	w.pdf.Ln(30)

	w.filledRow(summaryWidths, []string{"Total de productos:", strconv.Itoa(len(rows))}, lightBlue, black)
	w.filledRow(summaryWidths, []string{"TOTAL GENERAL:", w.opts.money(w.l.StoreTotal(slug))}, darkGreen, white)
}

func (w *pdfWriter) completeReport() {
	stores := w.l.Stores()
	for i, slug := range stores {
		w.text("SUPERMERCADO "+strings.ToUpper(model.DisplayName(slug)), 14, "B", darkBlue)
		w.pdf.Ln(10)

		rows := w.l.Rows(slug)
		if len(rows) == 0 {
			w.text(emptyStore, 12, "", black)
		} else {
			w.tableHeader(sectionWidths, itemColumns[:4], 11)
			for j, r := range rows {
				w.tableRow(sectionWidths, []string{
					r.Product,
					strconv.Itoa(r.Quantity),
					w.opts.money(r.UnitPrice),
					w.opts.money(r.LineTotal),
				}, 9, stripe(j))
			}
		}

		w.pdf.Ln(10)
		subtotal := fmt.Sprintf("%s (%d productos)", w.opts.money(w.l.StoreTotal(slug)), len(rows))
		w.filledRow(subtotalWidth, []string{"Subtotal " + model.DisplayName(slug) + ":", subtotal}, lightBlue, black)
		w.pdf.Ln(20)

		if i < len(stores)-1 {
			w.pdf.AddPage()
		}
	}

	w.pdf.Ln(30)
	w.text("RESUMEN GENERAL", 14, "B", darkBlue)
	w.pdf.Ln(15)

	s := w.l.Summary()
	w.tableHeader(totalsWidths, []string{"Supermercado", "Productos", "Monto Total"}, 12)
	for i, st := range s.Stores {
		w.tableRow(totalsWidths, []string{
			model.DisplayName(st.Slug),
			strconv.Itoa(st.Items),
			w.opts.money(st.Total),
		}, 10, stripe(i))
	}
	w.filledRow(totalsWidths, []string{"TOTAL GENERAL:", strconv.Itoa(s.Items), w.opts.money(s.GrandTotal)}, darkGreen, white)
	w.pdf.Ln(20)

	if len(s.Stores) > 1 {
		w.text("Promedio por supermercado: "+w.opts.money(s.Average()), 12, "", black)
	}
	w.text(fmt.Sprintf("Total de supermercados registrados: %d", len(s.Stores)), 12, "", black)
}

// text writes one centered line.
func (w *pdfWriter) text(s string, size float64, style string, c rgb) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
	w.pdf.CellFormat(0, size+6, w.tr(s), "", 1, "C", false, 0, "")
}

func (w *pdfWriter) tableHeader(widths []float64, cols []string, size float64) {
	w.pdf.SetFont("Helvetica", "B", size)
	w.pdf.SetFillColor(darkBlue.r, darkBlue.g, darkBlue.b)
	w.pdf.SetTextColor(whiteSmoke.r, whiteSmoke.g, whiteSmoke.b)
	w.row(widths, cols)
}

func (w *pdfWriter) tableRow(widths []float64, cells []string, size float64, fill rgb) {
	w.pdf.SetFont("Helvetica", "", size)
	w.pdf.SetFillColor(fill.r, fill.g, fill.b)
	w.pdf.SetTextColor(black.r, black.g, black.b)
	w.row(widths, cells)
}

func (w *pdfWriter) filledRow(widths []float64, cells []string, fill, fg rgb) {
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.SetFillColor(fill.r, fill.g, fill.b)
	w.pdf.SetTextColor(fg.r, fg.g, fg.b)
	w.row(widths, cells)
}

// row draws a bordered row centered on the page.
func (w *pdfWriter) row(widths []float64, cells []string) {
	total := 0.0
	for _, wd := range widths {
		total += wd
	}
	pageW, _ := w.pdf.GetPageSize()
	w.pdf.SetX((pageW - total) / 2)
	for i, wd := range widths {
		w.pdf.CellFormat(wd, rowHeight, w.fit(cells[i], wd), "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(rowHeight)
}

// fit translates s and shortens it with an ellipsis until it fits a cell
// of the given width in the current font.
func (w *pdfWriter) fit(s string, width float64) string {
	out := w.tr(s)
	room := width - 2*w.pdf.GetCellMargin()
	if w.pdf.GetStringWidth(out) <= room {
		return out
	}
	// translated text is single-byte encoded
	for len(out) > 0 && w.pdf.GetStringWidth(out+ellipsis) > room {
		out = out[:len(out)-1]
	}
	return strings.TrimRight(out, " ") + ellipsis
}

func stripe(i int) rgb {
	if i%2 == 0 {
		return white
	}
	return lightGrey
}
