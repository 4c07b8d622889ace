// Package report renders a period's purchases as PDF, XLSX or plain text.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/compras-dev/compras/internal/ledger"
)

// Format is a report file format.
type Format string

const (
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
	Text Format = "txt"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PDF, XLSX, Text:
		return f, nil
	case "text":
		return Text, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

const (
	title           = "CONTROL DE GASTOS"
	timestampLayout = "20060102_150405"
	generatedLayout = "02/01/2006 15:04:05"
	emptyStore      = "No hay productos registrados"
)

var itemColumns = []string{"Producto", "Cantidad", "Precio Unitario", "Total", "Acumulado"}

// Options controls report rendering.
type Options struct {
	Currency string
	Now      func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) money(d decimal.Decimal) string {
	return o.Currency + d.StringFixed(2)
}

// FileName returns the report file name for slug, or for the whole period
// when slug is empty.
func FileName(slug string, f Format, t time.Time) string {
	scope := "completo"
	if slug != "" {
		scope = slug
	}
	return fmt.Sprintf("reporte_%s_%s.%s", scope, t.Format(timestampLayout), f)
}

// Write renders l into dir and returns the file path. An empty slug selects
// the all-stores layout.
func Write(dir string, l *ledger.Ledger, slug string, f Format, opts Options) (string, error) {
	if slug != "" && !l.HasStore(slug) {
		return "", fmt.Errorf("%w: %s", ledger.ErrUnknownStore, slug)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}
	now := opts.now()
	opts.Now = func() time.Time { return now }
	path := filepath.Join(dir, FileName(slug, f, now))

	var err error
	switch f {
	case PDF:
		err = writePDF(path, l, slug, opts)
	case XLSX:
		err = writeXLSX(path, l, slug, opts)
	case Text:
		err = writeText(path, l, slug, opts)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// scope lists the stores a report covers.
func scope(l *ledger.Ledger, slug string) []string {
	if slug != "" {
		return []string{slug}
	}
	return l.Stores()
}
