package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/compras-dev/compras/internal/model"
)

// Parser converts a purchase list file into line items.
type Parser interface {
	Parse(r io.Reader) ([]model.LineItem, error)
	Format() string
}

// ErrUnknownFormat is returned when no parser handles a file.
var ErrUnknownFormat = errors.New("unknown import format")

// ErrMissingColumn is returned when a header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile picks a parser by explicit format, falling back to the file
// extension when format is empty.
func (r *Registry) ForFile(path, format string) (Parser, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return p, nil
}

// ParseFile opens path and parses it with the matching parser.
func (r *Registry) ParseFile(path, format string) ([]model.LineItem, error) {
	p, err := r.ForFile(path, format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	items, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// ImportDir is the subdirectory of the data directory scanned for files.
const ImportDir = "importar"

// processedDir receives files once they have been imported.
const processedDir = "importar/procesados"

// Scan returns importable files in <dataDir>/importar/.
func (r *Registry) Scan(dataDir string) ([]FileInfo, error) {
	dir := filepath.Join(dataDir, ImportDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := r.ForFile(e.Name(), ""); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from importar/ to importar/procesados/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, ImportDir, fileName)
	dstDir := filepath.Join(dataDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Column aliases accepted in the header row.
var columnAliases = map[string]int{
	"producto":        colProduct,
	"product":         colProduct,
	"cantidad":        colQuantity,
	"quantity":        colQuantity,
	"precio_unitario": colPrice,
	"precio unitario": colPrice,
	"precio":          colPrice,
	"unit_price":      colPrice,
	"price":           colPrice,
}

const (
	colProduct = iota
	colQuantity
	colPrice
	numColumns
)

var columnNames = [numColumns]string{"producto", "cantidad", "precio_unitario"}

// parseRows maps a header row plus data rows into line items. Blank rows are
// skipped; row numbers in errors are 1-based including the header.
func parseRows(rows [][]string) ([]model.LineItem, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if col, ok := columnAliases[key]; ok && index[col] < 0 {
			index[col] = i
		}
	}
	for col, i := range index {
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columnNames[col])
		}
	}

	var items []model.LineItem
	for n, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		item, err := model.NewLineItem(cell(rec, index[colProduct]), cell(rec, index[colQuantity]), cell(rec, index[colPrice]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
