package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/compras-dev/compras/internal/model"
)

func TestCSVParser_Parse(t *testing.T) {
	f, err := os.Open("testdata/compras_lider.csv")
	require.NoError(t, err)
	defer f.Close()

	items, err := (&CSVParser{}).Parse(f)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "Leche", items[0].Product)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "1.50", items[0].UnitPrice.StringFixed(2))

	assert.Equal(t, "Café, molido", items[2].Product)
	assert.Equal(t, "4.20", items[2].UnitPrice.StringFixed(2))

	// duplicates are left for the ledger to resolve
	assert.Equal(t, "leche", items[3].Product)
}

func TestCSVParser_Semicolons(t *testing.T) {
	items, err := DefaultRegistry().ParseFile("testdata/compras_jumbo.csv", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Azúcar", items[1].Product)
	assert.Equal(t, "0.80", items[1].UnitPrice.StringFixed(2))
	assert.Equal(t, "1.20", items[0].UnitPrice.StringFixed(2))
}

func TestCSVParser_ColumnOrderAndAliases(t *testing.T) {
	in := "\ufeffPrice,Product,Quantity\n2.5,Eggs,12\n"
	items, err := (&CSVParser{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Product)
	assert.Equal(t, 12, items[0].Quantity)
	assert.Equal(t, "2.50", items[0].UnitPrice.StringFixed(2))
}

func TestCSVParser_MissingColumn(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("producto,cantidad\nLeche,2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "precio_unitario")
}

func TestCSVParser_BadRow(t *testing.T) {
	in := "producto,cantidad,precio\nLeche,2,1.50\nPan,dos,0.99\n"
	_, err := (&CSVParser{}).Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	assert.Contains(t, err.Error(), "row 3")
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	items, err := (&CSVParser{}).Parse(strings.NewReader("producto,cantidad,precio\n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestXLSXParser_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compras.xlsx")
	writeWorkbook(t, path, [][]any{
		{"Producto", "Cantidad", "Precio"},
		{"Leche", 2, 1.5},
		{},
		{"Pan", 3, "0.99"},
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	items, err := (&XLSXParser{}).Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Leche", items[0].Product)
	assert.Equal(t, "1.50", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 3, items[1].Quantity)
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXParser{}).Parse(strings.NewReader("plain text"))
	require.Error(t, err)
}

func TestRegistry_ForFile(t *testing.T) {
	r := DefaultRegistry()

	p, err := r.ForFile("lista.XLSX", "")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", p.Format())

	p, err = r.ForFile("lista.txt", "csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Format())

	_, err = r.ForFile("lista.ods", "")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVParser{})
	assert.Panics(t, func() { r.Register(&CSVParser{Comma: ';'}) })
}

func TestScanAndMarkProcessed(t *testing.T) {
	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, ImportDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("producto,cantidad,precio\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.md"), []byte("x"), 0o644))

	r := DefaultRegistry()
	files, err := r.Scan(dataDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.csv", files[0].Name)

	require.NoError(t, MarkProcessed(dataDir, "a.csv"))
	assert.FileExists(t, filepath.Join(dataDir, processedDir, "a.csv"))

	files, err = r.Scan(dataDir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScan_NoDir(t *testing.T) {
	files, err := DefaultRegistry().Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}
