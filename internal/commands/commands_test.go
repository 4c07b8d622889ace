package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readPeriod(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "datos", "compras_"+name+".json"))
	require.NoError(t, err)
	return string(data)
}

func TestStoreAddAndList(t *testing.T) {
	dir := initRepo(t)

	out := inRepo(t, dir, "store", "add", "Tienda A", "Super Ñandú")
	assert.Contains(t, out, "Added store Tienda A (tienda_a)")
	assert.Contains(t, out, "(super_nandú)")

	out = inRepo(t, dir, "store", "list")
	assert.Contains(t, out, "tienda_a")
	assert.Contains(t, out, "Super Nandú")

	_, err := runCompras(t, "", "--repo", dir, "-p", period, "store", "add", "tienda a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store already exists")
}

func TestItemWorkflow(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Tienda A")

	out := inRepo(t, dir, "item", "add", "tienda_a", "Leche", "2", "1.50")
	assert.Contains(t, out, "Added #1 Leche: 2 x $1.50 to tienda_a")
	assert.Contains(t, out, "Store total: $3.00")

	out = inRepo(t, dir, "item", "add", "Tienda A", "Pan", "3", "0,99")
	assert.Contains(t, out, "Store total: $5.97")

	out = inRepo(t, dir, "item", "add", "tienda_a", "LECHE", "1", "2.00", "--on-duplicate", "sum")
	assert.Contains(t, out, "Summed into #1 Leche: 3 x $1.50")

	out = inRepo(t, dir, "item", "add", "tienda_a", "leche", "1", "2.00", "--on-duplicate", "new")
	assert.Contains(t, out, "Added #3 leche (1): 1 x $2.00")

	out = inRepo(t, dir, "item", "edit", "tienda_a", "2", "--qty", "4", "--price", "1.25")
	assert.Contains(t, out, "Updated #2 Pan: 4 x $1.25")

	out = inRepo(t, dir, "item", "remove", "tienda_a", "3")
	assert.Contains(t, out, "Removed #3 leche (1) from tienda_a")

	data := readPeriod(t, dir, period)
	assert.Contains(t, data, `"supermercados": [`)
	assert.Contains(t, data, `"producto": "Pan"`)
	assert.NotContains(t, data, "leche (1)")

	out = inRepo(t, dir, "show", "tienda_a")
	assert.Contains(t, out, "$9.50")

	out = inRepo(t, dir, "show")
	assert.Contains(t, out, "Octubre 2026")
	assert.Contains(t, out, "TOTAL GENERAL")
	assert.Contains(t, out, "Total de supermercados registrados: 1")
}

func TestItemAdd_Validation(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider")

	for _, args := range [][]string{
		{"item", "add", "lider", "Leche", "0", "1.00"},
		{"item", "add", "lider", "Leche", "1.5", "1.00"},
		{"item", "add", "lider", "Leche", "1", "-2"},
		{"item", "add", "lider", "  ", "1", "1"},
		{"item", "add", "nadie", "Leche", "1", "1"},
		{"item", "remove", "lider", "1"},
		{"item", "remove", "lider", "cero"},
		{"item", "edit", "lider", "1"},
	} {
		_, err := runCompras(t, "", append([]string{"--repo", dir, "-p", period}, args...)...)
		assert.Error(t, err, "%v", args)
	}
}

func TestItemAdd_AskPrompt(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider")
	inRepo(t, dir, "item", "add", "lider", "Leche", "2", "1.50")

	out, err := runCompras(t, "x\ns\n", "--repo", dir, "-p", period, "item", "add", "lider", "leche", "3", "9.99")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"Leche" already exists in Lider.`)
	assert.Contains(t, out, "existing: 2 x $1.50")
	assert.Contains(t, out, "new:      3 x $9.99")
	assert.Contains(t, out, `unknown duplicate resolution "x"`)
	assert.Contains(t, out, "Summed into #1 Leche: 5 x $1.50")
}

func TestItemAdd_AskEndOfInputCancels(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider")
	inRepo(t, dir, "item", "add", "lider", "Leche", "2", "1.50")
	before := readPeriod(t, dir, period)

	out, err := runCompras(t, "", "--repo", dir, "-p", period, "item", "add", "lider", "leche", "3", "9.99")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped leche")
	assert.Equal(t, before, readPeriod(t, dir, period))
}

func TestStoreRemove(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider", "Jumbo")
	inRepo(t, dir, "item", "add", "lider", "Leche", "2", "1.50")

	out, err := runCompras(t, "n\n", "--repo", dir, "-p", period, "store", "remove", "lider")
	require.NoError(t, err)
	assert.Contains(t, out, "Remove Lider and its 1 items from octubre_2026? [y/N]")
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, readPeriod(t, dir, period), `"lider"`)

	out, err = runCompras(t, "s\n", "--repo", dir, "-p", period, "store", "remove", "Lider")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed store lider from octubre_2026")
	assert.NotContains(t, readPeriod(t, dir, period), `"lider"`)
}

func TestStoreRemove_Everywhere(t *testing.T) {
	dir := initRepo(t)
	for _, p := range []string{"agosto_2026", "septiembre_2026", period} {
		_, err := runCompras(t, "", "--repo", dir, "-p", p, "store", "add", "Lider", "Jumbo")
		require.NoError(t, err)
	}

	out := inRepo(t, dir, "store", "remove", "lider", "--everywhere", "--yes")
	assert.Contains(t, out, "also removed from compras_agosto_2026.json")
	assert.Contains(t, out, "also removed from compras_septiembre_2026.json")

	for _, p := range []string{"agosto_2026", "septiembre_2026", period} {
		data := readPeriod(t, dir, p)
		assert.NotContains(t, data, `"lider"`, p)
		assert.Contains(t, data, `"jumbo"`, p)
	}
}

func TestPeriodCommands(t *testing.T) {
	dir := initRepo(t)

	out := inRepo(t, dir, "period", "list")
	assert.Contains(t, out, "No saved periods.")

	out = inRepo(t, dir, "period", "new")
	assert.Contains(t, out, "Created period octubre_2026")

	_, err := runCompras(t, "", "--repo", dir, "-p", period, "period", "new")
	assert.Error(t, err)

	inRepo(t, dir, "store", "add", "Lider")
	out = inRepo(t, dir, "period", "save-as", "copia_octubre")
	assert.Contains(t, out, "Saved octubre_2026 as")
	assert.Contains(t, readPeriod(t, dir, "copia_octubre"), `"lider"`)

	_, err = runCompras(t, "", "--repo", dir, "-p", period, "period", "save-as", "copia_octubre")
	assert.Error(t, err)
	inRepo(t, dir, "period", "save-as", "copia_octubre", "--force")

	_, err = runCompras(t, "", "--repo", dir, "-p", period, "period", "save-as", "mal:nombre")
	assert.Error(t, err)

	out = inRepo(t, dir, "period", "list")
	assert.Contains(t, out, "  copia_octubre")
	assert.Contains(t, out, "* octubre_2026")
}

func TestReadCommandsNeedPeriod(t *testing.T) {
	dir := initRepo(t)

	_, err := runCompras(t, "", "--repo", dir, "-p", "marzo_1999", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period not found")
}

func TestPeriodFlagRejectsPaths(t *testing.T) {
	dir := initRepo(t)

	for _, args := range [][]string{{"show"}, {"store", "add", "Lider"}} {
		_, err := runCompras(t, "", append([]string{"--repo", dir, "-p", "../../x"}, args...)...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "invalid period name")
	}
	_, err := os.Stat(filepath.Join(dir, "x.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLegacyFileIsReadAndUpgraded(t *testing.T) {
	dir := initRepo(t)
	legacy := `{"lider": [{"producto": "Pan", "cantidad": 2, "precio_unitario": 0.5}], "jumbo": []}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datos", "compras_"+period+".json"), []byte(legacy), 0o644))

	out := inRepo(t, dir, "store", "list")
	assert.Contains(t, out, "lider")
	assert.Less(t, strings.Index(out, "lider"), strings.Index(out, "jumbo"))

	inRepo(t, dir, "item", "add", "jumbo", "Arroz", "1", "1.20")
	data := readPeriod(t, dir, period)
	assert.Contains(t, data, `"supermercados"`)
	assert.Contains(t, data, `"compras"`)
}

func TestCheck(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider")
	out := inRepo(t, dir, "check")
	assert.Contains(t, out, "octubre_2026: OK (1 stores, 0 items)")

	doc := `{
  "supermercados": ["lider"],
  "compras": {"lider": [
    {"producto": "Leche", "cantidad": 1, "precio_unitario": "1.00"},
    {"producto": "leche", "cantidad": 2, "precio_unitario": "1.00"}
  ]}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datos", "compras_"+period+".json"), []byte(doc), 0o644))

	out, err := runCompras(t, "", "--repo", dir, "-p", period, "check")
	require.Error(t, err)
	assert.Contains(t, out, "duplicate [lider #2]")
	assert.Contains(t, err.Error(), "1 problems found")
}

func TestReport(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider", "Jumbo")
	inRepo(t, dir, "item", "add", "lider", "Leche", "2", "1.50")

	for _, tc := range []struct {
		args   []string
		prefix string
		ext    string
	}{
		{[]string{"report"}, "reporte_completo_", ".pdf"},
		{[]string{"report", "lider"}, "reporte_lider_", ".pdf"},
		{[]string{"report", "--format", "xlsx"}, "reporte_completo_", ".xlsx"},
		{[]string{"report", "jumbo", "--format", "txt"}, "reporte_jumbo_", ".txt"},
	} {
		out := inRepo(t, dir, tc.args...)
		require.Contains(t, out, "Report written to ")
		path := strings.TrimSpace(strings.TrimPrefix(out, "Report written to "))
		assert.Equal(t, filepath.Join(dir, "reportes"), filepath.Dir(path))
		assert.True(t, strings.HasPrefix(filepath.Base(path), tc.prefix), path)
		assert.Equal(t, tc.ext, filepath.Ext(path))
		assert.FileExists(t, path)
	}

	_, err := runCompras(t, "", "--repo", dir, "-p", period, "report", "--format", "odt")
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider")

	file := filepath.Join(t.TempDir(), "lista.csv")
	csv := "producto,cantidad,precio_unitario\nLeche,2,1.50\nPan,1,0.99\nleche,1,1.50\n"
	require.NoError(t, os.WriteFile(file, []byte(csv), 0o644))

	out := inRepo(t, dir, "import", "lider", file, "--on-duplicate", "sum")
	assert.Contains(t, out, "Imported lista.csv into lider: 2 added, 1 summed, 0 replaced, 0 renamed, 0 skipped")

	out = inRepo(t, dir, "show", "lider")
	assert.Contains(t, out, "$5.49")
}

func TestImport_FromInbox(t *testing.T) {
	dir := initRepo(t)
	inRepo(t, dir, "store", "add", "Lider")

	out := inRepo(t, dir, "import", "lider")
	assert.Contains(t, out, "Nothing to import")

	inbox := filepath.Join(dir, "datos", "importar")
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "semana1.csv"), []byte("producto;cantidad;precio\nArroz;1;1,20\n"), 0o644))

	out = inRepo(t, dir, "import", "lider", "--on-duplicate", "cancel")
	assert.Contains(t, out, "Imported semana1.csv into lider: 1 added")
	assert.FileExists(t, filepath.Join(inbox, "procesados", "semana1.csv"))
	assert.NoFileExists(t, filepath.Join(inbox, "semana1.csv"))
}

func TestLog(t *testing.T) {
	dir := initRepo(t)

	out := inRepo(t, dir, "log")
	assert.Contains(t, out, "No activity recorded.")

	inRepo(t, dir, "store", "add", "Lider")
	inRepo(t, dir, "item", "add", "lider", "Leche", "2", "1.50")
	_, err := runCompras(t, "", "--repo", dir, "-p", "noviembre_2026", "store", "add", "Jumbo")
	require.NoError(t, err)

	out = inRepo(t, dir, "log")
	assert.Contains(t, out, "add_item")
	assert.Contains(t, out, "#1 2 x 1.50")
	assert.NotContains(t, out, "noviembre_2026")

	out = inRepo(t, dir, "log", "--all", "-n", "1")
	assert.Contains(t, out, "noviembre_2026")
	assert.NotContains(t, out, "add_item")
}
