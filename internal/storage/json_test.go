package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func requireSameLedger(t *testing.T, want, got *ledger.Ledger) {
	t.Helper()
	require.Equal(t, want.Stores(), got.Stores())
	for _, slug := range want.Stores() {
		w, g := want.Items(slug), got.Items(slug)
		require.Len(t, g, len(w), "store %s", slug)
		for i := range w {
			assert.Equal(t, w[i].Product, g[i].Product, "store %s row %d", slug, i)
			assert.Equal(t, w[i].Quantity, g[i].Quantity, "store %s row %d", slug, i)
			assert.True(t, w[i].UnitPrice.Equal(g[i].UnitPrice), "store %s row %d price", slug, i)
		}
	}
}

func TestDecode_TwoFieldShape(t *testing.T) {
	doc := `{
  "supermercados": ["tienda_a", "el_super"],
  "compras": {
    "tienda_a": [
      {"producto": "Leche", "cantidad": 2, "precio_unitario": 1.50},
      {"producto": "Pan", "cantidad": "3", "precio_unitario": "0.99"}
    ],
    "el_super": []
  }
}`
	l, err := Decode("junio_2024", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "junio_2024", l.Period())
	assert.Equal(t, []string{"tienda_a", "el_super"}, l.Stores())
	items := l.Items("tienda_a")
	require.Len(t, items, 2)
	assert.Equal(t, "Leche", items[0].Product)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "1.50", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, "5.97", l.StoreTotal("tienda_a").StringFixed(2))
	assert.Empty(t, l.Items("el_super"))
}

func TestDecode_LegacyMatchesTwoFieldShape(t *testing.T) {
	legacy := `{"tienda_a": [{"producto":"Leche","cantidad":2,"precio_unitario":1.50}],
	            "mercado": [{"producto":"Tomate","cantidad":"4","precio_unitario":"0.25"}]}`
	current := `{"supermercados": ["tienda_a", "mercado"], "compras": {
	            "mercado": [{"producto":"Tomate","cantidad":4,"precio_unitario":0.25}],
	            "tienda_a": [{"producto":"Leche","cantidad":"2","precio_unitario":"1.50"}]}}`

	fromLegacy, err := Decode("p", []byte(legacy))
	require.NoError(t, err)
	fromCurrent, err := Decode("p", []byte(current))
	require.NoError(t, err)

	assert.Equal(t, []string{"tienda_a", "mercado"}, fromLegacy.Stores(), "legacy registry follows key order")
	requireSameLedger(t, fromCurrent, fromLegacy)
	assert.Equal(t, "3.00", fromLegacy.StoreTotal("tienda_a").StringFixed(2))
	assert.Equal(t, "4.00", fromLegacy.GrandTotal().StringFixed(2))
}

func TestDecode_SingleKeyIsLegacy(t *testing.T) {
	// Only one of the two-field keys present: the whole object is a flat mapping.
	l, err := Decode("p", []byte(`{"compras": [{"producto":"Pan","cantidad":1,"precio_unitario":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"compras"}, l.Stores())
	assert.Len(t, l.Items("compras"), 1)
}

func TestDecode_UnregisteredAndMissingLists(t *testing.T) {
	doc := `{"supermercados": ["a", "b"], "compras": {"a": null, "zzz": [{"producto":"X","cantidad":1,"precio_unitario":1}]}}`
	l, err := Decode("p", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l.Stores())
	assert.Empty(t, l.Items("a"))
	assert.Empty(t, l.Items("b"))
	assert.False(t, l.HasStore("zzz"))
}

func TestDecode_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":     `{`,
		"array":        `[1, 2]`,
		"null":         `null`,
		"bad stores":   `{"supermercados": "a", "compras": {}}`,
		"bad quantity": `{"a": [{"producto":"Pan","cantidad":"dos","precio_unitario":1}]}`,
		"zero qty":     `{"a": [{"producto":"Pan","cantidad":0,"precio_unitario":1}]}`,
		"neg price":    `{"a": [{"producto":"Pan","cantidad":1,"precio_unitario":-1}]}`,
		"bool price":   `{"a": [{"producto":"Pan","cantidad":1,"precio_unitario":true}]}`,
		"not a list":   `{"version": 3}`,
	}
	for name, doc := range tests {
		_, err := Decode("p", []byte(doc))
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func TestEncode_TwoFieldShape(t *testing.T) {
	l := ledger.New("p")
	slug, err := l.AddStore("Tienda Ñ")
	require.NoError(t, err)
	_, err = l.AddItem(slug, model.LineItem{Product: "Café & Té", Quantity: 2, UnitPrice: dec("1.5")}, nil)
	require.NoError(t, err)
	_, err = l.AddStore("Vacía")
	require.NoError(t, err)

	data, err := Encode(l)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"Café & Té"`, "no HTML escaping, UTF-8 kept")
	assert.Contains(t, text, "\n  \"supermercados\"", "two-space indent")

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, []any{"tienda_n", "vacía"}, generic["supermercados"])
	compras := generic["compras"].(map[string]any)
	assert.Equal(t, []any{}, compras["vacía"])
	entry := compras["tienda_n"].([]any)[0].(map[string]any)
	assert.Equal(t, "Café & Té", entry["producto"])
	assert.EqualValues(t, 2, entry["cantidad"])
	assert.Equal(t, "1.50", entry["precio_unitario"])
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(ledger.New("p"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"supermercados": [], "compras": {}}`, string(data))
}

func TestEncodeDecode_PreservesOrderAndValues(t *testing.T) {
	l := ledger.New("p")
	for _, name := range []string{"Zeta", "Alfa", "Medio"} {
		_, err := l.AddStore(name)
		require.NoError(t, err)
	}
	_, err := l.AddItem("zeta", model.LineItem{Product: "B", Quantity: 1, UnitPrice: dec("2.10")}, nil)
	require.NoError(t, err)
	_, err = l.AddItem("zeta", model.LineItem{Product: "A", Quantity: 7, UnitPrice: dec("0.05")}, nil)
	require.NoError(t, err)
	_, err = l.AddItem("alfa", model.LineItem{Product: "b", Quantity: 1, UnitPrice: dec("0")}, nil)
	require.NoError(t, err)

	data, err := Encode(l)
	require.NoError(t, err)
	got, err := Decode("p", data)
	require.NoError(t, err)
	requireSameLedger(t, l, got)
	assert.True(t, strings.Index(string(data), `"zeta"`) < strings.Index(string(data), `"alfa"`))
}
