package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

// Top-level keys of the two-field document shape.
const (
	keyStores    = "supermercados"
	keyPurchases = "compras"
)

// ErrMalformed is returned for documents that match neither accepted shape.
var ErrMalformed = errors.New("malformed purchases document")

type document struct {
	Stores    []string                 `json:"supermercados"`
	Purchases map[string][]storedEntry `json:"compras"`
}

type storedEntry struct {
	Product   string `json:"producto"`
	Quantity  int    `json:"cantidad"`
	UnitPrice string `json:"precio_unitario"`
}

// rawEntry tolerates strings or numbers in every field.
type rawEntry struct {
	Product   json.RawMessage `json:"producto"`
	Quantity  json.RawMessage `json:"cantidad"`
	UnitPrice json.RawMessage `json:"precio_unitario"`
}

// Encode serializes l using the two-field shape.
func Encode(l *ledger.Ledger) ([]byte, error) {
	doc := document{
		Stores:    make([]string, 0, len(l.Stores())),
		Purchases: make(map[string][]storedEntry),
	}
	for _, slug := range l.Stores() {
		doc.Stores = append(doc.Stores, slug)
		entries := make([]storedEntry, 0)
		for _, it := range l.Items(slug) {
			entries = append(entries, storedEntry{
				Product:   it.Product,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice.StringFixed(2),
			})
		}
		doc.Purchases[slug] = entries
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding purchases: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a purchases document for period. Objects carrying both
// "supermercados" and "compras" use the two-field shape; any other object is
// read as the legacy flat mapping from store slug to items, in key order.
func Decode(period string, data []byte) (*ledger.Ledger, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	rawStores, hasStores := top[keyStores]
	rawPurchases, hasPurchases := top[keyPurchases]

	var stores []string
	var groups map[string]json.RawMessage
	if hasStores && hasPurchases {
		if err := json.Unmarshal(rawStores, &stores); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, keyStores, err)
		}
		if err := json.Unmarshal(rawPurchases, &groups); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, keyPurchases, err)
		}
	} else {
		keys, err := objectKeys(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		stores = keys
		groups = top
	}

	items := make(map[string][]model.LineItem, len(stores))
	for _, slug := range stores {
		raw, ok := groups[slug]
		if !ok || isNull(raw) {
			continue
		}
		parsed, err := decodeItems(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: store %s: %v", ErrMalformed, slug, err)
		}
		items[slug] = parsed
	}
	return ledger.Restore(period, stores, items), nil
}

func decodeItems(raw json.RawMessage) ([]model.LineItem, error) {
	var entries []rawEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	items := make([]model.LineItem, 0, len(entries))
	for i, e := range entries {
		product, err := scalarText(e.Product)
		if err != nil {
			return nil, fmt.Errorf("item %d: producto: %w", i+1, err)
		}
		qtyText, err := scalarText(e.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %d: cantidad: %w", i+1, err)
		}
		priceText, err := scalarText(e.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %d: precio_unitario: %w", i+1, err)
		}
		it, err := model.NewLineItem(product, qtyText, priceText)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// scalarText returns a JSON string's value or a JSON number's literal text.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[', 't', 'f':
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// objectKeys lists the top-level keys of a JSON object in document order.
// Repeated keys are reported once.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("top level is not an object")
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}
