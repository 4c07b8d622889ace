package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/compras-dev/compras/internal/model"
)

// Sentinel errors returned by Ledger operations.
var (
	ErrStoreExists  = errors.New("store already exists")
	ErrUnknownStore = errors.New("unknown store")
	ErrItemIndex    = errors.New("item index out of range")
)

// Ledger is the store registry and purchase list of one period.
type Ledger struct {
	period string
	stores []string
	items  map[string][]model.LineItem
}

// New returns an empty ledger for period.
func New(period string) *Ledger {
	return &Ledger{period: period, items: make(map[string][]model.LineItem)}
}

// Restore builds a ledger from persisted parts. Repeated slugs in the
// registry keep their first position, item lists for slugs missing from the
// registry are dropped, and every registered store gets a (possibly empty) list.
func Restore(period string, stores []string, items map[string][]model.LineItem) *Ledger {
	l := New(period)
	for _, slug := range stores {
		if l.HasStore(slug) {
			continue
		}
		l.stores = append(l.stores, slug)
		l.items[slug] = slices.Clone(items[slug])
	}
	return l
}

// Period returns the ledger's period label.
func (l *Ledger) Period() string { return l.period }

// Rename changes the period label, used when saving under a new name.
func (l *Ledger) Rename(period string) { l.period = period }

// Stores returns the registry in display order.
func (l *Ledger) Stores() []string {
	return slices.Clone(l.stores)
}

// HasStore reports whether slug is registered.
func (l *Ledger) HasStore(slug string) bool {
	return slices.Contains(l.stores, slug)
}

// AddStore normalizes name and appends it to the registry. Returns the slug.
func (l *Ledger) AddStore(name string) (string, error) {
	slug, err := model.Slugify(name)
	if err != nil {
		return "", err
	}
	if l.HasStore(slug) {
		return slug, fmt.Errorf("%w: %s", ErrStoreExists, slug)
	}
	l.stores = append(l.stores, slug)
	l.items[slug] = nil
	return slug, nil
}

// RemoveStore drops slug from the registry together with its items.
func (l *Ledger) RemoveStore(slug string) error {
	i := slices.Index(l.stores, slug)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownStore, slug)
	}
	l.stores = slices.Delete(l.stores, i, i+1)
	delete(l.items, slug)
	return nil
}

// Items returns a copy of slug's line items in display order.
func (l *Ledger) Items(slug string) []model.LineItem {
	return slices.Clone(l.items[slug])
}

// Find returns the index of the first item in slug whose product matches
// name case-insensitively.
func (l *Ledger) Find(slug, name string) (int, bool) {
	for i, it := range l.items[slug] {
		if it.SameProduct(name) {
			return i, true
		}
	}
	return -1, false
}

// UpdateItem replaces the item at index. Duplicate names are not checked.
func (l *Ledger) UpdateItem(slug string, index int, item model.LineItem) error {
	if err := l.checkIndex(slug, index); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}
	l.items[slug][index] = item
	return nil
}

// RemoveItem deletes the item at index and returns it.
func (l *Ledger) RemoveItem(slug string, index int) (model.LineItem, error) {
	if err := l.checkIndex(slug, index); err != nil {
		return model.LineItem{}, err
	}
	removed := l.items[slug][index]
	l.items[slug] = slices.Delete(l.items[slug], index, index+1)
	return removed, nil
}

// ItemCount returns the number of line items across all stores.
func (l *Ledger) ItemCount() int {
	n := 0
	for _, slug := range l.stores {
		n += len(l.items[slug])
	}
	return n
}

func (l *Ledger) checkIndex(slug string, index int) error {
	if !l.HasStore(slug) {
		return fmt.Errorf("%w: %s", ErrUnknownStore, slug)
	}
	if index < 0 || index >= len(l.items[slug]) {
		return fmt.Errorf("%w: %d (store %s has %d items)", ErrItemIndex, index+1, slug, len(l.items[slug]))
	}
	return nil
}
