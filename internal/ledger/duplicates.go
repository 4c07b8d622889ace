package ledger

import (
	"fmt"
	"strings"

	"github.com/compras-dev/compras/internal/model"
)

// Resolution is the user's answer when a new item collides with an
// existing product in the same store.
type Resolution string

const (
	// Sum adds the new quantity to the existing item and keeps its price.
	Sum Resolution = "sum"
	// Overwrite replaces the existing item in place.
	Overwrite Resolution = "overwrite"
	// AddNew appends the item under a "<name> (n)" name.
	AddNew Resolution = "new"
	// Cancel leaves the ledger untouched.
	Cancel Resolution = "cancel"
	// Added is reported in an Outcome when there was no collision.
	Added Resolution = "added"
)

// ParseResolution maps a user-facing answer onto a Resolution.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum", "s", "sumar":
		return Sum, nil
	case "overwrite", "o", "reemplazar", "r":
		return Overwrite, nil
	case "new", "n", "nuevo":
		return AddNew, nil
	case "cancel", "c", "cancelar", "":
		return Cancel, nil
	}
	return "", fmt.Errorf("unknown duplicate resolution %q", s)
}

// Conflict describes a collision presented to a Resolver.
type Conflict struct {
	Store    string
	Existing model.LineItem
	Incoming model.LineItem
}

// Resolver decides what to do with a duplicate product.
type Resolver interface {
	Resolve(c Conflict) (Resolution, error)
}

// Policy is a Resolver that always gives the same answer.
type Policy Resolution

// Resolve implements Resolver.
func (p Policy) Resolve(Conflict) (Resolution, error) { return Resolution(p), nil }

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(c Conflict) (Resolution, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(c Conflict) (Resolution, error) { return f(c) }

// Outcome reports what AddItem did.
type Outcome struct {
	Action Resolution
	Index  int // position of the affected item; -1 on Cancel
	Item   model.LineItem
}

// AddItem inserts item into slug. If a product with the same name already
// exists, resolver chooses how to merge. A nil resolver cancels on conflict.
func (l *Ledger) AddItem(slug string, item model.LineItem, resolver Resolver) (Outcome, error) {
	if !l.HasStore(slug) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownStore, slug)
	}
	item.Product = strings.TrimSpace(item.Product)
	if err := item.Validate(); err != nil {
		return Outcome{}, err
	}

	idx, found := l.Find(slug, item.Product)
	if !found {
		l.items[slug] = append(l.items[slug], item)
		return Outcome{Action: Added, Index: len(l.items[slug]) - 1, Item: item}, nil
	}

	action := Cancel
	if resolver != nil {
		var err error
		action, err = resolver.Resolve(Conflict{Store: slug, Existing: l.items[slug][idx], Incoming: item})
		if err != nil {
			return Outcome{}, fmt.Errorf("resolving duplicate %q: %w", item.Product, err)
		}
	}

	switch action {
	case Sum:
		merged := l.items[slug][idx]
		merged.Quantity += item.Quantity
		l.items[slug][idx] = merged
		return Outcome{Action: Sum, Index: idx, Item: merged}, nil
	case Overwrite:
		l.items[slug][idx] = item
		return Outcome{Action: Overwrite, Index: idx, Item: item}, nil
	case AddNew:
		item.Product = l.uniqueName(slug, item.Product)
		l.items[slug] = append(l.items[slug], item)
		return Outcome{Action: AddNew, Index: len(l.items[slug]) - 1, Item: item}, nil
	case Cancel:
		return Outcome{Action: Cancel, Index: -1, Item: item}, nil
	}
	return Outcome{}, fmt.Errorf("unsupported duplicate resolution %q", action)
}

// uniqueName returns "<name> (n)" for the smallest n >= 1 not present in slug.
func (l *Ledger) uniqueName(slug, name string) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if _, taken := l.Find(slug, candidate); !taken {
			return candidate
		}
	}
}
