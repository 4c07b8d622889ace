package ledger

import (
	"fmt"
	"strings"

	"github.com/compras-dev/compras/internal/model"
)

// Rule names a consistency check performed by Validate.
type Rule string

const (
	RuleSlug      Rule = "slug"
	RuleProduct   Rule = "product"
	RuleQuantity  Rule = "quantity"
	RulePrice     Rule = "price"
	RuleDuplicate Rule = "duplicate"
)

// ValidationError describes a single problem found in a ledger.
type ValidationError struct {
	Rule        Rule
	Store       string
	Item        int // 1-based; 0 when the problem concerns the store itself
	Description string
}

func (e ValidationError) Error() string {
	if e.Item == 0 {
		return fmt.Sprintf("%s [%s]: %s", e.Rule, e.Store, e.Description)
	}
	return fmt.Sprintf("%s [%s #%d]: %s", e.Rule, e.Store, e.Item, e.Description)
}

// Validate checks every store and item. Duplicate product names are
// reported because edits and hand-written files can reintroduce them.
func (l *Ledger) Validate() []ValidationError {
	var errs []ValidationError

	for _, slug := range l.stores {
		if norm, err := model.Slugify(slug); err != nil || norm != slug {
			errs = append(errs, ValidationError{
				Rule:        RuleSlug,
				Store:       slug,
				Description: "store identifier is not in normalized form",
			})
		}

		seen := make(map[string]int)
		for i, it := range l.items[slug] {
			pos := i + 1
			if strings.TrimSpace(it.Product) == "" {
				errs = append(errs, ValidationError{Rule: RuleProduct, Store: slug, Item: pos, Description: "empty product name"})
			}
			if it.Quantity <= 0 {
				errs = append(errs, ValidationError{
					Rule: RuleQuantity, Store: slug, Item: pos,
					Description: fmt.Sprintf("quantity %d is not positive", it.Quantity),
				})
			}
			if it.UnitPrice.IsNegative() {
				errs = append(errs, ValidationError{
					Rule: RulePrice, Store: slug, Item: pos,
					Description: fmt.Sprintf("unit price %s is negative", it.UnitPrice.StringFixed(2)),
				})
			}

			key := strings.ToLower(strings.TrimSpace(it.Product))
			if first, dup := seen[key]; dup {
				errs = append(errs, ValidationError{
					Rule: RuleDuplicate, Store: slug, Item: pos,
					Description: fmt.Sprintf("product %q repeats item #%d", it.Product, first),
				})
				continue
			}
			seen[key] = pos
		}
	}
	return errs
}
