package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry in a store's purchase list.
type LineItem struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Input validation errors.
var (
	ErrEmptyProduct    = errors.New("product name is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("unit price must be a non-negative number")
)

// MaxQuantity bounds the quantity of a single line.
const MaxQuantity = math.MaxInt32

// Total returns quantity x unit price.
func (it LineItem) Total() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Validate checks the item's field constraints.
func (it LineItem) Validate() error {
	if strings.TrimSpace(it.Product) == "" {
		return ErrEmptyProduct
	}
	if it.Quantity <= 0 || it.Quantity > MaxQuantity {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, it.Quantity)
	}
	if it.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidPrice, it.UnitPrice.StringFixed(2))
	}
	return nil
}

// SameProduct reports whether name refers to this item's product,
// ignoring case and surrounding whitespace.
func (it LineItem) SameProduct(name string) bool {
	return strings.EqualFold(strings.TrimSpace(it.Product), strings.TrimSpace(name))
}

// NewLineItem parses raw user input into a validated LineItem.
func NewLineItem(product, quantity, price string) (LineItem, error) {
	qty, err := ParseQuantity(quantity)
	if err != nil {
		return LineItem{}, err
	}
	p, err := ParsePrice(price)
	if err != nil {
		return LineItem{}, err
	}
	it := LineItem{Product: strings.TrimSpace(product), Quantity: qty, UnitPrice: p}
	if err := it.Validate(); err != nil {
		return LineItem{}, err
	}
	return it, nil
}

// ParseQuantity parses a positive integer quantity. Integral decimals
// such as "2.0" are accepted.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	if !d.IsInteger() || !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return int(d.IntPart()), nil
}

// ParsePrice parses a non-negative unit price. A comma is accepted as the
// decimal separator.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return d, nil
}
