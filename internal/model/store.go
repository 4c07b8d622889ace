package model

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptySlug is returned when a store name normalizes to nothing.
var ErrEmptySlug = errors.New("store name has no usable characters")

// Slugify normalizes a store name into its identifier:
// "Tienda Ñandú" -> "tienda_nandú".
func Slugify(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "ñ", "n")
	s = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if strings.Trim(s, "_") == "" {
		return "", ErrEmptySlug
	}
	return s, nil
}

var titleCaser = cases.Title(language.Spanish)

// DisplayName turns a slug back into a human label: "tienda_a" -> "Tienda A".
func DisplayName(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "_", " "))
}
