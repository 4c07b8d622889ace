package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// invalidPeriodChars cannot appear in a period label because the label
// becomes part of a file name.
const invalidPeriodChars = `<>:"/\|?*`

// ErrInvalidPeriod is returned for labels that cannot name a period file.
var ErrInvalidPeriod = errors.New("invalid period name")

// DefaultPeriod returns the label for the month containing t, e.g. "octubre_2026".
func DefaultPeriod(t time.Time) string {
	return fmt.Sprintf("%s_%d", monthNames[t.Month()-1], t.Year())
}

// ValidatePeriod checks that a trimmed period label is usable in a file name.
func ValidatePeriod(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPeriod)
	}
	if strings.ContainsAny(name, invalidPeriodChars) {
		return fmt.Errorf("%w: %q contains one of %s", ErrInvalidPeriod, name, invalidPeriodChars)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, name)
	}
	return nil
}

// PeriodTitle renders a period label for headings: "octubre_2026" -> "Octubre 2026".
func PeriodTitle(period string) string {
	return DisplayName(period)
}
