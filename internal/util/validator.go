package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal money string and rejects non-positive or
// absurdly large values.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d)
	}
	if d.GreaterThanOrEqual(decimal.NewFromInt(10_000_000)) {
		return decimal.Zero, fmt.Errorf("amount too large, got %s", d)
	}
	return d, nil
}

// ParseDate accepts the date layouts clients send: RFC3339, a bare
// datetime, or a plain day.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	layouts := []string{
		time.RFC3339,          // 2025-12-03T00:00:00+08:00
		"2006-01-02T15:04:05", // 2025-12-03T00:00:00
		"2006-01-02",          // 2025-12-03
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q", s)
}
